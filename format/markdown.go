// SPDX-License-Identifier: Apache-2.0

package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"pyflowgraph/graph"
)

var nodeHeadingPattern = regexp.MustCompile(`^Node:\s*(.*?)\s*\(ID:\s*(.*?)\)$`)

// ParseMarkdown walks the document's AST (mirroring the teacher's own
// goldmark AST walk in knowledge/chunking) instead of scanning lines by
// hand: a level-2 "Node: <title> (ID: <uuid>)" heading opens a node
// section, a level-2 "Connections" heading opens the connections
// section, a level-3 heading selects which component of the current
// node a following fenced block belongs to, and a fenced block is
// dispatched based on that state. A malformed JSON block is skipped in
// place rather than aborting the whole parse (§4.J).
func ParseMarkdown(content string) (graph.Record, error) {
	source := []byte(content)
	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(source))

	var doc document
	var title, description string
	var sawTitle, sawSection bool

	var current *wireNode
	var inConnections bool
	var component string

	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := n.(type) {
		case *ast.Heading:
			heading := extractText(v, source)
			switch v.Level {
			case 1:
				if !sawTitle {
					title = heading
					sawTitle = true
				}
			case 2:
				sawSection = true
				component = ""
				if heading == "Connections" {
					inConnections = true
					current = nil
					break
				}
				inConnections = false
				if m := nodeHeadingPattern.FindStringSubmatch(heading); m != nil {
					doc.Nodes = append(doc.Nodes, wireNode{Title: m[1], ID: m[2]})
					current = &doc.Nodes[len(doc.Nodes)-1]
				} else {
					current = nil
				}
			case 3:
				component = strings.ToLower(heading)
			}
		case *ast.Paragraph:
			switch {
			case !sawSection && description == "":
				if text := extractText(v, source); text != "" {
					description = text
				}
			case current != nil && current.Description == "" && component == "" && !inConnections:
				if text := extractText(v, source); text != "" {
					current.Description = text
				}
			}
		case *ast.FencedCodeBlock:
			lang := string(v.Language(source))
			body := extractCode(v, source)

			switch {
			case inConnections && lang == "json":
				var conns []wireConnection
				_ = json.Unmarshal([]byte(body), &conns) // malformed block -> leave empty, §4.J
				doc.Connections = conns
			case current == nil:
				// fenced block outside any recognized section; ignore.
			case component == "metadata" && lang == "json":
				applyMetadata(current, body)
			case component == "logic" && lang == "python":
				current.Code = body
			case component == "gui definition" && lang == "python":
				current.GUICode = body
			case component == "gui state handler" && lang == "python":
				current.GUIGetValuesCode = body
			}
		}
		return ast.WalkContinue, nil
	})

	doc.Title = title
	doc.Description = description
	return toRecord(doc), nil
}

// metadataShape is the §4.J `### Metadata` fenced block's schema:
// {uuid, title, pos, size, colors, gui_state, is_reroute?}.
type metadataShape struct {
	ID        string            `json:"uuid"`
	Title     string            `json:"title"`
	Pos       [2]float64        `json:"pos"`
	Size      [2]float64        `json:"size"`
	Colors    map[string]string `json:"colors"`
	GUIState  map[string]any    `json:"gui_state"`
	IsReroute bool              `json:"is_reroute,omitempty"`
}

// applyMetadata decodes one node's Metadata block, falling back to
// empty defaults (never aborting the parse) on malformed JSON.
func applyMetadata(n *wireNode, body string) {
	var m metadataShape
	if err := json.Unmarshal([]byte(body), &m); err != nil {
		n.Colors = map[string]string{}
		n.GUIState = map[string]any{}
		return
	}
	n.Pos = m.Pos
	n.Size = m.Size
	n.Colors = m.Colors
	if n.Colors == nil {
		n.Colors = map[string]string{}
	}
	n.GUIState = m.GUIState
	if n.GUIState == nil {
		n.GUIState = map[string]any{}
	}
	n.IsReroute = m.IsReroute
}

// extractText concatenates every *ast.Text descendant's content,
// matching the teacher's own extractText helper.
func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Text(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// extractCode joins a fenced code block's raw source lines, since its
// content must not be treated as inline markdown.
func extractCode(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// RenderMarkdown produces the canonical Markdown document for rec
// (§4.J): a title, an optional description, one section per node, and
// a final Connections section.
func RenderMarkdown(rec graph.Record, title, description string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if description != "" {
		fmt.Fprintf(&b, "%s\n\n", description)
	}

	doc := toDocument(rec)
	for _, n := range doc.Nodes {
		renderNode(&b, n)
	}

	connections := doc.Connections
	if connections == nil {
		connections = []wireConnection{}
	}
	connJSON, _ := json.MarshalIndent(connections, "", "  ")
	b.WriteString("## Connections\n\n```json\n")
	b.Write(connJSON)
	b.WriteString("\n```\n")
	return b.String()
}

func renderNode(b *strings.Builder, n wireNode) {
	fmt.Fprintf(b, "## Node: %s (ID: %s)\n\n", n.Title, n.ID)

	desc := n.Description
	if desc == "" {
		desc = "Node description goes here."
	}
	fmt.Fprintf(b, "%s\n\n", desc)

	meta := metadataShape{ID: n.ID, Title: n.Title, Pos: n.Pos, Size: n.Size, Colors: n.Colors, GUIState: n.GUIState, IsReroute: n.IsReroute}
	if meta.Colors == nil {
		meta.Colors = map[string]string{}
	}
	if meta.GUIState == nil {
		meta.GUIState = map[string]any{}
	}
	metaJSON, _ := json.MarshalIndent(meta, "", "  ")
	b.WriteString("### Metadata\n\n```json\n")
	b.Write(metaJSON)
	b.WriteString("\n```\n\n")

	if !n.IsReroute {
		b.WriteString("### Logic\n\n```python\n")
		b.WriteString(n.Code)
		b.WriteString("\n```\n\n")
	}

	if strings.TrimSpace(n.GUICode) != "" {
		b.WriteString("### GUI Definition\n\n```python\n")
		b.WriteString(n.GUICode)
		b.WriteString("\n```\n\n")
	}

	if strings.TrimSpace(n.GUIGetValuesCode) != "" {
		b.WriteString("### GUI State Handler\n\n```python\n")
		b.WriteString(n.GUIGetValuesCode)
		b.WriteString("\n```\n\n")
	}
}
