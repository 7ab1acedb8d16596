// SPDX-License-Identifier: Apache-2.0

package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/format"
	"pyflowgraph/graph"
)

func TestRenderMarkdownParseMarkdownRoundTrip(t *testing.T) {
	g := buildSampleGraph(t)
	g.Nodes()[0].Description = "Produces a constant."
	rec := g.Serialize()

	md := format.RenderMarkdown(rec, "Sample", "A sample graph.")

	got, err := format.ParseMarkdown(md)
	require.NoError(t, err)
	assert.Equal(t, "Sample", got.Title)
	assert.Equal(t, "A sample graph.", got.Description)
	require.Len(t, got.Nodes, 2)
	require.Len(t, got.Connections, 1)

	var src *graph.NodeRecord
	for i := range got.Nodes {
		if got.Nodes[i].Title == "Src" {
			src = &got.Nodes[i]
		}
	}
	require.NotNil(t, src)
	assert.Equal(t, "Produces a constant.", src.Description)
	assert.Contains(t, src.Code, "def src()")
}

func TestRenderMarkdownRoundTripsReroute(t *testing.T) {
	g := buildSampleGraph(t)
	conn := g.Connections()[0]
	_, err := g.CreateRerouteOnConnection(conn, graph.Point{X: 5, Y: 5})
	require.NoError(t, err)
	rec := g.Serialize()

	md := format.RenderMarkdown(rec, "Sample", "")
	got, err := format.ParseMarkdown(md)
	require.NoError(t, err)
	assert.Len(t, got.Reroutes, 1)
	assert.Len(t, got.Connections, 2)
}

func TestParseMarkdownDegradesOnMalformedMetadataBlock(t *testing.T) {
	md := "# Sample\n\n" +
		"## Node: Broken (ID: n1)\n\n" +
		"Some description.\n\n" +
		"### Metadata\n\n```json\nnot json at all\n```\n\n" +
		"### Logic\n\n```python\n@node_entry\ndef broken() -> int:\n    return 1\n```\n\n" +
		"## Connections\n\n```json\n[]\n```\n"

	got, err := format.ParseMarkdown(md)
	require.NoError(t, err)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "Broken", got.Nodes[0].Title)
	assert.Contains(t, got.Nodes[0].Code, "def broken()")
}

func TestParseMarkdownDegradesOnMalformedConnectionsBlock(t *testing.T) {
	md := "# Sample\n\n" +
		"## Connections\n\n```json\nnot json\n```\n"

	got, err := format.ParseMarkdown(md)
	require.NoError(t, err)
	assert.Empty(t, got.Connections)
}
