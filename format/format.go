// SPDX-License-Identifier: Apache-2.0

// Package format converts between a graph.Record and the graph's
// canonical on-disk Markdown document (§4.J), with a flat-JSON
// alternative accepted for backward compatibility. Both directions
// round-trip the same wire shape: a list of nodes (a reroute
// distinguished by is_reroute) and a list of connections.
package format

import (
	"encoding/json"
	"fmt"
	"strings"

	"pyflowgraph/graph"
)

// document is the flat wire shape shared by the JSON alternative format
// and the data embedded in a Markdown document's fenced blocks.
type document struct {
	Title        string           `json:"graph_title,omitempty"`
	Description  string           `json:"graph_description,omitempty"`
	Nodes        []wireNode       `json:"nodes"`
	Connections  []wireConnection `json:"connections"`
	Requirements []string         `json:"requirements,omitempty"`
}

type wireNode struct {
	ID               string            `json:"uuid"`
	Title            string            `json:"title"`
	Description      string            `json:"description,omitempty"`
	Pos              [2]float64        `json:"pos"`
	Size             [2]float64        `json:"size"`
	Code             string            `json:"code"`
	GUICode          string            `json:"gui_code"`
	GUIGetValuesCode string            `json:"gui_get_values_code"`
	GUIState         map[string]any    `json:"gui_state"`
	Colors           map[string]string `json:"colors"`
	IsReroute        bool              `json:"is_reroute,omitempty"`
}

type wireConnection struct {
	StartNodeID string `json:"start_node_uuid"`
	StartPin    string `json:"start_pin_name"`
	EndNodeID   string `json:"end_node_uuid"`
	EndPin      string `json:"end_pin_name"`
}

const defaultRerouteTitle = "Reroute"

// toDocument flattens a graph.Record into the wire shape, merging its
// separate Nodes and Reroutes slices into one ordered Nodes list.
func toDocument(rec graph.Record) document {
	doc := document{
		Title:        rec.Title,
		Description:  rec.Description,
		Requirements: rec.Requirements,
	}
	for _, n := range rec.Nodes {
		doc.Nodes = append(doc.Nodes, wireNode{
			ID:               n.ID,
			Title:            n.Title,
			Description:      n.Description,
			Pos:              n.Pos,
			Size:             n.Size,
			Code:             n.Code,
			GUICode:          n.GUICode,
			GUIGetValuesCode: n.GUIGetValuesCode,
			GUIState:         n.GUIState,
			Colors:           n.Colors,
		})
	}
	for _, r := range rec.Reroutes {
		doc.Nodes = append(doc.Nodes, wireNode{
			ID:        r.ID,
			Title:     defaultRerouteTitle,
			Pos:       r.Pos,
			GUIState:  map[string]any{},
			Colors:    map[string]string{},
			IsReroute: true,
		})
	}
	for _, c := range rec.Connections {
		doc.Connections = append(doc.Connections, wireConnection{
			StartNodeID: c.StartNodeID,
			StartPin:    c.StartPin,
			EndNodeID:   c.EndNodeID,
			EndPin:      c.EndPin,
		})
	}
	return doc
}

// toRecord splits the wire shape back into a graph.Record, routing each
// node to the Nodes or Reroutes slice by its is_reroute flag.
func toRecord(doc document) graph.Record {
	rec := graph.Record{
		Title:        doc.Title,
		Description:  doc.Description,
		Requirements: doc.Requirements,
	}
	for _, n := range doc.Nodes {
		if n.IsReroute {
			rec.Reroutes = append(rec.Reroutes, graph.RerouteRecord{
				ID:        n.ID,
				Pos:       n.Pos,
				IsReroute: true,
			})
			continue
		}
		rec.Nodes = append(rec.Nodes, graph.NodeRecord{
			ID:               n.ID,
			Title:            n.Title,
			Description:      n.Description,
			Pos:              n.Pos,
			Size:             n.Size,
			Code:             n.Code,
			GUICode:          n.GUICode,
			GUIGetValuesCode: n.GUIGetValuesCode,
			GUIState:         n.GUIState,
			Colors:           n.Colors,
		})
	}
	for _, c := range doc.Connections {
		rec.Connections = append(rec.Connections, graph.ConnectionRecord{
			StartNodeID: c.StartNodeID,
			StartPin:    c.StartPin,
			EndNodeID:   c.EndNodeID,
			EndPin:      c.EndPin,
		})
	}
	return rec
}

// ParseJSON decodes the flat JSON alternative format (§6): a top-level
// object shaped {graph_title?, graph_description?, nodes, connections,
// requirements?}.
func ParseJSON(data []byte) (graph.Record, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return graph.Record{}, fmt.Errorf("parse json graph: %w", err)
	}
	return toRecord(doc), nil
}

// WriteJSON encodes rec as the flat JSON alternative format.
func WriteJSON(rec graph.Record) ([]byte, error) {
	return json.MarshalIndent(toDocument(rec), "", "  ")
}

// Parse decodes either a Markdown document or, as a fallback, the flat
// JSON format (paste and open-file both accept either per §4.J/§6).
func Parse(content string) (graph.Record, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") {
		return ParseJSON([]byte(trimmed))
	}
	return ParseMarkdown(content)
}
