// SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/google/uuid"

func newID() string { return uuid.NewString() }

// Record is the full serialized form of a Graph: title, description,
// every node, every reroute node (in its own Reroutes list), every
// connection, every group, and an optional requirements list
// (carried through for the clipboard/file-format envelope, §6).
type Record struct {
	Title        string             `json:"graph_title"`
	Description  string             `json:"graph_description"`
	Nodes        []NodeRecord       `json:"nodes"`
	Reroutes     []RerouteRecord    `json:"reroutes"`
	Connections  []ConnectionRecord `json:"connections"`
	Groups       []GroupRecord      `json:"groups,omitempty"`
	Requirements []string           `json:"requirements,omitempty"`
}

// Serialize produces a full round-trip record of the graph.
func (g *Graph) Serialize() Record {
	rec := Record{Title: g.Title, Description: g.Description}
	for _, n := range g.Nodes() {
		rec.Nodes = append(rec.Nodes, n.Serialize())
	}
	for _, r := range g.Reroutes() {
		rec.Reroutes = append(rec.Reroutes, r.Serialize())
	}
	for _, c := range g.Connections() {
		rec.Connections = append(rec.Connections, c.Serialize())
	}
	for _, grp := range g.Groups() {
		rec.Groups = append(rec.Groups, grp.Serialize())
	}
	return rec
}

// Deserialize rebuilds a graph from rec. When offset is the zero point it
// replaces the entire graph; otherwise (the paste path) every incoming
// node and reroute is re-identified with a fresh id and shifted by
// offset, and connections are re-pointed to the new ids (§4.E).
func Deserialize(rec Record, offset Point) *Graph {
	g := New()
	g.Title = rec.Title
	g.Description = rec.Description

	pasting := offset != (Point{})
	idMap := map[string]string{}

	for _, nr := range rec.Nodes {
		if pasting {
			old := nr.ID
			nr.ID = newID()
			nr.Pos[0] += offset.X
			nr.Pos[1] += offset.Y
			idMap[old] = nr.ID
		}
		g.addExistingNode(DeserializeNode(nr))
	}
	for _, rr := range rec.Reroutes {
		if pasting {
			old := rr.ID
			rr.ID = newID()
			rr.Pos[0] += offset.X
			rr.Pos[1] += offset.Y
			idMap[old] = rr.ID
		}
		g.addExistingReroute(DeserializeReroute(rr))
	}

	for _, cr := range rec.Connections {
		startID, endID := cr.StartNodeID, cr.EndNodeID
		if pasting {
			mappedStart, okStart := idMap[startID]
			mappedEnd, okEnd := idMap[endID]
			if !okStart || !okEnd {
				// A connection whose endpoints weren't both in the
				// pasted selection referenced something outside it;
				// skip rather than dangling-reference an old id.
				continue
			}
			startID, endID = mappedStart, mappedEnd
		}
		src, ok1 := g.FindPin(startID, cr.StartPin)
		dst, ok2 := g.FindPin(endID, cr.EndPin)
		if !ok1 || !ok2 {
			continue
		}
		if _, err := g.CreateConnection(src, dst); err != nil {
			continue
		}
	}

	for _, gr := range rec.Groups {
		if pasting {
			old := gr.ID
			gr.ID = newID()
			gr.Pos[0] += offset.X
			gr.Pos[1] += offset.Y
			idMap[old] = gr.ID
			for i, memberID := range gr.MemberNodeIDs {
				if mapped, ok := idMap[memberID]; ok {
					gr.MemberNodeIDs[i] = mapped
				}
			}
		}
		g.addExistingGroup(DeserializeGroup(gr))
	}

	return g
}

// CopySelected serializes the given nodes and the connections whose both
// endpoints lie within the selection (internal connections only, §4.E).
func (g *Graph) CopySelected(nodeIDs []string) Record {
	selected := map[string]bool{}
	for _, id := range nodeIDs {
		selected[id] = true
	}

	rec := Record{Title: g.Title}
	for _, n := range g.Nodes() {
		if selected[n.ID()] {
			rec.Nodes = append(rec.Nodes, n.Serialize())
		}
	}
	for _, r := range g.Reroutes() {
		if selected[r.ID()] {
			rec.Reroutes = append(rec.Reroutes, r.Serialize())
		}
	}
	for _, c := range g.Connections() {
		if selected[c.Source.Owner().OwnerID()] && selected[c.Dest.Owner().OwnerID()] {
			rec.Connections = append(rec.Connections, c.Serialize())
		}
	}
	return rec
}

// PasteResult is everything a Paste introduced into the target graph,
// for callers (e.g. package command's PasteNodesCommand) that need to
// select or later remove exactly what was added.
type PasteResult struct {
	Nodes    []*Node
	Reroutes []*RerouteNode
	Groups   []*Group
}

// Paste merges rec into g, re-identifying every incoming node/reroute/group
// and shifting them by offset (a non-zero offset is required so pasted
// items don't exactly overlap their source).
func (g *Graph) Paste(rec Record, offset Point) PasteResult {
	pasted := Deserialize(rec, offset)
	var result PasteResult
	for _, n := range pasted.Nodes() {
		g.addExistingNode(n)
		result.Nodes = append(result.Nodes, n)
	}
	for _, r := range pasted.Reroutes() {
		g.addExistingReroute(r)
		result.Reroutes = append(result.Reroutes, r)
	}
	for _, c := range pasted.Connections() {
		// pasted already created and registered these connections on
		// their (migrated) pins during Deserialize; just adopt them
		// into g's connection set rather than recreating them.
		g.addExistingConnection(c)
	}
	for _, grp := range pasted.Groups() {
		g.addExistingGroup(grp)
		result.Groups = append(result.Groups, grp)
	}
	return result
}
