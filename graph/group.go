// SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/google/uuid"

// Rect is an axis-aligned bounding box in scene coordinates.
type Rect struct {
	Pos  Point
	Size Point
}

// Group is a lightweight organizational overlay bounding a rectangular
// region of the canvas (SPEC_FULL.md §5.E; supplemented from
// original_source/src/core/group.py). Membership is a snapshot taken at
// creation time, not live containment: moving a node out of a group's
// visual bounds does not evict it, matching the original's design.
//
// This is deliberately not the nested-subgraph "group with its own
// interface pins" system described by original_source's
// group_connection_router.py / group_interface_pin.py / group_pin_generator.py
// / group_type_inference.py — that promotes Groups to a first-class
// component with its own pin/type-inference machinery, which neither
// spec.md's component table nor its Non-goals ("type checking beyond
// name-equality") support promoting into core.
type Group struct {
	id    string
	Title string
	Rect  Rect

	MemberNodeIDs []string

	ColorTitle string
	ColorBody  string
}

// NewGroup creates a group bounding rect and snapshots the ids of every
// node whose position falls inside it.
func NewGroup(title string, rect Rect, allNodes []*Node) *Group {
	g := &Group{
		id:         uuid.NewString(),
		Title:      title,
		Rect:       rect,
		ColorTitle: "#4A4A6A",
		ColorBody:  "#333345",
	}
	for _, n := range allNodes {
		if containsPoint(rect, n.Pos) {
			g.MemberNodeIDs = append(g.MemberNodeIDs, n.ID())
		}
	}
	return g
}

func containsPoint(r Rect, p Point) bool {
	return p.X >= r.Pos.X && p.X <= r.Pos.X+r.Size.X &&
		p.Y >= r.Pos.Y && p.Y <= r.Pos.Y+r.Size.Y
}

// ID returns the group's stable unique identifier.
func (g *Group) ID() string { return g.id }

// Resize updates the group's bounds only; it does not move member nodes
// (groups are an organizational overlay, not a transform).
func (g *Group) Resize(rect Rect) {
	g.Rect = rect
}

// GroupRecord is the serialized form of a Group.
type GroupRecord struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	Pos           [2]float64        `json:"pos"`
	Size          [2]float64        `json:"size"`
	MemberNodeIDs []string          `json:"member_node_ids"`
	Colors        map[string]string `json:"colors"`
}

// Serialize produces the record form of g.
func (g *Group) Serialize() GroupRecord {
	return GroupRecord{
		ID:            g.id,
		Title:         g.Title,
		Pos:           [2]float64{g.Rect.Pos.X, g.Rect.Pos.Y},
		Size:          [2]float64{g.Rect.Size.X, g.Rect.Size.Y},
		MemberNodeIDs: append([]string(nil), g.MemberNodeIDs...),
		Colors:        map[string]string{"title": g.ColorTitle, "body": g.ColorBody},
	}
}

// DeserializeGroup rebuilds a Group from its record.
func DeserializeGroup(rec GroupRecord) *Group {
	return &Group{
		id:            rec.ID,
		Title:         rec.Title,
		Rect:          Rect{Pos: Point{X: rec.Pos[0], Y: rec.Pos[1]}, Size: Point{X: rec.Size[0], Y: rec.Size[1]}},
		MemberNodeIDs: rec.MemberNodeIDs,
		ColorTitle:    rec.Colors["title"],
		ColorBody:     rec.Colors["body"],
	}
}

// CreateGroup adds a new group to the graph, snapshotting membership from
// the graph's current nodes.
func (g *Graph) CreateGroup(title string, rect Rect) *Group {
	grp := NewGroup(title, rect, g.Nodes())
	g.mu.Lock()
	g.groups[grp.ID()] = grp
	g.mu.Unlock()
	return grp
}

// addExistingGroup re-inserts a previously constructed group (undo of
// DeleteGroup, or deserialize).
func (g *Graph) addExistingGroup(grp *Group) {
	g.mu.Lock()
	g.groups[grp.ID()] = grp
	g.mu.Unlock()
}

// Group looks up a group by id.
func (g *Graph) Group(id string) (*Group, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	grp, ok := g.groups[id]
	return grp, ok
}

// Groups returns all groups in the graph.
func (g *Graph) Groups() []*Group {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Group, 0, len(g.groups))
	for _, grp := range g.groups {
		out = append(out, grp)
	}
	return out
}

// RestoreGroup re-inserts a group previously removed via RemoveGroup,
// preserving its identity. Used by package command to undo DeleteGroup.
func (g *Graph) RestoreGroup(grp *Group) { g.addExistingGroup(grp) }

// RemoveGroup removes a group record only; member nodes are untouched.
func (g *Graph) RemoveGroup(grp *Group) {
	g.mu.Lock()
	delete(g.groups, grp.ID())
	g.mu.Unlock()
}
