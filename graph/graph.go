// SPDX-License-Identifier: Apache-2.0

// Package graph implements the PyFlowGraph node/pin/connection model: the
// directed graph of nodes and connections, pin compatibility rules,
// reroute nodes, groups, and serialization. Pin, Connection, Node,
// RerouteNode, and Graph live in one package (mirroring how the teacher
// keeps its mutually-referential Node/Edge/Graph/Channel types together)
// because Pin and Connection hold direct pointers to each other and a Go
// package boundary can't be cut through that relationship without an
// import cycle.
package graph

import (
	"fmt"
	"sync"

	"pyflowgraph/log"
)

// Graph is a scene of nodes (including reroute nodes) and connections.
// Graph exposes direct mutation methods only — it knows nothing about
// the command/undo system (package command wraps a Graph to add that).
type Graph struct {
	mu sync.RWMutex

	Title       string
	Description string

	nodes    map[string]*Node
	reroutes map[string]*RerouteNode
	order    []string // entity ids, insertion order
	conns    []*Connection
	groups   map[string]*Group

	dragSource *Pin
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Title:    "Untitled Graph",
		nodes:    map[string]*Node{},
		reroutes: map[string]*RerouteNode{},
		groups:   map[string]*Group{},
	}
}

// CreateNode adds a new node to the graph and returns it.
func (g *Graph) CreateNode(title string, pos Point) *Node {
	n := NewNode(title, pos)
	g.mu.Lock()
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
	g.mu.Unlock()
	return n
}

// CreateReroute adds a new reroute node to the graph and returns it.
func (g *Graph) CreateReroute(pos Point) *RerouteNode {
	r := NewRerouteNode(pos)
	g.mu.Lock()
	g.reroutes[r.ID()] = r
	g.order = append(g.order, r.ID())
	g.mu.Unlock()
	return r
}

// addExistingNode re-inserts a previously constructed node (used by undo
// of DeleteNode and by paste/deserialize).
func (g *Graph) addExistingNode(n *Node) {
	g.mu.Lock()
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
	g.mu.Unlock()
}

func (g *Graph) addExistingReroute(r *RerouteNode) {
	g.mu.Lock()
	g.reroutes[r.ID()] = r
	g.order = append(g.order, r.ID())
	g.mu.Unlock()
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Reroute looks up a reroute node by id.
func (g *Graph) Reroute(id string) (*RerouteNode, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.reroutes[id]
	return r, ok
}

// Entity looks up any entity (node or reroute) by id.
func (g *Graph) Entity(id string) (Entity, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if n, ok := g.nodes[id]; ok {
		return n, true
	}
	if r, ok := g.reroutes[id]; ok {
		return r, true
	}
	return nil, false
}

// Nodes returns all non-reroute nodes, in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range g.order {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Reroutes returns all reroute nodes, in insertion order.
func (g *Graph) Reroutes() []*RerouteNode {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*RerouteNode, 0, len(g.reroutes))
	for _, id := range g.order {
		if r, ok := g.reroutes[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Connections returns all connections in the graph.
func (g *Graph) Connections() []*Connection {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Connection, len(g.conns))
	copy(out, g.conns)
	return out
}

// FindPin locates a pin by (entity id, pin name), used by deserialization
// and by command restoration, which address pins by stable identity
// rather than by in-memory pointer.
func (g *Graph) FindPin(entityID, pinName string) (*Pin, bool) {
	ent, ok := g.Entity(entityID)
	if !ok {
		return nil, false
	}
	for _, p := range ent.Pins() {
		if p.Name() == pinName {
			return p, true
		}
	}
	return nil, false
}

// RemoveNode removes every connection incident to the node's pins, then
// the node itself (§4.E).
func (g *Graph) RemoveNode(n *Node) {
	for _, p := range n.AllPins() {
		for _, c := range p.Connections() {
			g.RemoveConnection(c)
		}
	}
	g.mu.Lock()
	delete(g.nodes, n.ID())
	g.removeFromOrderLocked(n.ID())
	g.mu.Unlock()
}

// RemoveReroute removes a reroute node and its incident connections.
func (g *Graph) RemoveReroute(r *RerouteNode) {
	for _, c := range r.Input.Connections() {
		g.RemoveConnection(c)
	}
	for _, c := range r.Output.Connections() {
		g.RemoveConnection(c)
	}
	g.mu.Lock()
	delete(g.reroutes, r.ID())
	g.removeFromOrderLocked(r.ID())
	g.mu.Unlock()
}

func (g *Graph) removeFromOrderLocked(id string) {
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			return
		}
	}
}

// CreateConnection connects src (an output pin) to dst (an input pin).
// It rejects incompatible pairs per §4.A, and if dst already holds a
// connection, removes the existing one first (§4.E). Returns
// ErrIncompatiblePins (or a more specific sentinel) with no mutation on
// rejection.
func (g *Graph) CreateConnection(src, dst *Pin) (*Connection, error) {
	if err := validatePair(src, dst); err != nil {
		return nil, err
	}
	// Checked without the occupancy rule CanConnectTo also enforces: an
	// occupied dst is displaced below rather than rejected here.
	if !src.typeCompatible(dst) {
		return nil, ErrIncompatiblePins
	}

	if existing := dst.Connections(); len(existing) > 0 {
		g.RemoveConnection(existing[0])
	}

	c := newConnection(src, dst)
	g.mu.Lock()
	g.conns = append(g.conns, c)
	g.mu.Unlock()

	g.refreshRerouteFor(dst)
	return c, nil
}

// validatePair reports the specific incompatibility reason, for clearer
// error messages than a bare boolean.
func validatePair(src, dst *Pin) error {
	if src == nil || dst == nil || src == dst {
		return ErrIncompatiblePins
	}
	if src.Owner() == dst.Owner() {
		return ErrSameNode
	}
	if src.Direction() != DirectionOutput || dst.Direction() != DirectionInput {
		return ErrSamePinDirection
	}
	return nil
}

// RemoveConnection detaches c from its pins and the graph. Idempotent if
// c is already gone.
func (g *Graph) RemoveConnection(c *Connection) {
	g.mu.Lock()
	found := false
	for i, existing := range g.conns {
		if existing == c {
			g.conns = append(g.conns[:i], g.conns[i+1:]...)
			found = true
			break
		}
	}
	g.mu.Unlock()
	if !found {
		return
	}
	dst := c.Dest
	c.detach()
	g.refreshRerouteFor(dst)
}

// refreshRerouteFor re-evaluates a reroute node's type/color whenever a
// connection touching its input pin changes (§4.D).
func (g *Graph) refreshRerouteFor(p *Pin) {
	if p == nil {
		return
	}
	owner, ok := p.Owner().(*RerouteNode)
	if !ok || owner.Input != p {
		return
	}
	owner.Refresh()
}

// addExistingConnection adopts a connection already registered on its
// pins (e.g. one migrated wholesale from a paste's intermediate graph)
// into this graph's connection set, without re-running compatibility
// checks or touching pin state.
func (g *Graph) addExistingConnection(c *Connection) {
	g.mu.Lock()
	g.conns = append(g.conns, c)
	g.mu.Unlock()
}

// Restore re-inserts a node previously removed via RemoveNode, preserving
// its identity and pin objects. Used by package command to undo a
// DeleteNodeCommand without reconstructing the node from a serialized
// record.
func (g *Graph) Restore(n *Node) { g.addExistingNode(n) }

// RestoreReroute re-inserts a reroute node previously removed via
// RemoveReroute.
func (g *Graph) RestoreReroute(r *RerouteNode) { g.addExistingReroute(r) }

// CreateRerouteOnConnection splits c into two connections via a new
// reroute node at pos: source -> reroute, reroute -> destination.
func (g *Graph) CreateRerouteOnConnection(c *Connection, pos Point) (*RerouteNode, error) {
	src, dst := c.Source, c.Dest
	g.RemoveConnection(c)

	r := g.CreateReroute(pos)
	if _, err := g.CreateConnection(src, r.Input); err != nil {
		return nil, err
	}
	if _, err := g.CreateConnection(r.Output, dst); err != nil {
		return nil, err
	}
	return r, nil
}

// Clear removes all connections then all nodes, bypassing the command
// system entirely.
func (g *Graph) Clear() {
	for _, c := range g.Connections() {
		g.RemoveConnection(c)
	}
	for _, n := range g.Nodes() {
		g.mu.Lock()
		delete(g.nodes, n.ID())
		g.removeFromOrderLocked(n.ID())
		g.mu.Unlock()
	}
	for _, r := range g.Reroutes() {
		g.mu.Lock()
		delete(g.reroutes, r.ID())
		g.removeFromOrderLocked(r.ID())
		g.mu.Unlock()
	}
	g.mu.Lock()
	g.groups = map[string]*Group{}
	g.mu.Unlock()
	log.Infof("graph cleared")
}

// StartDrag begins the drag-to-connect state machine from source.
func (g *Graph) StartDrag(source *Pin) {
	g.mu.Lock()
	g.dragSource = source
	g.mu.Unlock()
}

// DragSource returns the pin currently pinned by a drag, or nil if idle.
func (g *Graph) DragSource() *Pin {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.dragSource
}

// ResolveDrag completes a drag by connecting the pinned source pin to
// target. Resolves to a connection on success, or cancels the drag
// (returning ErrIncompatiblePins or a more specific sentinel, as
// CreateConnection does) if the drop target is invalid. Either way the
// drag returns to idle.
func (g *Graph) ResolveDrag(target *Pin) (*Connection, error) {
	g.mu.Lock()
	source := g.dragSource
	g.dragSource = nil
	g.mu.Unlock()

	if source == nil {
		return nil, fmt.Errorf("no drag in progress")
	}
	if source.Direction() == DirectionInput {
		return g.CreateConnection(target, source)
	}
	return g.CreateConnection(source, target)
}

// CancelDrag discards an in-progress drag without creating a connection.
func (g *Graph) CancelDrag() {
	g.mu.Lock()
	g.dragSource = nil
	g.mu.Unlock()
}
