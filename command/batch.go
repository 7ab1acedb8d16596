// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"pyflowgraph/graph"
)

// NewMoveMultipleCommand builds a CompositeCommand moving every node in
// nodes from its entry in oldPos to the matching entry in newPos (both
// slices indexed in parallel with nodes), for multi-selection drags.
func NewMoveMultipleCommand(g *graph.Graph, nodes []*graph.Node, oldPos, newPos []graph.Point) *CompositeCommand {
	cmds := make([]Command, len(nodes))
	for i, n := range nodes {
		cmds[i] = NewMoveNodeCommand(g, n, oldPos[i], newPos[i])
	}
	return NewCompositeCommand(fmt.Sprintf("Move %d nodes", len(nodes)), cmds)
}

// NewDeleteMultipleCommand builds a CompositeCommand deleting every node
// and reroute in the given slices, for multi-selection delete. Connections
// between two nodes both present in the selection are deleted once, as a
// side effect of either endpoint's DeleteNodeCommand — no double-delete
// command is issued for them.
func NewDeleteMultipleCommand(g *graph.Graph, nodes []*graph.Node, reroutes []*graph.RerouteNode) *CompositeCommand {
	var cmds []Command
	for _, n := range nodes {
		cmds = append(cmds, NewDeleteNodeCommand(g, n))
	}
	for _, r := range reroutes {
		cmds = append(cmds, NewDeleteRerouteCommand(g, r))
	}
	return NewCompositeCommand(fmt.Sprintf("Delete %d items", len(cmds)), cmds)
}

// DeleteRerouteCommand removes a reroute node. Undo re-adds it and
// reconnects its incident connections, mirroring DeleteNodeCommand.
type DeleteRerouteCommand struct {
	Base
	g        *graph.Graph
	reroute  *graph.RerouteNode
	incident []*graph.Connection
}

// NewDeleteRerouteCommand constructs a command deleting r.
func NewDeleteRerouteCommand(g *graph.Graph, r *graph.RerouteNode) *DeleteRerouteCommand {
	return &DeleteRerouteCommand{Base: NewBase("Delete reroute node"), g: g, reroute: r}
}

// Execute captures incident connections, then removes the reroute.
func (c *DeleteRerouteCommand) Execute() bool {
	c.incident = append(c.reroute.Input.Connections(), c.reroute.Output.Connections()...)
	c.g.RemoveReroute(c.reroute)
	c.markExecuted()
	return true
}

// Undo restores the reroute and reconnects every captured connection.
func (c *DeleteRerouteCommand) Undo() bool {
	c.g.RestoreReroute(c.reroute)
	for _, conn := range c.incident {
		if _, err := c.g.CreateConnection(conn.Source, conn.Dest); err != nil {
			return false
		}
	}
	c.markUndone()
	return true
}

// PasteNodesCommand pastes a clipboard record into a graph at an offset
// (§4.E's paste re-identification rule). Undo removes everything the
// paste introduced.
type PasteNodesCommand struct {
	Base
	g          *graph.Graph
	rec        graph.Record
	offset     graph.Point
	pasted     []*graph.Node
	reroutes   []*graph.RerouteNode
	groups     []*graph.Group
	// connections are the internal connections among the pasted entities,
	// captured once after the first Execute so Undo/redo can detach and
	// reattach them without re-running id remapping.
	connections []*graph.Connection
	markedOnce  bool
}

// NewPasteNodesCommand constructs a command pasting rec into g at offset.
func NewPasteNodesCommand(g *graph.Graph, rec graph.Record, offset graph.Point) *PasteNodesCommand {
	return &PasteNodesCommand{Base: NewBase("Paste"), g: g, rec: rec, offset: offset}
}

// Execute performs the paste (first execution) or restores the
// already-pasted entities (redo after undo).
func (c *PasteNodesCommand) Execute() bool {
	if !c.markedOnce {
		result := c.g.Paste(c.rec, c.offset)
		c.pasted = result.Nodes
		c.reroutes = result.Reroutes
		c.groups = result.Groups
		for _, n := range c.pasted {
			for _, p := range n.AllPins() {
				c.connections = append(c.connections, p.Connections()...)
			}
		}
		for _, r := range c.reroutes {
			c.connections = append(c.connections, r.Input.Connections()...)
		}
		c.connections = dedupeConnections(c.connections)
		c.markedOnce = true
	} else {
		for _, n := range c.pasted {
			c.g.Restore(n)
		}
		for _, r := range c.reroutes {
			c.g.RestoreReroute(r)
		}
		for _, grp := range c.groups {
			c.g.RestoreGroup(grp)
		}
		for _, conn := range c.connections {
			if _, err := c.g.CreateConnection(conn.Source, conn.Dest); err != nil {
				return false
			}
		}
	}
	c.markExecuted()
	return true
}

// dedupeConnections drops duplicate entries that arise from walking both
// endpoints of the same internal connection.
func dedupeConnections(conns []*graph.Connection) []*graph.Connection {
	seen := map[*graph.Connection]bool{}
	out := conns[:0:0]
	for _, c := range conns {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Undo removes every node, reroute, and group the paste introduced. The
// internal connections among them are detached as a side effect of
// RemoveNode/RemoveReroute; Execute recreates them on redo.
func (c *PasteNodesCommand) Undo() bool {
	for _, n := range c.pasted {
		c.g.RemoveNode(n)
	}
	for _, r := range c.reroutes {
		c.g.RemoveReroute(r)
	}
	for _, grp := range c.groups {
		c.g.RemoveGroup(grp)
	}
	c.markUndone()
	return true
}

// PastedNodes returns the nodes introduced by the paste, for the caller
// to select them after the command executes.
func (c *PasteNodesCommand) PastedNodes() []*graph.Node { return c.pasted }

// MemoryUsage estimates the record's size.
func (c *PasteNodesCommand) MemoryUsage() int {
	total := 0
	for _, n := range c.rec.Nodes {
		total += len(n.Code) + len(n.GUICode) + len(n.GUIGetValuesCode)
	}
	return total + 256
}
