// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"time"

	"pyflowgraph/graph"
)

// CreateNodeCommand adds a new node to a graph. Undo removes it again;
// since the *graph.Node is a live Go object, redo/undo simply re-links
// the same instance rather than reconstructing it from scratch — there
// is no id-based lookup to get wrong.
type CreateNodeCommand struct {
	Base
	g     *graph.Graph
	title string
	pos   graph.Point
	node  *graph.Node
}

// NewCreateNodeCommand constructs a command that will create a node
// titled title at pos when executed.
func NewCreateNodeCommand(g *graph.Graph, title string, pos graph.Point) *CreateNodeCommand {
	return &CreateNodeCommand{Base: NewBase(fmt.Sprintf("Create node %q", title)), g: g, title: title, pos: pos}
}

// Execute creates the node (first execution) or re-adds the
// already-constructed node (redo after an undo).
func (c *CreateNodeCommand) Execute() bool {
	if c.node == nil {
		c.node = c.g.CreateNode(c.title, c.pos)
	} else {
		c.g.Restore(c.node)
	}
	c.markExecuted()
	return true
}

// Undo removes the created node.
func (c *CreateNodeCommand) Undo() bool {
	c.g.RemoveNode(c.node)
	c.markUndone()
	return true
}

// DeleteNodeCommand removes a node (and, transitively, every connection
// incident to it) from a graph. Undo re-adds both the node and its
// incident connections verbatim, since the Go objects are retained
// rather than discarded — the Python original has to reconstruct by
// (node id, pin index) because its Qt scene may have actually destroyed
// the C++-side object; Go's GC means we never need to.
type DeleteNodeCommand struct {
	Base
	g    *graph.Graph
	node *graph.Node
	// incident holds every connection touching the node's pins, captured
	// before removal so Undo can restore them.
	incident []*graph.Connection
}

// NewDeleteNodeCommand constructs a command that will delete node when executed.
func NewDeleteNodeCommand(g *graph.Graph, node *graph.Node) *DeleteNodeCommand {
	return &DeleteNodeCommand{Base: NewBase(fmt.Sprintf("Delete node %q", node.Title)), g: g, node: node}
}

// Execute captures the node's incident connections, then removes it.
func (c *DeleteNodeCommand) Execute() bool {
	c.incident = nil
	for _, p := range c.node.AllPins() {
		c.incident = append(c.incident, p.Connections()...)
	}
	c.g.RemoveNode(c.node)
	c.markExecuted()
	return true
}

// Undo re-adds the node and reconnects every captured incident connection.
func (c *DeleteNodeCommand) Undo() bool {
	c.g.Restore(c.node)
	for _, conn := range c.incident {
		if _, err := c.g.CreateConnection(conn.Source, conn.Dest); err != nil {
			return false
		}
	}
	c.markUndone()
	return true
}

// MemoryUsage accounts for the node's source text plus its incident
// connection list.
func (c *DeleteNodeCommand) MemoryUsage() int {
	return len(c.node.Code()) + len(c.incident)*64 + 256
}

// MoveNodeCommand repositions a node. Consecutive moves of the same
// node within mergeWindow are coalesced into one history entry so a
// drag gesture doesn't flood undo with per-frame deltas (§5.F).
type MoveNodeCommand struct {
	Base
	g       *graph.Graph
	node    *graph.Node
	oldPos  graph.Point
	newPos  graph.Point
}

const moveMergeWindow = 500 * time.Millisecond

// NewMoveNodeCommand constructs a command moving node from oldPos to newPos.
func NewMoveNodeCommand(g *graph.Graph, node *graph.Node, oldPos, newPos graph.Point) *MoveNodeCommand {
	return &MoveNodeCommand{Base: NewBase(fmt.Sprintf("Move node %q", node.Title)), g: g, node: node, oldPos: oldPos, newPos: newPos}
}

// Execute applies the new position.
func (c *MoveNodeCommand) Execute() bool {
	c.node.Pos = c.newPos
	c.markExecuted()
	return true
}

// Undo restores the old position.
func (c *MoveNodeCommand) Undo() bool {
	c.node.Pos = c.oldPos
	c.markUndone()
	return true
}

// CanMergeWith reports whether next is a move of the same node issued
// within the merge window.
func (c *MoveNodeCommand) CanMergeWith(next Command) bool {
	other, ok := next.(*MoveNodeCommand)
	if !ok || other.node != c.node {
		return false
	}
	return other.Timestamp().Sub(c.Timestamp()) <= moveMergeWindow
}

// MergeWith folds next into c, keeping c's original oldPos and next's newPos.
func (c *MoveNodeCommand) MergeWith(next Command) Command {
	other := next.(*MoveNodeCommand)
	return &MoveNodeCommand{Base: c.Base, g: c.g, node: c.node, oldPos: c.oldPos, newPos: other.newPos}
}

// PropertyChangeCommand changes a single scalar property of a node
// (title or description) by name, restoring the prior value on undo.
type PropertyChangeCommand struct {
	Base
	node     *graph.Node
	property string
	oldValue string
	newValue string
}

// NewPropertyChangeCommand constructs a property-change command for one
// of "title" or "description".
func NewPropertyChangeCommand(node *graph.Node, property, oldValue, newValue string) *PropertyChangeCommand {
	return &PropertyChangeCommand{
		Base:     NewBase(fmt.Sprintf("Change %s of %q", property, node.Title)),
		node:     node, property: property, oldValue: oldValue, newValue: newValue,
	}
}

func (c *PropertyChangeCommand) apply(value string) {
	switch c.property {
	case "title":
		c.node.Title = value
	case "description":
		c.node.Description = value
	}
}

// Execute applies the new value.
func (c *PropertyChangeCommand) Execute() bool { c.apply(c.newValue); c.markExecuted(); return true }

// Undo restores the old value.
func (c *PropertyChangeCommand) Undo() bool { c.apply(c.oldValue); c.markUndone(); return true }

// CodeChangeCommand reparses a node's function source (§4.C) and
// detaches any connections whose pins the reparse drops. Undo restores
// the previous source and reconnects everything that was detached, by
// pin name rather than by pin identity: a reparse always rebuilds new
// Pin objects for any name it didn't carry forward, so the undo path
// must look the restored pin up by name rather than reuse the dropped
// pointer.
type CodeChangeCommand struct {
	Base
	g       *graph.Graph
	node    *graph.Node
	oldCode string
	newCode string
	// detached records, for each connection severed by the reparse, the
	// dropped pin's name (to be relooked-up after reverting) and the
	// connection's other endpoint (whose identity never changes).
	detached []detachedLink
}

type detachedLink struct {
	droppedPinName string
	droppedWasDst  bool // true if the dropped pin was the connection's Dest
	other          *graph.Pin
}

// NewCodeChangeCommand constructs a command reparsing node's code from
// oldCode to newCode.
func NewCodeChangeCommand(g *graph.Graph, node *graph.Node, oldCode, newCode string) *CodeChangeCommand {
	return &CodeChangeCommand{Base: NewBase(fmt.Sprintf("Edit code of %q", node.Title)), g: g, node: node, oldCode: oldCode, newCode: newCode}
}

// Execute reparses to newCode, detaching any connections whose pins
// disappeared.
func (c *CodeChangeCommand) Execute() bool {
	dropped := c.node.SetCode(c.newCode)
	c.detached = nil
	for _, p := range dropped {
		for _, conn := range p.Connections() {
			link := detachedLink{droppedPinName: p.Name(), droppedWasDst: conn.Dest == p}
			if link.droppedWasDst {
				link.other = conn.Source
			} else {
				link.other = conn.Dest
			}
			c.detached = append(c.detached, link)
			c.g.RemoveConnection(conn)
		}
	}
	c.markExecuted()
	return true
}

// Undo reparses back to oldCode, then reconnects every detached link by
// looking up the reverted pin's name on the freshly rebuilt node.
func (c *CodeChangeCommand) Undo() bool {
	c.node.SetCode(c.oldCode)
	for _, link := range c.detached {
		restored := c.node.GetPinByName(link.droppedPinName)
		if restored == nil {
			continue
		}
		var src, dst *graph.Pin
		if link.droppedWasDst {
			src, dst = link.other, restored
		} else {
			src, dst = restored, link.other
		}
		if _, err := c.g.CreateConnection(src, dst); err != nil {
			continue
		}
	}
	c.markUndone()
	return true
}

// MemoryUsage accounts for both code snapshots plus the detached list.
func (c *CodeChangeCommand) MemoryUsage() int {
	return len(c.oldCode) + len(c.newCode) + len(c.detached)*64
}
