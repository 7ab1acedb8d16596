// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"

	"pyflowgraph/graph"
)

// CreateConnectionCommand joins two pins. Undo removes the resulting
// connection; if the join displaced an existing connection on the
// destination pin (§4.E's "last write wins" rule), undo restores that
// displaced connection too.
type CreateConnectionCommand struct {
	Base
	g          *graph.Graph
	src, dst   *graph.Pin
	conn       *graph.Connection
	displaced  *graph.Connection
}

// NewCreateConnectionCommand constructs a command joining src to dst.
func NewCreateConnectionCommand(g *graph.Graph, src, dst *graph.Pin) *CreateConnectionCommand {
	return &CreateConnectionCommand{
		Base: NewBase(fmt.Sprintf("Connect %s -> %s", src.Name(), dst.Name())),
		g:    g, src: src, dst: dst,
	}
}

// Execute joins src to dst, capturing any displaced connection first.
func (c *CreateConnectionCommand) Execute() bool {
	if existing := c.dst.Connections(); len(existing) > 0 {
		c.displaced = existing[0]
	}
	conn, err := c.g.CreateConnection(c.src, c.dst)
	if err != nil {
		return false
	}
	c.conn = conn
	c.markExecuted()
	return true
}

// Undo removes the created connection and restores whatever it displaced.
func (c *CreateConnectionCommand) Undo() bool {
	c.g.RemoveConnection(c.conn)
	if c.displaced != nil {
		if _, err := c.g.CreateConnection(c.displaced.Source, c.displaced.Dest); err != nil {
			return false
		}
	}
	c.markUndone()
	return true
}

// DeleteConnectionCommand removes an existing connection. Undo recreates it.
type DeleteConnectionCommand struct {
	Base
	g    *graph.Graph
	conn *graph.Connection
}

// NewDeleteConnectionCommand constructs a command deleting conn.
func NewDeleteConnectionCommand(g *graph.Graph, conn *graph.Connection) *DeleteConnectionCommand {
	return &DeleteConnectionCommand{
		Base: NewBase(fmt.Sprintf("Disconnect %s -> %s", conn.Source.Name(), conn.Dest.Name())),
		g:    g, conn: conn,
	}
}

// Execute removes the connection.
func (c *DeleteConnectionCommand) Execute() bool {
	c.g.RemoveConnection(c.conn)
	c.markExecuted()
	return true
}

// Undo recreates the connection between the same two pins.
func (c *DeleteConnectionCommand) Undo() bool {
	conn, err := c.g.CreateConnection(c.conn.Source, c.conn.Dest)
	if err != nil {
		return false
	}
	c.conn = conn
	c.markUndone()
	return true
}

// CreateRerouteNodeCommand splits an existing connection into two via a
// new reroute node (§4.D). Undo removes the reroute and restores the
// original direct connection.
type CreateRerouteNodeCommand struct {
	Base
	g        *graph.Graph
	original *graph.Connection
	pos      graph.Point
	reroute  *graph.RerouteNode
	src, dst *graph.Pin
}

// NewCreateRerouteNodeCommand constructs a command splitting original at pos.
func NewCreateRerouteNodeCommand(g *graph.Graph, original *graph.Connection, pos graph.Point) *CreateRerouteNodeCommand {
	return &CreateRerouteNodeCommand{
		Base: NewBase("Insert reroute node"), g: g, original: original, pos: pos,
		src: original.Source, dst: original.Dest,
	}
}

// Execute splits the original connection via a new reroute node.
func (c *CreateRerouteNodeCommand) Execute() bool {
	if c.reroute == nil {
		r, err := c.g.CreateRerouteOnConnection(c.original, c.pos)
		if err != nil {
			return false
		}
		c.reroute = r
	} else {
		c.g.RestoreReroute(c.reroute)
		if _, err := c.g.CreateConnection(c.src, c.reroute.Input); err != nil {
			return false
		}
		if _, err := c.g.CreateConnection(c.reroute.Output, c.dst); err != nil {
			return false
		}
	}
	c.markExecuted()
	return true
}

// Undo removes the reroute node and reconnects src directly to dst.
func (c *CreateRerouteNodeCommand) Undo() bool {
	c.g.RemoveReroute(c.reroute)
	if _, err := c.g.CreateConnection(c.src, c.dst); err != nil {
		return false
	}
	c.markUndone()
	return true
}
