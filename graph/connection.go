// SPDX-License-Identifier: Apache-2.0

package graph

// Connection is a directed edge from an output pin to an input pin.
// A connection exists if and only if it is listed by both endpoint pins
// and by the owning Graph (enforced by Graph.CreateConnection /
// Graph.RemoveConnection — Connection itself only wires the pin lists).
type Connection struct {
	Source *Pin
	Dest   *Pin
}

// newConnection constructs a connection and registers it with both
// endpoint pins. It performs no checks of its own; Graph.CreateConnection
// validates the pair (validatePair and typeCompatible) before calling it.
func newConnection(source, dest *Pin) *Connection {
	c := &Connection{Source: source, Dest: dest}
	source.addConnection(c)
	dest.addConnection(c)
	return c
}

// Color is the connection's display color, equal to its source pin's color.
func (c *Connection) Color() Color {
	return c.Source.Color()
}

// detach removes this connection from both of its endpoint pins' lists.
// It is idempotent.
func (c *Connection) detach() {
	if c.Source != nil {
		c.Source.removeConnection(c)
	}
	if c.Dest != nil {
		c.Dest.removeConnection(c)
	}
}

// ConnectionRecord is the serialized form of a Connection, keyed by
// (node id, pin name) rather than by pin identity so it survives a
// save/load round trip.
type ConnectionRecord struct {
	StartNodeID string `json:"start_node_uuid"`
	StartPin    string `json:"start_pin_name"`
	EndNodeID   string `json:"end_node_uuid"`
	EndPin      string `json:"end_pin_name"`
}

// Serialize produces the record form of c. Both endpoints must belong to
// nodes known to the graph doing the serializing; Graph.Serialize is
// responsible for resolving node identity.
func (c *Connection) Serialize() ConnectionRecord {
	return ConnectionRecord{
		StartNodeID: c.Source.Owner().OwnerID(),
		StartPin:    c.Source.Name(),
		EndNodeID:   c.Dest.Owner().OwnerID(),
		EndPin:      c.Dest.Name(),
	}
}
