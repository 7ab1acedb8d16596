// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Direction distinguishes input pins from output pins.
type Direction string

// Pin directions.
const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Category distinguishes data pins (values) from execution pins (control flow).
type Category string

// Pin categories.
const (
	CategoryData      Category = "data"
	CategoryExecution Category = "execution"
)

// TypeAny is the wildcard type name: it connects to any other type.
const TypeAny = "any"

// TypeExec is the type name used for execution pins, which are type-agnostic.
const TypeExec = "exec"

// PinOwner is anything a Pin can belong to: a Node or a RerouteNode.
type PinOwner interface {
	OwnerID() string
}

// Pin is a typed endpoint on a node. Its category and direction are fixed
// at construction; only its type name and connection list change over its
// lifetime.
type Pin struct {
	mu sync.RWMutex

	id        string
	owner     PinOwner
	name      string
	direction Direction
	category  Category
	typeName  string

	connections []*Connection
}

// NewPin constructs a pin owned by owner. The type name is lowercased, per
// the pin-derivation rules in §4.C.
func NewPin(owner PinOwner, name string, direction Direction, category Category, typeName string) *Pin {
	return &Pin{
		id:        uuid.NewString(),
		owner:     owner,
		name:      name,
		direction: direction,
		category:  category,
		typeName:  strings.ToLower(typeName),
	}
}

// ID returns the pin's stable unique identifier.
func (p *Pin) ID() string { return p.id }

// Owner returns the node (or reroute node) this pin belongs to.
func (p *Pin) Owner() PinOwner { return p.owner }

// Name returns the pin's name.
func (p *Pin) Name() string { return p.name }

// Direction returns whether this is an input or output pin.
func (p *Pin) Direction() Direction { return p.direction }

// Category returns whether this is a data or execution pin.
func (p *Pin) Category() Category { return p.category }

// TypeName returns the lowercased type name ("exec" for execution pins,
// "any" for the wildcard, or the literal annotation text otherwise).
func (p *Pin) TypeName() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.typeName
}

// SetTypeName updates the pin's type name, used by reroute nodes when the
// upstream connection changes (§4.D).
func (p *Pin) SetTypeName(typeName string) {
	p.mu.Lock()
	p.typeName = strings.ToLower(typeName)
	p.mu.Unlock()
}

// Color derives this pin's display color from its type name (§4.A).
func (p *Pin) Color() Color {
	if p.Category() == CategoryExecution {
		return ColorForTypeName(TypeExec)
	}
	return ColorForTypeName(p.TypeName())
}

// Connections returns a snapshot of the pin's connection list.
func (p *Pin) Connections() []*Connection {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Connection, len(p.connections))
	copy(out, p.connections)
	return out
}

// addConnection records list membership only; it does not validate
// compatibility (that is Graph.CreateConnection's job).
func (p *Pin) addConnection(c *Connection) {
	p.mu.Lock()
	p.connections = append(p.connections, c)
	p.mu.Unlock()
}

// removeConnection drops c from the pin's connection list, if present.
func (p *Pin) removeConnection(c *Connection) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, existing := range p.connections {
		if existing == c {
			p.connections = append(p.connections[:i], p.connections[i+1:]...)
			return
		}
	}
}

// destroy detaches every connection incident to this pin. Callers remove
// the detached connections from the graph's connection set separately.
func (p *Pin) destroy() []*Connection {
	p.mu.Lock()
	removed := p.connections
	p.connections = nil
	p.mu.Unlock()
	return removed
}

// CanConnectTo reports whether p and other may be joined by a connection,
// per the compatibility rules in §4.A. The check is symmetric:
// p.CanConnectTo(other) == other.CanConnectTo(p).
func (p *Pin) CanConnectTo(other *Pin) bool {
	if !p.typeCompatible(other) {
		return false
	}
	in, _ := inOutPins(p, other)
	return len(in.Connections()) == 0
}

// typeCompatible checks every §4.A compatibility rule except input-pin
// occupancy. It is split out of CanConnectTo so Graph.CreateConnection can
// displace an input's existing connection instead of rejecting the new
// one (§4.E) — occupancy alone must never be the reason a connection is
// refused there.
func (p *Pin) typeCompatible(other *Pin) bool {
	if other == nil || p == other {
		return false
	}
	if p.owner == other.owner {
		return false
	}
	if p.direction == other.direction {
		return false
	}
	if p.category != other.category {
		return false
	}
	if p.category == CategoryExecution {
		return true
	}

	pt, ot := p.TypeName(), other.TypeName()
	if pt == TypeAny || ot == TypeAny {
		return true
	}
	return pt == ot
}

func inOutPins(p, other *Pin) (in, out *Pin) {
	if p.direction == DirectionInput {
		return p, other
	}
	return other, p
}
