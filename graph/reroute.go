// SPDX-License-Identifier: Apache-2.0

package graph

import "github.com/google/uuid"

// RerouteNode is a degenerate node with exactly one data input pin and
// one data output pin, both initially typed "any" (§4.D). It has no
// widget host and no function source, and is never invoked by an
// executor — it is pure wire-organizing forwarding.
type RerouteNode struct {
	id  string
	Pos Point

	Input  *Pin
	Output *Pin
}

// NewRerouteNode constructs a reroute node at pos.
func NewRerouteNode(pos Point) *RerouteNode {
	r := &RerouteNode{id: uuid.NewString(), Pos: pos}
	r.Input = NewPin(r, "input", DirectionInput, CategoryData, TypeAny)
	r.Output = NewPin(r, "output", DirectionOutput, CategoryData, TypeAny)
	return r
}

// OwnerID implements PinOwner.
func (r *RerouteNode) OwnerID() string { return r.id }

// ID returns the reroute node's stable unique identifier.
func (r *RerouteNode) ID() string { return r.id }

// Refresh re-reads the connected source pin's type and color and copies
// them onto the output pin, then asks the output's own connections to
// recolor by virtue of their Color() being derived live from the source.
// Called whenever the input pin's connection list changes.
func (r *RerouteNode) Refresh() {
	conns := r.Input.Connections()
	if len(conns) == 0 {
		r.Output.SetTypeName(TypeAny)
		return
	}
	r.Output.SetTypeName(conns[0].Source.TypeName())
}

// RerouteRecord is the serialized form of a RerouteNode.
type RerouteRecord struct {
	ID        string     `json:"id"`
	Pos       [2]float64 `json:"pos"`
	IsReroute bool       `json:"is_reroute"`
}

// Serialize produces the record form of r.
func (r *RerouteNode) Serialize() RerouteRecord {
	return RerouteRecord{ID: r.id, Pos: [2]float64{r.Pos.X, r.Pos.Y}, IsReroute: true}
}

// DeserializeReroute rebuilds a RerouteNode from its record.
func DeserializeReroute(rec RerouteRecord) *RerouteNode {
	r := &RerouteNode{id: rec.ID, Pos: Point{X: rec.Pos[0], Y: rec.Pos[1]}}
	r.Input = NewPin(r, "input", DirectionInput, CategoryData, TypeAny)
	r.Output = NewPin(r, "output", DirectionOutput, CategoryData, TypeAny)
	return r
}
