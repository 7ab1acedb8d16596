// SPDX-License-Identifier: Apache-2.0

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/graph"
)

func TestConnectionColorMatchesSource(t *testing.T) {
	g := graph.New()
	a := g.CreateNode("A", graph.Point{})
	b := g.CreateNode("B", graph.Point{})
	a.SetCode("@node_entry\ndef a() -> int:\n    return 1\n")
	b.SetCode("@node_entry\ndef b(x: int):\n    pass\n")

	out := a.GetPinByName("output_1")
	in := b.GetPinByName("x")

	conn, err := g.CreateConnection(out, in)
	require.NoError(t, err)
	assert.Equal(t, out.Color().Hex(), conn.Color().Hex())
}

func TestConnectionSerialize(t *testing.T) {
	g := graph.New()
	a := g.CreateNode("A", graph.Point{})
	b := g.CreateNode("B", graph.Point{})
	a.SetCode("@node_entry\ndef a() -> int:\n    return 1\n")
	b.SetCode("@node_entry\ndef b(x: int):\n    pass\n")

	out := a.GetPinByName("output_1")
	in := b.GetPinByName("x")

	conn, err := g.CreateConnection(out, in)
	require.NoError(t, err)

	rec := conn.Serialize()
	assert.Equal(t, a.ID(), rec.StartNodeID)
	assert.Equal(t, "output_1", rec.StartPin)
	assert.Equal(t, b.ID(), rec.EndNodeID)
	assert.Equal(t, "x", rec.EndPin)
}
