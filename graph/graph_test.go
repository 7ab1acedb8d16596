// SPDX-License-Identifier: Apache-2.0

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/graph"
)

func wireDataNodes(t *testing.T, g *graph.Graph) (src, dst *graph.Node) {
	t.Helper()
	src = g.CreateNode("Src", graph.Point{})
	dst = g.CreateNode("Dst", graph.Point{})
	src.SetCode("@node_entry\ndef src() -> int:\n    return 1\n")
	dst.SetCode("@node_entry\ndef dst(x: int):\n    pass\n")
	return src, dst
}

func TestCreateConnectionRejectsIncompatiblePins(t *testing.T) {
	g := graph.New()
	src, dst := wireDataNodes(t, g)
	outPin := src.GetPinByName("output_1")
	in := dst.GetPinByName("x")

	_, err := g.CreateConnection(in, outPin)
	assert.ErrorIs(t, err, graph.ErrSamePinDirection)
}

func TestCreateConnectionRejectsSameNode(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{})
	n.SetCode("@node_entry\ndef f(a: int) -> int:\n    return a\n")
	_, err := g.CreateConnection(n.GetPinByName("output_1"), n.GetPinByName("a"))
	assert.ErrorIs(t, err, graph.ErrSameNode)
}

func TestCreateConnectionReplacesExistingOnInput(t *testing.T) {
	g := graph.New()
	src1, dst := wireDataNodes(t, g)
	src2 := g.CreateNode("Src2", graph.Point{})
	src2.SetCode("@node_entry\ndef src2() -> int:\n    return 2\n")

	out1 := src1.GetPinByName("output_1")
	out2 := src2.GetPinByName("output_1")
	in := dst.GetPinByName("x")

	first, err := g.CreateConnection(out1, in)
	require.NoError(t, err)

	second, err := g.CreateConnection(out2, in)
	require.NoError(t, err)

	assert.Len(t, g.Connections(), 1)
	assert.Equal(t, second, g.Connections()[0])
	assert.Empty(t, out1.Connections())
	assert.NotSame(t, first, second)
}

func TestRemoveNodeDetachesAllConnections(t *testing.T) {
	g := graph.New()
	src, dst := wireDataNodes(t, g)
	_, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)

	g.RemoveNode(src)

	assert.Empty(t, g.Connections())
	_, ok := g.Node(src.ID())
	assert.False(t, ok)
}

func TestCreateRerouteOnConnectionSplitsConnection(t *testing.T) {
	g := graph.New()
	src, dst := wireDataNodes(t, g)
	conn, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)

	r, err := g.CreateRerouteOnConnection(conn, graph.Point{X: 5, Y: 5})
	require.NoError(t, err)

	conns := g.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, "int", r.Output.TypeName())
}

func TestRerouteRefreshTracksUpstreamType(t *testing.T) {
	g := graph.New()
	src := g.CreateNode("Src", graph.Point{})
	src.SetCode("@node_entry\ndef src() -> int:\n    return 1\n")
	r := g.CreateReroute(graph.Point{})

	_, err := g.CreateConnection(src.GetPinByName("output_1"), r.Input)
	require.NoError(t, err)
	assert.Equal(t, "int", r.Output.TypeName())

	g.RemoveConnection(r.Input.Connections()[0])
	assert.Equal(t, graph.TypeAny, r.Output.TypeName())
}

func TestDragResolveCreatesConnectionRegardlessOfDirectionOrder(t *testing.T) {
	g := graph.New()
	src, dst := wireDataNodes(t, g)

	g.StartDrag(dst.GetPinByName("x"))
	conn, err := g.ResolveDrag(src.GetPinByName("output_1"))
	require.NoError(t, err)
	assert.Equal(t, src.GetPinByName("output_1"), conn.Source)
	assert.Equal(t, dst.GetPinByName("x"), conn.Dest)
	assert.Nil(t, g.DragSource())
}

func TestClearRemovesEverything(t *testing.T) {
	g := graph.New()
	src, dst := wireDataNodes(t, g)
	_, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)
	g.CreateReroute(graph.Point{})
	g.CreateGroup("G", graph.Rect{Size: graph.Point{X: 10, Y: 10}})

	g.Clear()

	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Reroutes())
	assert.Empty(t, g.Connections())
	assert.Empty(t, g.Groups())
}
