// SPDX-License-Identifier: Apache-2.0

package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/engine"
	"pyflowgraph/graph"
	"pyflowgraph/interp/local"
)

func TestLiveExecutorTriggerRunsDownstreamNodes(t *testing.T) {
	g := graph.New()
	src := g.CreateNode("Src", graph.Point{})
	dst := g.CreateNode("Dst", graph.Point{})
	src.SetCode("@node_entry\ndef src() -> int:\n    return 3\n")
	dst.SetCode("@node_entry\ndef dst(x: int) -> int:\n    return x * 10\n")
	_, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)

	exec := engine.NewLiveExecutor(g, local.New())
	var lines []string
	require.NoError(t, exec.Trigger(context.Background(), src, func(s string) { lines = append(lines, s) }))
	assert.NotEmpty(t, lines)

	state := dst.Widget().State
	require.NotNil(t, state)
	assert.Equal(t, int64(30), state["output_1"])
}

func TestLiveExecutorVisitedSetPreventsDoubleExecutionOnDiamond(t *testing.T) {
	g := graph.New()
	top := g.CreateNode("Top", graph.Point{})
	left := g.CreateNode("Left", graph.Point{})
	right := g.CreateNode("Right", graph.Point{})
	bottom := g.CreateNode("Bottom", graph.Point{})
	top.SetCode("@node_entry\ndef top() -> int:\n    return 1\n")
	left.SetCode("@node_entry\ndef left(x: int) -> int:\n    return x + 1\n")
	right.SetCode("@node_entry\ndef right(x: int) -> int:\n    return x + 2\n")
	bottom.SetCode("@node_entry\ndef bottom(a: int, b: int) -> int:\n    return a + b\n")

	_, err := g.CreateConnection(top.GetPinByName("output_1"), left.GetPinByName("x"))
	require.NoError(t, err)
	_, err = g.CreateConnection(top.GetPinByName("output_1"), right.GetPinByName("x"))
	require.NoError(t, err)
	_, err = g.CreateConnection(left.GetPinByName("output_1"), bottom.GetPinByName("a"))
	require.NoError(t, err)
	_, err = g.CreateConnection(right.GetPinByName("output_1"), bottom.GetPinByName("b"))
	require.NoError(t, err)

	exec := engine.NewLiveExecutor(g, local.New())
	require.NoError(t, exec.Trigger(context.Background(), top, func(string) {}))

	assert.Equal(t, int64(5), bottom.Widget().State["output_1"])
}

func TestLiveExecutorFallsBackToWidgetState(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{})
	n.SetCode("@node_entry\ndef n(x: int) -> int:\n    return x + 1\n")
	n.Widget().State = map[string]any{"x": int64(41)}

	exec := engine.NewLiveExecutor(g, local.New())
	require.NoError(t, exec.Trigger(context.Background(), n, func(string) {}))
	assert.Equal(t, int64(42), n.Widget().State["output_1"])
}

func TestLiveExecutorStateRoundTrip(t *testing.T) {
	g := graph.New()
	exec := engine.NewLiveExecutor(g, local.New())

	exec.SetState(map[string]any{"counter": int64(5)})
	assert.Equal(t, map[string]any{"counter": int64(5)}, exec.State())

	exec.Reset(func(string) {})
	assert.Empty(t, exec.State())
}
