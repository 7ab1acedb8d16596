// SPDX-License-Identifier: Apache-2.0

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/graph"
)

func TestSetCodeDerivesPins(t *testing.T) {
	n := graph.NewNode("Add", graph.Point{})
	n.SetCode(`@node_entry
def add(a: int, b: int) -> int:
    return a + b
`)

	assert.Equal(t, "add", n.FunctionName())
	require.NotNil(t, n.GetPinByName("a"))
	require.NotNil(t, n.GetPinByName("b"))
	require.NotNil(t, n.GetPinByName("output_1"))
	assert.Equal(t, "int", n.GetPinByName("a").TypeName())
	assert.NotNil(t, n.GetPinByName("exec_in"))
	assert.NotNil(t, n.GetPinByName("exec_out"))
}

func TestSetCodeWithoutParamsHasNoExecIn(t *testing.T) {
	n := graph.NewNode("Const", graph.Point{})
	n.SetCode(`@node_entry
def const() -> int:
    return 42
`)
	assert.Nil(t, n.GetPinByName("exec_in"))
	assert.NotNil(t, n.GetPinByName("exec_out"))
}

func TestSetCodeOutputsDirectiveNamesPins(t *testing.T) {
	n := graph.NewNode("DivMod", graph.Point{})
	n.SetCode(`@node_entry
def div_mod(a: int, b: int) -> Tuple[int, int]:
    """
    @outputs: quotient, remainder
    """
    return a // b, a % b
`)
	require.NotNil(t, n.GetPinByName("quotient"))
	require.NotNil(t, n.GetPinByName("remainder"))
}

func TestSetCodePreservesPinIdentityAcrossRetype(t *testing.T) {
	n := graph.NewNode("N", graph.Point{})
	n.SetCode(`@node_entry
def f(a: int) -> int:
    return a
`)
	pinBefore := n.GetPinByName("a")
	require.NotNil(t, pinBefore)

	n.SetCode(`@node_entry
def f(a: str) -> str:
    return a
`)
	pinAfter := n.GetPinByName("a")
	require.NotNil(t, pinAfter)
	assert.Same(t, pinBefore, pinAfter)
	assert.Equal(t, "str", pinAfter.TypeName())
}

func TestSetCodeDropsRenamedPins(t *testing.T) {
	n := graph.NewNode("N", graph.Point{})
	n.SetCode(`@node_entry
def f(a: int) -> int:
    return a
`)
	dropped := n.SetCode(`@node_entry
def f(renamed: int) -> int:
    return renamed
`)
	require.Len(t, dropped, 1)
	assert.Equal(t, "a", dropped[0].Name())
	assert.Nil(t, n.GetPinByName("a"))
	assert.NotNil(t, n.GetPinByName("renamed"))
}

func TestSetCodeInvalidSourceClearsPins(t *testing.T) {
	n := graph.NewNode("N", graph.Point{})
	n.SetCode(`@node_entry
def f(a: int) -> int:
    return a
`)
	dropped := n.SetCode("not valid python at all")
	assert.Equal(t, "", n.FunctionName())
	assert.Empty(t, n.AllPins())
	assert.NotEmpty(t, dropped)
}

func TestNodeSerializeDeserializeRoundTrip(t *testing.T) {
	n := graph.NewNode("N", graph.Point{X: 10, Y: 20})
	n.SetCode(`@node_entry
def f(a: int) -> int:
    return a
`)
	n.Description = "does a thing"
	n.Widget().State = map[string]any{"a": 5}

	rec := n.Serialize()
	restored := graph.DeserializeNode(rec)

	assert.Equal(t, n.ID(), restored.ID())
	assert.Equal(t, n.Title, restored.Title)
	assert.Equal(t, n.Description, restored.Description)
	assert.Equal(t, "f", restored.FunctionName())
	assert.Equal(t, 5, restored.Widget().State["a"])
}

func TestNodeSizeRespectsMinimum(t *testing.T) {
	n := graph.NewNode("VeryLongNodeTitleThatForcesWidth", graph.Point{})
	n.SetSize(graph.Point{X: 1, Y: 1})
	size := n.Size()
	assert.Greater(t, size.X, 1.0)
	assert.Greater(t, size.Y, 1.0)
}
