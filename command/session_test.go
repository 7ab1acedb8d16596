// SPDX-License-Identifier: Apache-2.0

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/command"
	"pyflowgraph/graph"
)

func TestSessionDoUndoRedo(t *testing.T) {
	g := graph.New()
	s := command.NewSession(g)

	require.True(t, s.Do(command.NewCreateNodeCommand(g, "N", graph.Point{})))
	assert.Len(t, g.Nodes(), 1)

	desc, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, `Create node "N"`, desc)
	assert.Empty(t, g.Nodes())

	desc, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, `Create node "N"`, desc)
	assert.Len(t, g.Nodes(), 1)
}

func TestPasteNodesCommandUndoRemovesEverythingRedoRestores(t *testing.T) {
	source := graph.New()
	src := source.CreateNode("Src", graph.Point{})
	dst := source.CreateNode("Dst", graph.Point{})
	src.SetCode("@node_entry\ndef src() -> int:\n    return 1\n")
	dst.SetCode("@node_entry\ndef dst(x: int):\n    pass\n")
	_, err := source.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)
	rec := source.Serialize()

	target := graph.New()
	h := command.NewHistory()
	cmd := command.NewPasteNodesCommand(target, rec, graph.Point{X: 10, Y: 10})
	require.True(t, h.Execute(cmd))
	assert.Len(t, target.Nodes(), 2)
	assert.Len(t, target.Connections(), 1)

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Empty(t, target.Nodes())
	assert.Empty(t, target.Connections())

	_, ok = h.Redo()
	require.True(t, ok)
	assert.Len(t, target.Nodes(), 2)
	assert.Len(t, target.Connections(), 1)
}
