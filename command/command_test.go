// SPDX-License-Identifier: Apache-2.0

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/command"
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

func TestCreateNodeCommandExecuteUndoRedo(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()

	cmd := command.NewCreateNodeCommand(g, "N", graph.Point{})
	require.True(t, h.Execute(cmd))
	assert.Len(t, g.Nodes(), 1)

	desc, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, `Create node "N"`, desc)
	assert.Empty(t, g.Nodes())

	_, ok = h.Redo()
	require.True(t, ok)
	assert.Len(t, g.Nodes(), 1)
}

func TestDeleteNodeCommandRestoresIncidentConnections(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()
	src, dst := wireDataNodes(t, g)
	_, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)

	cmd := command.NewDeleteNodeCommand(g, src)
	require.True(t, h.Execute(cmd))
	assert.Empty(t, g.Connections())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Len(t, g.Connections(), 1)
}

func TestMoveNodeCommandMergesWithinWindow(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()
	n := g.CreateNode("N", graph.Point{})

	require.True(t, h.Execute(command.NewMoveNodeCommand(g, n, graph.Point{}, graph.Point{X: 1})))
	require.True(t, h.Execute(command.NewMoveNodeCommand(g, n, graph.Point{X: 1}, graph.Point{X: 2})))

	assert.Equal(t, 1, h.Len(), "consecutive moves within the merge window should coalesce")
	assert.Equal(t, graph.Point{X: 2}, n.Pos)

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, graph.Point{}, n.Pos, "undo of the merged move restores the original position")
}

func TestCodeChangeCommandDetachesAndRestoresByName(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()
	src, dst := wireDataNodes(t, g)
	_, err := g.CreateConnection(src.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.NoError(t, err)

	oldCode := dst.Code()
	newCode := "@node_entry\ndef dst(renamed: int):\n    pass\n"
	cmd := command.NewCodeChangeCommand(g, dst, oldCode, newCode)
	require.True(t, h.Execute(cmd))
	assert.Empty(t, g.Connections())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Len(t, g.Connections(), 1)
	assert.Equal(t, "x", g.Connections()[0].Dest.Name())
}

func TestCreateConnectionCommandUndoRestoresDisplaced(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()
	src1, dst := wireDataNodes(t, g)
	src2 := g.CreateNode("Src2", graph.Point{})
	src2.SetCode("@node_entry\ndef src2() -> int:\n    return 2\n")

	first := command.NewCreateConnectionCommand(g, src1.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.True(t, h.Execute(first))

	second := command.NewCreateConnectionCommand(g, src2.GetPinByName("output_1"), dst.GetPinByName("x"))
	require.True(t, h.Execute(second))
	assert.Len(t, g.Connections(), 1)

	_, ok := h.Undo()
	require.True(t, ok)
	require.Len(t, g.Connections(), 1)
	assert.Equal(t, src1.GetPinByName("output_1"), g.Connections()[0].Source, "undo of the displacing connection restores the one it displaced")
}

func TestCompositeCommandRollsBackOnPartialFailure(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{})

	ok := command.NewCreateNodeCommand(g, "Other", graph.Point{}).Execute()
	require.True(t, ok)

	good := command.NewMoveNodeCommand(g, n, graph.Point{}, graph.Point{X: 1})
	bad := &failingCommand{}
	composite := command.NewCompositeCommand("batch", []command.Command{good, bad})

	assert.False(t, composite.Execute())
	assert.Equal(t, graph.Point{}, n.Pos, "the successfully-applied move must be rolled back")
}

func TestCompositeCommandUndoToleratesPartialFailure(t *testing.T) {
	good1 := &toggleCommand{}
	good2 := &toggleCommand{}
	bad := &undoFailingCommand{}
	composite := command.NewCompositeCommand("batch", []command.Command{good1, good2, bad})

	require.True(t, composite.Execute())
	assert.True(t, composite.Undo())
	assert.False(t, good1.executed)
	assert.False(t, good2.executed)
}

func TestHistoryEnforcesMaxDepth(t *testing.T) {
	g := graph.New()
	h := command.NewHistory(command.WithMaxDepth(2))

	for i := 0; i < 5; i++ {
		require.True(t, h.Execute(command.NewCreateNodeCommand(g, "N", graph.Point{})))
	}
	assert.Equal(t, 2, h.Len())
}

func TestHistoryRedoBranchTruncatedByNewExecute(t *testing.T) {
	g := graph.New()
	h := command.NewHistory()
	n1 := command.NewCreateNodeCommand(g, "A", graph.Point{})
	n2 := command.NewCreateNodeCommand(g, "B", graph.Point{})
	require.True(t, h.Execute(n1))
	require.True(t, h.Execute(n2))

	_, ok := h.Undo()
	require.True(t, ok)
	assert.True(t, h.CanRedo())

	n3 := command.NewCreateNodeCommand(g, "C", graph.Point{})
	require.True(t, h.Execute(n3))
	assert.False(t, h.CanRedo())
	assert.Equal(t, 2, h.Len())
}

type failingCommand struct{ command.Base }

func (*failingCommand) Execute() bool { return false }
func (*failingCommand) Undo() bool    { return true }

type undoFailingCommand struct{ command.Base }

func (*undoFailingCommand) Execute() bool { return true }
func (*undoFailingCommand) Undo() bool    { return false }

type toggleCommand struct {
	command.Base
	executed bool
}

func (c *toggleCommand) Execute() bool { c.executed = true; return true }
func (c *toggleCommand) Undo() bool    { c.executed = false; return true }
