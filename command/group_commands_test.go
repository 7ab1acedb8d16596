// SPDX-License-Identifier: Apache-2.0

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pyflowgraph/command"
	"pyflowgraph/graph"
)

func TestCreateGroupCommandExecuteUndo(t *testing.T) {
	g := graph.New()
	g.CreateNode("N", graph.Point{X: 1, Y: 1})
	h := command.NewHistory()

	cmd := command.NewCreateGroupCommand(g, "Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})
	require.True(t, h.Execute(cmd))
	assert.Len(t, g.Groups(), 1)

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Empty(t, g.Groups())
}

func TestGroupPropertyChangeCommandMergesWithinWindow(t *testing.T) {
	g := graph.New()
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})
	h := command.NewHistory()

	require.True(t, h.Execute(command.NewGroupPropertyChangeCommand(grp, "title", "Region", "Region A")))
	require.True(t, h.Execute(command.NewGroupPropertyChangeCommand(grp, "title", "Region A", "Region AB")))

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "Region AB", grp.Title)

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "Region", grp.Title)
}

func TestResizeGroupCommandDoesNotMoveMembers(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{X: 1, Y: 1})
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})
	h := command.NewHistory()

	oldRect := grp.Rect
	newRect := graph.Rect{Pos: graph.Point{X: 10, Y: 10}, Size: graph.Point{X: 50, Y: 50}}
	require.True(t, h.Execute(command.NewResizeGroupCommand(grp, oldRect, newRect)))
	assert.Equal(t, newRect, grp.Rect)
	assert.Equal(t, graph.Point{X: 1, Y: 1}, n.Pos)

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, oldRect, grp.Rect)
}

func TestDeleteMultipleCommandGroupsNodesAndReroutes(t *testing.T) {
	g := graph.New()
	n1 := g.CreateNode("A", graph.Point{})
	n2 := g.CreateNode("B", graph.Point{})
	r := g.CreateReroute(graph.Point{})
	h := command.NewHistory()

	cmd := command.NewDeleteMultipleCommand(g, []*graph.Node{n1, n2}, []*graph.RerouteNode{r})
	require.True(t, h.Execute(cmd))
	assert.Empty(t, g.Nodes())
	assert.Empty(t, g.Reroutes())

	_, ok := h.Undo()
	require.True(t, ok)
	assert.Len(t, g.Nodes(), 2)
	assert.Len(t, g.Reroutes(), 1)
}
