// SPDX-License-Identifier: Apache-2.0

package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pyflowgraph/graph"
)

func TestCreateGroupSnapshotsMembership(t *testing.T) {
	g := graph.New()
	inside := g.CreateNode("Inside", graph.Point{X: 5, Y: 5})
	outside := g.CreateNode("Outside", graph.Point{X: 500, Y: 500})

	grp := g.CreateGroup("Region", graph.Rect{Pos: graph.Point{}, Size: graph.Point{X: 100, Y: 100}})

	assert.Contains(t, grp.MemberNodeIDs, inside.ID())
	assert.NotContains(t, grp.MemberNodeIDs, outside.ID())
}

func TestGroupResizeDoesNotMoveMembers(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{X: 5, Y: 5})
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})

	grp.Resize(graph.Rect{Pos: graph.Point{X: 50, Y: 50}, Size: graph.Point{X: 10, Y: 10}})

	assert.Equal(t, graph.Point{X: 5, Y: 5}, n.Pos)
	assert.Equal(t, graph.Point{X: 50, Y: 50}, grp.Rect.Pos)
}

func TestGroupMembershipIsNotLive(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{X: 5, Y: 5})
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})
	require := assert.New(t)
	require.Contains(grp.MemberNodeIDs, n.ID())

	n.Pos = graph.Point{X: 900, Y: 900}
	require.Contains(grp.MemberNodeIDs, n.ID())
}

func TestGroupSerializeDeserializeRoundTrip(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{X: 5, Y: 5})
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})

	rec := grp.Serialize()
	restored := graph.DeserializeGroup(rec)

	assert.Equal(t, grp.ID(), restored.ID())
	assert.Equal(t, grp.Title, restored.Title)
	assert.Equal(t, []string{n.ID()}, restored.MemberNodeIDs)
}

func TestRemoveGroupLeavesMembersIntact(t *testing.T) {
	g := graph.New()
	n := g.CreateNode("N", graph.Point{X: 5, Y: 5})
	grp := g.CreateGroup("Region", graph.Rect{Size: graph.Point{X: 100, Y: 100}})

	g.RemoveGroup(grp)

	_, ok := g.Group(grp.ID())
	assert.False(t, ok)
	_, ok = g.Node(n.ID())
	assert.True(t, ok)
}
