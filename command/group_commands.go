// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"time"

	"pyflowgraph/graph"
)

// CreateGroupCommand adds a new group bounding rect, snapshotting
// membership from the graph's current nodes (§5.E).
type CreateGroupCommand struct {
	Base
	g     *graph.Graph
	title string
	rect  graph.Rect
	group *graph.Group
}

// NewCreateGroupCommand constructs a command creating a group titled
// title bounding rect.
func NewCreateGroupCommand(g *graph.Graph, title string, rect graph.Rect) *CreateGroupCommand {
	return &CreateGroupCommand{Base: NewBase(fmt.Sprintf("Create group %q", title)), g: g, title: title, rect: rect}
}

// Execute creates the group (first execution) or restores it (redo).
func (c *CreateGroupCommand) Execute() bool {
	if c.group == nil {
		c.group = c.g.CreateGroup(c.title, c.rect)
	} else {
		c.g.RestoreGroup(c.group)
	}
	c.markExecuted()
	return true
}

// Undo removes the group.
func (c *CreateGroupCommand) Undo() bool {
	c.g.RemoveGroup(c.group)
	c.markUndone()
	return true
}

// DeleteGroupCommand removes a group record (member nodes are untouched,
// per the group's overlay semantics). Undo restores the group record.
type DeleteGroupCommand struct {
	Base
	g     *graph.Graph
	group *graph.Group
}

// NewDeleteGroupCommand constructs a command deleting group.
func NewDeleteGroupCommand(g *graph.Graph, group *graph.Group) *DeleteGroupCommand {
	return &DeleteGroupCommand{Base: NewBase(fmt.Sprintf("Delete group %q", group.Title)), g: g, group: group}
}

// Execute removes the group.
func (c *DeleteGroupCommand) Execute() bool {
	c.g.RemoveGroup(c.group)
	c.markExecuted()
	return true
}

// Undo restores the group.
func (c *DeleteGroupCommand) Undo() bool {
	c.g.RestoreGroup(c.group)
	c.markUndone()
	return true
}

// ResizeGroupCommand changes a group's bounding rect only; it never
// touches member node positions (Group.Resize's contract).
type ResizeGroupCommand struct {
	Base
	group       *graph.Group
	oldRect     graph.Rect
	newRect     graph.Rect
}

// NewResizeGroupCommand constructs a command resizing group from oldRect
// to newRect.
func NewResizeGroupCommand(group *graph.Group, oldRect, newRect graph.Rect) *ResizeGroupCommand {
	return &ResizeGroupCommand{Base: NewBase(fmt.Sprintf("Resize group %q", group.Title)), group: group, oldRect: oldRect, newRect: newRect}
}

// Execute applies the new rect.
func (c *ResizeGroupCommand) Execute() bool { c.group.Resize(c.newRect); c.markExecuted(); return true }

// Undo restores the old rect.
func (c *ResizeGroupCommand) Undo() bool { c.group.Resize(c.oldRect); c.markUndone(); return true }

const groupPropertyMergeWindow = 2 * time.Second

// GroupPropertyChangeCommand changes a group's title or colors.
// Consecutive edits to the same group within groupPropertyMergeWindow
// merge into one entry (e.g. typing in a title field character by
// character), mirroring MoveNodeCommand's merge window but longer, since
// property edits via a text field settle slower than a mouse drag.
type GroupPropertyChangeCommand struct {
	Base
	group    *graph.Group
	property string
	oldValue string
	newValue string
}

// NewGroupPropertyChangeCommand constructs a command for one of "title",
// "color_title", or "color_body".
func NewGroupPropertyChangeCommand(group *graph.Group, property, oldValue, newValue string) *GroupPropertyChangeCommand {
	return &GroupPropertyChangeCommand{
		Base:     NewBase(fmt.Sprintf("Change %s of group %q", property, group.Title)),
		group:    group, property: property, oldValue: oldValue, newValue: newValue,
	}
}

func (c *GroupPropertyChangeCommand) apply(value string) {
	switch c.property {
	case "title":
		c.group.Title = value
	case "color_title":
		c.group.ColorTitle = value
	case "color_body":
		c.group.ColorBody = value
	}
}

// Execute applies the new value.
func (c *GroupPropertyChangeCommand) Execute() bool {
	c.apply(c.newValue)
	c.markExecuted()
	return true
}

// Undo restores the old value.
func (c *GroupPropertyChangeCommand) Undo() bool {
	c.apply(c.oldValue)
	c.markUndone()
	return true
}

// CanMergeWith reports whether next edits the same property of the same
// group within the merge window.
func (c *GroupPropertyChangeCommand) CanMergeWith(next Command) bool {
	other, ok := next.(*GroupPropertyChangeCommand)
	if !ok || other.group != c.group || other.property != c.property {
		return false
	}
	return other.Timestamp().Sub(c.Timestamp()) <= groupPropertyMergeWindow
}

// MergeWith folds next into c, keeping c's original oldValue.
func (c *GroupPropertyChangeCommand) MergeWith(next Command) Command {
	other := next.(*GroupPropertyChangeCommand)
	return &GroupPropertyChangeCommand{Base: c.Base, group: c.group, property: c.property, oldValue: c.oldValue, newValue: other.newValue}
}
