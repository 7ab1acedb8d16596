// SPDX-License-Identifier: Apache-2.0

// Package command implements PyFlowGraph's invertible command log: an
// undo/redo system with memory and depth bounds, composite commands for
// multi-item operations, and merging of compatible adjacent commands
// (SPEC_FULL.md §5.F). It wraps a *graph.Graph rather than living inside
// package graph, so graph stays free of any dependency on the undo
// system — the same separation the teacher keeps between its graph
// package and the callers that drive it.
package command

import "time"

// Command is an invertible mutation of a Graph. Execute and Undo each
// return a success flag; Executed toggles exclusively between them.
type Command interface {
	Execute() bool
	Undo() bool
	Description() string
	Timestamp() time.Time
	MemoryUsage() int
	Executed() bool
}

// Merger is implemented by commands that can coalesce with a
// consecutive, compatible command of the same kind (the canonical case
// is MoveNode, to keep a 60Hz drag from flooding the history).
type Merger interface {
	CanMergeWith(next Command) bool
	MergeWith(next Command) Command
}

// Base provides the bookkeeping every concrete command needs: a
// description, a timestamp, and the executed/undone toggle.
type Base struct {
	description string
	timestamp   time.Time
	executed    bool
}

// NewBase starts a command's bookkeeping with the given description.
func NewBase(description string) Base {
	return Base{description: description, timestamp: time.Now()}
}

// Description returns the human-readable description for UI display.
func (b *Base) Description() string { return b.description }

// Timestamp returns when the command was constructed.
func (b *Base) Timestamp() time.Time { return b.timestamp }

// Executed reports whether the command is currently in the executed
// state (as opposed to undone).
func (b *Base) Executed() bool { return b.executed }

func (b *Base) markExecuted() { b.executed = true }
func (b *Base) markUndone()   { b.executed = false }

// MemoryUsage gives a conservative default estimate; concrete commands
// that hold larger payloads (source code, widget state) override it.
func (b *Base) MemoryUsage() int { return 512 }
