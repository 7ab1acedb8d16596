// SPDX-License-Identifier: Apache-2.0

package command

import (
	"time"

	"pyflowgraph/log"
)

const (
	// DefaultMaxDepth bounds the number of entries the history keeps,
	// evicting from the front once exceeded (grounded on
	// original_source/src/core/command_history.py's MAX_HISTORY_SIZE).
	DefaultMaxDepth = 50

	// DefaultMaxMemoryBytes bounds total estimated command memory.
	DefaultMaxMemoryBytes = 50 * 1024 * 1024

	// warnThreshold logs commands whose Execute/Undo takes longer than
	// this; slow commands are not aborted, only flagged.
	warnThreshold = 100 * time.Millisecond
)

// Option configures a History.
type Option func(*History)

// WithMaxDepth overrides the default history depth bound.
func WithMaxDepth(n int) Option {
	return func(h *History) { h.maxDepth = n }
}

// WithMaxMemory overrides the default history memory bound.
func WithMaxMemory(bytes int) Option {
	return func(h *History) { h.memLimit = bytes }
}

// History is an undo/redo stack with a bounded depth and memory budget.
// Commands past h.cursor are the redo branch; executing a new command
// truncates it. Not safe for concurrent use from multiple goroutines
// without external synchronization — commands are expected to be issued
// serially from the UI/orchestration goroutine, matching the teacher's
// session-scoped history usage.
type History struct {
	commands []Command
	cursor   int // index of the last executed command; -1 means none
	maxDepth int
	memLimit int
	memUsage int
}

// NewHistory creates an empty history with the default bounds, or
// overrides supplied via options.
func NewHistory(opts ...Option) *History {
	h := &History{cursor: -1, maxDepth: DefaultMaxDepth, memLimit: DefaultMaxMemoryBytes}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute runs cmd, truncates any redo branch, attempts to merge it into
// the preceding command, and enforces the depth/memory bounds. Returns
// false without altering history state if cmd.Execute() itself fails.
func (h *History) Execute(cmd Command) bool {
	start := time.Now()
	if !cmd.Execute() {
		return false
	}
	h.logIfSlow("execute", cmd, time.Since(start))

	if h.cursor < len(h.commands)-1 {
		for _, dropped := range h.commands[h.cursor+1:] {
			h.memUsage -= dropped.MemoryUsage()
		}
		h.commands = h.commands[:h.cursor+1]
	}

	if h.cursor >= 0 {
		if merger, ok := h.commands[h.cursor].(Merger); ok && merger.CanMergeWith(cmd) {
			merged := merger.MergeWith(cmd)
			h.memUsage -= h.commands[h.cursor].MemoryUsage()
			h.commands[h.cursor] = merged
			h.memUsage += merged.MemoryUsage()
			h.enforceLimits()
			return true
		}
	}

	h.commands = append(h.commands, cmd)
	h.cursor++
	h.memUsage += cmd.MemoryUsage()
	h.enforceLimits()
	return true
}

// Undo reverts the command at the cursor, if any, returning its
// description and true on success.
func (h *History) Undo() (string, bool) {
	if h.cursor < 0 {
		return "", false
	}
	cmd := h.commands[h.cursor]
	start := time.Now()
	if !cmd.Undo() {
		return "", false
	}
	h.logIfSlow("undo", cmd, time.Since(start))
	h.cursor--
	return cmd.Description(), true
}

// Redo re-executes the command just past the cursor, if any.
func (h *History) Redo() (string, bool) {
	if h.cursor+1 >= len(h.commands) {
		return "", false
	}
	cmd := h.commands[h.cursor+1]
	start := time.Now()
	if !cmd.Execute() {
		return "", false
	}
	h.logIfSlow("redo", cmd, time.Since(start))
	h.cursor++
	return cmd.Description(), true
}

// CanUndo reports whether Undo would have an effect.
func (h *History) CanUndo() bool { return h.cursor >= 0 }

// CanRedo reports whether Redo would have an effect.
func (h *History) CanRedo() bool { return h.cursor+1 < len(h.commands) }

// UndoToCommand undoes or redoes commands one at a time until the cursor
// reaches targetIndex (an index into the history as Descriptions/Len
// report it, -1 meaning "before the first command"). Returns the
// descriptions of every command undone or redone, in the order applied.
func (h *History) UndoToCommand(targetIndex int) []string {
	var applied []string
	for h.cursor > targetIndex {
		desc, ok := h.Undo()
		if !ok {
			break
		}
		applied = append(applied, desc)
	}
	for h.cursor < targetIndex {
		desc, ok := h.Redo()
		if !ok {
			break
		}
		applied = append(applied, desc)
	}
	return applied
}

// Len returns the total number of commands currently retained (both the
// undo and redo branches).
func (h *History) Len() int { return len(h.commands) }

// Cursor returns the index of the most recently executed command, or -1.
func (h *History) Cursor() int { return h.cursor }

// Descriptions returns the description of every retained command, in
// order, for UI display (e.g. an undo-history dropdown).
func (h *History) Descriptions() []string {
	out := make([]string, len(h.commands))
	for i, c := range h.commands {
		out[i] = c.Description()
	}
	return out
}

// enforceLimits evicts from the front of the history until both the
// depth and memory bounds are satisfied. Evicted commands are simply
// forgotten (their mutation already happened; we just lose the ability
// to undo that far back), matching the original's fixed-size ring.
func (h *History) enforceLimits() {
	for len(h.commands) > h.maxDepth || h.memUsage > h.memLimit {
		if len(h.commands) == 0 {
			return
		}
		evicted := h.commands[0]
		h.commands = h.commands[1:]
		h.memUsage -= evicted.MemoryUsage()
		h.cursor--
	}
}

func (h *History) logIfSlow(op string, cmd Command, elapsed time.Duration) {
	if elapsed > warnThreshold {
		log.Warnf("command %s %q took %s, exceeding the %s budget", op, cmd.Description(), elapsed, warnThreshold)
	}
}
