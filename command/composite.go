// SPDX-License-Identifier: Apache-2.0

package command

import "pyflowgraph/log"

// partialUndoThreshold is the fraction of sub-commands that must undo
// successfully for CompositeCommand.Undo to report overall success
// (grounded on original_source/src/commands/command_base.py's
// CompositeCommand, which treats a batch undo as having "mostly
// worked" rather than all-or-nothing).
const partialUndoThreshold = 0.5

// CompositeCommand groups several commands into one undo/redo unit
// (§5.F). Execute stops at the first failure and rolls back everything
// it already applied, so a partially-applied batch never leaks into the
// history. Undo, by contrast, keeps going even if some sub-commands fail
// to undo, and only reports overall failure if fewer than
// partialUndoThreshold of them succeeded — a failed undo for one item
// in a 40-node delete shouldn't strand the other 39.
type CompositeCommand struct {
	Base
	commands []Command
}

// NewCompositeCommand groups commands under a single description.
func NewCompositeCommand(description string, commands []Command) *CompositeCommand {
	return &CompositeCommand{Base: NewBase(description), commands: commands}
}

// Execute runs every sub-command in order. If one fails, every
// already-executed sub-command is undone in reverse order and Execute
// reports failure.
func (c *CompositeCommand) Execute() bool {
	for i, cmd := range c.commands {
		if cmd.Execute() {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if !c.commands[j].Undo() {
				log.Errorf("composite command %q: rollback of sub-command %d failed after sub-command %d failed to execute", c.Description(), j, i)
			}
		}
		return false
	}
	c.markExecuted()
	return true
}

// Undo undoes every sub-command in reverse order, tolerating individual
// failures up to partialUndoThreshold.
func (c *CompositeCommand) Undo() bool {
	succeeded := 0
	for i := len(c.commands) - 1; i >= 0; i-- {
		if c.commands[i].Undo() {
			succeeded++
		} else {
			log.Warnf("composite command %q: sub-command %d failed to undo", c.Description(), i)
		}
	}
	c.markUndone()
	if len(c.commands) == 0 {
		return true
	}
	return float64(succeeded)/float64(len(c.commands)) >= partialUndoThreshold
}

// MemoryUsage sums every sub-command's estimate.
func (c *CompositeCommand) MemoryUsage() int {
	total := 0
	for _, cmd := range c.commands {
		total += cmd.MemoryUsage()
	}
	return total
}
