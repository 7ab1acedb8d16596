// SPDX-License-Identifier: Apache-2.0

package command

import "pyflowgraph/graph"

// Session pairs a Graph with the History that drives every mutation
// through it, so callers issue one command at a time rather than
// reaching into the graph directly (§5.F). The editor/CLI layer owns a
// Session; the graph package itself never depends on command.
type Session struct {
	Graph   *graph.Graph
	History *History
}

// NewSession wraps g with a fresh command history.
func NewSession(g *graph.Graph, opts ...Option) *Session {
	return &Session{Graph: g, History: NewHistory(opts...)}
}

// Do executes cmd through the session's history, returning whether it
// was applied.
func (s *Session) Do(cmd Command) bool {
	return s.History.Execute(cmd)
}

// Undo reverts the most recently executed command, if any.
func (s *Session) Undo() (string, bool) {
	return s.History.Undo()
}

// Redo re-applies the most recently undone command, if any.
func (s *Session) Redo() (string, bool) {
	return s.History.Redo()
}
