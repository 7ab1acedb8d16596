// SPDX-License-Identifier: Apache-2.0

// Package interp defines the interface a node-execution backend
// implements (mirroring codeexecutor.CodeExecutor's shape from the
// ambient stack, generalized to PyFlowGraph's per-node call semantics):
// given a node's function source and a set of argument values, run the
// function and report its outputs plus anything it printed.
//
// interp/local is the only implementation: a persistent-namespace
// tree-walking interpreter for the small Python subset node bodies use
// (SPEC_FULL.md §5.I). No scripting/embedding runtime (yaegi, goja,
// otto, starlark, tengo, cel-go, expr-lang) appears anywhere in the
// example pack's go.mod files, so there is no third-party engine to
// wire here — this is the one component in the repo grounded on the
// standard library alone, and it is scoped deliberately small: just
// enough of Python to run decorated node_entry functions, not a
// general-purpose Python implementation.
package interp

import "context"

// Result is the outcome of calling one node's function.
type Result struct {
	// Outputs holds one value per output pin, in output-pin order.
	Outputs []any
	// Stdout captures anything the function printed during the call.
	Stdout string
}

// Executor runs a node's function body against a set of input values.
type Executor interface {
	// Call executes the function named functionName, defined by source,
	// with args keyed by parameter name, and returns one value per
	// output pin (§4.C's pin-derivation rules govern how many outputs
	// to expect from the function's return annotation).
	Call(ctx context.Context, functionName, source string, args map[string]any) (Result, error)

	// Reset clears the interpreter's persistent namespace, discarding
	// any module-level state nodes have accumulated (§5.I; used between
	// independent batch-execution runs).
	Reset()
}
