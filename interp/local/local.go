// SPDX-License-Identifier: Apache-2.0

// Package local implements interp.Executor with a persistent-namespace
// tree-walking interpreter for PyFlowGraph's node-function subset of
// Python (SPEC_FULL.md §5.I). It is grounded on the shape of
// codeexecutor/local (same package name, same options-constructor
// pattern, same single-struct-implements-the-interface design) adapted
// from "shell out to a real python3 binary" to "evaluate a restricted
// grammar in-process", because SingleProcessExecutor's defining
// requirement — object identity and module state surviving across
// node calls within one run — is incompatible with spawning a fresh
// subprocess per call.
package local

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pyflowgraph/interp"
)

// Interpreter is a persistent Python-subset execution environment: one
// shared global namespace lives across every Call, so module-level
// variables and helper functions a node's source defines remain visible
// (and keep their identity) on every subsequent call, matching the
// "single persistent process" executor semantics (§4.I/§5.I) rather
// than the teacher's per-call subprocess model.
type Interpreter struct {
	mu   sync.Mutex
	global map[string]any
	funcs  map[string]funcDef
	// seen tracks which source texts have already had their top-level
	// statements (imports, helper defs, module-level assignments) run,
	// so re-calling the same node doesn't re-execute that prelude.
	seen map[string]bool
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// New creates a persistent interpreter with an empty global namespace.
func New(options ...Option) *Interpreter {
	ip := &Interpreter{
		global: map[string]any{},
		funcs:  map[string]funcDef{},
		seen:   map[string]bool{},
	}
	for _, opt := range options {
		opt(ip)
	}
	return ip
}

var _ interp.Executor = (*Interpreter)(nil)

// Call parses source once per distinct text (caching the result), runs
// its top-level statements the first time it is seen, then invokes
// functionName with args bound positionally to the function's
// parameters in declaration order.
func (ip *Interpreter) Call(ctx context.Context, functionName, source string, args map[string]any) (interp.Result, error) {
	ip.mu.Lock()
	defer ip.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return interp.Result{}, err
	}

	if !ip.seen[source] {
		stmts, err := parse(source)
		if err != nil {
			return interp.Result{}, fmt.Errorf("parse error: %w", err)
		}
		sc := &scope{global: &ip.global, local: ip.global}
		if _, err := ip.execStmts(stmts, sc); err != nil {
			return interp.Result{}, fmt.Errorf("module init error: %w", err)
		}
		ip.seen[source] = true
	}

	fd, ok := ip.funcs[functionName]
	if !ok {
		return interp.Result{}, fmt.Errorf("function %q not found in source", functionName)
	}

	var stdout strings.Builder
	restore := installPrint(&stdout)
	defer restore()

	value, err := ip.callUserFunc(fd, orderedArgs(fd.params, args))
	if err != nil {
		return interp.Result{}, err
	}

	return interp.Result{Outputs: unpackOutputs(value), Stdout: stdout.String()}, nil
}

// Reset discards the persistent namespace and every cached function
// definition, as if a fresh interpreter process had started.
func (ip *Interpreter) Reset() {
	ip.mu.Lock()
	defer ip.mu.Unlock()
	ip.global = map[string]any{}
	ip.funcs = map[string]funcDef{}
	ip.seen = map[string]bool{}
}

func orderedArgs(params []string, named map[string]any) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = named[p]
	}
	return out
}

// unpackOutputs converts a function's return value into one slot per
// output pin: a pyTuple unpacks into one element per member (the
// Tuple[T1,T2,...] convention from §4.C's pin derivation), anything
// else becomes a single-element result.
func unpackOutputs(v any) []any {
	if t, ok := v.(pyTuple); ok {
		return []any(t)
	}
	return []any{v}
}

// installPrint temporarily points the "print" builtin at buf for the
// duration of one Call, then restores the prior (no-op) implementation.
// Builtins are process-global by construction (a small, fixed table),
// so this swap is guarded by Interpreter.mu in Call.
func installPrint(buf *strings.Builder) (restore func()) {
	prev := builtins["print"]
	builtins["print"] = func(args []any) (any, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = pyStr(a)
		}
		buf.WriteString(strings.Join(parts, " "))
		buf.WriteString("\n")
		return nil, nil
	}
	return func() { builtins["print"] = prev }
}
