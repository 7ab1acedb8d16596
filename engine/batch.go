// SPDX-License-Identifier: Apache-2.0

// Package engine runs a Graph's nodes: BatchExecutor performs one
// topological pass over the whole graph (§4.G), and LiveExecutor
// re-evaluates just the nodes downstream of a single trigger, caching
// every other input (§4.H). Both are grounded on
// original_source/graph_executor.py's queue-and-dependency-count
// algorithm, generalized to route through RerouteNodes as pure
// forwarding and to call out to an interp.Executor rather than Python's
// own exec/eval.
package engine

import (
	"context"
	"fmt"

	"pyflowgraph/graph"
	"pyflowgraph/interp"
	"pyflowgraph/log"
)

// LogFunc receives one line of execution trace per call, mirroring the
// log-widget-append calls in the original engine.
type LogFunc func(string)

// BatchExecutor runs every node in a graph exactly once, in dependency
// order, starting from entities with no connected input pins. An
// entity's dependency count is its number of connected input pins,
// execution and data alike; each connection arriving from an executed
// upstream entity decrements it, and the entity is queued when it
// reaches zero. Execution connections are not handled separately from
// data connections.
type BatchExecutor struct {
	g  *graph.Graph
	rt interp.Executor
}

// NewBatchExecutor builds an executor for g, calling node functions
// through rt.
func NewBatchExecutor(g *graph.Graph, rt interp.Executor) *BatchExecutor {
	return &BatchExecutor{g: g, rt: rt}
}

// Execute runs the graph to completion, emitting a header line per
// executed node to logf, followed by the node's captured stdout (if
// any) as one further entry and any SKIP/ERROR/WARNING line. It returns
// an error only for conditions that abort the whole run (no start node,
// a node raising an interpreter error, or the cycle-detection bound
// being hit) — per-node issues like a return-count mismatch are logged
// as warnings and execution continues.
func (e *BatchExecutor) Execute(ctx context.Context, logf LogFunc) error {
	entities := append(append([]graph.Entity{}, entitySlice(e.g.Nodes())...), entitySlice(e.g.Reroutes())...)

	pinValues := map[*graph.Pin]any{}
	deps := map[graph.Entity]int{}
	var queue []graph.Entity

	for _, ent := range entities {
		n := countConnectedInputs(ent)
		deps[ent] = n
		if n == 0 {
			queue = append(queue, ent)
		}
	}

	if len(queue) == 0 {
		return fmt.Errorf("no start node found: every node has a connected input")
	}
	log.Debugf("batch execution starting: %d entities, %d start nodes", len(entities), len(queue))

	limit := len(entities) * 2
	count := 0

	for len(queue) > 0 && count < limit {
		if err := ctx.Err(); err != nil {
			return err
		}
		count++
		current := queue[0]
		queue = queue[1:]

		if err := e.runEntity(ctx, current, pinValues, logf); err != nil {
			return err
		}

		for _, p := range outputPins(current) {
			for _, conn := range p.Connections() {
				downstream := conn.Dest.Owner().(graph.Entity)
				deps[downstream]--
				if deps[downstream] == 0 {
					queue = append(queue, downstream)
				}
			}
		}
	}

	if count >= limit {
		return fmt.Errorf("execution limit reached: the graph likely contains a cycle")
	}
	return nil
}

func (e *BatchExecutor) runEntity(ctx context.Context, ent graph.Entity, pinValues map[*graph.Pin]any, logf LogFunc) error {
	if r, ok := ent.(*graph.RerouteNode); ok {
		forwardReroute(r, pinValues)
		return nil
	}
	n := ent.(*graph.Node)
	logf(fmt.Sprintf("--- Executing Node: %s ---", n.Title))

	if n.FunctionName() == "" {
		logf(fmt.Sprintf("SKIP: Node %q has no valid function defined.", n.Title))
		return nil
	}

	args := map[string]any{}
	for _, p := range n.DataPins() {
		if p.Direction() != graph.DirectionInput {
			continue
		}
		args[p.Name()] = readInput(p, pinValues)
	}

	result, err := e.rt.Call(ctx, n.FunctionName(), n.Code(), args)
	if err != nil {
		logf(fmt.Sprintf("ERROR in node %q: %v", n.Title, err))
		return fmt.Errorf("node %q: %w", n.Title, err)
	}
	if result.Stdout != "" {
		logf(result.Stdout)
	}

	outputs := dataOutputPins(n)
	bindOutputs(n.Title, outputs, result.Outputs, pinValues, logf)
	return nil
}

// bindOutputs assigns a node's returned values to its data output pins,
// warning (not aborting) on a count mismatch — original_source's engine
// treats this as recoverable, since the rest of the graph may still be
// able to run from whatever did bind.
func bindOutputs(nodeTitle string, outputs []*graph.Pin, values []any, pinValues map[*graph.Pin]any, logf LogFunc) {
	switch {
	case len(outputs) == 0:
		return
	case len(outputs) == 1:
		if len(values) > 0 {
			pinValues[outputs[0]] = values[0]
		} else {
			pinValues[outputs[0]] = nil
		}
	default:
		if len(values) != len(outputs) {
			logf(fmt.Sprintf("WARNING: Node %q return count mismatch.", nodeTitle))
			return
		}
		for i, p := range outputs {
			pinValues[p] = values[i]
		}
	}
}

func readInput(p *graph.Pin, pinValues map[*graph.Pin]any) any {
	conns := p.Connections()
	if len(conns) == 0 {
		return nil
	}
	return pinValues[conns[0].Source]
}

func forwardReroute(r *graph.RerouteNode, pinValues map[*graph.Pin]any) {
	pinValues[r.Output] = readInput(r.Input, pinValues)
}

func countConnectedInputs(ent graph.Entity) int {
	n := 0
	for _, p := range ent.Pins() {
		if p.Direction() == graph.DirectionInput && len(p.Connections()) > 0 {
			n++
		}
	}
	return n
}

func outputPins(ent graph.Entity) []*graph.Pin {
	var out []*graph.Pin
	for _, p := range ent.Pins() {
		if p.Direction() == graph.DirectionOutput {
			out = append(out, p)
		}
	}
	return out
}

func dataOutputPins(n *graph.Node) []*graph.Pin {
	var out []*graph.Pin
	for _, p := range n.OutputPins() {
		if p.Category() == graph.CategoryData {
			out = append(out, p)
		}
	}
	return out
}

func entitySlice[T graph.Entity](items []T) []graph.Entity {
	out := make([]graph.Entity, len(items))
	for i, v := range items {
		out[i] = v
	}
	return out
}
