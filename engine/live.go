// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"context"
	"fmt"
	"sync"

	"pyflowgraph/graph"
	"pyflowgraph/interp"
	"pyflowgraph/log"
)

// LiveExecutor re-evaluates just the nodes reachable from a single
// trigger node (§4.H), instead of the whole graph. It keeps two stores
// across triggers: a cache of every pin value ever produced, and a
// free-form graph-state map nodes can use to remember things between
// clicks (a running counter, an accumulated list, and so on).
//
// A node's embedded widget is represented headlessly by
// graph.WidgetHost.State, a flat map already holding whatever values
// the rendering collaborator last read off the real widget. Invoking
// the node's gui_get_values_code against a synthetic "widgets" object
// would require modeling the GUI toolkit's widget API in the
// interpreter for no benefit, since this engine never has a live
// widget to query — so LiveExecutor reads and writes WidgetHost.State
// directly in place of calling get_values/set_values.
type LiveExecutor struct {
	mu sync.Mutex

	g  *graph.Graph
	rt interp.Executor

	pinValues map[*graph.Pin]any
	state     map[string]any
}

// NewLiveExecutor builds a live executor over g, calling node functions
// through rt. rt is expected to be a persistent, shared-namespace
// interp.Executor (package interp/local), the same instance used for
// any batch runs over g, so definitions a node makes remain visible to
// every other node exactly as §4.I describes.
func NewLiveExecutor(g *graph.Graph, rt interp.Executor) *LiveExecutor {
	return &LiveExecutor{
		g:         g,
		rt:        rt,
		pinValues: map[*graph.Pin]any{},
		state:     map[string]any{},
	}
}

// State returns a snapshot of the graph-state store.
func (e *LiveExecutor) State() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]any, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// SetState replaces the graph-state store wholesale. Callers that want
// to change one key should read State(), mutate the copy, and pass it
// back.
func (e *LiveExecutor) SetState(s map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}

// Reset clears both the pin-value cache and the graph-state store.
// Reset never re-triggers any node; the caller decides what happens
// next.
func (e *LiveExecutor) Reset(logf LogFunc) {
	e.mu.Lock()
	e.pinValues = map[*graph.Pin]any{}
	e.state = map[string]any{}
	e.mu.Unlock()
	logf("Graph state reset. Ready.")
}

// Trigger performs a depth-first forward traversal from n along
// execution and data edges, invoking each reachable node once. A node
// already visited in this traversal (a diamond or a cycle in the
// graph) is not invoked a second time.
func (e *LiveExecutor) Trigger(ctx context.Context, n *graph.Node, logf LogFunc) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if n == nil {
		return fmt.Errorf("live trigger: nil node")
	}
	log.Debugf("live trigger: node %q", n.Title)
	visited := map[graph.Entity]bool{}
	return e.visit(ctx, n, visited, logf)
}

func (e *LiveExecutor) visit(ctx context.Context, ent graph.Entity, visited map[graph.Entity]bool, logf LogFunc) error {
	if visited[ent] {
		return nil
	}
	visited[ent] = true

	if err := ctx.Err(); err != nil {
		return err
	}

	if r, ok := ent.(*graph.RerouteNode); ok {
		forwardReroute(r, e.pinValues)
	} else if err := e.runNode(ctx, ent.(*graph.Node), logf); err != nil {
		return err
	}

	for _, p := range outputPins(ent) {
		for _, conn := range p.Connections() {
			downstream, ok := conn.Dest.Owner().(graph.Entity)
			if !ok {
				continue
			}
			if err := e.visit(ctx, downstream, visited, logf); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *LiveExecutor) runNode(ctx context.Context, n *graph.Node, logf LogFunc) error {
	if n.FunctionName() == "" {
		logf(fmt.Sprintf("SKIP: Node %q has no valid function defined.", n.Title))
		return nil
	}
	logf(fmt.Sprintf("--- Executing Node: %s ---", n.Title))

	widgetValues := n.Widget().State

	args := map[string]any{}
	for _, p := range n.DataPins() {
		if p.Direction() != graph.DirectionInput {
			continue
		}
		args[p.Name()] = e.readInput(p, widgetValues)
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
	bindOutputs(n.Title, outputs, result.Outputs, e.pinValues, logf)
	e.pushToWidget(n, outputs)
	return nil
}

// readInput resolves one input pin's value: a cached value from its
// connected upstream pin takes priority, then the node's own widget
// state under the pin's name, then nil.
func (e *LiveExecutor) readInput(p *graph.Pin, widgetValues map[string]any) any {
	if conns := p.Connections(); len(conns) > 0 {
		if v, ok := e.pinValues[conns[0].Source]; ok {
			return v
		}
	}
	if widgetValues != nil {
		if v, ok := widgetValues[p.Name()]; ok {
			return v
		}
	}
	return nil
}

// pushToWidget mirrors a node's produced outputs into its widget state,
// the headless equivalent of calling set_values(widgets, outputs).
func (e *LiveExecutor) pushToWidget(n *graph.Node, outputs []*graph.Pin) {
	if len(outputs) == 0 {
		return
	}
	w := n.Widget()
	if w.State == nil {
		w.State = map[string]any{}
	}
	for _, p := range outputs {
		if v, ok := e.pinValues[p]; ok {
			w.State[p.Name()] = v
		}
	}
}
