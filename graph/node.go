// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"sync"

	"github.com/google/uuid"

	"pyflowgraph/graph/internal/sig"
)

// Sizing constants for pin layout and minimum node dimensions.
const (
	rowSpacing       = 24.0
	titleCharWidth   = 8.0
	pinLabelCharW    = 7.0
	minBodyPadding   = 32.0
	defaultNodeWidth = 160.0
)

// Point is a 2D position or size.
type Point struct{ X, Y float64 }

// WidgetHost exposes the three optional source strings an embedded widget
// uses (§4.C). The core never evaluates these sources: it only stores
// them for the rendering collaborator. State is read and written
// directly by package engine's LiveExecutor.
type WidgetHost struct {
	WidgetSource  string
	HandlerSource string
	State         map[string]any

	// MinSize is the widget's minimum size hint, folded into the node's
	// computed minimum size. It is supplied by the rendering collaborator
	// after a rebuild; the core never measures pixels itself.
	MinSize Point

	// Err holds the last widget build/handler error, surfaced by the
	// rendering collaborator as a banner in place of custom content
	// instead of crashing the node.
	Err error
}

// Node wraps one user-authored function plus its derived pins and an
// optional embedded widget.
type Node struct {
	mu sync.RWMutex

	id          string
	Title       string
	Description string
	Pos         Point
	size        Point

	code               string
	functionName       string
	guiCode            string
	guiGetValuesCode   string
	widget             WidgetHost
	colorTitle         string
	colorBody          string

	all       []*Pin
	inputs    []*Pin
	outputs   []*Pin
	execPins  []*Pin
	dataPins  []*Pin
}

// NewNode constructs an empty node at pos with default colors.
func NewNode(title string, pos Point) *Node {
	return &Node{
		id:         uuid.NewString(),
		Title:      title,
		Pos:        pos,
		size:       Point{X: defaultNodeWidth, Y: rowSpacing * 2},
		colorTitle: "#3C3C3C",
		colorBody:  "#2B2B2B",
	}
}

// OwnerID implements PinOwner.
func (n *Node) OwnerID() string { return n.id }

// ID returns the node's stable unique identifier.
func (n *Node) ID() string { return n.id }

// FunctionName returns the name of the decorated function the node's
// source currently parses to, or "" if none.
func (n *Node) FunctionName() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.functionName
}

// Code returns the node's function source text.
func (n *Node) Code() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.code
}

// AllPins returns every pin owned by the node, in layout order.
func (n *Node) AllPins() []*Pin {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Pin, len(n.all))
	copy(out, n.all)
	return out
}

// InputPins returns the node's input pins (execution pin first, if present).
func (n *Node) InputPins() []*Pin { return n.snapshot(&n.inputs) }

// OutputPins returns the node's output pins (execution pin first, if present).
func (n *Node) OutputPins() []*Pin { return n.snapshot(&n.outputs) }

// ExecPins returns the node's execution pins (input and output).
func (n *Node) ExecPins() []*Pin { return n.snapshot(&n.execPins) }

// DataPins returns the node's data pins (input and output).
func (n *Node) DataPins() []*Pin { return n.snapshot(&n.dataPins) }

func (n *Node) snapshot(list *[]*Pin) []*Pin {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*Pin, len(*list))
	copy(out, *list)
	return out
}

// GetPinByName finds a pin of the node by name, or nil.
func (n *Node) GetPinByName(name string) *Pin {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, p := range n.all {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// SetCode reparses the function source text and rederives the node's
// pins (§4.C). Existing pins whose names persist across the reparse keep
// their connections; renamed or removed pins lose theirs — the caller
// (typically CodeChangeCommand) is responsible for detaching the
// connections of any pins this drops, since Node itself does not know
// about the owning Graph's connection set.
func (n *Node) SetCode(code string) (droppedPins []*Pin) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.code = code
	signature, ok := sig.Infer(code)
	if !ok {
		dropped := n.all
		n.functionName = ""
		n.all, n.inputs, n.outputs, n.execPins, n.dataPins = nil, nil, nil, nil, nil
		n.resizeLocked()
		return dropped
	}
	n.functionName = signature.FuncName

	existing := make(map[string]*Pin, len(n.all))
	for _, p := range n.all {
		existing[p.Name()] = p
	}
	keep := map[string]bool{}

	var newInputs, newOutputs []*Pin

	for _, param := range signature.Params {
		keep[param.Name] = true
		if p, ok := existing[param.Name]; ok && p.Direction() == DirectionInput && p.Category() == CategoryData {
			p.SetTypeName(param.Type)
			newInputs = append(newInputs, p)
			continue
		}
		newInputs = append(newInputs, NewPin(n, param.Name, DirectionInput, CategoryData, param.Type))
	}

	outputNames := signature.OutputNames
	for i, outType := range signature.OutputTypes {
		name := defaultOutputName(outputNames, i)
		keep[name] = true
		if p, ok := existing[name]; ok && p.Direction() == DirectionOutput && p.Category() == CategoryData {
			p.SetTypeName(outType)
			newOutputs = append(newOutputs, p)
			continue
		}
		newOutputs = append(newOutputs, NewPin(n, name, DirectionOutput, CategoryData, outType))
	}

	var execIn, execOut *Pin
	if len(signature.Params) > 0 {
		keep["exec_in"] = true
		if p, ok := existing["exec_in"]; ok {
			execIn = p
		} else {
			execIn = NewPin(n, "exec_in", DirectionInput, CategoryExecution, TypeExec)
		}
	}
	keep["exec_out"] = true
	if p, ok := existing["exec_out"]; ok {
		execOut = p
	} else {
		execOut = NewPin(n, "exec_out", DirectionOutput, CategoryExecution, TypeExec)
	}

	for name, p := range existing {
		if !keep[name] {
			droppedPins = append(droppedPins, p)
		}
	}

	n.inputs = nil
	n.outputs = nil
	n.execPins = nil
	n.dataPins = nil
	n.all = nil

	if execIn != nil {
		n.inputs = append(n.inputs, execIn)
		n.execPins = append(n.execPins, execIn)
	}
	n.inputs = append(n.inputs, newInputs...)
	n.dataPins = append(n.dataPins, newInputs...)

	n.outputs = append(n.outputs, execOut)
	n.execPins = append(n.execPins, execOut)
	n.outputs = append(n.outputs, newOutputs...)
	n.dataPins = append(n.dataPins, newOutputs...)

	n.all = append(n.all, n.inputs...)
	n.all = append(n.all, n.outputs...)

	n.resizeLocked()
	return droppedPins
}

func defaultOutputName(names []string, i int) string {
	if i < len(names) {
		return names[i]
	}
	return "output_" + itoa(i+1)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	if neg {
		digits = "-" + digits
	}
	return digits
}

// SetGUICode sets the embedded widget source. The core stores it; it is
// the rendering collaborator's job to rebuild the widget and report
// errors back into n.Widget().Err.
func (n *Node) SetGUICode(code string) {
	n.mu.Lock()
	n.guiCode = code
	n.mu.Unlock()
}

// SetGUIHandlerCode sets the widget-state-handler source.
func (n *Node) SetGUIHandlerCode(code string) {
	n.mu.Lock()
	n.guiGetValuesCode = code
	n.mu.Unlock()
}

// GUICode returns the embedded widget source.
func (n *Node) GUICode() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.guiCode
}

// GUIHandlerCode returns the widget-state-handler source.
func (n *Node) GUIHandlerCode() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.guiGetValuesCode
}

// Widget returns a pointer to the node's embedded widget host state.
func (n *Node) Widget() *WidgetHost {
	n.mu.Lock()
	defer n.mu.Unlock()
	return &n.widget
}

// Size returns the node's current (width, height), always at least its
// computed minimum.
func (n *Node) Size() Point {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.size
}

// SetSize requests a new size; it is silently corrected up to the node's
// minimum, both on user resize and on load of an under-sized saved node.
func (n *Node) SetSize(p Point) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.size = p
	n.resizeLocked()
}

// minSizeLocked computes (width, height) from title width, the widest pin
// label, and the widget host's minimum size hint.
func (n *Node) minSizeLocked() Point {
	width := float64(len(n.Title)) * titleCharWidth
	for _, p := range n.all {
		w := float64(len(p.Name())) * pinLabelCharW
		if w > width {
			width = w
		}
	}
	width += minBodyPadding
	if width < defaultNodeWidth {
		width = defaultNodeWidth
	}
	if n.widget.MinSize.X > width {
		width = n.widget.MinSize.X
	}

	rows := maxInt(len(n.inputs), len(n.outputs))
	if rows == 0 {
		rows = 1
	}
	height := float64(rows)*rowSpacing + rowSpacing // title row + pin rows
	if n.widget.MinSize.Y > 0 {
		height += n.widget.MinSize.Y
	}
	return Point{X: width, Y: height}
}

func (n *Node) resizeLocked() {
	min := n.minSizeLocked()
	if n.size.X < min.X {
		n.size.X = min.X
	}
	if n.size.Y < min.Y {
		n.size.Y = min.Y
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// PinPositions returns the scene-relative position of every pin, inputs
// along the left edge and outputs along the right edge, execution pins
// first in each column, each row rowSpacing pixels apart.
func (n *Node) PinPositions() map[string]Point {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string]Point, len(n.all))
	for i, p := range n.inputs {
		out[p.Name()] = Point{X: 0, Y: rowSpacing * float64(i+1)}
	}
	for i, p := range n.outputs {
		out[p.Name()] = Point{X: n.size.X, Y: rowSpacing * float64(i+1)}
	}
	return out
}

// NodeRecord is the serialized form of a Node (§4.C, §6).
type NodeRecord struct {
	ID               string            `json:"uuid"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Pos              [2]float64        `json:"pos"`
	Size             [2]float64        `json:"size"`
	Code             string            `json:"code"`
	GUICode          string            `json:"gui_code"`
	GUIGetValuesCode string            `json:"gui_get_values_code"`
	GUIState         map[string]any    `json:"gui_state"`
	Colors           map[string]string `json:"colors"`
	IsReroute        bool              `json:"is_reroute"`
}

// Serialize produces the record form of n.
func (n *Node) Serialize() NodeRecord {
	n.mu.RLock()
	defer n.mu.RUnlock()
	state := n.widget.State
	if state == nil {
		state = map[string]any{}
	}
	return NodeRecord{
		ID:               n.id,
		Title:            n.Title,
		Description:      n.Description,
		Pos:              [2]float64{n.Pos.X, n.Pos.Y},
		Size:             [2]float64{n.size.X, n.size.Y},
		Code:             n.code,
		GUICode:          n.guiCode,
		GUIGetValuesCode: n.guiGetValuesCode,
		GUIState:         state,
		Colors:           map[string]string{"title": n.colorTitle, "body": n.colorBody},
	}
}

// DeserializeNode rebuilds a Node from its record. gui_state is copied
// into the widget host's State as the first widget step, before the GUI
// sources are set; the core has no widget-rebuild step, and neither this
// function nor Graph.Deserialize orders gui_state after one. The stored
// size is raised to the node's minimum once the code has been parsed.
func DeserializeNode(rec NodeRecord) *Node {
	n := &Node{
		id:          rec.ID,
		Title:       rec.Title,
		Description: rec.Description,
		Pos:         Point{X: rec.Pos[0], Y: rec.Pos[1]},
		size:        Point{X: rec.Size[0], Y: rec.Size[1]},
		colorTitle:  rec.Colors["title"],
		colorBody:   rec.Colors["body"],
	}
	if n.colorTitle == "" {
		n.colorTitle = "#3C3C3C"
	}
	if n.colorBody == "" {
		n.colorBody = "#2B2B2B"
	}
	n.widget.State = rec.GUIState
	n.SetGUICode(rec.GUICode)
	n.SetGUIHandlerCode(rec.GUIGetValuesCode)
	n.SetCode(rec.Code)
	n.resizeLocked()
	return n
}
