// SPDX-License-Identifier: Apache-2.0

package local

import (
	"fmt"
	"strings"
)

// pyTuple is an immutable sequence literal; only a pyTuple is unpacked
// across a node's output pins.
type pyTuple []any

// pyList is pointer-backed, unlike pyTuple, so that a mutating method
// (append and friends) changes the one object every alias of a list
// value shares — the same reference semantics *pyDict already has.
// A bare []any would have its header copied into the scope map on every
// assignment, silently detaching "xs.append(x)" from whatever "xs" the
// caller still holds.
type pyList struct{ items []any }

func newPyList(items []any) *pyList { return &pyList{items: items} }

// pyDict is a string-keyed mapping; the interpreter's dict literals only
// support hashable keys that stringify sensibly (numbers, strings, bools).
type pyDict struct {
	keys   []string
	values map[string]any
}

func newPyDict() *pyDict { return &pyDict{values: map[string]any{}} }

func (d *pyDict) set(key string, value any) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// pyModule is a preloaded stdlib module's namespace (§5.I).
type pyModule map[string]any

// builtinFunc is a Go-native callable exposed to interpreted code, either
// a stdlib module member or a global builtin like len/str/range.
type builtinFunc func(args []any) (any, error)

func (builtinFunc) isCallable() {}

// boundMethod binds a receiver to a method name resolved at call time
// (e.g. "hello".upper -> boundMethod{receiver: "hello", name: "upper"}).
type boundMethod struct {
	receiver any
	name     string
}

func pyTruthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != ""
	case *pyList:
		return len(x.items) > 0
	case pyTuple:
		return len(x) > 0
	case *pyDict:
		return len(x.keys) > 0
	default:
		return true
	}
}

func pyStr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case bool:
		if x {
			return "True"
		}
		return "False"
	case int64:
		return fmt.Sprintf("%d", x)
	case float64:
		return formatFloat(x)
	case string:
		return x
	case *pyList:
		return pySeqRepr(x.items, "[", "]")
	case pyTuple:
		return pySeqRepr(x, "(", ")")
	case *pyDict:
		var parts []string
		for _, k := range x.keys {
			parts = append(parts, fmt.Sprintf("%q: %s", k, pyRepr(x.values[k])))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func pyRepr(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return pyStr(v)
}

func pySeqRepr(elems []any, open, close string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = pyRepr(e)
	}
	return open + strings.Join(parts, ", ") + close
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func asFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func asInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case float64:
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func isNumber(v any) bool {
	switch v.(type) {
	case int64, float64, bool:
		return true
	}
	return false
}

func asSeq(v any) ([]any, bool) {
	switch x := v.(type) {
	case *pyList:
		return x.items, true
	case pyTuple:
		return x, true
	case string:
		out := make([]any, len(x))
		for i, r := range x {
			out[i] = string(r)
		}
		return out, true
	}
	return nil, false
}
