// SPDX-License-Identifier: Apache-2.0

package local

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// builtins are the always-available global functions (Python's
// __builtins__ subset). Output goes through the interpreter's stdout
// buffer via print, set per-call in Call.
var builtins map[string]builtinFunc

func init() {
	builtins = map[string]builtinFunc{
		"len": func(args []any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("len() takes exactly one argument")
			}
			switch v := args[0].(type) {
			case string:
				return int64(len([]rune(v))), nil
			case *pyList:
				return int64(len(v.items)), nil
			case pyTuple:
				return int64(len(v)), nil
			case *pyDict:
				return int64(len(v.keys)), nil
			}
			return nil, fmt.Errorf("object of type %T has no len()", args[0])
		},
		"str": func(args []any) (any, error) { return pyStr(arg0(args)), nil },
		"int": func(args []any) (any, error) {
			switch v := arg0(args).(type) {
			case string:
				i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
				if err != nil {
					return nil, fmt.Errorf("invalid literal for int(): %q", v)
				}
				return i, nil
			default:
				i, _ := asInt(v)
				return i, nil
			}
		},
		"float": func(args []any) (any, error) {
			switch v := arg0(args).(type) {
			case string:
				f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
				if err != nil {
					return nil, fmt.Errorf("invalid literal for float(): %q", v)
				}
				return f, nil
			default:
				f, _ := asFloat(v)
				return f, nil
			}
		},
		"bool": func(args []any) (any, error) { return pyTruthy(arg0(args)), nil },
		"abs": func(args []any) (any, error) {
			if i, ok := arg0(args).(int64); ok {
				if i < 0 {
					return -i, nil
				}
				return i, nil
			}
			f, _ := asFloat(arg0(args))
			return math.Abs(f), nil
		},
		"round": func(args []any) (any, error) {
			f, _ := asFloat(arg0(args))
			return int64(math.Round(f)), nil
		},
		"min": func(args []any) (any, error) { return reduceNumeric(args, func(a, b float64) bool { return a < b }) },
		"max": func(args []any) (any, error) { return reduceNumeric(args, func(a, b float64) bool { return a > b }) },
		"sum": func(args []any) (any, error) {
			seq, ok := asSeq(arg0(args))
			if !ok {
				return nil, fmt.Errorf("sum() argument must be iterable")
			}
			var total float64
			allInt := true
			for _, v := range seq {
				f, ok := asFloat(v)
				if !ok {
					return nil, fmt.Errorf("unsupported operand type for sum()")
				}
				if _, ok := v.(int64); !ok {
					allInt = false
				}
				total += f
			}
			if allInt {
				return int64(total), nil
			}
			return total, nil
		},
		"range": func(args []any) (any, error) { return buildRange(args) },
		"print": func(args []any) (any, error) { return nil, nil }, // overridden per-call in Call
		"list": func(args []any) (any, error) {
			if len(args) == 0 {
				return newPyList(nil), nil
			}
			seq, ok := asSeq(args[0])
			if !ok {
				return nil, fmt.Errorf("list() argument must be iterable")
			}
			return newPyList(append([]any{}, seq...)), nil
		},
		"tuple": func(args []any) (any, error) {
			if len(args) == 0 {
				return pyTuple(nil), nil
			}
			seq, ok := asSeq(args[0])
			if !ok {
				return nil, fmt.Errorf("tuple() argument must be iterable")
			}
			return pyTuple(append([]any{}, seq...)), nil
		},
	}
}

func arg0(args []any) any {
	if len(args) == 0 {
		return nil
	}
	return args[0]
}

func reduceNumeric(args []any, better func(a, b float64) bool) (any, error) {
	var seq []any
	if len(args) == 1 {
		if s, ok := asSeq(args[0]); ok {
			seq = s
		} else {
			seq = args
		}
	} else {
		seq = args
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("arg is an empty sequence")
	}
	best := seq[0]
	bestF, _ := asFloat(best)
	for _, v := range seq[1:] {
		f, _ := asFloat(v)
		if better(f, bestF) {
			best, bestF = v, f
		}
	}
	return best, nil
}

func buildRange(args []any) (*pyList, error) {
	var start, stop, step int64 = 0, 0, 1
	switch len(args) {
	case 1:
		s, ok := asInt(args[0])
		if !ok {
			return nil, fmt.Errorf("range() argument must be an integer")
		}
		stop = s
	case 2:
		s0, ok0 := asInt(args[0])
		s1, ok1 := asInt(args[1])
		if !ok0 || !ok1 {
			return nil, fmt.Errorf("range() arguments must be integers")
		}
		start, stop = s0, s1
	case 3:
		s0, ok0 := asInt(args[0])
		s1, ok1 := asInt(args[1])
		s2, ok2 := asInt(args[2])
		if !ok0 || !ok1 || !ok2 || s2 == 0 {
			return nil, fmt.Errorf("range() arguments must be non-zero integers")
		}
		start, stop, step = s0, s1, s2
	default:
		return nil, fmt.Errorf("range() expects 1 to 3 arguments")
	}
	var items []any
	if step > 0 {
		for i := start; i < stop; i += step {
			items = append(items, i)
		}
	} else {
		for i := start; i > stop; i += step {
			items = append(items, i)
		}
	}
	return newPyList(items), nil
}

// callMethod dispatches a bound method call on a string/list/dict
// receiver — the handful of methods PyFlowGraph node bodies commonly
// use (.upper/.lower/.strip/.split/.join/.format on strings,
// .append/.get on lists/dicts).
func callMethod(receiver any, name string, args []any) (any, error) {
	switch r := receiver.(type) {
	case string:
		return callStringMethod(r, name, args)
	case *pyList:
		return callListMethod(r, name, args)
	case *pyDict:
		return callDictMethod(r, name, args)
	}
	return nil, fmt.Errorf("object of type %T has no method %q", receiver, name)
}

func callStringMethod(s, name string, args []any) (any, error) {
	switch name {
	case "upper":
		return strings.ToUpper(s), nil
	case "lower":
		return strings.ToLower(s), nil
	case "strip":
		return strings.TrimSpace(s), nil
	case "title":
		return strings.Title(strings.ToLower(s)), nil
	case "capitalize":
		if s == "" {
			return s, nil
		}
		return strings.ToUpper(s[:1]) + strings.ToLower(s[1:]), nil
	case "split":
		sep := " "
		if len(args) > 0 {
			sep, _ = args[0].(string)
		}
		parts := strings.Fields(s)
		if len(args) > 0 {
			parts = strings.Split(s, sep)
		}
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = p
		}
		return newPyList(out), nil
	case "join":
		seq, ok := asSeq(arg0(args))
		if !ok {
			return nil, fmt.Errorf("join() argument must be iterable")
		}
		parts := make([]string, len(seq))
		for i, v := range seq {
			parts[i] = pyStr(v)
		}
		return strings.Join(parts, s), nil
	case "replace":
		if len(args) != 2 {
			return nil, fmt.Errorf("replace() takes 2 arguments")
		}
		old, _ := args[0].(string)
		newS, _ := args[1].(string)
		return strings.ReplaceAll(s, old, newS), nil
	case "startswith":
		p, _ := arg0(args).(string)
		return strings.HasPrefix(s, p), nil
	case "endswith":
		p, _ := arg0(args).(string)
		return strings.HasSuffix(s, p), nil
	case "format":
		return formatString(s, args), nil
	}
	return nil, fmt.Errorf("str has no method %q", name)
}

// formatString implements a minimal subset of str.format: positional
// "{}" and "{0}" placeholders only (no named fields or format specs).
func formatString(s string, args []any) string {
	var b strings.Builder
	auto := 0
	i := 0
	for i < len(s) {
		if s[i] == '{' {
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			spec := s[i+1 : i+end]
			idx := auto
			if spec != "" {
				if n, err := strconv.Atoi(spec); err == nil {
					idx = n
				}
			} else {
				auto++
			}
			if idx < len(args) {
				b.WriteString(pyStr(args[idx]))
			}
			i += end + 1
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// callListMethod mutates l in place for append, matching Python's list
// methods, which mutate the receiver and return None rather than a new
// list.
func callListMethod(l *pyList, name string, args []any) (any, error) {
	switch name {
	case "append":
		l.items = append(l.items, arg0(args))
		return nil, nil
	case "count":
		n := int64(0)
		for _, v := range l.items {
			if pyEqual(v, arg0(args)) {
				n++
			}
		}
		return n, nil
	case "index":
		for i, v := range l.items {
			if pyEqual(v, arg0(args)) {
				return int64(i), nil
			}
		}
		return nil, fmt.Errorf("value not found in list")
	}
	return nil, fmt.Errorf("list has no method %q", name)
}

func callDictMethod(d *pyDict, name string, args []any) (any, error) {
	switch name {
	case "get":
		key := pyStr(arg0(args))
		if v, ok := d.values[key]; ok {
			return v, nil
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return nil, nil
	case "keys":
		out := make([]any, len(d.keys))
		for i, k := range d.keys {
			out[i] = k
		}
		return newPyList(out), nil
	case "values":
		out := make([]any, len(d.keys))
		for i, k := range d.keys {
			out[i] = d.values[k]
		}
		return newPyList(out), nil
	}
	return nil, fmt.Errorf("dict has no method %q", name)
}

// stdlibModules is the small, fixed preload of Python standard-library
// modules node bodies may import (§5.I): math, random and time, each
// with a handful of members.
var stdlibModules map[string]pyModule

func init() {
	stdlibModules = map[string]pyModule{
		"math": {
			"pi":    math.Pi,
			"e":     math.E,
			"sqrt":  builtinFunc(func(a []any) (any, error) { f, _ := asFloat(arg0(a)); return math.Sqrt(f), nil }),
			"floor": builtinFunc(func(a []any) (any, error) { f, _ := asFloat(arg0(a)); return int64(math.Floor(f)), nil }),
			"ceil":  builtinFunc(func(a []any) (any, error) { f, _ := asFloat(arg0(a)); return int64(math.Ceil(f)), nil }),
			"pow": builtinFunc(func(a []any) (any, error) {
				if len(a) != 2 {
					return nil, fmt.Errorf("pow() takes 2 arguments")
				}
				base, _ := asFloat(a[0])
				exp, _ := asFloat(a[1])
				return math.Pow(base, exp), nil
			}),
			"fabs": builtinFunc(func(a []any) (any, error) { f, _ := asFloat(arg0(a)); return math.Abs(f), nil }),
		},
		"random": {
			"random":  builtinFunc(func(a []any) (any, error) { return rand.Float64(), nil }),
			"randint": builtinFunc(func(a []any) (any, error) { return randint(a) }),
			"choice": builtinFunc(func(a []any) (any, error) {
				seq, ok := asSeq(arg0(a))
				if !ok || len(seq) == 0 {
					return nil, fmt.Errorf("choice() argument must be a non-empty sequence")
				}
				return seq[rand.Intn(len(seq))], nil
			}),
		},
		"time": {
			"time":  builtinFunc(func(a []any) (any, error) { return float64(time.Now().UnixNano()) / 1e9, nil }),
			"sleep": builtinFunc(func(a []any) (any, error) { return nil, nil }), // no-op: node execution must not block on wall time
		},
	}
}

func randint(a []any) (any, error) {
	if len(a) != 2 {
		return nil, fmt.Errorf("randint() takes 2 arguments")
	}
	lo, _ := asInt(a[0])
	hi, _ := asInt(a[1])
	if hi < lo {
		return nil, fmt.Errorf("randint() high must be >= low")
	}
	return lo + rand.Int63n(hi-lo+1), nil
}
