// SPDX-License-Identifier: Apache-2.0

package local

import (
	"fmt"
	"strings"
)

func applyBinary(op string, l, r any) (any, error) {
	if op == "+" {
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}
		if ll, ok := asSeq(l); ok {
			if _, isStr := l.(string); !isStr {
				if rl, ok := asSeq(r); ok {
					combined := append(append([]any{}, ll...), rl...)
					if _, ok := l.(*pyList); ok {
						return newPyList(combined), nil
					}
					return pyTuple(combined), nil
				}
			}
		}
	}
	if op == "*" {
		if s, n, ok := stringRepeatOperands(l, r); ok {
			return strings.Repeat(s, int(n)), nil
		}
	}
	if !isNumber(l) || !isNumber(r) {
		return nil, fmt.Errorf("unsupported operand types for %s: %T and %T", op, l, r)
	}

	li, lIsInt := l.(int64)
	ri, rIsInt := r.(int64)
	bothInt := lIsInt && rIsInt

	switch op {
	case "/":
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return lf / rf, nil
	case "//":
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		if rf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		q := int64(lf / rf)
		if bothInt {
			return q, nil
		}
		return float64(q), nil
	case "%":
		if bothInt && ri != 0 {
			return li % ri, nil
		}
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		if rf == 0 {
			return nil, fmt.Errorf("modulo by zero")
		}
		m := lf - rf*float64(int64(lf/rf))
		return m, nil
	case "+", "-", "*", "**":
		if bothInt {
			switch op {
			case "+":
				return li + ri, nil
			case "-":
				return li - ri, nil
			case "*":
				return li * ri, nil
			case "**":
				return intPow(li, ri), nil
			}
		}
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		switch op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "**":
			return floatPow(lf, rf), nil
		}
	}
	return nil, fmt.Errorf("unsupported binary operator %q", op)
}

func stringRepeatOperands(l, r any) (string, int64, bool) {
	if s, ok := l.(string); ok {
		if n, ok := asInt(r); ok {
			return s, n, true
		}
	}
	if s, ok := r.(string); ok {
		if n, ok := asInt(l); ok {
			return s, n, true
		}
	}
	return "", 0, false
}

func intPow(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}

func floatPow(base, exp float64) float64 {
	result := 1.0
	neg := exp < 0
	n := exp
	if neg {
		n = -n
	}
	for i := 0.0; i < n; i++ {
		result *= base
	}
	if neg {
		return 1 / result
	}
	return result
}

func applyCompare(op string, l, r any) (bool, error) {
	if op == "in" {
		seq, ok := asSeq(r)
		if !ok {
			if d, ok := r.(*pyDict); ok {
				_, found := d.values[pyStr(l)]
				return found, nil
			}
			return false, fmt.Errorf("argument of type %T is not iterable", r)
		}
		for _, item := range seq {
			if pyEqual(item, l) {
				return true, nil
			}
		}
		return false, nil
	}
	if op == "==" {
		return pyEqual(l, r), nil
	}
	if op == "!=" {
		return !pyEqual(l, r), nil
	}
	if isNumber(l) && isNumber(r) {
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		switch op {
		case "<":
			return lf < rf, nil
		case ">":
			return lf > rf, nil
		case "<=":
			return lf <= rf, nil
		case ">=":
			return lf >= rf, nil
		}
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			switch op {
			case "<":
				return ls < rs, nil
			case ">":
				return ls > rs, nil
			case "<=":
				return ls <= rs, nil
			case ">=":
				return ls >= rs, nil
			}
		}
	}
	return false, fmt.Errorf("unsupported comparison %q between %T and %T", op, l, r)
}

func pyEqual(l, r any) bool {
	if isNumber(l) && isNumber(r) {
		lf, _ := asFloat(l)
		rf, _ := asFloat(r)
		return lf == rf
	}
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		return ok && ls == rs
	}
	if l == nil || r == nil {
		return l == nil && r == nil
	}
	return false
}
