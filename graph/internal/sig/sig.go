// SPDX-License-Identifier: Apache-2.0

// Package sig derives a node's pin signature from the source text of a
// decorated function, the way node_logic_handler.py uses Python's ast
// module — except Go has no ast module for Python, so this package is a
// small purpose-built scanner over the constrained subset of syntax the
// pin-derivation rules in SPEC_FULL.md §5.C actually need: a decorator
// list, a parameter list of `name` or `name: Type`, and a return
// annotation of a bare type or `Tuple[T1, T2, ...]`.
package sig

import (
	"regexp"
	"strings"
)

// Param is one positional parameter of the decorated function.
type Param struct {
	Name string
	Type string // lowercased annotation text; "any" if unannotated.
}

// Signature is the derived shape of a node's @node_entry function.
type Signature struct {
	FuncName    string
	Params      []Param
	OutputTypes []string // lowercased; one entry per output pin.
	OutputNames []string // from an "@outputs: a, b" docstring directive, or empty.
}

var (
	decoratorRe = regexp.MustCompile(`^@([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	defRe       = regexp.MustCompile(`^def\s+([A-Za-z_][A-Za-z0-9_]*)\s*\(`)
	outputsRe   = regexp.MustCompile(`@outputs:\s*(.+)`)
)

// Infer scans source for the first top-level function definition whose
// decorator list contains "node_entry" and returns its derived signature.
// ok is false if no such function exists (the node has no pins).
func Infer(source string) (Signature, bool) {
	lines := strings.Split(source, "\n")

	for i, line := range lines {
		trimmed := strings.TrimRight(line, "\r")
		m := defRe.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		if !precededByNodeEntry(lines, i) {
			continue
		}

		// A function definition's header may span multiple lines up to
		// the closing ':'; join lines until parens balance and a ':' is
		// found at depth 0.
		header, bodyStart := joinHeader(lines, i)

		paramsText, returnText, ok := splitSignature(header)
		if !ok {
			continue
		}

		s := Signature{FuncName: m[1]}
		s.Params = parseParams(paramsText)
		s.OutputTypes = parseReturn(returnText)
		s.OutputNames = findOutputsDirective(lines, bodyStart)
		return s, true
	}
	return Signature{}, false
}

// precededByNodeEntry walks backward over contiguous decorator lines
// immediately above defLine looking for "@node_entry".
func precededByNodeEntry(lines []string, defLine int) bool {
	for i := defLine - 1; i >= 0; i-- {
		t := strings.TrimSpace(lines[i])
		if t == "" {
			continue
		}
		m := decoratorRe.FindStringSubmatch(t)
		if m == nil {
			break
		}
		if m[1] == "node_entry" {
			return true
		}
	}
	return false
}

// joinHeader concatenates lines starting at start until parentheses
// balance to zero and a top-level ':' terminates the def header,
// returning the joined header text and the index of the first body line.
func joinHeader(lines []string, start int) (string, int) {
	var b strings.Builder
	depth := 0
	for i := start; i < len(lines); i++ {
		line := lines[i]
		b.WriteString(line)
		b.WriteString(" ")
		for _, r := range line {
			switch r {
			case '(', '[':
				depth++
			case ')', ']':
				depth--
			}
		}
		if depth <= 0 && strings.Contains(line, ":") {
			return b.String(), i + 1
		}
	}
	return b.String(), len(lines)
}

// splitSignature pulls the parameter list and return annotation out of a
// joined "def name(params) -> Return:" header.
func splitSignature(header string) (params string, ret string, ok bool) {
	open := strings.Index(header, "(")
	if open < 0 {
		return "", "", false
	}
	depth := 0
	close := -1
	for i := open; i < len(header); i++ {
		switch header[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				close = i
			}
		}
		if close >= 0 {
			break
		}
	}
	if close < 0 {
		return "", "", false
	}
	params = header[open+1 : close]

	rest := header[close+1:]
	colon := strings.LastIndex(rest, ":")
	if colon < 0 {
		return "", "", false
	}
	rest = rest[:colon]
	if arrow := strings.Index(rest, "->"); arrow >= 0 {
		ret = strings.TrimSpace(rest[arrow+2:])
	}
	return params, ret, true
}

// parseParams splits a parameter list on top-level commas and derives a
// Param per entry. Defaults ("= expr") are ignored; bare names with no
// annotation get type "any".
func parseParams(paramsText string) []Param {
	var out []Param
	for _, part := range splitTopLevel(paramsText, ',') {
		part = strings.TrimSpace(part)
		if part == "" || part == "self" {
			continue
		}
		name := part
		typeName := "any"
		if colon := strings.Index(part, ":"); colon >= 0 {
			name = strings.TrimSpace(part[:colon])
			rest := part[colon+1:]
			if eq := strings.Index(rest, "="); eq >= 0 {
				rest = rest[:eq]
			}
			typeName = normalizeType(strings.TrimSpace(rest))
		} else if eq := strings.Index(part, "="); eq >= 0 {
			name = strings.TrimSpace(part[:eq])
		}
		if name == "" {
			continue
		}
		out = append(out, Param{Name: name, Type: typeName})
	}
	return out
}

// parseReturn derives the list of output type names from a return
// annotation: a Tuple[...] subscript yields one entry per element,
// anything else (List[...] included) yields a single entry.
func parseReturn(returnText string) []string {
	returnText = strings.TrimSpace(returnText)
	if returnText == "" || returnText == "None" {
		return nil
	}
	open := strings.Index(returnText, "[")
	if open >= 0 && strings.HasSuffix(returnText, "]") {
		head := strings.ToLower(strings.TrimSpace(returnText[:open]))
		if head == "tuple" {
			inner := returnText[open+1 : len(returnText)-1]
			var out []string
			for _, elt := range splitTopLevel(inner, ',') {
				elt = strings.TrimSpace(elt)
				if elt == "" {
					continue
				}
				out = append(out, normalizeType(elt))
			}
			return out
		}
	}
	return []string{normalizeType(returnText)}
}

// normalizeType lowercases a type annotation's source text verbatim,
// preserving subscripts like "List[Dict[str, int]]" so color derivation
// and equality stay coherent.
func normalizeType(t string) string {
	t = strings.TrimSpace(t)
	if t == "" || t == "None" {
		return TypeAny
	}
	return strings.ToLower(t)
}

// TypeAny mirrors graph.TypeAny without importing the graph package
// (sig is a leaf package consumed by graph).
const TypeAny = "any"

// splitTopLevel splits s on sep, ignoring separators nested inside
// brackets or parens.
func splitTopLevel(s string, sep byte) []string {
	var out []string
	depth := 0
	last := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
		case sep:
			if depth == 0 {
				out = append(out, s[last:i])
				last = i + 1
			}
		}
	}
	out = append(out, s[last:])
	return out
}

// findOutputsDirective looks for a "@outputs: a, b, c" line inside the
// function's docstring, starting a short window after the header.
func findOutputsDirective(lines []string, bodyStart int) []string {
	limit := bodyStart + 6
	if limit > len(lines) {
		limit = len(lines)
	}
	for i := bodyStart; i < limit; i++ {
		m := outputsRe.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		var names []string
		for _, n := range strings.Split(m[1], ",") {
			n = strings.TrimSpace(n)
			n = strings.Trim(n, `"'`)
			if n != "" {
				names = append(names, n)
			}
		}
		return names
	}
	return nil
}
