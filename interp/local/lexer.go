// SPDX-License-Identifier: Apache-2.0

package local

import (
	"fmt"
	"strings"
)

// multiCharOps lists operators longer than one character, longest first
// so the scanner prefers the longest match.
var multiCharOps = []string{"**", "//", "==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "->"}

// tokenize converts source into a flat token stream with explicit
// tokIndent/tokDedent/tokNewline markers, the way Python's own tokenizer
// turns significant whitespace into structural tokens before parsing.
func tokenize(source string) ([]token, error) {
	lines := strings.Split(source, "\n")
	var toks []token
	indents := []int{0}

	for lineNo, raw := range lines {
		line := stripComment(raw)
		trimmed := strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(trimmed) == "" {
			continue
		}

		indent := leadingWidth(trimmed)
		content := trimmed[indent:]

		// Decorator lines (e.g. "@node_entry") mark a function definition
		// for the node-graph tooling but carry no runtime behavior of
		// their own here, so they are dropped the same way a blank or
		// comment-only line is.
		if strings.HasPrefix(content, "@") {
			continue
		}

		switch {
		case indent > indents[len(indents)-1]:
			indents = append(indents, indent)
			toks = append(toks, token{kind: tokIndent, line: lineNo + 1})
		case indent < indents[len(indents)-1]:
			for len(indents) > 1 && indent < indents[len(indents)-1] {
				indents = indents[:len(indents)-1]
				toks = append(toks, token{kind: tokDedent, line: lineNo + 1})
			}
			if indents[len(indents)-1] != indent {
				return nil, fmt.Errorf("line %d: inconsistent indentation", lineNo+1)
			}
		}

		lineToks, err := tokenizeLine(content, lineNo+1)
		if err != nil {
			return nil, err
		}
		toks = append(toks, lineToks...)
		toks = append(toks, token{kind: tokNewline, line: lineNo + 1})
	}

	for len(indents) > 1 {
		indents = indents[:len(indents)-1]
		toks = append(toks, token{kind: tokDedent, line: len(lines)})
	}
	toks = append(toks, token{kind: tokEOF, line: len(lines)})
	return toks, nil
}

func stripComment(line string) string {
	inString := byte(0)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if inString != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == inString {
				inString = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			inString = c
			continue
		}
		if c == '#' {
			return line[:i]
		}
	}
	return line
}

func leadingWidth(s string) int {
	n := 0
	for n < len(s) && (s[n] == ' ' || s[n] == '\t') {
		n++
	}
	return n
}

func tokenizeLine(s string, lineNo int) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '"' || c == '\'':
			start := i
			i++
			for i < len(s) && s[i] != c {
				if s[i] == '\\' {
					i++
				}
				i++
			}
			if i >= len(s) {
				return nil, fmt.Errorf("line %d: unterminated string literal", lineNo)
			}
			i++ // closing quote
			toks = append(toks, token{kind: tokString, text: s[start:i], line: lineNo})
		case isDigit(c):
			start := i
			for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
				i++
			}
			toks = append(toks, token{kind: tokNumber, text: s[start:i], line: lineNo})
		case isNameStart(c):
			start := i
			for i < len(s) && isNameChar(s[i]) {
				i++
			}
			word := s[start:i]
			// String literal prefixes (f"...", r"...") are tokenized as
			// part of the following string literal.
			if (word == "f" || word == "r" || word == "fr") && i < len(s) && (s[i] == '"' || s[i] == '\'') {
				quote := s[i]
				strStart := i
				i++
				for i < len(s) && s[i] != quote {
					if s[i] == '\\' {
						i++
					}
					i++
				}
				i++
				toks = append(toks, token{kind: tokString, text: word + s[strStart:i], line: lineNo})
				continue
			}
			if keywords[word] {
				toks = append(toks, token{kind: tokKeyword, text: word, line: lineNo})
			} else {
				toks = append(toks, token{kind: tokName, text: word, line: lineNo})
			}
		default:
			matched := false
			for _, op := range multiCharOps {
				if strings.HasPrefix(s[i:], op) {
					toks = append(toks, token{kind: tokOp, text: op, line: lineNo})
					i += len(op)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			toks = append(toks, token{kind: tokOp, text: string(c), line: lineNo})
			i++
		}
	}
	return toks, nil
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isNameStart(c byte) bool  { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isNameChar(c byte) bool   { return isNameStart(c) || isDigit(c) }
