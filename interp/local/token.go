// SPDX-License-Identifier: Apache-2.0

package local

// tokenKind identifies a lexical token kind in the interpreter's minimal
// Python-subset grammar.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokNumber
	tokString
	tokOp
	tokKeyword
)

var keywords = map[string]bool{
	"def": true, "return": true, "if": true, "elif": true, "else": true,
	"for": true, "in": true, "while": true, "import": true, "from": true,
	"True": true, "False": true, "None": true, "and": true, "or": true,
	"not": true, "pass": true, "break": true, "continue": true,
}

type token struct {
	kind tokenKind
	text string
	line int
}
