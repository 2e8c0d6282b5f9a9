package scan

import "strings"

// DefaultMaxDepth bounds tracked brace nesting. Opens beyond it are ignored.
const DefaultMaxDepth = 32

var declKeywords = map[string]struct{}{
	"auto": {}, "char": {}, "const": {}, "double": {}, "enum": {},
	"extern": {}, "float": {}, "int": {}, "long": {}, "register": {},
	"short": {}, "signed": {}, "static": {}, "struct": {}, "typedef": {},
	"union": {}, "unsigned": {}, "void": {}, "volatile": {},
}

// IsDeclKeyword reports whether word starts a C89 declaration.
func IsDeclKeyword(word string) bool {
	_, ok := declKeywords[word]
	return ok
}

// Classification is what BlockTracker thinks a sanitized line is.
type Classification uint8

const (
	ClassNone Classification = iota
	// ClassDeclaration is a simple declaration: a semicolon comes before
	// any parenthesis.
	ClassDeclaration
	// ClassComplexDeclaration starts with a declaration keyword but a
	// parenthesis precedes any semicolon (prototypes, function pointers)
	// or there is no semicolon at all. Such lines are not classified.
	ClassComplexDeclaration
	// ClassLabel covers case/default labels and lines opening with '}'.
	ClassLabel
	ClassStatement
)

func (c Classification) String() string {
	switch c {
	case ClassDeclaration:
		return "declaration"
	case ClassComplexDeclaration:
		return "complex-declaration"
	case ClassLabel:
		return "label"
	case ClassStatement:
		return "statement"
	}
	return "none"
}

// FirstToken returns the first whitespace-delimited token of s and its
// 1-based column, or "", 0 for a blank line.
func FirstToken(s string) (string, int) {
	start := strings.IndexFunc(s, func(r rune) bool { return !isSpace(r) })
	if start < 0 {
		return "", 0
	}
	end := strings.IndexFunc(s[start:], isSpace)
	if end < 0 {
		return s[start:], start + 1
	}
	return s[start : start+end], start + 1
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

// Classify decides the kind of a sanitized line. col is the 1-based column
// of its first non-blank byte.
func Classify(clean string) (class Classification, col int) {
	tok, col := FirstToken(clean)
	if tok == "" {
		return ClassNone, 0
	}
	if IsDeclKeyword(tok) {
		trimmed := clean[col-1:]
		semi := strings.IndexByte(trimmed, ';')
		paren := strings.IndexByte(trimmed, '(')
		if semi >= 0 && (paren < 0 || semi < paren) {
			return ClassDeclaration, col
		}
		return ClassComplexDeclaration, col
	}
	if tok == "case" || tok == "default" || clean[col-1] == '}' {
		return ClassLabel, col
	}
	return ClassStatement, col
}

// BlockTracker follows brace depth and remembers, per depth, whether an
// ordinary statement has been seen since that depth was entered.
type BlockTracker struct {
	// seen[0] is file scope; Depth() == len(seen)-1
	seen     []bool
	maxDepth int
}

// NewBlockTracker creates a tracker at depth 0. maxDepth <= 0 selects
// DefaultMaxDepth.
func NewBlockTracker(maxDepth int) *BlockTracker {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	seen := make([]bool, 1, 8)
	return &BlockTracker{seen: seen, maxDepth: maxDepth}
}

func (b *BlockTracker) Depth() int {
	return len(b.seen) - 1
}

func (b *BlockTracker) MaxDepth() int {
	return b.maxDepth
}

// StatementSeen reports the flag of the current depth.
func (b *BlockTracker) StatementSeen() bool {
	return b.seen[len(b.seen)-1]
}

// Check classifies clean with the depth at line start. It records
// statements and reports a violation when a simple declaration follows a
// statement inside a block. col points at the declaration.
func (b *BlockTracker) Check(clean string) (violation bool, col int) {
	class, col := Classify(clean)
	depth := b.Depth()
	switch class {
	case ClassDeclaration:
		if depth > 0 && b.seen[depth] {
			return true, col
		}
	case ClassStatement:
		if depth > 0 {
			b.seen[depth] = true
		}
	}
	return false, 0
}

// Update applies the braces of clean to the depth stack. It runs after all
// checks of the line, whatever they reported.
func (b *BlockTracker) Update(clean string) {
	for i := 0; i < len(clean); i++ {
		switch clean[i] {
		case '{':
			if b.Depth() < b.maxDepth {
				b.seen = append(b.seen, false)
			}
		case '}':
			if b.Depth() > 0 {
				b.seen = b.seen[:len(b.seen)-1]
			}
		}
	}
}

// Snapshot copies the per-depth statement flags.
func (b *BlockTracker) Snapshot() []bool {
	out := make([]bool, len(b.seen))
	copy(out, b.seen)
	return out
}
