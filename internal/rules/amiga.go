package rules

import (
	"regexp"
	"strings"

	"codex/internal/diag"
	"codex/internal/scan"
)

type typeRule struct {
	re   *regexp.Regexp
	code diag.Code
	msg  string
}

// Порядок важен: более специфичные шаблоны идут первыми.
var amigaTypeRules = []typeRule{
	{regexp.MustCompile(`\bconst\s+char\s*\*`), diag.WrnAmigaType, "Use Amiga types (CONST_STRPTR) instead of const char*"},
	{regexp.MustCompile(`\bunsigned\s+char\s*\*`), diag.WrnAmigaType, "Use Amiga types (STRPTR) instead of unsigned char* for strings"},
	{regexp.MustCompile(`\bchar\s*\*`), diag.WrnAmigaType, "Use Amiga types (UBYTE* or STRPTR) instead of char*"},
	{regexp.MustCompile(`\bunsigned\s+(?:long|char|short|int)\b`), diag.StyAmigaPrimType, "Use Amiga primitive types (ULONG, UBYTE, UWORD) instead of standard C types"},
	{regexp.MustCompile(`\blong\b`), diag.WrnAmigaType, "Use Amiga types (LONG) instead of long"},
	{regexp.MustCompile(`\bint\b`), diag.WrnAmigaType, "Use Amiga types (ULONG) instead of int"},
	{regexp.MustCompile(`\bshort\b`), diag.WrnAmigaType, "Use Amiga types (WORD) instead of short"},
	{regexp.MustCompile(`\bfloat\b`), diag.WrnAmigaType, "Use Amiga types (FLOAT) instead of float"},
	{regexp.MustCompile(`\bdouble\b`), diag.WrnAmigaType, "Use Amiga types (DOUBLE) instead of double"},
	{regexp.MustCompile(`\bbool\b`), diag.WrnAmigaType, "Use Amiga types (BOOL) instead of bool"},
	{regexp.MustCompile(`\bvoid\s*\*`), diag.WrnAmigaType, "Consider using Amiga types (APTR) instead of void* for untyped pointers"},
}

var deprecatedTypes = map[string]string{
	"USHORT": "UWORD",
	"SHORT":  "WORD",
	"COUNT":  "WORD",
	"UCOUNT": "UWORD",
	"CPTR":   "ULONG",
}

var specialTypes = map[string]string{
	"LONGBITS": "is for bit manipulation",
	"WORDBITS": "is for bit manipulation",
	"BYTEBITS": "is for bit manipulation",
	"RPTR":     "is for relative pointers",
}

var rePointerZero = regexp.MustCompile(`\*\s*[A-Za-z_]\w*\s*=\s*(0)\s*(?:[;,)]|$)`)

// AmigaChecker enforces Amiga NDK coding conventions.
type AmigaChecker struct {
	// PascalCase reports function declarations with lower-case names.
	PascalCase bool
}

func (AmigaChecker) Name() string { return "amiga" }

func (c AmigaChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	clean := ln.Clean
	if strings.HasPrefix(strings.TrimSpace(clean), "#") {
		return false
	}
	ids := identifiers(clean)

	for _, rule := range amigaTypeRules {
		loc := firstMatch(rule.re, clean)
		if loc == nil {
			continue
		}
		diag.Report(r, rule.code, ln.Pos(loc[0]+1), rule.msg).WithExcerpt(ln.Raw).Emit()
		return true
	}

	for _, id := range ids {
		if repl, ok := deprecatedTypes[id.Text]; ok {
			diag.Report(r, diag.WrnDeprecatedType, ln.Pos(id.Col), id.Text+" is deprecated - use "+repl+" instead").
				WithExcerpt(ln.Raw).
				WithFix("use "+repl, id.Text, repl).
				Emit()
			return true
		}
		if why, ok := specialTypes[id.Text]; ok {
			diag.Report(r, diag.WrnSpecialType, ln.Pos(id.Col), id.Text+" "+why+" - consider if you really need this").
				WithExcerpt(ln.Raw).
				Emit()
			return true
		}
	}

	if c.PascalCase {
		if id, ok := declaredFunction(clean, ids); ok && !isPascalCase(id.Text) {
			diag.Report(r, diag.WrnPascalCase, ln.Pos(id.Col), "Use PascalCase function names").
				WithExcerpt(ln.Raw).
				Emit()
			return true
		}
	}

	if m := firstMatch(rePointerZero, clean); m != nil {
		diag.Report(r, diag.StyPointerZero, ln.Pos(m[2]+1), "Assigning 0 to a pointer. Use the Amiga constant NULL instead.").
			WithExcerpt(ln.Raw).
			WithFix("use NULL", "0", "NULL").
			Emit()
		return true
	}
	return false
}

// declaredFunction finds the name in a declaration such as
// "static LONG do_thing(void)": an identifier followed by '(' and preceded
// only by type words and '*'.
func declaredFunction(clean string, ids []Ident) (Ident, bool) {
	if len(ids) < 2 || skipBlank(clean, 0) != ids[0].Col-1 {
		return Ident{}, false
	}
	if _, kw := statementKeywords[ids[0].Text]; kw || ids[0].Call {
		return Ident{}, false
	}
	for i := 1; i < len(ids); i++ {
		prev := ids[i-1]
		gap := clean[prev.Col-1+len(prev.Text) : ids[i].Col-1]
		if strings.Trim(gap, " \t*") != "" {
			return Ident{}, false
		}
		if ids[i].Call {
			return ids[i], true
		}
	}
	return Ident{}, false
}

func isPascalCase(name string) bool {
	if _, ok := stdlibFunctions[name]; ok {
		return true
	}
	if _, ok := amigaFunctions[name]; ok {
		return true
	}
	return name == "" || !(name[0] >= 'a' && name[0] <= 'z')
}

// firstMatch returns the submatch indexes of the first match of re that
// does not start inside a literal.
func firstMatch(re *regexp.Regexp, line string) []int {
	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		if !inLiteral(line, m[0]) {
			return m
		}
	}
	return nil
}

// inLiteral reports whether byte offset off of line is inside a string or
// char literal.
func inLiteral(line string, off int) bool {
	inD, inS := false, false
	for i := 0; i < len(line) && i < off; i++ {
		switch b := line[i]; {
		case (inD || inS) && b == '\\':
			i++
		case b == '"' && !inS:
			inD = !inD
		case b == '\'' && !inD:
			inS = !inS
		}
	}
	return inD || inS
}
