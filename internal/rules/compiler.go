package rules

import (
	"fmt"
	"strings"

	"codex/internal/diag"
	"codex/internal/scan"
)

// NDKChecker reports words reserved by the NDK compiler-specific header.
type NDKChecker struct{}

func (NDKChecker) Name() string { return "ndk" }

func (NDKChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	for _, id := range identifiers(ln.Clean) {
		if _, ok := ndkReservedWords[id.Text]; !ok {
			continue
		}
		b := diag.Report(r, diag.CmpNDKReserved, ln.Pos(id.Col),
			fmt.Sprintf("NDK reserved word '%s' found - use universal syntax instead", id.Text)).
			WithExcerpt(ln.Raw)
		if repl := universalReplacements[id.Text]; repl != "" {
			b.WithFix("use "+repl, id.Text, repl)
		}
		b.Emit()
		return true
	}
	return false
}

// CompilerChecker reports keywords a specific Amiga compiler rejects and
// suggests the universal NDK macro when one exists.
type CompilerChecker struct {
	name     string
	code     diag.Code
	keywords []string
	// phrase completes "Keyword 'x' ..."
	phrase string
}

func NewSASCChecker() CompilerChecker {
	return CompilerChecker{name: "sasc", code: diag.CmpSASC, keywords: sascKeywords, phrase: "is incompatible with SAS/C"}
}

func NewVBCCChecker() CompilerChecker {
	return CompilerChecker{name: "vbcc", code: diag.CmpVBCC, keywords: vbccKeywords, phrase: "is incompatible with VBCC"}
}

func NewDICEChecker() CompilerChecker {
	words := make([]string, 0, len(ndkReservedWords))
	for w := range ndkReservedWords {
		words = append(words, w)
	}
	return CompilerChecker{name: "dice", code: diag.CmpDICE, keywords: words, phrase: "is DICE-incompatible"}
}

func (c CompilerChecker) Name() string { return c.name }

func (c CompilerChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	for _, id := range identifiers(ln.Clean) {
		if !c.matches(id.Text) {
			continue
		}
		repl := universalReplacements[id.Text]
		var msg string
		if repl != "" {
			msg = fmt.Sprintf("Keyword '%s' %s. Use universal syntax '%s' instead.", id.Text, c.phrase, repl)
		} else {
			msg = fmt.Sprintf("Keyword '%s' %s and has no direct universal equivalent.", id.Text, c.phrase)
		}
		b := diag.Report(r, c.code, ln.Pos(id.Col), msg).WithExcerpt(ln.Raw)
		if repl != "" {
			b.WithFix("use "+repl, id.Text, repl)
		}
		b.Emit()
		return true
	}
	return false
}

func (c CompilerChecker) matches(word string) bool {
	for _, kw := range c.keywords {
		// "__builtin_" покрывает всё семейство встроенных функций
		if strings.HasSuffix(kw, "_") && !strings.HasSuffix(kw, "__") {
			if strings.HasPrefix(word, kw) {
				return true
			}
			continue
		}
		if word == kw {
			return true
		}
	}
	return false
}

// MemSafeChecker reports calls to memory-unsafe C library functions.
type MemSafeChecker struct{}

func (MemSafeChecker) Name() string { return "memsafe" }

func (MemSafeChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	for _, id := range identifiers(ln.Clean) {
		repl, ok := memsafeReplacements[id.Text]
		if !ok || !id.Call {
			continue
		}
		var msg string
		switch id.Text {
		case "realpath":
			msg = "Unsafe use of 'realpath' suspected. Ensure the second argument is a valid buffer, not NULL."
		case "scanf", "fscanf", "sscanf":
			msg = fmt.Sprintf("Unsafe use of '%s' suspected. Ensure format string uses width specifiers (e.g., '%%10s') and check the return value.", id.Text)
		default:
			msg = fmt.Sprintf("Memory-unsafe function '%s' found - consider using '%s' instead", id.Text, repl)
		}
		diag.Report(r, diag.WrnUnsafeFunction, ln.Pos(id.Col), msg).WithExcerpt(ln.Raw).Emit()
		return true
	}
	return false
}
