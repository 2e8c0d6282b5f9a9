package rules

import (
	"fmt"

	"codex/internal/diag"
	"codex/internal/scan"
)

// C89Checker reports C99 constructs as syntax errors.
type C89Checker struct{}

func (C89Checker) Name() string { return "c89" }

func (C89Checker) Check(ln *scan.Line, r diag.Reporter) bool {
	for _, kw := range c89MissingKeywords {
		if col := findWord(ln.Clean, kw.word); col > 0 {
			diag.Report(r, diag.SynC99Keyword, ln.Pos(col), kw.msg).WithExcerpt(ln.Raw).Emit()
			return true
		}
	}
	feat, name, col := detectC99(ln.Clean, nil)
	var (
		code diag.Code
		msg  string
	)
	switch feat {
	case featForDecl:
		code, msg = diag.SynForLoopDecl, "Variable declaration in for loop not allowed in C89"
	case featDesignatedInit:
		code, msg = diag.SynDesignatedInit, "C99 designated initializer found - not available in C89"
	case featCompoundLiteral:
		code, msg = diag.SynCompoundLiteral, "C99 compound literal found - not available in C89"
	case featVariadicMacro:
		code, msg = diag.SynVariadicMacro, "C99 variadic macro found - not available in C89"
	case featFlexibleArray:
		code, msg = diag.SynFlexibleArray, "C99 flexible array member found - not available in C89"
	case featStdlibCall:
		code, msg = diag.SynC99Function, fmt.Sprintf("C99+ standard library function '%s' found - not available in C89", name)
	case featHeader:
		code, msg = diag.SynC99Header, fmt.Sprintf("C99+ header file %s found - not available in C89", name)
	default:
		return false
	}
	diag.Report(r, code, ln.Pos(col), msg).WithExcerpt(ln.Raw).Emit()
	return true
}

// C99Checker notes C99 constructs so that the target compiler can be
// double-checked.
type C99Checker struct{}

func (C99Checker) Name() string { return "c99" }

func (C99Checker) Check(ln *scan.Line, r diag.Reporter) bool {
	feat, _, col := detectC99(ln.Clean, c99Keywords)
	var what string
	switch feat {
	case featKeyword:
		what = "C99 keyword"
	case featForDecl:
		what = "C99 feature"
	case featDesignatedInit:
		what = "C99 designated initializer"
	case featCompoundLiteral:
		what = "C99 compound literal"
	case featVariadicMacro:
		what = "C99 variadic macro"
	case featFlexibleArray:
		what = "C99 flexible array member"
	case featStdlibCall:
		what = "C99+ standard library function"
	case featHeader:
		what = "C99+ header file"
	default:
		return false
	}
	diag.Report(r, diag.WrnC99Usage, ln.Pos(col), what+" detected - ensure your compiler supports C99").
		WithExcerpt(ln.Raw).
		Emit()
	return true
}
