package rules

import (
	"regexp"
	"strconv"
	"strings"

	"codex/internal/diag"
	"codex/internal/scan"
)

// EchoMarker introduces an expected-output comment in test fixtures.
const EchoMarker = "$CODEX:"

// EchoChecker reports "$CODEX: text" comments on lines that nothing else
// reported on. Then, when set, runs on every line: on a line without an echo
// it decides alone, on an echoed line it still runs and the line stops after it.
type EchoChecker struct {
	Then scan.Checker
}

func (c EchoChecker) Name() string {
	if c.Then != nil {
		return "echo+" + c.Then.Name()
	}
	return "echo"
}

func (c EchoChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	if !echo(ln, r) {
		return c.Then != nil && c.Then.Check(ln, r)
	}
	if c.Then != nil {
		c.Then.Check(ln, r)
	}
	return true
}

func echo(ln *scan.Line, r diag.Reporter) bool {
	if ln.Reported {
		return false
	}
	i := strings.Index(ln.Raw, EchoMarker)
	if i < 0 {
		return false
	}
	text := strings.TrimLeft(ln.Raw[i+len(EchoMarker):], " \t")
	if end := strings.IndexAny(text, "/*"); end >= 0 {
		text = text[:end]
	}
	text = strings.TrimRight(text, " \t")
	if text == "" {
		return false
	}
	diag.Report(r, diag.InfEcho, ln.RawPos(i+1), text).Emit()
	return true
}

const DefaultLineLimit = 256

// LineLengthChecker reports lines longer than Limit bytes.
type LineLengthChecker struct {
	Limit int
}

func (LineLengthChecker) Name() string { return "line-length" }

func (c LineLengthChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLineLimit
	}
	if len(ln.Raw) <= limit {
		return false
	}
	diag.Report(r, diag.StyLineTooLong, ln.RawPos(limit+1), "Line exceeds maximum length.").
		WithExcerpt(ln.Raw).
		Emit()
	return true
}

var (
	// FOO = 3, inside an enum body
	reEnumElement = regexp.MustCompile(`^\s*[A-Z_][A-Z0-9_]*\s*=\s*[^;]*$`)
	reConstDecl   = regexp.MustCompile(`\bconst\b[^=]*=`)
)

const magicOperators = "+-*/%=(<>"

// MagicNumberChecker reports numeric literals other than 0 and 1 used
// directly in expressions.
type MagicNumberChecker struct{}

func (MagicNumberChecker) Name() string { return "magic-number" }

func (MagicNumberChecker) Check(ln *scan.Line, r diag.Reporter) bool {
	clean := ln.Clean
	if strings.HasPrefix(strings.TrimSpace(clean), "#") || reEnumElement.MatchString(clean) || reConstDecl.MatchString(clean) {
		return false
	}
	col := magicNumber(clean)
	if col == 0 {
		return false
	}
	diag.Report(r, diag.StyMagicNumber, ln.Pos(col), "Magic number found. Consider using a named constant.").
		WithExcerpt(ln.Raw).
		Emit()
	return true
}

// magicNumber returns the 1-based column of the first magic number, or 0.
func magicNumber(line string) int {
	inD, inS := false, false
	for i := 0; i < len(line); i++ {
		b := line[i]
		if inD || inS {
			switch {
			case b == '\\':
				i++
			case b == '"' && inD:
				inD = false
			case b == '\'' && inS:
				inS = false
			}
			continue
		}
		switch {
		case b == '"':
			inD = true
		case b == '\'':
			inS = true
		case b >= '0' && b <= '9':
			if i > 0 && (isIdentByte(line[i-1]) || line[i-1] == '.') {
				continue
			}
			j := i
			for j < len(line) && (isIdentByte(line[j]) || line[j] == '.') {
				j++
			}
			lit := line[i:j]
			p := i - 1
			for p >= 0 && (line[p] == ' ' || line[p] == '\t') {
				p--
			}
			if p >= 0 && strings.IndexByte(magicOperators, line[p]) >= 0 && !trivialNumber(lit) {
				return i + 1
			}
			i = j - 1
		}
	}
	return 0
}

// trivialNumber reports whether lit is 0 or 1 in any notation; unparsable
// literals count as trivial.
func trivialNumber(lit string) bool {
	lower := strings.ToLower(lit)
	if strings.HasPrefix(lower, "0x") {
		v, err := strconv.ParseUint(strings.TrimRight(lower[2:], "ul"), 16, 64)
		return err != nil || v <= 1
	}
	v, err := strconv.ParseFloat(strings.TrimRight(lower, "ulf"), 64)
	return err != nil || v == 0 || v == 1
}
