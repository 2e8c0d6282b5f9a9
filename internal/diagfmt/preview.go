package diagfmt

import (
	"errors"
	"strings"

	"codex/internal/diag"
	"codex/internal/source"
)

type fixPreview struct {
	before string
	after  string
}

var errFixNotApplicable = errors.New("fix does not apply to the source line")

// buildFixPreview applies fix to the diagnostic's line: the first
// occurrence of fix.Old at or after the diagnostic column is replaced.
func buildFixPreview(fs *source.FileSet, d *diag.Diagnostic, fix diag.Fix) (fixPreview, error) {
	line := sourceLine(fs, d)
	if line == "" || fix.Old == "" {
		return fixPreview{}, errFixNotApplicable
	}
	from := 0
	if d.Primary.Col > 0 && int(d.Primary.Col)-1 <= len(line) {
		from = int(d.Primary.Col) - 1
	}
	i := strings.Index(line[from:], fix.Old)
	if i < 0 {
		// колонка могла указывать внутрь слова
		i = strings.Index(line, fix.Old)
		if i < 0 {
			return fixPreview{}, errFixNotApplicable
		}
		from = 0
	}
	at := from + i
	after := line[:at] + fix.New + line[at+len(fix.Old):]
	return fixPreview{before: line, after: after}, nil
}

// sourceLine returns the full line of the diagnostic, falling back to the
// stored excerpt.
func sourceLine(fs *source.FileSet, d *diag.Diagnostic) string {
	if fs != nil && d.Primary.Line > 0 {
		if f := fs.Get(d.Primary.File); f != nil {
			if line := strings.TrimRight(f.GetLine(d.Primary.Line), "\r\n"); line != "" {
				return line
			}
		}
	}
	return d.Excerpt
}
