package diag

import (
	"codex/internal/source"
)

type Note struct {
	Pos source.Pos
	Msg string
}

// Fix suggests replacing Old with New on the diagnostic's line.
type Fix struct {
	Title string
	Old   string
	New   string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Pos
	// Excerpt is the offending source line, already cut with Excerpt.
	Excerpt string
	Notes   []Note
	Fixes   []Fix
}

func New(sev Severity, code Code, primary source.Pos, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func (d Diagnostic) WithNote(pos source.Pos, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Pos: pos, Msg: msg})
	return d
}

func (d Diagnostic) WithFix(title, oldText, newText string) Diagnostic {
	d.Fixes = append(d.Fixes, Fix{Title: title, Old: oldText, New: newText})
	return d
}

// Kind reports the presentation group of the diagnostic.
func (d Diagnostic) Kind() Kind {
	return d.Code.Kind()
}
