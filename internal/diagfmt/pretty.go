package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"codex/internal/diag"
	"codex/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:     mk(color.FgRed, color.Bold),
		warn:    mk(color.FgYellow, color.Bold),
		info:    mk(color.FgCyan, color.Bold),
		code:    mk(color.FgMagenta),
		path:    mk(color.Bold),
		gutter:  mk(color.FgBlue),
		caret:   mk(color.FgGreen, color.Bold),
		note:    mk(color.FgCyan),
		fix:     mk(color.FgGreen),
		added:   mk(color.FgGreen),
		removed: mk(color.FgRed),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in a human readable form with a source excerpt
// and a caret under the reported column.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for _, d := range bag.Pointers() {
		prettyOne(w, d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	path := formatPath(fs, d.Primary.File, opts.PathMode)
	loc := path
	if d.Primary.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", path, d.Primary.Line, d.Primary.Col)
	}
	fmt.Fprintf(w, "%s: %s %s [%s]: %s\n",
		pal.path.Sprint(loc),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Kind().String(),
		d.Message,
	)

	if d.Primary.IsValid() {
		writeExcerpt(w, d, fs, opts, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nloc := formatPath(fs, n.Pos.File, opts.PathMode)
			if n.Pos.IsValid() {
				nloc = fmt.Sprintf("%s:%d:%d", nloc, n.Pos.Line, n.Pos.Col)
			}
			fmt.Fprintf(w, "  %s %s: %s\n", pal.note.Sprint("note:"), nloc, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s apply=%q\n", pal.fix.Sprintf("fix #%d:", i+1), fix.Title, fix.New)
			if !opts.ShowPreview {
				continue
			}
			pv, err := buildFixPreview(fs, d, fix)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			fmt.Fprintf(w, "      %s\n", pal.removed.Sprint("- "+clip(expandTabs(pv.before), opts.Width)))
			fmt.Fprintf(w, "      %s\n", pal.added.Sprint("+ "+clip(expandTabs(pv.after), opts.Width)))
		}
	}
}

func writeExcerpt(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	var f *source.File
	if fs != nil {
		f = fs.Get(d.Primary.File)
	}
	line := d.Primary.Line
	first := line
	if f != nil && opts.Context > 0 {
		ctx := uint32(opts.Context)
		if ctx >= line {
			first = 1
		} else {
			first = line - ctx
		}
	}

	digits := len(fmt.Sprint(line))
	for n := first; n <= line; n++ {
		text := ""
		if f != nil {
			text = strings.TrimRight(f.GetLine(n), "\r\n")
		}
		if n == line && text == "" {
			text = d.Excerpt
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", digits, n), clip(expandTabs(text), opts.Width))
		if n == line {
			pad := caretColumn(text, d.Primary.Col)
			if opts.Width > 0 && pad >= int(opts.Width) {
				pad = int(opts.Width) - 1
			}
			fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprint(strings.Repeat(" ", digits)+" |"), strings.Repeat(" ", pad), pal.caret.Sprint("^"))
		}
	}
}

// caretColumn returns the display offset of the 1-based byte column col.
func caretColumn(line string, col uint32) int {
	if col <= 1 {
		return 0
	}
	end := int(col) - 1
	if end > len(line) {
		// колонка за концом строки (например, длина строки)
		return runewidth.StringWidth(expandTabs(line)) + end - len(line)
	}
	return runewidth.StringWidth(expandTabs(line[:end]))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	width := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - width%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			width += n
			continue
		}
		b.WriteRune(r)
		width += runewidth.RuneWidth(r)
	}
	return b.String()
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

// Short writes one diagnostic per line: path:line:col: SEVERITY CODE: message.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	if bag == nil {
		return
	}
	for _, d := range bag.Pointers() {
		path := formatPath(fs, d.Primary.File, mode)
		if d.Primary.IsValid() {
			fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, d.Primary.Line, d.Primary.Col, d.Severity, d.Code.ID(), d.Message)
		} else {
			fmt.Fprintf(w, "%s: %s %s: %s\n", path, d.Severity, d.Code.ID(), d.Message)
		}
	}
}
