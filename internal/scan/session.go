package scan

import (
	"strings"

	"codex/internal/diag"
	"codex/internal/source"

	"fortio.org/safecast"
)

// Line is what rule checkers see for one source line.
type Line struct {
	File source.FileID
	Num  uint32
	// Raw is the line as read, used for excerpts.
	Raw string
	// Clean is the sanitized line.
	Clean string
	// Reported is true when an earlier stage already reported on this line.
	Reported bool
	// Truncated is true when Raw was cut to source.MaxLineLength.
	Truncated bool
	// rawOffsets maps Clean byte offsets to Raw byte offsets; nil means
	// the two are identical.
	rawOffsets []int
}

// RawCol converts a 1-based column of Clean into a column of Raw.
func (ln *Line) RawCol(col int) int {
	if col <= 0 {
		return 1
	}
	if ln.rawOffsets == nil {
		return col
	}
	if col-1 < len(ln.rawOffsets) {
		return ln.rawOffsets[col-1] + 1
	}
	// за концом очищенной строки
	return len(ln.Raw) + 1
}

// Pos returns the position of the 1-based Clean column col, mapped onto Raw.
func (ln *Line) Pos(col int) source.Pos {
	return ln.RawPos(ln.RawCol(col))
}

// RawPos returns the position of the 1-based column col of Raw.
func (ln *Line) RawPos(col int) source.Pos {
	c, err := safecast.Conv[uint32](col)
	if err != nil || c == 0 {
		c = 1
	}
	return source.At(ln.File, ln.Num, c)
}

// Checker is a stateless rule run on each non-blank sanitized line.
// Check returns true when it reported something; later checkers are then
// skipped for the line.
type Checker interface {
	Name() string
	Check(ln *Line, r diag.Reporter) bool
}

type Options struct {
	// MaxDepth bounds brace tracking; 0 selects DefaultMaxDepth.
	MaxDepth int
	// FlagLineComments reports "//" comments (C89 without SAS/C).
	FlagLineComments bool
	// DeclPlacement reports declarations after statements (C89).
	DeclPlacement bool
	// Pairing enables the enter/leave monitor when non-nil.
	Pairing  *PairingConfig
	Checkers []Checker
}

// Session analyzes one file line by line.
type Session struct {
	file      source.FileID
	opts      Options
	r         diag.Reporter
	inComment bool
	block     *BlockTracker
	pairing   *PairingMonitor
	line      uint32
	finished  bool
}

func NewSession(file source.FileID, opts Options, r diag.Reporter) *Session {
	if r == nil {
		r = diag.NopReporter{}
	}
	s := &Session{
		file:  file,
		opts:  opts,
		r:     r,
		block: NewBlockTracker(opts.MaxDepth),
	}
	if opts.Pairing != nil {
		s.pairing = NewPairingMonitor(*opts.Pairing)
	}
	return s
}

// Line processes the next raw line (newline stripped) and returns how many
// diagnostics it produced.
func (s *Session) Line(raw string) int {
	return s.processLine(raw, false)
}

func (s *Session) processLine(raw string, truncated bool) int {
	s.line++
	san, offsets := SanitizeMapped(raw, s.inComment)
	s.inComment = san.InComment

	counter := &diag.CountingReporter{Next: s.r}
	ln := &Line{File: s.file, Num: s.line, Raw: raw, Clean: san.Text, Truncated: truncated, rawOffsets: offsets}

	stop := false
	if san.LineComment && s.opts.FlagLineComments {
		// колонка "//" уже посчитана по исходной строке
		b := diag.ReportError(counter, diag.SynLineComment, ln.RawPos(san.LineCommentCol),
			"C++ comments ('//') are not allowed in C89.").
			WithExcerpt(raw)
		// у обрезанной строки конец комментария неизвестен
		if !truncated {
			if oldText, newText, ok := blockCommentFix(raw, san.LineCommentCol); ok {
				b.WithFix("use a block comment", oldText, newText)
			}
		}
		b.Emit()
		stop = true
	}

	if !stop && !IsBlank(san.Text) {
		violation, col := s.block.Check(san.Text)
		if violation && s.opts.DeclPlacement {
			diag.ReportError(counter, diag.SynDeclAfterStatement, ln.Pos(col),
				"Variable declaration after a statement is not allowed in C89.").
				WithExcerpt(raw).
				Emit()
			stop = true
		}
		if !stop && s.pairing != nil {
			s.pairing.Observe(ln, counter)
		}
		if !stop {
			ln.Reported = counter.Count > 0
			for _, c := range s.opts.Checkers {
				if c.Check(ln, counter) {
					break
				}
			}
		}
	}

	// глубина обновляется всегда, даже после ошибки
	s.block.Update(san.Text)
	return counter.Count
}

// Finish reports end-of-file diagnostics. Calling it twice is a no-op.
func (s *Session) Finish() int {
	if s.finished {
		return 0
	}
	s.finished = true
	counter := &diag.CountingReporter{Next: s.r}
	if s.inComment {
		diag.Report(counter, diag.WrnUnterminatedComment, source.At(s.file, max(s.line, 1), 1),
			"File ends with an unterminated '/*' comment.").
			Emit()
	}
	if s.pairing != nil {
		s.pairing.Finish(s.file, s.line, counter)
	}
	return counter.Count
}

// State returns a snapshot of the cross-line state.
func (s *Session) State() State {
	st := State{
		InComment:     s.inComment,
		Depth:         s.block.Depth(),
		StatementSeen: s.block.Snapshot(),
		Lines:         s.line,
	}
	if s.pairing != nil {
		st.Pairing = s.pairing.State()
	}
	return st
}

// Run feeds every line of f to a fresh session and finishes it.
func Run(f *source.File, opts Options, r diag.Reporter) State {
	s := NewSession(f.ID, opts, r)
	lr := source.NewLineReader(f)
	for {
		line, _, ok := lr.Next()
		if !ok {
			break
		}
		s.processLine(line, lr.Truncated())
	}
	s.Finish()
	return s.State()
}

// blockCommentFix rewrites the "//" comment starting at the 1-based column
// col of raw as a block comment. A comment that itself contains "*/" cannot
// be wrapped.
func blockCommentFix(raw string, col int) (oldText, newText string, ok bool) {
	if col <= 0 || col+1 > len(raw) || raw[col-1:col+1] != "//" {
		return "", "", false
	}
	oldText = strings.TrimRight(raw[col-1:], " \t")
	body := oldText[2:]
	if strings.Contains(body, "*/") {
		return "", "", false
	}
	if body != "" && body[0] != ' ' {
		body = " " + body
	}
	return oldText, "/*" + body + " */", true
}
