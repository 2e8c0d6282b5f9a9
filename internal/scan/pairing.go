package scan

import (
	"fmt"
	"strings"

	"codex/internal/diag"
	"codex/internal/source"
)

// PairingConfig names the enter/leave calls of a critical section.
type PairingConfig struct {
	Enter string
	Leave string
	// MaxDistance is the largest allowed line distance between enter and leave.
	MaxDistance int
}

// DefaultPairingConfig returns the exec.library convention: Forbid/Permit
// no more than 5 lines apart.
func DefaultPairingConfig() PairingConfig {
	return PairingConfig{Enter: "Forbid", Leave: "Permit", MaxDistance: 5}
}

// PairingState is the cross-line state of a PairingMonitor.
type PairingState struct {
	Active     bool
	EnterLine  uint32
	LeaveLine  uint32
	EnterCount int
	LeaveCount int
}

// PairingMonitor checks that enter/leave calls nest, close, and stay short.
type PairingMonitor struct {
	cfg   PairingConfig
	state PairingState
}

func NewPairingMonitor(cfg PairingConfig) *PairingMonitor {
	def := DefaultPairingConfig()
	if cfg.Enter == "" {
		cfg.Enter = def.Enter
	}
	if cfg.Leave == "" {
		cfg.Leave = def.Leave
	}
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = def.MaxDistance
	}
	return &PairingMonitor{cfg: cfg}
}

func (m *PairingMonitor) Config() PairingConfig {
	return m.cfg
}

func (m *PairingMonitor) State() PairingState {
	return m.state
}

// findCall returns the 0-based index of the earliest "name(" or "name ("
// in line, or -1. The name must not be the tail of a longer identifier.
func findCall(line, name string) int {
	from := 0
	for from < len(line) {
		i := strings.Index(line[from:], name)
		if i < 0 {
			return -1
		}
		i += from
		rest := line[i+len(name):]
		boundary := i == 0 || !isIdentByte(line[i-1])
		if boundary && (strings.HasPrefix(rest, "(") || strings.HasPrefix(rest, " (")) {
			return i
		}
		from = i + 1
	}
	return -1
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// Observe looks for at most one enter and one leave call on the sanitized
// line and applies them in column order. It returns the number of
// diagnostics reported (0-2).
func (m *PairingMonitor) Observe(ln *Line, r diag.Reporter) int {
	enter := findCall(ln.Clean, m.cfg.Enter)
	leave := findCall(ln.Clean, m.cfg.Leave)

	n := 0
	switch {
	case enter >= 0 && leave >= 0 && leave < enter:
		n += m.leave(ln.Pos(leave+1), ln.Raw, r)
		n += m.enter(ln.Pos(enter+1), ln.Raw, r)
	default:
		if enter >= 0 {
			n += m.enter(ln.Pos(enter+1), ln.Raw, r)
		}
		if leave >= 0 {
			n += m.leave(ln.Pos(leave+1), ln.Raw, r)
		}
	}
	return n
}

func (m *PairingMonitor) enter(at source.Pos, raw string, r diag.Reporter) int {
	m.state.EnterCount++
	if m.state.Active {
		diag.Report(r, diag.WrnPairNested, at,
			fmt.Sprintf("%s() called while a %s() section is already active", m.cfg.Enter, m.cfg.Enter)).
			WithNote(source.At(at.File, m.state.EnterLine, 1), fmt.Sprintf("previous %s() is here", m.cfg.Enter)).
			WithExcerpt(raw).
			Emit()
		return 1
	}
	m.state.Active = true
	m.state.EnterLine = at.Line
	diag.Report(r, diag.InfPairUsage, at,
		fmt.Sprintf("%s() usage detected; task switching stays disabled until %s()", m.cfg.Enter, m.cfg.Leave)).
		WithExcerpt(raw).
		Emit()
	return 1
}

func (m *PairingMonitor) leave(at source.Pos, raw string, r diag.Reporter) int {
	m.state.LeaveCount++
	if !m.state.Active {
		diag.Report(r, diag.WrnPairLeaveWithoutEnter, at,
			fmt.Sprintf("%s() called without a matching %s()", m.cfg.Leave, m.cfg.Enter)).
			WithExcerpt(raw).
			Emit()
		return 1
	}
	n := 0
	distance := int(at.Line) - int(m.state.EnterLine)
	if distance > m.cfg.MaxDistance {
		diag.Report(r, diag.WrnPairDistance, at,
			fmt.Sprintf("Too many lines (%d) between %s() and %s(); keep critical sections within %d lines",
				distance, m.cfg.Enter, m.cfg.Leave, m.cfg.MaxDistance)).
			WithNote(source.At(at.File, m.state.EnterLine, 1), fmt.Sprintf("%s() called here", m.cfg.Enter)).
			WithExcerpt(raw).
			Emit()
		n++
	}
	m.state.LeaveLine = at.Line
	m.state.Active = false
	return n
}

// Finish reports end-of-file pairing problems. It does nothing when the
// file never used the calls. lastLine is the number of the last line read.
func (m *PairingMonitor) Finish(file source.FileID, lastLine uint32, r diag.Reporter) int {
	st := m.state
	if st.EnterCount == 0 && st.LeaveCount == 0 {
		return 0
	}
	n := 0
	switch {
	case st.EnterCount > 0 && st.LeaveCount == 0:
		diag.Report(r, diag.WrnPairNoLeave, source.At(file, st.EnterLine, 1),
			fmt.Sprintf("%s() used without any matching %s()", m.cfg.Enter, m.cfg.Leave)).
			Emit()
		n++
	case st.EnterCount != st.LeaveCount:
		diag.Report(r, diag.WrnPairCountMismatch, source.At(file, max(lastLine, 1), 1),
			fmt.Sprintf("Mismatched %s()/%s() calls: %d enter, %d leave",
				m.cfg.Enter, m.cfg.Leave, st.EnterCount, st.LeaveCount)).
			Emit()
		n++
	}
	if st.Active {
		diag.Report(r, diag.WrnPairUnmatchedAtEOF, source.At(file, st.EnterLine, 1),
			fmt.Sprintf("File ends while %s() is still active", m.cfg.Enter)).
			Emit()
		n++
	}
	return n
}
