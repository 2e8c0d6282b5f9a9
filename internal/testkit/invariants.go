// Package testkit holds consistency checks shared by tests and fuzz
// harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"codex/internal/diag"
	"codex/internal/scan"
	"codex/internal/source"
)

// CheckDiagnosticInvariants verifies that every position of diags points
// into fs:
// 1) the file exists
// 2) a positioned line lies within the file (line 1 is allowed for empty files)
// 3) a positioned column lies within the line, or just past its end
func CheckDiagnosticInvariants(fs *source.FileSet, diags []diag.Diagnostic) error {
	if fs == nil {
		return fmt.Errorf("nil file set")
	}
	for i := range diags {
		d := &diags[i]
		if err := checkPos(fs, d.Primary); err != nil {
			return fmt.Errorf("%s (%q): %w", d.Code.ID(), d.Message, err)
		}
		for _, n := range d.Notes {
			if err := checkPos(fs, n.Pos); err != nil {
				return fmt.Errorf("%s note (%q): %w", d.Code.ID(), n.Msg, err)
			}
		}
	}
	return nil
}

func checkPos(fs *source.FileSet, p source.Pos) error {
	f := fs.Get(p.File)
	if f == nil {
		return fmt.Errorf("unknown file id %d", p.File)
	}
	if !p.IsValid() {
		return nil
	}
	lines, err := safecast.Conv[uint32](max(f.LineCount(), 1))
	if err != nil {
		return fmt.Errorf("line count overflow: %w", err)
	}
	if p.Line > lines {
		return fmt.Errorf("line %d beyond end of file (%d lines)", p.Line, lines)
	}
	if p.Col == 0 {
		return fmt.Errorf("column 0 on line %d", p.Line)
	}
	width, err := safecast.Conv[uint32](len(f.GetLine(p.Line)))
	if err != nil {
		return fmt.Errorf("line width overflow: %w", err)
	}
	if p.Col > width+1 {
		return fmt.Errorf("column %d beyond line %d (%d bytes)", p.Col, p.Line, width)
	}
	return nil
}

// CheckStateInvariants verifies the cross-line state of a finished scan:
// 1) depth stays within [0, maxDepth]
// 2) there is one statement flag per depth, file scope included
// 3) file scope never records a statement
// 4) an active pairing section has an enter call and a line
func CheckStateInvariants(st scan.State, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = scan.DefaultMaxDepth
	}
	if st.Depth < 0 || st.Depth > maxDepth {
		return fmt.Errorf("depth %d outside [0, %d]", st.Depth, maxDepth)
	}
	if len(st.StatementSeen) != st.Depth+1 {
		return fmt.Errorf("%d statement flags for depth %d", len(st.StatementSeen), st.Depth)
	}
	if st.StatementSeen[0] {
		return fmt.Errorf("statement recorded at file scope")
	}
	return checkPairing(st.Pairing)
}

func checkPairing(p scan.PairingState) error {
	if p.EnterCount < 0 || p.LeaveCount < 0 {
		return fmt.Errorf("negative pairing counters: %d enter, %d leave", p.EnterCount, p.LeaveCount)
	}
	if p.Active && (p.EnterCount == 0 || p.EnterLine == 0) {
		return fmt.Errorf("active section without an enter call (line %d, %d calls)", p.EnterLine, p.EnterCount)
	}
	return nil
}
