package source

import (
	"fmt"
)

// Pos points at a single byte of a line in a file.
// Line and Col are 1-based; a zero Line means "no position" (e.g. I/O errors).
type Pos struct {
	File FileID
	Line uint32
	Col  uint32
}

// At builds a Pos for the given file, line and column.
func At(file FileID, line, col uint32) Pos {
	return Pos{File: file, Line: line, Col: col}
}

func (p Pos) IsValid() bool {
	return p.Line != 0
}

func (p Pos) LineCol() LineCol {
	return LineCol{Line: p.Line, Col: p.Col}
}

// WithCol returns a copy of p moved to the given column.
func (p Pos) WithCol(col uint32) Pos {
	p.Col = col
	return p
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Col)
}

// Less orders positions by file, line and column.
func (p Pos) Less(other Pos) bool {
	if p.File != other.File {
		return p.File < other.File
	}
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}
