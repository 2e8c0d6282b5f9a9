package source

// LineReader hands out the lines of a File one at a time, newline stripped.
// Lines longer than MaxLineLength are cut to that length.
type LineReader struct {
	file      *File
	off       int
	num       uint32
	truncated bool
}

// NewLineReader creates a reader positioned before the first line of f.
func NewLineReader(f *File) *LineReader {
	return &LineReader{file: f}
}

// Next returns the next line and its 1-based number. ok is false at EOF.
func (r *LineReader) Next() (line string, num uint32, ok bool) {
	content := r.file.Content
	if r.off >= len(content) {
		return "", r.num, false
	}
	end := r.off
	for end < len(content) && content[end] != '\n' {
		end++
	}
	raw := content[r.off:end]
	r.off = end + 1
	r.num++
	// одиночный \r в конце строки не несёт смысла для сканера
	if n := len(raw); n > 0 && raw[n-1] == '\r' {
		raw = raw[:n-1]
	}
	r.truncated = len(raw) > MaxLineLength
	if r.truncated {
		raw = raw[:MaxLineLength]
	}
	return string(raw), r.num, true
}

// Line returns the number of the line most recently returned by Next.
func (r *LineReader) Line() uint32 {
	return r.num
}

// Truncated reports whether the line most recently returned by Next was cut
// to MaxLineLength.
func (r *LineReader) Truncated() bool {
	return r.truncated
}

// Lines returns all lines of f, as LineReader would produce them.
func (f *File) Lines() []string {
	r := NewLineReader(f)
	out := make([]string, 0, len(f.LineIdx)+1)
	for {
		line, _, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, line)
	}
}
