package scan

import "strings"

// Sanitized is the result of stripping comments from one line.
type Sanitized struct {
	// Text holds code and literal contents; comments are removed without
	// replacement.
	Text string
	// InComment is the block-comment state handed to the next line.
	InComment bool
	// LineComment is set when a "//" outside quotes ended the line.
	LineComment bool
	// LineCommentCol is the 1-based column of that "//", or 0.
	LineCommentCol int
}

// Sanitize removes comments from line. inComment says whether the line
// starts inside a block comment. Quote state is local to the line: an
// unterminated literal does not leak into the next call.
func Sanitize(line string, inComment bool) Sanitized {
	res, _ := SanitizeMapped(line, inComment)
	return res
}

// SanitizeMapped is Sanitize that also returns, for every byte of the
// sanitized text, its 0-based offset in line.
func SanitizeMapped(line string, inComment bool) (Sanitized, []int) {
	res := Sanitized{}
	var out strings.Builder
	out.Grow(len(line))
	offsets := make([]int, 0, len(line))

	c := NewCursor(line)
	inDQuote, inSQuote := false, false

	for !c.EOF() {
		if inComment {
			if c.Eat2('*', '/') {
				inComment = false
				continue
			}
			c.Bump()
			continue
		}

		if !inDQuote && !inSQuote {
			if c.Eat2('/', '*') {
				inComment = true
				continue
			}
			if b0, b1, ok := c.Peek2(); ok && b0 == '/' && b1 == '/' {
				res.LineComment = true
				res.LineCommentCol = c.Col()
				break
			}
		} else if c.Peek() == '\\' {
			// экранированная пара копируется целиком; '\' в последнем байте
			// строки остаётся обычным символом
			if _, _, ok := c.Peek2(); ok {
				offsets = append(offsets, c.Off, c.Off+1)
				out.WriteByte(c.Bump())
				out.WriteByte(c.Bump())
				continue
			}
		}

		switch c.Peek() {
		case '"':
			if !inSQuote {
				inDQuote = !inDQuote
			}
		case '\'':
			if !inDQuote {
				inSQuote = !inSQuote
			}
		}
		offsets = append(offsets, c.Off)
		out.WriteByte(c.Bump())
	}

	res.Text = out.String()
	res.InComment = inComment
	return res, offsets
}

// IsBlank reports whether a sanitized line has nothing but whitespace.
func IsBlank(clean string) bool {
	return strings.TrimSpace(clean) == ""
}
