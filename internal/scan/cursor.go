package scan

// Cursor представляет собой позицию внутри одной строки
type Cursor struct {
	Line string
	Off  int
}

// NewCursor creates a cursor at the first byte of line.
func NewCursor(line string) Cursor {
	return Cursor{Line: line}
}

// EOF проверяет, достигнут ли конец строки
func (c *Cursor) EOF() bool {
	return c.Off >= len(c.Line)
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Line[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= len(c.Line) {
		return 0, 0, false
	}
	return c.Line[c.Off], c.Line[c.Off+1], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Line[c.Off]
	c.Off++
	return b
}

// Eat2 consumes the next two bytes if they are b0 b1.
func (c *Cursor) Eat2(b0, b1 byte) bool {
	x0, x1, ok := c.Peek2()
	if ok && x0 == b0 && x1 == b1 {
		c.Off += 2
		return true
	}
	return false
}

// Col returns the 1-based column of the current byte.
func (c *Cursor) Col() int {
	return c.Off + 1
}
