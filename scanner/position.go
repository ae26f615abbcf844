package scanner

// Location is a scan position. Line is 1-indexed; Column counts bytes
// from the start of the line, so the first byte of a line is column 1.
//
// A newline byte does not advance the line itself. It is reported at the
// end of its own line and sets a pending flag; the line increment and
// column reset happen when the next byte is consumed. The flag is part of
// the location so a rollback restores it along with line and column.
type Location struct {
	Line, Column int

	pending bool
}

func (l *Location) advance(c byte) {
	if l.pending {
		l.Line++
		l.Column = 0
		l.pending = false
	}
	if c == '\n' {
		l.pending = true
	}
	l.Column++
}
