package parser

import "github.com/robinvdvleuten/reglex/ast"

// reader walks specification source byte by byte with one byte of
// lookahead. It tracks line and column the same way the scanning runtime
// does: a newline byte belongs to the line it ends, and the line counter
// advances when the following byte is consumed.
type reader struct {
	src      []byte
	filename string
	pos      int

	line, col int
	pending   bool
}

func newReader(src []byte, filename string) *reader {
	return &reader{src: src, filename: filename, line: 1}
}

func (r *reader) eof() bool {
	return r.pos >= len(r.src)
}

func (r *reader) peek() (byte, bool) {
	if r.eof() {
		return 0, false
	}
	return r.src[r.pos], true
}

func (r *reader) next() (byte, bool) {
	if r.eof() {
		return 0, false
	}
	c := r.src[r.pos]
	r.pos++
	if r.pending {
		r.line++
		r.col = 0
		r.pending = false
	}
	if c == '\n' {
		r.pending = true
	}
	r.col++
	return c, true
}

// position returns the location of the byte about to be consumed (or of
// the end of file).
func (r *reader) position() ast.Position {
	line, col := r.line, r.col
	if r.pending {
		line++
		col = 0
	}
	return ast.Position{Filename: r.filename, Offset: r.pos, Line: line, Column: col + 1}
}
