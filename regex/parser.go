package regex

import (
	"fmt"
	"sort"
)

// ParseOption configures Parse.
type ParseOption func(*parser)

// WithDefinitions supplies named subexpressions that the pattern may
// reference as {NAME}.
func WithDefinitions(defs map[string]Expr) ParseOption {
	return func(p *parser) {
		p.defs = defs
	}
}

// Parse parses a pattern into an expression tree.
func Parse(pattern string, opts ...ParseOption) (Expr, error) {
	p := &parser{src: pattern}
	for _, opt := range opts {
		opt(p)
	}
	expr, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.src) {
		// parseAlt stops at ")"; anything left over is unbalanced.
		return nil, p.errorf(p.pos, "unexpected %q", p.src[p.pos])
	}
	return expr, nil
}

type parser struct {
	src  string
	pos  int
	defs map[string]Expr
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	return p.src[p.pos]
}

func (p *parser) next() byte {
	c := p.src[p.pos]
	p.pos++
	return c
}

// parseAlt parses a full alternation: concat ("|" concat)*. An empty
// branch parses as Empty.
func (p *parser) parseAlt() (Expr, error) {
	first, err := p.parseConcat()
	if err != nil {
		return nil, err
	}
	if p.eof() || p.peek() != '|' {
		return first, nil
	}
	exprs := []Expr{first}
	for !p.eof() && p.peek() == '|' {
		p.next()
		e, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &Alt{Exprs: exprs}, nil
}

// parseConcat parses a sequence of closures, stopping at "|", ")", or the
// end of the pattern.
func (p *parser) parseConcat() (Expr, error) {
	var exprs []Expr
	for !p.eof() && p.peek() != '|' && p.peek() != ')' {
		e, err := p.parseClosure()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	switch len(exprs) {
	case 0:
		return &Empty{}, nil
	case 1:
		return exprs[0], nil
	default:
		return &Concat{Exprs: exprs}, nil
	}
}

// parseClosure parses an atom followed by any run of postfix operators.
func (p *parser) parseClosure() (Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for !p.eof() {
		switch p.peek() {
		case '*':
			p.next()
			expr = &Star{X: expr}
		case '+':
			p.next()
			expr = &Plus{X: expr}
		case '?':
			p.next()
			expr = &Opt{X: expr}
		default:
			return expr, nil
		}
	}
	return expr, nil
}

func (p *parser) parseAtom() (Expr, error) {
	start := p.pos
	switch c := p.next(); c {
	case '(':
		expr, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if p.eof() || p.peek() != ')' {
			return nil, p.errorf(start, "missing closing parenthesis")
		}
		p.next()
		return expr, nil
	case '[':
		return p.parseClass(start)
	case '{':
		return p.parseReference(start)
	case '.':
		return &Any{}, nil
	case '\\':
		b, err := p.escape(start)
		if err != nil {
			return nil, err
		}
		return &Char{C: b}, nil
	case '*', '+', '?':
		return nil, p.errorf(start, "%q has nothing to repeat", c)
	default:
		return &Char{C: c}, nil
	}
}

// parseReference parses a {NAME} definition reference. The opening brace
// has already been consumed.
func (p *parser) parseReference(start int) (Expr, error) {
	nameStart := p.pos
	for !p.eof() && isNameByte(p.peek()) {
		p.pos++
	}
	name := p.src[nameStart:p.pos]
	if p.eof() || p.peek() != '}' {
		return nil, p.errorf(start, "missing closing brace in definition reference")
	}
	p.next()
	if name == "" {
		return nil, p.errorf(start, "empty definition reference")
	}
	expr, ok := p.defs[name]
	if !ok {
		return nil, p.errorf(start, "undefined name %q", name)
	}
	return expr, nil
}

// parseClass parses a [...] class body. The opening bracket has already
// been consumed. "]" is a literal when it is the first member, "-" when it
// is first or last.
func (p *parser) parseClass(start int) (Expr, error) {
	negate := false
	if !p.eof() && p.peek() == '^' {
		p.next()
		negate = true
	}
	var ranges []Range
	first := true
	for {
		if p.eof() {
			return nil, p.errorf(start, "unterminated character class")
		}
		if p.peek() == ']' && !first {
			p.next()
			break
		}
		first = false
		lo, err := p.classByte()
		if err != nil {
			return nil, err
		}
		hi := lo
		if !p.eof() && p.peek() == '-' && p.pos+1 < len(p.src) && p.src[p.pos+1] != ']' {
			p.next()
			hi, err = p.classByte()
			if err != nil {
				return nil, err
			}
			if hi < lo {
				return nil, p.errorf(p.pos, "invalid range %q-%q", lo, hi)
			}
		}
		ranges = append(ranges, Range{Lo: lo, Hi: hi})
	}
	ranges = normalizeRanges(ranges)
	if negate {
		ranges = complementRanges(ranges)
	}
	return &Class{Ranges: ranges}, nil
}

func (p *parser) classByte() (byte, error) {
	start := p.pos
	c := p.next()
	if c == '\\' {
		return p.escape(start)
	}
	return c, nil
}

// escape resolves a backslash escape. The backslash has already been
// consumed; start is its offset.
func (p *parser) escape(start int) (byte, error) {
	if p.eof() {
		return 0, p.errorf(start, "trailing backslash")
	}
	switch c := p.next(); c {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case 'a':
		return '\a', nil
	case 'b':
		return '\b', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'x':
		hi, err := p.hexDigit(start)
		if err != nil {
			return 0, err
		}
		lo, err := p.hexDigit(start)
		if err != nil {
			return 0, err
		}
		return hi<<4 | lo, nil
	default:
		// Escaped letters and digits other than the names above are
		// almost always mistakes, so reject them instead of silently
		// matching the literal character.
		if isNameByte(c) {
			return 0, p.errorf(start, "unknown escape sequence \\%c", c)
		}
		return c, nil
	}
}

func (p *parser) hexDigit(start int) (byte, error) {
	if p.eof() {
		return 0, p.errorf(start, "incomplete \\x escape")
	}
	switch c := p.next(); {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, p.errorf(start, "invalid hex digit %q in \\x escape", c)
	}
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// normalizeRanges sorts and merges overlapping or adjacent ranges.
func normalizeRanges(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}
	sort.Slice(ranges, func(i, j int) bool {
		if ranges[i].Lo != ranges[j].Lo {
			return ranges[i].Lo < ranges[j].Lo
		}
		return ranges[i].Hi < ranges[j].Hi
	})
	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if int(r.Lo) <= int(last.Hi)+1 {
			if r.Hi > last.Hi {
				last.Hi = r.Hi
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// complementRanges inverts a normalized range set over the full byte
// alphabet.
func complementRanges(ranges []Range) []Range {
	var out []Range
	next := 0
	for _, r := range ranges {
		if int(r.Lo) > next {
			out = append(out, Range{Lo: byte(next), Hi: r.Lo - 1})
		}
		next = int(r.Hi) + 1
	}
	if next <= 0xff {
		out = append(out, Range{Lo: byte(next), Hi: 0xff})
	}
	return out
}
