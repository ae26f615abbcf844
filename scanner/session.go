package scanner

import (
	"bufio"
	"fmt"
	"io"

	"github.com/robinvdvleuten/reglex/automaton"
)

// Session is a single scanning session: one input stream, one active
// parser spec, and the buffer, checkpoint, and location state the
// scanning procedures operate on. Sessions are not safe for concurrent
// use; scan separate inputs with separate sessions.
type Session struct {
	program *Program
	active  *Spec
	actions ActionFunc

	src  io.ByteReader
	name string
	eof  bool

	// buf holds bytes read from the source since the last accept. The
	// trailing unread bytes have not been consumed by the current
	// attempt; they replay before the source is touched again.
	buf    []byte
	unread int

	// lexeme accumulates accepted bytes for the token being matched;
	// text is the surfaced lexeme of the last finalized token. The two
	// swap on finalize so steady-state scanning does not allocate.
	lexeme []byte
	text   []byte

	loc   Location // running position of the scan pointer
	start Location // token start, latched on the attempt's first byte
	mark  checkpoint

	tag     int
	started bool
}

// checkpoint captures the most recent accept: the winning tag and the
// location to roll back to on reject.
type checkpoint struct {
	tag int
	loc Location
}

// Option configures a session.
type Option func(*Session)

// WithInput sets the initial input source and its display name.
func WithInput(r io.Reader, name string) Option {
	return func(s *Session) {
		s.SetInput(r, name)
	}
}

// WithActions sets the action dispatch invoked for each finalized token.
func WithActions(fn ActionFunc) Option {
	return func(s *Session) {
		s.actions = fn
	}
}

// New creates a session over the program's default parser spec. Without
// WithInput the session scans an empty input.
func New(p *Program, opts ...Option) *Session {
	s := &Session{
		program: p,
		active:  p.Default(),
		loc:     Location{Line: 1},
		tag:     automaton.NoTag,
	}
	s.mark = checkpoint{tag: automaton.NoTag, loc: s.loc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetInput replaces the input source and its display name and clears the
// end-of-input latch. Buffered lookahead and the running location are
// kept, so feeding several readers in sequence scans like one
// concatenated stream; use a fresh session to restart line numbering.
// Call it between tokens.
func (s *Session) SetInput(r io.Reader, name string) {
	if br, ok := r.(io.ByteReader); ok {
		s.src = br
	} else {
		s.src = bufio.NewReader(r)
	}
	s.name = name
	s.eof = false
}

// Use switches the active parser spec. Only the spec pointer changes:
// buffered lookahead, the pending lexeme state, and the location are
// untouched, so the next token is scanned by the new spec from exactly
// where the previous one ended. Call it between tokens or from within an
// action.
func (s *Session) Use(name string) error {
	spec, ok := s.program.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown parser spec %q", name)
	}
	s.active = spec
	return nil
}

// Scan scans a single token with the active parser spec. On Token the
// queries describe the result and the action function, if any, has run.
// Errors come only from the input source or from an action; a session
// that returned an error is in an unspecified state and should not be
// reused.
func (s *Session) Scan() (Result, error) {
	s.begin()
	res, err := s.active.Scan(s)
	if err != nil {
		return res, err
	}
	if res == Token && s.actions != nil {
		if err := s.actions(s, s.tag); err != nil {
			return res, err
		}
	}
	return res, nil
}

// ScanAll scans tokens until the input is exhausted or no pattern
// matches. It returns 0 for a clean end of input and 1 when stuck,
// mirroring the exit status of generated main functions.
func (s *Session) ScanAll() (int, error) {
	for {
		res, err := s.Scan()
		if err != nil {
			return 1, err
		}
		switch res {
		case Done:
			return 0, nil
		case Stuck:
			return 1, nil
		}
	}
}

// Skip discards one buffered byte, advancing the location past it. It is
// the recovery primitive for Stuck: drop the offending byte, then scan
// again. It reports false when nothing is buffered. Call it between
// scans.
func (s *Session) Skip() (byte, bool) {
	if len(s.buf) == 0 {
		return 0, false
	}
	c := s.buf[0]
	s.buf = s.buf[:copy(s.buf, s.buf[1:])]
	s.unread = len(s.buf)
	s.loc.advance(c)
	return c, true
}

// Lexeme returns the text of the last token. It is valid until the next
// scan begins.
func (s *Session) Lexeme() string {
	return string(s.text)
}

// LexemeBytes returns the last token's text without copying. The slice is
// only valid until the next scan begins.
func (s *Session) LexemeBytes() []byte {
	return s.text
}

// Tag returns the rule tag of the last token, or automaton.NoTag before
// the first one.
func (s *Session) Tag() int {
	return s.tag
}

// Line returns the line the last token started on.
func (s *Session) Line() int {
	return s.start.Line
}

// Column returns the column of the last token's first byte.
func (s *Session) Column() int {
	return s.start.Column
}

// InputName returns the display name of the current input source.
func (s *Session) InputName() string {
	return s.name
}

// Active returns the name of the active parser spec.
func (s *Session) Active() string {
	return s.active.Name
}

// begin resets per-attempt state. The checkpoint location starts at the
// current position so a rejected attempt with no accept rolls back to
// where it began.
func (s *Session) begin() {
	s.started = false
	s.start = s.loc
	s.mark = checkpoint{tag: automaton.NoTag, loc: s.loc}
	s.text = s.text[:0]
}

// NextChar returns the next character of the attempt: buffered bytes
// replay first, then the source is read, then EOF once the source is
// exhausted. Every byte advances the location; the first byte of an
// attempt latches the token start. Exported for scanning procedures.
func (s *Session) NextChar() (int, error) {
	if s.unread > 0 {
		c := s.buf[len(s.buf)-s.unread]
		s.unread--
		s.consumed(c)
		return int(c), nil
	}
	if s.eof {
		return EOF, nil
	}
	if s.src == nil {
		s.eof = true
		return EOF, nil
	}
	c, err := s.src.ReadByte()
	if err != nil {
		if err == io.EOF {
			s.eof = true
			return EOF, nil
		}
		return EOF, fmt.Errorf("read %s: %w", s.name, err)
	}
	s.buf = append(s.buf, c)
	s.consumed(c)
	return int(c), nil
}

func (s *Session) consumed(c byte) {
	s.loc.advance(c)
	if !s.started {
		s.started = true
		s.start = s.loc
	}
}

// Accept records that the attempt reached an accepting state: the
// consumed prefix of the buffer moves into the lexeme and the checkpoint
// is set to the tag at the current location. Exported for scanning
// procedures.
func (s *Session) Accept(tag int) {
	n := len(s.buf) - s.unread
	s.lexeme = append(s.lexeme, s.buf[:n]...)
	s.buf = s.buf[:copy(s.buf, s.buf[n:])]
	s.mark = checkpoint{tag: tag, loc: s.loc}
}

// Reject ends the attempt: the whole buffer is marked unconsumed and the
// location rolls back to the checkpoint. A recorded accept finalizes the
// accumulated lexeme as the token; otherwise the scan resolves to Done on
// exhausted input or Stuck when unmatched input remains. Exported for
// scanning procedures.
func (s *Session) Reject() (Result, error) {
	s.unread = len(s.buf)
	s.loc = s.mark.loc
	if s.mark.tag == automaton.NoTag {
		if len(s.buf) == 0 {
			return Done, nil
		}
		return Stuck, nil
	}
	s.tag = s.mark.tag
	s.mark.tag = automaton.NoTag
	s.text, s.lexeme = s.lexeme, s.text[:0]
	return Token, nil
}
