// Package scanner implements the runtime that generated and interpreted
// lexers share: a scanning session built around a read-ahead buffer, a
// match checkpoint, and a rolling input location.
//
// A Session scans one token at a time with the scanning procedure of its
// active parser spec. Procedures are expressed in terms of four
// primitives: NextChar, Accept, Reject, and a state-transition lookup
// (baked into generated code, or interpreted from an automaton.DFA via
// Interpret). The buffer discipline guarantees longest-match semantics
// while reading every input character from the source at most once:
// characters consumed past the last accepting state are replayed from the
// buffer, never re-read.
//
// Actions run after a token is finalized and may switch the active parser
// spec with Use; buffered lookahead and the input location survive the
// switch untouched.
package scanner

// EOF is the value NextChar reports once the input is exhausted. It is a
// sentinel, not a character: it is never buffered, no pattern can match
// it, and once observed the source is never read again.
const EOF = -1

// Result reports how a token scan resolved.
type Result int

const (
	// Token means a pattern produced a token; the session queries
	// describe it until the next scan begins.
	Token Result = iota

	// Done means the input ended cleanly on a token boundary.
	Done

	// Stuck means the pending input matches no pattern. The session is
	// left clean: nothing is consumed, the buffered input is intact, and
	// the location points at the offending spot.
	Stuck
)

func (r Result) String() string {
	switch r {
	case Token:
		return "token"
	case Done:
		return "done"
	case Stuck:
		return "stuck"
	default:
		return "unknown"
	}
}

// ScanFunc is a scanning procedure: it drives a session through exactly
// one token attempt and returns Reject's resolution.
type ScanFunc func(*Session) (Result, error)

// ActionFunc dispatches a finalized token to its rule's code action.
type ActionFunc func(s *Session, tag int) error
