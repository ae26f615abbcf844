package scanner

import "github.com/robinvdvleuten/reglex/automaton"

// Interpret builds a scanning procedure that drives a session directly
// from a DFA, without generated code. The loop is the same one the code
// generator emits: read a character, follow the transition, accept upon
// entering an accepting state, reject when no move exists.
func Interpret(d *automaton.DFA) ScanFunc {
	return func(s *Session) (Result, error) {
		state := d.Start()
		for {
			c, err := s.NextChar()
			if err != nil {
				return 0, err
			}
			next := d.Transition(state, c)
			if next == automaton.NoState {
				return s.Reject()
			}
			state = next
			if tag := d.AcceptTag(state); tag != automaton.NoTag {
				s.Accept(tag)
			}
		}
	}
}
