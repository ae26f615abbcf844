// Package automaton compiles prioritized token patterns into a single
// minimized DFA whose accepting states carry the tag of the best pattern
// they complete.
//
// The pipeline is the classical one: each pattern becomes a Thompson NFA
// with a tagged accept node, the NFAs are joined under one start state,
// subset construction produces a DFA, and partition refinement minimizes
// it. When a DFA state completes several patterns at once, the smallest
// tag survives, so earlier declarations win ties. States are arena
// indices; transitions are total over the byte alphabet and return NoState
// where no move exists.
package automaton

import (
	"fmt"

	"github.com/robinvdvleuten/reglex/regex"
)

// Sentinel values for missing states and tags.
const (
	NoState = -1
	NoTag   = -1
)

// Pattern is one token pattern with its priority tag. Smaller tags take
// precedence when two patterns match the same input.
type Pattern struct {
	Expr regex.Expr
	Tag  int
}

// Edge is an inclusive byte range transition, used for literal DFA
// construction and for the compressed view consumed by the code generator.
type Edge struct {
	Lo, Hi byte
	To     int
}

// State is the literal form of a DFA state.
type State struct {
	Tag   int
	Edges []Edge
}

// DFA is a deterministic finite automaton over bytes. Accepting states
// carry a non-negative tag; the start state is never accepting for
// automata built by Compile.
type DFA struct {
	start int
	tags  []int
	rows  [][256]int32
}

// Compile builds the combined minimized DFA for a set of patterns.
//
// A pattern that can match the empty string would make the start state
// accepting and the scanner loop on a zero-length token, so compilation
// fails with an EmptyMatchError identifying the offending tag.
func Compile(patterns []Pattern) (*DFA, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns to compile")
	}
	for _, p := range patterns {
		if regex.Nullable(p.Expr) {
			return nil, &EmptyMatchError{Tag: p.Tag}
		}
	}

	d := minimize(determinize(buildNFA(patterns)))

	// Nullability already rules this out; guard the contract anyway.
	if tag := d.AcceptTag(d.Start()); tag != NoTag {
		return nil, &EmptyMatchError{Tag: tag}
	}
	return d, nil
}

// NewDFA builds a DFA from its literal form. It panics on out-of-range
// transition targets; it is meant for tables constructed by generators and
// tests, not for untrusted input.
func NewDFA(start int, states []State) *DFA {
	d := &DFA{
		start: start,
		tags:  make([]int, len(states)),
		rows:  make([][256]int32, len(states)),
	}
	if start < 0 || start >= len(states) {
		panic(fmt.Sprintf("automaton: start state %d out of range", start))
	}
	for i, st := range states {
		d.tags[i] = st.Tag
		for c := 0; c < 256; c++ {
			d.rows[i][c] = NoState
		}
		for _, e := range st.Edges {
			if e.To < 0 || e.To >= len(states) {
				panic(fmt.Sprintf("automaton: transition target %d out of range", e.To))
			}
			for c := int(e.Lo); c <= int(e.Hi); c++ {
				d.rows[i][c] = int32(e.To)
			}
		}
	}
	return d
}

// Start returns the start state.
func (d *DFA) Start() int {
	return d.start
}

// NumStates returns the number of states.
func (d *DFA) NumStates() int {
	return len(d.rows)
}

// Transition returns the state reached from state on input c, or NoState
// when no move exists. Values of c outside the byte alphabet (such as an
// end-of-input sentinel) never have a move.
func (d *DFA) Transition(state, c int) int {
	if state < 0 || state >= len(d.rows) || c < 0 || c > 0xff {
		return NoState
	}
	return int(d.rows[state][c])
}

// AcceptTag returns the tag of an accepting state, or NoTag.
func (d *DFA) AcceptTag(state int) int {
	if state < 0 || state >= len(d.tags) {
		return NoTag
	}
	return d.tags[state]
}

// Ranges returns the outgoing transitions of a state compressed into
// sorted byte ranges.
func (d *DFA) Ranges(state int) []Edge {
	if state < 0 || state >= len(d.rows) {
		return nil
	}
	var edges []Edge
	row := &d.rows[state]
	for c := 0; c < 256; {
		to := row[c]
		if to == NoState {
			c++
			continue
		}
		lo := c
		for c < 256 && row[c] == to {
			c++
		}
		edges = append(edges, Edge{Lo: byte(lo), Hi: byte(c - 1), To: int(to)})
	}
	return edges
}

// EmptyMatchError reports a token pattern that accepts the empty string.
// Tag identifies the pattern by its declaration index.
type EmptyMatchError struct {
	Tag int
}

func (e *EmptyMatchError) Error() string {
	return "token pattern accepts the empty string"
}
