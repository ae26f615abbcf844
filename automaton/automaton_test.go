package automaton

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/reglex/regex"
)

// compile builds a DFA from pattern strings tagged in declaration order.
func compile(t *testing.T, patterns ...string) *DFA {
	t.Helper()
	d, err := compileErr(patterns...)
	assert.NoError(t, err)
	return d
}

func compileErr(patterns ...string) (*DFA, error) {
	ps := make([]Pattern, len(patterns))
	for i, p := range patterns {
		expr, err := regex.Parse(p)
		if err != nil {
			return nil, err
		}
		ps[i] = Pattern{Expr: expr, Tag: i}
	}
	return Compile(ps)
}

// match simulates a longest-match scan and returns the winning tag and
// match length, or (NoTag, 0).
func match(d *DFA, input string) (tag, length int) {
	tag, length = NoTag, 0
	st := d.Start()
	for i := 0; i < len(input); i++ {
		st = d.Transition(st, int(input[i]))
		if st == NoState {
			return
		}
		if t := d.AcceptTag(st); t != NoTag {
			tag, length = t, i+1
		}
	}
	return
}

func TestCompile_Matching(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		input    string
		tag      int
		length   int
	}{
		{
			name:     "Literal",
			patterns: []string{"if"},
			input:    "if",
			tag:      0, length: 2,
		},
		{
			name:     "NoMatch",
			patterns: []string{"if"},
			input:    "of",
			tag:      NoTag, length: 0,
		},
		{
			name:     "KeywordBeatsIdentifier",
			patterns: []string{"if", "[a-z]+"},
			input:    "if",
			tag:      0, length: 2,
		},
		{
			name:     "LongerIdentifierWins",
			patterns: []string{"if", "[a-z]+"},
			input:    "iffy",
			tag:      1, length: 4,
		},
		{
			name:     "PrefixOfKeyword",
			patterns: []string{"if", "[a-z]+"},
			input:    "i",
			tag:      1, length: 1,
		},
		{
			name:     "DeclarationOrderBreaksTies",
			patterns: []string{"ab|cd", "cd"},
			input:    "cd",
			tag:      0, length: 2,
		},
		{
			name:     "LongestMatchStopsAtLastAccept",
			patterns: []string{"a", "aaa"},
			input:    "aa",
			tag:      0, length: 1,
		},
		{
			name:     "AnyExcludesNewline",
			patterns: []string{"."},
			input:    "\n",
			tag:      NoTag, length: 0,
		},
		{
			name:     "Number",
			patterns: []string{"-?[0-9]+(\\.[0-9]+)?"},
			input:    "-12.5",
			tag:      0, length: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := compile(t, tt.patterns...)
			tag, length := match(d, tt.input)
			assert.Equal(t, tt.tag, tag)
			assert.Equal(t, tt.length, length)
		})
	}
}

func TestCompile_RejectsEmptyMatch(t *testing.T) {
	for _, pattern := range []string{"a*", "a?", "a|", "(a?)(b?)"} {
		t.Run(pattern, func(t *testing.T) {
			_, err := compileErr("x", pattern)
			assert.Error(t, err)

			emptyErr, ok := err.(*EmptyMatchError)
			assert.True(t, ok)
			assert.Equal(t, 1, emptyErr.Tag)
		})
	}
}

func TestCompile_MergesEquivalentStates(t *testing.T) {
	// "a" and "b" lead to indistinguishable accepting states once the tag
	// partition allows it; minimization must fold them together.
	d := compile(t, "a|b")
	assert.Equal(t, 2, d.NumStates())
}

func TestCompile_TagsSurviveMinimization(t *testing.T) {
	// Same shape, different tags: the accepting states must NOT merge.
	d := compile(t, "a", "b")
	assert.Equal(t, 3, d.NumStates())
	assert.Equal(t, 0, d.AcceptTag(d.Transition(d.Start(), 'a')))
	assert.Equal(t, 1, d.AcceptTag(d.Transition(d.Start(), 'b')))
}

func TestDFA_Ranges(t *testing.T) {
	d := compile(t, "[a-cx]y")

	s1 := d.Transition(d.Start(), 'b')
	assert.NotEqual(t, NoState, s1)
	assert.Equal(t, []Edge{
		{Lo: 'a', Hi: 'c', To: s1},
		{Lo: 'x', Hi: 'x', To: s1},
	}, d.Ranges(d.Start()))
}

func TestDFA_TransitionBounds(t *testing.T) {
	d := compile(t, "a")

	assert.Equal(t, NoState, d.Transition(d.Start(), -1), "end-of-input sentinel has no move")
	assert.Equal(t, NoState, d.Transition(NoState, 'a'))
	assert.Equal(t, NoState, d.Transition(99, 'a'))
	assert.Equal(t, NoTag, d.AcceptTag(99))
}

func TestNewDFA(t *testing.T) {
	d := NewDFA(0, []State{
		{Tag: NoTag, Edges: []Edge{{Lo: '0', Hi: '9', To: 1}}},
		{Tag: 7, Edges: []Edge{{Lo: '0', Hi: '9', To: 1}}},
	})

	tag, length := match(d, "123x")
	assert.Equal(t, 7, tag)
	assert.Equal(t, 3, length)
}
