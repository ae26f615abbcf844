package regex

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		expected Expr
	}{
		{
			name:     "SingleChar",
			pattern:  "a",
			expected: &Char{C: 'a'},
		},
		{
			name:    "Concat",
			pattern: "ab",
			expected: &Concat{Exprs: []Expr{
				&Char{C: 'a'},
				&Char{C: 'b'},
			}},
		},
		{
			name:    "Alternation",
			pattern: "a|b|c",
			expected: &Alt{Exprs: []Expr{
				&Char{C: 'a'},
				&Char{C: 'b'},
				&Char{C: 'c'},
			}},
		},
		{
			name:    "EmptyBranch",
			pattern: "a|",
			expected: &Alt{Exprs: []Expr{
				&Char{C: 'a'},
				&Empty{},
			}},
		},
		{
			name:     "Star",
			pattern:  "a*",
			expected: &Star{X: &Char{C: 'a'}},
		},
		{
			name:     "Plus",
			pattern:  "a+",
			expected: &Plus{X: &Char{C: 'a'}},
		},
		{
			name:     "Opt",
			pattern:  "a?",
			expected: &Opt{X: &Char{C: 'a'}},
		},
		{
			name:     "StackedPostfix",
			pattern:  "a*?",
			expected: &Opt{X: &Star{X: &Char{C: 'a'}}},
		},
		{
			name:    "PrecedenceAltConcatClosure",
			pattern: "ab|c*",
			expected: &Alt{Exprs: []Expr{
				&Concat{Exprs: []Expr{&Char{C: 'a'}, &Char{C: 'b'}}},
				&Star{X: &Char{C: 'c'}},
			}},
		},
		{
			name:     "Group",
			pattern:  "(a|b)*",
			expected: &Star{X: &Alt{Exprs: []Expr{&Char{C: 'a'}, &Char{C: 'b'}}}},
		},
		{
			name:     "AnyByte",
			pattern:  ".",
			expected: &Any{},
		},
		{
			name:     "NamedEscape",
			pattern:  `\n`,
			expected: &Char{C: '\n'},
		},
		{
			name:     "PunctuationEscape",
			pattern:  `\*`,
			expected: &Char{C: '*'},
		},
		{
			name:     "EscapedSpace",
			pattern:  `\ `,
			expected: &Char{C: ' '},
		},
		{
			name:     "HexEscape",
			pattern:  `\x41`,
			expected: &Char{C: 'A'},
		},
		{
			name:     "Class",
			pattern:  "[abc]",
			expected: &Class{Ranges: []Range{{Lo: 'a', Hi: 'c'}}},
		},
		{
			name:    "ClassRanges",
			pattern: "[a-z0-9_]",
			expected: &Class{Ranges: []Range{
				{Lo: '0', Hi: '9'},
				{Lo: '_', Hi: '_'},
				{Lo: 'a', Hi: 'z'},
			}},
		},
		{
			name:    "ClassMergesOverlaps",
			pattern: "[a-mc-z]",
			expected: &Class{Ranges: []Range{
				{Lo: 'a', Hi: 'z'},
			}},
		},
		{
			name:    "NegatedClass",
			pattern: "[^\\x01-\\xfe]",
			expected: &Class{Ranges: []Range{
				{Lo: 0x00, Hi: 0x00},
				{Lo: 0xff, Hi: 0xff},
			}},
		},
		{
			name:     "ClosingBracketFirstIsLiteral",
			pattern:  "[]a]",
			expected: &Class{Ranges: []Range{{Lo: ']', Hi: ']'}, {Lo: 'a', Hi: 'a'}}},
		},
		{
			name:     "TrailingDashIsLiteral",
			pattern:  "[a-]",
			expected: &Class{Ranges: []Range{{Lo: '-', Hi: '-'}, {Lo: 'a', Hi: 'a'}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Parse(tt.pattern)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, expr)
		})
	}
}

func TestParse_Definitions(t *testing.T) {
	defs := map[string]Expr{
		"DIGIT": &Class{Ranges: []Range{{Lo: '0', Hi: '9'}}},
	}

	expr, err := Parse("{DIGIT}+", WithDefinitions(defs))
	assert.NoError(t, err)
	assert.Equal[Expr](t, &Plus{X: defs["DIGIT"]}, expr)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		message string
	}{
		{name: "UnbalancedOpen", pattern: "(a", message: "missing closing parenthesis"},
		{name: "UnbalancedClose", pattern: "a)", message: `unexpected ')'`},
		{name: "LeadingStar", pattern: "*a", message: "nothing to repeat"},
		{name: "UnterminatedClass", pattern: "[a-z", message: "unterminated character class"},
		{name: "InvalidRange", pattern: "[z-a]", message: "invalid range"},
		{name: "TrailingBackslash", pattern: `a\`, message: "trailing backslash"},
		{name: "UnknownEscape", pattern: `\d`, message: "unknown escape sequence"},
		{name: "BadHexEscape", pattern: `\xg1`, message: "invalid hex digit"},
		{name: "ShortHexEscape", pattern: `\x4`, message: "incomplete"},
		{name: "UndefinedName", pattern: "{NOPE}", message: `undefined name "NOPE"`},
		{name: "UnterminatedReference", pattern: "{NAME", message: "missing closing brace"},
		{name: "EmptyReference", pattern: "{}", message: "empty definition reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.pattern, WithDefinitions(map[string]Expr{"NAME": &Any{}}))
			assert.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.message), "got %q", err.Error())
		})
	}
}

func TestParse_ErrorOffset(t *testing.T) {
	_, err := Parse("ab[z-a]")
	assert.Error(t, err)

	serr, ok := err.(*SyntaxError)
	assert.True(t, ok)
	assert.True(t, serr.Offset >= 2, "offset should point into the class, got %d", serr.Offset)
}

func TestNullable(t *testing.T) {
	tests := []struct {
		pattern  string
		nullable bool
	}{
		{pattern: "a", nullable: false},
		{pattern: "a*", nullable: true},
		{pattern: "a+", nullable: false},
		{pattern: "a?", nullable: true},
		{pattern: "a|", nullable: true},
		{pattern: "a|b", nullable: false},
		{pattern: "a*b", nullable: false},
		{pattern: "a*b*", nullable: true},
		{pattern: "(a?)+", nullable: true},
		{pattern: "[a-z]", nullable: false},
		{pattern: ".", nullable: false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			expr, err := Parse(tt.pattern)
			assert.NoError(t, err)
			assert.Equal(t, tt.nullable, Nullable(expr))
		})
	}
}
