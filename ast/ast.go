// Package ast declares the types used to represent parsed lexer
// specifications.
//
// A specification is the five-section input consumed by the reglex command:
// a verbatim prologue, generator instructions, named pattern definitions,
// token rules with code actions, and a verbatim epilogue, with sections
// separated by %% delimiters. The tree is produced by the parser package and
// consumed by the automaton compiler and the code generator.
package ast

import (
	"golang.org/x/exp/slices"
)

// Instruction names recognized in the instructions section.
const (
	EmitMain     = "emit_main"
	EmitInputVar = "emit_input_fs_var"
)

// Spec represents a parsed lexer specification.
type Spec struct {
	Prologue     Verbatim
	Instructions []*Instruction
	Definitions  []*Definition
	Rules        []*Rule
	Epilogue     Verbatim
}

// Verbatim is a block of target-language text copied through unchanged.
// Pos marks where the text begins in the specification file.
type Verbatim struct {
	Text string
	Pos  Position
}

// Instruction is a generator directive from the instructions section.
type Instruction struct {
	Name string
	Pos  Position
}

// Definition is a named pattern from the definitions section. Later
// definitions and rules may reference it as {Name}. Pos marks the name,
// PatternPos the pattern text.
type Definition struct {
	Name       string
	Pattern    string
	Pos        Position
	PatternPos Position
}

// Rule is a single token rule: a pattern, the parser spec it belongs to
// (empty for the default), and the verbatim code action run when the
// pattern produces a token.
//
// Tag is the rule's global declaration index. It doubles as the match
// priority: when two patterns match the same longest prefix, the smaller
// tag wins.
type Rule struct {
	Pattern   string
	Parser    string
	Action    string
	Tag       int
	Pos       Position
	ActionPos Position
}

// Emits reports whether the named instruction appears in the spec.
func (s *Spec) Emits(name string) bool {
	for _, in := range s.Instructions {
		if in.Name == name {
			return true
		}
	}
	return false
}

// ParserNames returns the parser spec names in order of first appearance
// among the rules. Rules without a parser header belong to the default
// spec, named "".
func (s *Spec) ParserNames() []string {
	var names []string
	for _, r := range s.Rules {
		if !slices.Contains(names, r.Parser) {
			names = append(names, r.Parser)
		}
	}
	return names
}

// RulesFor returns the rules belonging to the named parser spec, in
// declaration order.
func (s *Spec) RulesFor(parser string) []*Rule {
	var rules []*Rule
	for _, r := range s.Rules {
		if r.Parser == parser {
			rules = append(rules, r)
		}
	}
	return rules
}
