// Package regex parses the pattern notation used in lexer specifications
// into syntax trees consumed by the automaton compiler.
//
// The notation is byte-oriented: literals, escapes (\n, \r, \t, \a, \b,
// \f, \v, \xHH, and backslash before any punctuation or space), "." for any
// byte except newline, [...] character classes with ranges and ^ negation,
// (...) grouping, {NAME} references to named definitions, postfix "*", "+",
// "?", and infix "|". Alternation binds loosest, then concatenation, then
// the postfix operators.
package regex

import "fmt"

// Expr is a node in a parsed pattern.
type Expr interface {
	exprNode()
}

// Char matches a single byte.
type Char struct {
	C byte
}

// Range is an inclusive byte range inside a class.
type Range struct {
	Lo, Hi byte
}

// Class matches any byte inside one of its ranges. Negated classes are
// resolved to their complement during parsing, so Ranges is always
// positive, sorted, and non-overlapping.
type Class struct {
	Ranges []Range
}

// Any matches any byte except newline.
type Any struct{}

// Concat matches its subexpressions in sequence.
type Concat struct {
	Exprs []Expr
}

// Alt matches any one of its subexpressions.
type Alt struct {
	Exprs []Expr
}

// Star matches zero or more occurrences of X.
type Star struct {
	X Expr
}

// Plus matches one or more occurrences of X.
type Plus struct {
	X Expr
}

// Opt matches zero or one occurrence of X.
type Opt struct {
	X Expr
}

// Empty matches the empty string. It only arises from empty alternation
// branches such as "a|"; the automaton compiler rejects token patterns
// that can match empty input.
type Empty struct{}

func (*Char) exprNode()   {}
func (*Class) exprNode()  {}
func (*Any) exprNode()    {}
func (*Concat) exprNode() {}
func (*Alt) exprNode()    {}
func (*Star) exprNode()   {}
func (*Plus) exprNode()   {}
func (*Opt) exprNode()    {}
func (*Empty) exprNode()  {}

// Nullable reports whether the expression can match the empty string.
func Nullable(e Expr) bool {
	switch e := e.(type) {
	case *Empty, *Star, *Opt:
		return true
	case *Plus:
		return Nullable(e.X)
	case *Concat:
		for _, x := range e.Exprs {
			if !Nullable(x) {
				return false
			}
		}
		return true
	case *Alt:
		for _, x := range e.Exprs {
			if Nullable(x) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// SyntaxError describes an invalid pattern. Offset is the byte offset of
// the offending character within the pattern text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}
