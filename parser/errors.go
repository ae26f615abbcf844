package parser

import (
	"fmt"

	"github.com/robinvdvleuten/reglex/ast"
)

// ParseError is a specification build error with its source position.
type ParseError struct {
	Pos     ast.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// GetPosition returns the error's position, for renderers that show
// source context.
func (e *ParseError) GetPosition() ast.Position {
	return e.Pos
}

// Errorf builds a ParseError at the given position.
func Errorf(pos ast.Position, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}
