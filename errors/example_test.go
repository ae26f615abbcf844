package errors_test

import (
	"fmt"

	"github.com/robinvdvleuten/reglex/ast"
	"github.com/robinvdvleuten/reglex/errors"
	"github.com/robinvdvleuten/reglex/parser"
)

// Example showing how to use TextFormatter for CLI output
func ExampleTextFormatter() {
	err := parser.Errorf(
		ast.Position{Filename: "lexer.rl", Line: 4, Column: 1},
		"invalid instruction %q", "emit_mian",
	)

	formatter := errors.NewTextFormatter()
	fmt.Println(formatter.Format(err))
	// Output: lexer.rl:4:1: invalid instruction "emit_mian"
}

// Example showing how to use JSONFormatter for tooling output
func ExampleJSONFormatter() {
	err := parser.Errorf(
		ast.Position{Filename: "lexer.rl", Line: 4, Column: 1},
		"expected action",
	)

	formatter := errors.NewJSONFormatter()
	fmt.Println(formatter.Format(err))
	// Output: {"type":"*parser.ParseError","message":"lexer.rl:4:1: expected action","position":{"filename":"lexer.rl","line":4,"column":1}}
}
