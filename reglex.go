// Package reglex compiles lexer specifications into Go lexical analyzers.
//
// A specification declares prioritized token patterns with code actions,
// grouped into parser specs. Compile turns one into a tagged DFA per
// parser spec plus an interpreted scanner program, ready to tokenize
// input directly or to be emitted as a standalone Go source file through
// the codegen package. The reglex command wraps this package.
package reglex

import (
	"context"
	"errors"
	"fmt"

	"github.com/robinvdvleuten/reglex/ast"
	"github.com/robinvdvleuten/reglex/automaton"
	"github.com/robinvdvleuten/reglex/codegen"
	"github.com/robinvdvleuten/reglex/parser"
	"github.com/robinvdvleuten/reglex/regex"
	"github.com/robinvdvleuten/reglex/scanner"
	"github.com/robinvdvleuten/reglex/telemetry"
)

// Compiled is a successfully compiled specification: the parsed tree, the
// per-parser automata in declaration order, and an interpreted program
// that scans input without generated code.
type Compiled struct {
	Spec    *ast.Spec
	Parsers []codegen.Parser
	Program *scanner.Program
}

// Compile parses and compiles a specification. Build failures carry
// positions into the source: syntax errors as *parser.ParseError, pattern
// errors as *BuildError.
func Compile(ctx context.Context, source []byte, filename string) (*Compiled, error) {
	defer telemetry.StartTimer(ctx, "compile").End()

	timer := telemetry.StartTimer(ctx, "parse")
	spec, err := parser.Parse(source, filename)
	timer.End()
	if err != nil {
		return nil, err
	}

	return compile(ctx, spec)
}

func compile(ctx context.Context, spec *ast.Spec) (*Compiled, error) {
	defer telemetry.StartTimer(ctx, "automata").End()

	if len(spec.Rules) == 0 {
		return nil, parser.Errorf(spec.Epilogue.Pos, "specification declares no token rules")
	}

	// Definitions resolve in declaration order, so a definition may only
	// reference the ones above it.
	defs := make(map[string]regex.Expr, len(spec.Definitions))
	for _, def := range spec.Definitions {
		expr, err := regex.Parse(def.Pattern, regex.WithDefinitions(defs))
		if err != nil {
			return nil, patternError(def.PatternPos, def.Pattern, -1, err)
		}
		defs[def.Name] = expr
	}

	c := &Compiled{Spec: spec}
	var specs []scanner.Spec
	for _, name := range spec.ParserNames() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		timer := telemetry.StartTimer(ctx, "spec "+displayName(name))
		dfa, err := compileSpec(spec, name, defs)
		timer.End()
		if err != nil {
			return nil, err
		}

		c.Parsers = append(c.Parsers, codegen.Parser{Name: name, DFA: dfa})
		specs = append(specs, scanner.Spec{Name: name, Scan: scanner.Interpret(dfa)})
	}

	program, err := scanner.NewProgram(specs...)
	if err != nil {
		return nil, err
	}
	c.Program = program
	return c, nil
}

func compileSpec(spec *ast.Spec, name string, defs map[string]regex.Expr) (*automaton.DFA, error) {
	rules := spec.RulesFor(name)
	patterns := make([]automaton.Pattern, len(rules))
	for i, r := range rules {
		expr, err := regex.Parse(r.Pattern, regex.WithDefinitions(defs))
		if err != nil {
			return nil, patternError(r.Pos, r.Pattern, r.Tag, err)
		}
		patterns[i] = automaton.Pattern{Expr: expr, Tag: r.Tag}
	}

	dfa, err := automaton.Compile(patterns)
	if err != nil {
		var empty *automaton.EmptyMatchError
		if errors.As(err, &empty) {
			if r := ruleByTag(spec, empty.Tag); r != nil {
				return nil, patternError(r.Pos, r.Pattern, r.Tag, err)
			}
		}
		return nil, err
	}
	return dfa, nil
}

// Generate emits the compiled specification as Go source. It is shorthand
// for codegen.Generate over the compiled parsers.
func (c *Compiled) Generate(ctx context.Context, opts ...codegen.Option) ([]byte, error) {
	return codegen.Generate(ctx, c.Spec, c.Parsers, opts...)
}

// NewSession starts a scanning session over the interpreted program.
func (c *Compiled) NewSession(opts ...scanner.Option) *scanner.Session {
	return scanner.New(c.Program, opts...)
}

func displayName(name string) string {
	if name == "" {
		return "<default>"
	}
	return name
}

func ruleByTag(spec *ast.Spec, tag int) *ast.Rule {
	for _, r := range spec.Rules {
		if r.Tag == tag {
			return r
		}
	}
	return nil
}

// BuildError reports a pattern that could not be compiled. Pos points at
// the offending spot inside the pattern text; Rule is the global tag of
// the rule the pattern belongs to, or -1 for a named definition.
type BuildError struct {
	Pos     ast.Position
	Pattern string
	Rule    int

	msg string
	err error
}

func patternError(pos ast.Position, pattern string, rule int, err error) *BuildError {
	e := &BuildError{Pos: pos, Pattern: pattern, Rule: rule, msg: err.Error(), err: err}
	var syn *regex.SyntaxError
	if errors.As(err, &syn) {
		e.Pos = advance(pos, pattern, syn.Offset)
		e.msg = syn.Msg
	}
	return e
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.msg)
}

func (e *BuildError) Unwrap() error { return e.err }

// GetPosition returns the error's position, for renderers that show
// source context.
func (e *BuildError) GetPosition() ast.Position { return e.Pos }

// GetPattern returns the pattern text that failed to compile.
func (e *BuildError) GetPattern() string { return e.Pattern }

// GetRule returns the global tag of the offending rule, or -1 when the
// pattern belongs to a definition.
func (e *BuildError) GetRule() int { return e.Rule }

// advance walks pos forward over the first n bytes of text. Pattern text
// may contain escaped newlines, so lines are tracked too.
func advance(pos ast.Position, text string, n int) ast.Position {
	if n > len(text) {
		n = len(text)
	}
	for i := 0; i < n; i++ {
		pos.Offset++
		if text[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
