// Package codegen emits the Go source of a compiled lexer.
//
// The emitted file embeds the specification's verbatim sections and wires
// the compiled automata to the scanner runtime: one scanning procedure
// per parser spec, an action dispatch switching on rule tags, and a
// program assembling them. Everything codegen adds is prefixed with
// reglex and its imports are aliased, so user code in the verbatim
// sections cannot collide with it.
//
// The prologue must supply the package clause and may add imports;
// declarations other than imports belong in the epilogue, since the
// emitted import block follows the prologue.
package codegen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"

	"github.com/robinvdvleuten/reglex/ast"
	"github.com/robinvdvleuten/reglex/automaton"
	"github.com/robinvdvleuten/reglex/telemetry"
)

// Parser is one compiled parser spec to emit: its name as written in a
// rule header (empty for the default) and its automaton.
type Parser struct {
	Name string
	DFA  *automaton.DFA
}

// Option configures generation.
type Option func(*generator)

// WithLineDirectives toggles //line directives mapping verbatim sections
// and actions back to the specification file. Enabled by default.
func WithLineDirectives(enabled bool) Option {
	return func(g *generator) {
		g.lines = enabled
	}
}

// WithSourceName overrides the specification file name used in the
// generated header and the //line directives.
func WithSourceName(name string) Option {
	return func(g *generator) {
		g.source = name
	}
}

// Generate emits the Go source for a compiled specification. The parsers
// must be in declaration order, the first being the default spec. The
// output is deterministic; it is not formatted, see Format.
func Generate(ctx context.Context, spec *ast.Spec, parsers []Parser, opts ...Option) ([]byte, error) {
	defer telemetry.StartTimer(ctx, "codegen").End()

	if len(parsers) == 0 {
		return nil, fmt.Errorf("no parser specs to generate")
	}

	g := &generator{
		spec:    spec,
		parsers: parsers,
		lines:   true,
		source:  spec.Prologue.Pos.Filename,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.file()
	return g.buf.Bytes(), nil
}

// Format runs generated source through go/format. Source that does not
// format, typically because a code action is not valid Go, is returned
// unchanged; the compiler then reports the offending spec position
// through the //line directives.
func Format(src []byte) []byte {
	formatted, err := format.Source(src)
	if err != nil {
		return src
	}
	return formatted
}

// headerPrefix opens every generated file, with or without a source name.
const headerPrefix = "// Code generated by reglex"

// IsGenerated reports whether src starts with the generated-code header.
// The reglex command consults it before overwriting an output file.
func IsGenerated(src []byte) bool {
	return bytes.HasPrefix(src, []byte(headerPrefix))
}

type generator struct {
	spec    *ast.Spec
	parsers []Parser
	lines   bool
	source  string
	buf     bytes.Buffer
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

// line emits a //line directive for pos. Directives only work at the
// start of a line, so callers emit them between whole lines.
func (g *generator) line(pos ast.Position) {
	if !g.lines || g.source == "" {
		return
	}
	g.printf("//line %s:%d\n", g.source, pos.Line)
}

// verbatim emits user text followed by a newline when the text does not
// bring its own.
func (g *generator) verbatim(v ast.Verbatim) {
	g.line(v.Pos)
	g.buf.WriteString(v.Text)
	if len(v.Text) == 0 || v.Text[len(v.Text)-1] != '\n' {
		g.buf.WriteByte('\n')
	}
}

func (g *generator) file() {
	emitMain := g.spec.Emits(ast.EmitMain)
	emitInputVar := g.spec.Emits(ast.EmitInputVar)

	if g.source != "" {
		g.printf("%s from %s. DO NOT EDIT.\n\n", headerPrefix, g.source)
	} else {
		g.printf("%s. DO NOT EDIT.\n\n", headerPrefix)
	}

	g.verbatim(g.spec.Prologue)
	g.buf.WriteByte('\n')

	g.printf("import (\n")
	if emitMain {
		g.printf("\treglexfmt \"fmt\"\n")
	}
	g.printf("\treglexio \"io\"\n")
	if emitMain || emitInputVar {
		g.printf("\treglexos \"os\"\n")
	}
	g.printf("\n")
	g.printf("\treglexscanner \"github.com/robinvdvleuten/reglex/scanner\"\n")
	g.printf(")\n\n")

	for i, p := range g.parsers {
		g.scanProc(i, p)
	}
	g.actions()
	g.program()
	if emitInputVar {
		g.inputVar()
	}
	if emitMain {
		g.main(emitInputVar)
	}

	if g.spec.Epilogue.Text != "" {
		g.buf.WriteByte('\n')
		g.verbatim(g.spec.Epilogue)
	}
}

// scanProc emits the scanning procedure for one parser spec: the scanner
// runtime loop with the spec's transition table baked into a state
// switch. Accept is inlined on every edge into an accepting state, so
// the checkpoint tracks the longest match seen so far.
func (g *generator) scanProc(i int, p Parser) {
	d := p.DFA
	if p.Name == "" {
		g.printf("// reglexScan%d is the scanning procedure of the default parser spec.\n", i)
	} else {
		g.printf("// reglexScan%d is the scanning procedure of parser spec %q.\n", i, p.Name)
	}
	g.printf("func reglexScan%d(lex *reglexscanner.Session) (reglexscanner.Result, error) {\n", i)
	g.printf("\tstate := %d\n", d.Start())
	g.printf("\tfor {\n")
	g.printf("\t\tc, err := lex.NextChar()\n")
	g.printf("\t\tif err != nil {\n")
	g.printf("\t\t\treturn 0, err\n")
	g.printf("\t\t}\n")
	g.printf("\t\tswitch state {\n")
	for s := 0; s < d.NumStates(); s++ {
		g.printf("\t\tcase %d:\n", s)
		edges := d.Ranges(s)
		if len(edges) == 0 {
			g.printf("\t\t\treturn lex.Reject()\n")
			continue
		}
		g.printf("\t\t\tswitch {\n")
		for _, e := range edges {
			g.printf("\t\t\tcase %s:\n", cond(e))
			g.printf("\t\t\t\tstate = %d\n", e.To)
			if tag := d.AcceptTag(e.To); tag != automaton.NoTag {
				g.printf("\t\t\t\tlex.Accept(%d)\n", tag)
			}
		}
		g.printf("\t\t\tdefault:\n")
		g.printf("\t\t\t\treturn lex.Reject()\n")
		g.printf("\t\t\t}\n")
	}
	g.printf("\t\t}\n")
	g.printf("\t}\n")
	g.printf("}\n\n")
}

// actions emits the dispatch running a finalized token's code action.
// Rule tags are global across parser specs, so one switch serves them
// all; each action body is mapped back to its spot in the specification.
func (g *generator) actions() {
	g.printf("// reglexActions dispatches a finalized token to its rule's code action.\n")
	g.printf("func reglexActions(lex *reglexscanner.Session, tag int) error {\n")
	g.printf("\tswitch tag {\n")
	for _, r := range g.spec.Rules {
		g.printf("\tcase %d:\n", r.Tag)
		g.line(r.ActionPos)
		g.buf.WriteString(r.Action)
		g.buf.WriteByte('\n')
	}
	g.printf("\t}\n")
	g.printf("\treturn nil\n")
	g.printf("}\n\n")
}

func (g *generator) program() {
	g.printf("var reglexProgram = reglexscanner.MustProgram(\n")
	for i, p := range g.parsers {
		g.printf("\treglexscanner.Spec{Name: %q, Scan: reglexScan%d},\n", p.Name, i)
	}
	g.printf(")\n\n")

	g.printf("// reglexNewLexer builds a scanning session over r with the generated\n")
	g.printf("// parser specs and their actions wired in.\n")
	g.printf("func reglexNewLexer(r reglexio.Reader, name string) *reglexscanner.Session {\n")
	g.printf("\treturn reglexscanner.New(reglexProgram,\n")
	g.printf("\t\treglexscanner.WithInput(r, name),\n")
	g.printf("\t\treglexscanner.WithActions(reglexActions),\n")
	g.printf("\t)\n")
	g.printf("}\n\n")
}

func (g *generator) inputVar() {
	g.printf("// reglexInputFS is the input stream the generated lexer reads. Override\n")
	g.printf("// it before scanning to lex something other than standard input.\n")
	g.printf("var reglexInputFS reglexio.Reader = reglexos.Stdin\n\n")
}

func (g *generator) main(emitInputVar bool) {
	input := "reglexos.Stdin"
	if emitInputVar {
		input = "reglexInputFS"
	}
	g.printf("func main() {\n")
	g.printf("\tlex := reglexNewLexer(%s, \"<stdin>\")\n", input)
	g.printf("\tcode, err := lex.ScanAll()\n")
	g.printf("\tif err != nil {\n")
	g.printf("\t\treglexfmt.Fprintln(reglexos.Stderr, \"reglex:\", err)\n")
	g.printf("\t\treglexos.Exit(1)\n")
	g.printf("\t}\n")
	g.printf("\tif code != 0 {\n")
	g.printf("\t\treglexfmt.Fprintf(reglexos.Stderr, \"reglex: input rejected at %%d:%%d\\n\", lex.Line(), lex.Column())\n")
	g.printf("\t}\n")
	g.printf("\treglexos.Exit(code)\n")
	g.printf("}\n")
}

// cond renders the match condition for one transition edge. The scanned
// character is an int, so the end-of-input sentinel never matches.
func cond(e automaton.Edge) string {
	if e.Lo == e.Hi {
		return fmt.Sprintf("c == %s", charLit(e.Lo))
	}
	return fmt.Sprintf("%s <= c && c <= %s", charLit(e.Lo), charLit(e.Hi))
}

func charLit(b byte) string {
	switch b {
	case '\n':
		return `'\n'`
	case '\r':
		return `'\r'`
	case '\t':
		return `'\t'`
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	}
	if b >= ' ' && b <= '~' {
		return "'" + string(b) + "'"
	}
	return fmt.Sprintf("0x%02x", b)
}
