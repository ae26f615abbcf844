// Package parser reads lexer specification files.
//
// A specification has five sections separated by %% delimiters: a verbatim
// prologue, generator instructions, named pattern definitions, token rules,
// and a verbatim epilogue. Rules are entries of the form
//
//	pattern %{ action %}
//	pattern %{name%} %{ action %}
//
// where the optional bare-name block assigns the rule to a named parser
// spec. Inside verbatim text and action blocks a % passes through unless it
// forms the %% delimiter or the %} terminator. Errors abort parsing and
// carry a file:line:column position.
package parser

import (
	"strings"

	"github.com/robinvdvleuten/reglex/ast"
)

// Parse parses specification source. The filename is used for positions
// only.
func Parse(source []byte, filename string) (*ast.Spec, error) {
	p := &parser{r: newReader(source, filename)}
	return p.parse()
}

type parser struct {
	r *reader
}

func (p *parser) parse() (*ast.Spec, error) {
	spec := &ast.Spec{}
	var err error
	if spec.Prologue, err = p.verbatim(false); err != nil {
		return nil, err
	}
	if spec.Instructions, err = p.instructions(); err != nil {
		return nil, err
	}
	if spec.Definitions, err = p.definitions(); err != nil {
		return nil, err
	}
	if spec.Rules, err = p.rules(); err != nil {
		return nil, err
	}
	if spec.Epilogue, err = p.verbatim(true); err != nil {
		return nil, err
	}
	return spec, nil
}

// verbatim consumes copied-through text up to a %% delimiter. The epilogue
// runs to the end of the file instead (a stray trailing %% still ends it).
func (p *parser) verbatim(untilEOF bool) (ast.Verbatim, error) {
	v := ast.Verbatim{Pos: p.r.position()}
	var text strings.Builder
	for {
		c, ok := p.r.next()
		if !ok {
			if !untilEOF {
				return v, Errorf(p.r.position(), "unexpected end of file")
			}
			break
		}
		if c == '%' {
			if c2, ok := p.r.peek(); ok && c2 == '%' {
				p.r.next()
				break
			}
		}
		text.WriteByte(c)
	}
	v.Text = text.String()
	return v, nil
}

func (p *parser) instructions() ([]*ast.Instruction, error) {
	var instrs []*ast.Instruction
	for {
		p.skipSpace()
		if done, err := p.delimiter(); err != nil {
			return nil, err
		} else if done {
			return instrs, nil
		}
		pos := p.r.position()
		name := p.name()
		if name == "" {
			return nil, p.unexpected("instruction name")
		}
		switch name {
		case ast.EmitMain, ast.EmitInputVar:
		default:
			return nil, Errorf(pos, "invalid instruction %q", name)
		}
		instrs = append(instrs, &ast.Instruction{Name: name, Pos: pos})
	}
}

func (p *parser) definitions() ([]*ast.Definition, error) {
	var defs []*ast.Definition
	for {
		p.skipSpace()
		if done, err := p.delimiter(); err != nil {
			return nil, err
		} else if done {
			return defs, nil
		}
		pos := p.r.position()
		name := p.name()
		if name == "" {
			return nil, p.unexpected("definition name")
		}
		for _, d := range defs {
			if d.Name == name {
				return nil, Errorf(pos, "duplicate definition %q", name)
			}
		}
		p.skipSpace()
		patternPos := p.r.position()
		pattern := p.pattern()
		if pattern == "" {
			return nil, p.unexpected("pattern")
		}
		defs = append(defs, &ast.Definition{Name: name, Pattern: pattern, Pos: pos, PatternPos: patternPos})
	}
}

func (p *parser) rules() ([]*ast.Rule, error) {
	var rules []*ast.Rule
	tag := 0
	for {
		p.skipSpace()
		c, ok := p.r.peek()
		if !ok {
			return nil, Errorf(p.r.position(), "unexpected end of file")
		}
		if c == '%' {
			pos := p.r.position()
			p.r.next()
			switch c2, ok := p.r.peek(); {
			case ok && c2 == '%':
				p.r.next()
				return rules, nil
			case ok && c2 == '{':
				return nil, Errorf(pos, "expected pattern before action")
			default:
				return nil, Errorf(pos, `stray "%%" (write \%% to match a literal percent)`)
			}
		}

		rule := &ast.Rule{Tag: tag, Pos: p.r.position(), Pattern: p.pattern()}
		p.skipSpace()
		text, textPos, err := p.block()
		if err != nil {
			return nil, err
		}
		rule.Action, rule.ActionPos = text, textPos

		// A bare-name block is a parser header when another block
		// follows; otherwise it was the action.
		if isName(text) {
			p.skipSpace()
			if c, ok := p.r.peek(); ok && c == '%' {
				pos := p.r.position()
				p.r.next()
				switch c2, ok := p.r.peek(); {
				case ok && c2 == '{':
					p.r.next()
					rule.Parser = text
					if rule.Action, rule.ActionPos, err = p.blockBody(); err != nil {
						return nil, err
					}
				case ok && c2 == '%':
					p.r.next()
					rules = append(rules, rule)
					return rules, nil
				default:
					return nil, Errorf(pos, `stray "%%" (write \%% to match a literal percent)`)
				}
			}
		}

		rules = append(rules, rule)
		tag++
	}
}

// pattern consumes pattern text up to the first unescaped whitespace. A
// backslash always takes the following byte with it, so escaped spaces
// stay inside the pattern.
func (p *parser) pattern() string {
	start := p.r.pos
	for {
		c, ok := p.r.peek()
		if !ok || isSpace(c) {
			break
		}
		p.r.next()
		if c == '\\' {
			p.r.next()
		}
	}
	return string(p.r.src[start:p.r.pos])
}

// block consumes a %{ ... %} region and returns its contents with the
// position where they start.
func (p *parser) block() (string, ast.Position, error) {
	pos := p.r.position()
	if c, ok := p.r.next(); !ok || c != '%' {
		return "", pos, Errorf(pos, "expected action")
	}
	if c, ok := p.r.next(); !ok || c != '{' {
		return "", pos, Errorf(pos, "expected action")
	}
	return p.blockBody()
}

// blockBody consumes block contents after the opening %{ has been
// consumed. A % passes through unless followed by }.
func (p *parser) blockBody() (string, ast.Position, error) {
	pos := p.r.position()
	var text strings.Builder
	for {
		c, ok := p.r.next()
		if !ok {
			return "", pos, Errorf(p.r.position(), "unterminated action")
		}
		if c == '%' {
			if c2, ok := p.r.peek(); ok && c2 == '}' {
				p.r.next()
				return text.String(), pos, nil
			}
		}
		text.WriteByte(c)
	}
}

// delimiter consumes a %% section delimiter if one is next. A lone % where
// a new entry may start is reserved and rejected.
func (p *parser) delimiter() (bool, error) {
	c, ok := p.r.peek()
	if !ok {
		return false, Errorf(p.r.position(), "unexpected end of file")
	}
	if c != '%' {
		return false, nil
	}
	pos := p.r.position()
	p.r.next()
	if c2, ok := p.r.peek(); !ok || c2 != '%' {
		return false, Errorf(pos, `expected "%%"`)
	}
	p.r.next()
	return true, nil
}

func (p *parser) name() string {
	start := p.r.pos
	for {
		c, ok := p.r.peek()
		if !ok || !isNameByte(c) {
			break
		}
		p.r.next()
	}
	return string(p.r.src[start:p.r.pos])
}

func (p *parser) skipSpace() {
	for {
		c, ok := p.r.peek()
		if !ok || !isSpace(c) {
			return
		}
		p.r.next()
	}
}

func (p *parser) unexpected(expected string) error {
	pos := p.r.position()
	if c, ok := p.r.peek(); ok {
		return Errorf(pos, "expected %s, found %q", expected, c)
	}
	return Errorf(pos, "expected %s, found end of file", expected)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}

func isNameByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}
