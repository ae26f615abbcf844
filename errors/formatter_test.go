package errors

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/reglex/ast"
)

type positionedError struct {
	pos ast.Position
	msg string
}

func (e positionedError) Error() string             { return fmt.Sprintf("%s: %s", e.pos, e.msg) }
func (e positionedError) GetPosition() ast.Position { return e.pos }

type ruleError struct {
	positionedError
	pattern string
	rule    int
}

func (e ruleError) GetPattern() string { return e.pattern }
func (e ruleError) GetRule() int       { return e.rule }

func TestTextFormatter_Format_Plain(t *testing.T) {
	tf := NewTextFormatter()

	err := fmt.Errorf("something went wrong")
	assert.Equal(t, "something went wrong", tf.Format(err))
}

func TestTextFormatter_Format_Positioned(t *testing.T) {
	tf := NewTextFormatter()

	err := positionedError{
		pos: ast.Position{Filename: "lexer.rl", Line: 3, Column: 1},
		msg: `invalid instruction "bogus"`,
	}

	// Without source the position already rendered by Error() is all
	// there is to show.
	assert.Equal(t, `lexer.rl:3:1: invalid instruction "bogus"`, tf.Format(err))
}

func TestTextFormatter_Format_WithSourceContext(t *testing.T) {
	source := []byte("package main\n%%\nbogus\n%%\n")
	tf := NewTextFormatter(WithSource(source))

	err := positionedError{
		pos: ast.Position{Filename: "lexer.rl", Line: 3, Column: 1},
		msg: `invalid instruction "bogus"`,
	}

	expected := "lexer.rl:3:1: invalid instruction \"bogus\"\n\n" +
		"   package main\n" +
		"   %%\n" +
		"   bogus\n" +
		"   ^\n" +
		"   %%\n" +
		"   \n"
	assert.Equal(t, expected, tf.Format(err))
}

func TestTextFormatter_Format_CaretColumn(t *testing.T) {
	source := []byte("NUM [0-9]\nNUM [0-9]\n")
	tf := NewTextFormatter(WithSource(source))

	err := positionedError{
		pos: ast.Position{Filename: "defs.rl", Line: 2, Column: 5},
		msg: "bad pattern",
	}

	expected := "defs.rl:2:5: bad pattern\n\n" +
		"   NUM [0-9]\n" +
		"   NUM [0-9]\n" +
		"       ^\n" +
		"   \n"
	assert.Equal(t, expected, tf.Format(err))
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()

	assert.Equal(t, "", tf.FormatAll(nil))

	errs := []error{
		fmt.Errorf("first"),
		fmt.Errorf("second"),
	}
	assert.Equal(t, "first\n\nsecond", tf.FormatAll(errs))
}

func TestJSONFormatter_Format(t *testing.T) {
	jf := NewJSONFormatter()

	err := ruleError{
		positionedError: positionedError{
			pos: ast.Position{Filename: "lexer.rl", Line: 7, Column: 1},
			msg: "token pattern accepts the empty string",
		},
		pattern: "a*",
		rule:    2,
	}

	var decoded ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(err)), &decoded))

	assert.Equal(t, "errors.ruleError", decoded.Type)
	assert.Equal(t, "lexer.rl:7:1: token pattern accepts the empty string", decoded.Message)
	assert.NotZero(t, decoded.Position)
	assert.Equal(t, "lexer.rl", decoded.Position.Filename)
	assert.Equal(t, 7, decoded.Position.Line)
	assert.Equal(t, 1, decoded.Position.Column)
	assert.Equal(t, "a*", decoded.Details["pattern"].(string))
	assert.Equal(t, float64(2), decoded.Details["rule"].(float64))
}

func TestJSONFormatter_Format_PlainError(t *testing.T) {
	jf := NewJSONFormatter()

	var decoded ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.Format(fmt.Errorf("boom"))), &decoded))

	assert.Equal(t, "boom", decoded.Message)
	assert.Zero(t, decoded.Position)
	assert.Zero(t, decoded.Details)
}

func TestJSONFormatter_FormatAll(t *testing.T) {
	jf := NewJSONFormatter()

	errs := []error{
		fmt.Errorf("first"),
		positionedError{pos: ast.Position{Filename: "f.rl", Line: 1, Column: 2}, msg: "second"},
	}

	var decoded []ErrorJSON
	assert.NoError(t, json.Unmarshal([]byte(jf.FormatAll(errs)), &decoded))

	assert.Equal(t, 2, len(decoded))
	assert.Equal(t, "first", decoded[0].Message)
	assert.Equal(t, "f.rl:1:2: second", decoded[1].Message)
}
