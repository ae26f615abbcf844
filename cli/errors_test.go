package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/robinvdvleuten/reglex/ast"
	"github.com/robinvdvleuten/reglex/parser"
)

func TestErrorRendererRenderWithSourceContext(t *testing.T) {
	source := `x
%%
%%
%%
a) %{ f() %}
%%
`
	err := parser.Errorf(ast.Position{Filename: "lexer.rl", Line: 5, Column: 2}, "unexpected %q", ')')

	renderer := NewErrorRenderer([]byte(source))
	rendered := renderer.Render(err)

	assert.Contains(t, rendered, "unexpected ')'")
	assert.Contains(t, rendered, "lexer.rl:5:2")
	assert.Contains(t, rendered, "a) %{ f() %}")
	assert.Contains(t, rendered, "^")

	// Source lines are indented three spaces and the caret follows the
	// offending line.
	lines := strings.Split(rendered, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "a) %{ f() %}") {
			continue
		}
		assert.True(t, strings.HasPrefix(line, "   "), "source line %q", line)
		assert.Contains(t, lines[i+1], "^")
		return
	}
	t.Fatalf("source line missing from output:\n%s", rendered)
}

func TestErrorRendererRenderWithoutSource(t *testing.T) {
	err := parser.Errorf(ast.Position{Filename: "lexer.rl", Line: 5, Column: 2}, "unexpected %q", ')')

	renderer := NewErrorRenderer(nil)
	assert.Equal(t, `lexer.rl:5:2: unexpected ')'`, renderer.Render(err))
}

func TestErrorRendererRenderPlainError(t *testing.T) {
	renderer := NewErrorRenderer([]byte("x\n%%\n"))
	assert.Equal(t, "watch error: boom", renderer.Render(errors.New("watch error: boom")))
}

func TestErrorRendererRenderAtBounds(t *testing.T) {
	source := "%%\n%%\n%%\n%%\n"
	renderer := NewErrorRenderer([]byte(source))

	first := renderer.renderWithSourceContext(ast.Position{Line: 1, Column: 1}, "boom")
	assert.Contains(t, first, "%%")
	assert.Contains(t, first, "^")

	// The last line has no context after it; rendering must not read
	// past the source.
	last := renderer.renderWithSourceContext(ast.Position{Line: 4, Column: 2}, "boom")
	assert.Contains(t, last, "^")
}

func TestCaretIndent(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		column int
		want   int
	}{
		{name: "FirstColumn", line: "abc", column: 1, want: 0},
		{name: "ASCII", line: "a) %{ f() %}", column: 2, want: 1},
		{name: "RuleLine", line: "{WORD} %{ emit() %}", column: 8, want: 7},
		{name: "PastLineEnd", line: "ab", column: 9, want: 2},
		{name: "WideRunes", line: "日本a", column: 7, want: 4},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, caretIndent(test.line, test.column))
		})
	}
}
