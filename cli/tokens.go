package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/reglex"
	"github.com/robinvdvleuten/reglex/loader"
	"github.com/robinvdvleuten/reglex/scanner"
)

// dumpTokens scans the --tokens input with the interpreted program and
// prints one line per token: tag, pattern, position, lexeme. Code
// actions never run here; the dump inspects the automata, not user code.
func (cmd *RootCmd) dumpTokens(ctx *kong.Context, compiled *reglex.Compiled) CommandResult {
	var in io.Reader
	name := cmd.Tokens
	if name == "-" {
		in = os.Stdin
		name = loader.StdinName
	} else {
		f, err := os.Open(name)
		if err != nil {
			cmd.renderError(ctx, err, nil)
			return Failure(err)
		}
		defer f.Close()
		in = f
	}

	sess := compiled.NewSession(scanner.WithInput(in, name))
	for {
		res, err := sess.Scan()
		if err != nil {
			cmd.renderError(ctx, err, nil)
			return Failure(err)
		}

		switch res {
		case scanner.Done:
			return Success()
		case scanner.Stuck:
			err := fmt.Errorf("input rejected at %s:%d:%d", name, sess.Line(), sess.Column())
			cmd.renderError(ctx, err, nil)
			return Failure(err)
		}

		rule := compiled.Spec.Rules[sess.Tag()]
		_, _ = fmt.Fprintf(ctx.Stdout, "%-4d %-16s %d:%d    %q\n",
			sess.Tag(),
			rule.Pattern,
			sess.Line(),
			sess.Column(),
			sess.Lexeme())
	}
}
