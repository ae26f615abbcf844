package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/reglex"
	"github.com/robinvdvleuten/reglex/codegen"
	"github.com/robinvdvleuten/reglex/errors"
	"github.com/robinvdvleuten/reglex/loader"
	"github.com/robinvdvleuten/reglex/output"
	"github.com/robinvdvleuten/reglex/telemetry"
)

// RootCmd is the reglex command: it compiles a lexer specification into
// Go source, or with --tokens runs the compiled lexer over an input
// directly.
type RootCmd struct {
	Output string `help:"Write the generated lexer to FILE instead of standard output." short:"o"`
	Debug  bool   `help:"Print automaton statistics and phase timings to standard error." short:"d"`
	Tokens string `help:"Skip code generation; tokenize FILE with the compiled specification and print one token per line (use '-' for stdin)."`
	Watch  bool   `help:"Rebuild whenever a specification file changes. Requires --output and file arguments."`
	Force  bool   `help:"Overwrite an --output file even when it was not generated by reglex."`
	JSON   bool   `help:"Report build errors as JSON on standard error."`

	Files []string `help:"Specification files, concatenated in argument order (use '-' or nothing for stdin)." arg:"" optional:""`
}

// Run executes a single build, or hands off to the watch loop.
func (cmd *RootCmd) Run(ctx *kong.Context) error {
	if cmd.Watch {
		if err := cmd.validateWatch(); err != nil {
			return err
		}
		return cmd.watch(ctx)
	}

	result := cmd.build(ctx)
	if result.ExitCode != 0 {
		return NewCommandError(result.ExitCode)
	}
	return nil
}

// build runs one load-compile-generate pass and renders every diagnostic
// it produces. The returned result carries the would-be exit code.
func (cmd *RootCmd) build(ctx *kong.Context) CommandResult {
	runCtx := context.Background()

	var collector telemetry.Collector
	if cmd.Debug {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)
	}

	rootTimer := telemetry.StartTimer(runCtx, "reglex "+cmd.inputName())
	defer func() {
		rootTimer.End()
		if collector != nil {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}
	}()

	ldr := loader.New()
	src, err := ldr.Load(runCtx, cmd.Files)
	if err != nil {
		cmd.renderError(ctx, err, nil)
		return Failure(err)
	}

	compiled, err := reglex.Compile(runCtx, src.Content, src.Name)
	if err != nil {
		cmd.renderError(ctx, err, src.Content)
		return Failure(err)
	}

	if cmd.Debug {
		cmd.dumpStats(ctx, compiled)
	}

	if cmd.Tokens != "" {
		return cmd.dumpTokens(ctx, compiled)
	}

	generated, err := compiled.Generate(runCtx)
	if err != nil {
		cmd.renderError(ctx, err, src.Content)
		return Failure(err)
	}
	formatted := codegen.Format(generated)

	if cmd.Output == "" {
		_, _ = ctx.Stdout.Write(formatted)
		return Success()
	}

	if err := cmd.writeOutput(formatted); err != nil {
		cmd.renderError(ctx, err, nil)
		return Failure(err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Wrote %s", pathStyle.Render(cmd.Output)))
	return Success()
}

// writeOutput writes the generated source to --output. A target that
// exists but does not carry the generated-code header is only replaced
// with --force or an interactive confirmation; losing hand-written code
// to a typo in -o would be unrecoverable.
func (cmd *RootCmd) writeOutput(content []byte) error {
	existing, err := os.ReadFile(cmd.Output)
	switch {
	case stdErrors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to read %s: %w", cmd.Output, err)
	case !cmd.Force && !codegen.IsGenerated(existing):
		confirmed, err := promptYesNo(fmt.Sprintf("File %q was not generated by reglex. Overwrite it?", cmd.Output))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("refusing to overwrite %s (use --force)", cmd.Output)
		}
	}

	return os.WriteFile(cmd.Output, content, 0644)
}

// renderError reports a build failure on stderr, as JSON when requested.
func (cmd *RootCmd) renderError(ctx *kong.Context, err error, source []byte) {
	if cmd.JSON {
		_, _ = fmt.Fprintln(ctx.Stderr, errors.NewJSONFormatter().Format(err))
		return
	}

	renderer := NewErrorRenderer(source)
	_, _ = fmt.Fprintln(ctx.Stderr, renderer.Render(err))
	_, _ = fmt.Fprintln(ctx.Stderr)
	printError(ctx.Stderr, "build failed")
}

type specStats struct {
	Spec   string
	Rules  int
	States int
}

func (cmd *RootCmd) dumpStats(ctx *kong.Context, compiled *reglex.Compiled) {
	for _, p := range compiled.Parsers {
		name := p.Name
		if name == "" {
			name = "<default>"
		}
		stats := specStats{
			Spec:   name,
			Rules:  len(compiled.Spec.RulesFor(p.Name)),
			States: p.DFA.NumStates(),
		}
		_, _ = fmt.Fprintln(ctx.Stderr, repr.String(stats))
	}
}

// inputName names the build after its inputs, stdin included, the way
// the loader does.
func (cmd *RootCmd) inputName() string {
	var names []string
	for _, file := range cmd.Files {
		if file == "-" {
			names = append(names, loader.StdinName)
		} else {
			names = append(names, filepath.Base(file))
		}
	}
	if len(names) == 0 {
		return loader.StdinName
	}
	return strings.Join(names, "+")
}
