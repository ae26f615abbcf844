// Package loader reads lexer specification sources for the CLI.
//
// A specification may be split across several files, given in the order
// their sections compose; the loader concatenates them into one source.
// A "-" entry or an empty file list reads standard input.
//
// Example usage:
//
//	ldr := loader.New()
//	src, err := ldr.Load(ctx, []string{"tokens.rl", "strings.rl"})
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robinvdvleuten/reglex/telemetry"
)

// StdinName is the display name used for standard input.
const StdinName = "<stdin>"

// Source is a loaded specification: the concatenated content, a display
// name for positions, and the disk paths that produced it. Paths holds
// only real files, so it is the watchable set; standard input is not in
// it.
type Source struct {
	Name    string
	Content []byte
	Paths   []string
}

// Loader reads specification files.
//
// Configure the loader using functional options passed to New:
//
//	ldr := New(WithStdin(r))
type Loader struct {
	// Stdin is the reader consumed for "-" entries and empty file lists.
	// It defaults to os.Stdin and is injectable for tests.
	Stdin io.Reader
}

// Option configures how sources are loaded.
type Option func(*Loader)

// WithStdin overrides the reader used for standard input.
func WithStdin(r io.Reader) Option {
	return func(l *Loader) {
		l.Stdin = r
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{
		Stdin: os.Stdin,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the named files in order and concatenates them into one
// source. A "-" entry reads standard input at that position; an empty
// list is equivalent to []string{"-"}.
func (l *Loader) Load(ctx context.Context, files []string) (*Source, error) {
	defer telemetry.StartTimer(ctx, "load").End()

	if len(files) == 0 {
		files = []string{"-"}
	}

	src := &Source{}
	var names []string
	var content []byte

	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		var data []byte
		var err error
		if file == "-" {
			data, err = io.ReadAll(l.Stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", StdinName, err)
			}
			names = append(names, StdinName)
		} else {
			data, err = os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", file, err)
			}
			names = append(names, file)
			src.Paths = append(src.Paths, file)
		}

		// A file without a trailing newline must not glue its last line
		// to the next file's first one.
		if len(content) > 0 && content[len(content)-1] != '\n' {
			content = append(content, '\n')
		}
		content = append(content, data...)
	}

	src.Name = strings.Join(names, "+")
	src.Content = content
	return src, nil
}
