package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay coalesces event bursts: editors often write a file in
// several steps.
const debounceDelay = 100 * time.Millisecond

// validateWatch rejects flag combinations the watch loop cannot serve:
// rebuilding is only meaningful onto a file, from files.
func (cmd *RootCmd) validateWatch() error {
	if cmd.Output == "" {
		return fmt.Errorf("--watch requires --output")
	}
	if len(cmd.Files) == 0 {
		return fmt.Errorf("--watch requires specification files, not stdin")
	}
	for _, file := range cmd.Files {
		if file == "-" {
			return fmt.Errorf("--watch requires specification files, not stdin")
		}
	}
	return nil
}

// watch rebuilds the output whenever a specification file changes. Build
// failures are reported and watching continues; an interrupt or
// terminate signal ends the loop cleanly.
func (cmd *RootCmd) watch(ctx *kong.Context) error {
	if result := cmd.build(ctx); result.Err != nil {
		printInfof(ctx.Stdout, "Waiting for changes to retry")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, file := range cmd.Files {
		if err := watcher.Add(file); err != nil {
			return fmt.Errorf("failed to watch %s: %w", file, err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printInfof(ctx.Stdout, "Watching %s", cmd.inputName())

	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	rebuilds := make(chan struct{}, 1)

	for {
		select {
		case <-runCtx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// Write for plain saves; Create/Remove/Rename for editors
			// that save atomically by replacing the file.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() {
				select {
				case rebuilds <- struct{}{}:
				default:
				}
			})

		case <-rebuilds:
			printInfof(ctx.Stdout, "Rebuilding %s", cmd.inputName())
			if result := cmd.build(ctx); result.Err != nil {
				printInfof(ctx.Stdout, "Waiting for changes to retry")
			}

			// Atomic saves replace the inode, so re-add every path.
			for _, file := range cmd.Files {
				if err := watcher.Add(file); err != nil {
					printError(ctx.Stderr, fmt.Sprintf("failed to watch %s: %v", file, err))
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printError(ctx.Stderr, fmt.Sprintf("watch error: %v", err))
		}
	}
}
