package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCommandError(t *testing.T) {
	t.Run("implements error interface", func(t *testing.T) {
		err := NewCommandError(1)
		assert.Error(t, err)
	})

	t.Run("returns exit code", func(t *testing.T) {
		err := NewCommandError(42)
		assert.Equal(t, err.ExitCode(), 42)
	})

	t.Run("unwraps through errors.As", func(t *testing.T) {
		// main digs the exit code out of whatever Run returns.
		wrapped := fmt.Errorf("run: %w", NewCommandError(3))

		var cmdErr *CommandError
		assert.True(t, errors.As(wrapped, &cmdErr))
		assert.Equal(t, cmdErr.ExitCode(), 3)
	})
}

func TestCommandResult(t *testing.T) {
	t.Run("Success returns zero exit code", func(t *testing.T) {
		result := Success()
		assert.Equal(t, result.ExitCode, 0)
		assert.True(t, result.Err == nil)
	})

	t.Run("Failure keeps the cause", func(t *testing.T) {
		cause := errors.New("failed to read lexer.rl")
		result := Failure(cause)
		assert.Equal(t, result.ExitCode, 1)
		assert.Equal(t, result.Err, cause)
	})
}
