package cli

// CommandError signals a command failure with a specific exit code. A
// command returns it after rendering its own diagnostics; main reads the
// code instead of commands calling os.Exit mid-flight.
type CommandError struct {
	exitCode int
}

// NewCommandError creates a CommandError carrying the given exit code.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}

// CommandResult is the outcome of one build run. Single runs convert it
// to a CommandError; the watch loop inspects it between rebuilds.
type CommandResult struct {
	// ExitCode is the code to hand to the OS: 0 for success.
	ExitCode int

	// Err is the failure behind a non-zero exit code. Diagnostics for it
	// have already been rendered.
	Err error
}

// Success returns a CommandResult for a completed run.
func Success() CommandResult {
	return CommandResult{ExitCode: 0}
}

// Failure returns a CommandResult for a failed run.
func Failure(err error) CommandResult {
	return CommandResult{ExitCode: 1, Err: err}
}
