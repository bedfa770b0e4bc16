package claude

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	ErrCLINotFound    = errors.New("claude CLI not found")
	ErrAlreadyStarted = errors.New("process already started")
	ErrNotStarted     = errors.New("process not started")
)

// CLINotFoundError indicates the CLI binary could not be located or
// executed. Message carries installation guidance when discovery failed;
// Path names the binary that was tried when an explicit path failed.
type CLINotFoundError struct {
	Path    string
	Message string
}

func (e *CLINotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("Claude Code not found at %s", e.Path)
}

func (e *CLINotFoundError) Unwrap() error {
	return ErrCLINotFound
}

// ConnectionError indicates the CLI process could not be started or its
// output stream failed mid-read.
type ConnectionError struct {
	Cause   error
	Message string
}

func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("unable to connect to Claude Code: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("unable to connect to Claude Code: %s", e.Message)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ProcessError indicates the CLI process failed.
type ProcessError struct {
	Cause    error
	Message  string
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	msg := e.Message
	if e.ExitCode != 0 {
		msg = fmt.Sprintf("%s (exit code %d)", msg, e.ExitCode)
	}
	if e.Stderr != "" {
		msg = fmt.Sprintf("%s\nerror output: %s", msg, e.Stderr)
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Cause
}

// IsRecoverable reports whether the stream can continue after err.
// Per-record reconstruction errors are recoverable; process and discovery
// failures are not.
func IsRecoverable(err error) bool {
	if err == nil {
		return true
	}

	var procErr *ProcessError
	if errors.As(err, &procErr) {
		return false
	}

	var connErr *ConnectionError
	if errors.As(err, &connErr) {
		return false
	}

	if errors.Is(err, ErrCLINotFound) {
		return false
	}

	return true
}
