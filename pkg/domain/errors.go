package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrEmptyCommand is returned when a CommandSpec has no argv.
var ErrEmptyCommand = errors.New("command must be a non-empty argument vector")

// ErrTargetExists is returned when a clone target directory already exists.
var ErrTargetExists = errors.New("target directory already exists")

// ErrLockAcquire is returned when the compile lock cannot be acquired.
var ErrLockAcquire = errors.New("failed to acquire compile lock")

// ValidationError reports malformed input. It is never retried
// automatically; the caller must correct the input first.
type ValidationError struct {
	Field  string // Logical field name (e.g. "branch", "url")
	Reason string // Human-readable reason for the rejection
	Value  string // The offending value (truncated in the message)
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s (got %q)", e.Field, e.Reason, truncate(e.Value, 50))
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// CommandFailedError reports a checked non-zero exit from a mediated process.
type CommandFailedError struct {
	Command  CommandSpec
	ExitCode int
	Stderr   string
}

func (e *CommandFailedError) Error() string {
	return fmt.Sprintf("command failed with exit code %d: %s: %s",
		e.ExitCode, e.Command.String(), truncate(e.Stderr, 200))
}

// CommandTimeoutError reports that a process exceeded its time bound.
// The process has been killed by the time this error is returned.
type CommandTimeoutError struct {
	Command CommandSpec
	Timeout time.Duration
}

func (e *CommandTimeoutError) Error() string {
	return fmt.Sprintf("command timed out after %s: %s", e.Timeout, e.Command.String())
}

// PDFNotProducedError reports that every compilation pass succeeded yet
// the expected artifact is missing.
type PDFNotProducedError struct {
	Path string
}

func (e *PDFNotProducedError) Error() string {
	return fmt.Sprintf("compilation reported success but no PDF was produced at %s", e.Path)
}
