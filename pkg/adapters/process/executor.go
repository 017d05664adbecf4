// Package process implements the ports.Executor over the local OS
// process API.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/aretw0/folio/pkg/domain"
)

// Recorder observes executed commands. internal/metrics provides the
// Prometheus implementation; tests use the zero value (nil).
type Recorder interface {
	ObserveCommand(program, outcome string, elapsed time.Duration)
}

// Executor runs processes from explicit argument vectors.
//
// Security: the argv is handed to the OS process API as-is. It is never
// joined into a single string and never passed through a shell, which
// makes injection structurally impossible regardless of what characters
// a validated value still contains. Validation upstream is defense in
// depth, not the primary guarantee.
type Executor struct {
	logger   *slog.Logger
	recorder Recorder
}

// Option configures the Executor.
type Option func(*Executor)

// WithLogger sets the audit logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Executor) {
		e.recorder = r
	}
}

// New creates a new process Executor.
func New(opts ...Option) *Executor {
	e := &Executor{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs one process and waits for it to finish or time out.
//
// A non-zero exit is a CommandFailedError when spec.CheckExitCode is
// set; timeout expiry kills the child and returns CommandTimeoutError.
// Calls are safe to run concurrently for independent working
// directories: each call owns a separate child process.
func (e *Executor) Execute(ctx context.Context, spec domain.CommandSpec) (domain.ExecutionResult, error) {
	if len(spec.Argv) == 0 || spec.Argv[0] == "" {
		return domain.ExecutionResult{}, domain.ErrEmptyCommand
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Argv semantics, never a shell string. spec.String() below is a
	// quoted rendering for the audit log only and is never re-parsed.
	cmd := exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = 3 * time.Second

	if len(spec.Env) > 0 {
		env := os.Environ()
		for k, v := range spec.Env {
			env = append(env, k+"="+v)
		}
		cmd.Env = env
	}

	var stdout, stderr bytes.Buffer
	if !spec.DiscardOutput {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	e.logger.Info("executing command", "cmd", spec.String(), "dir", spec.Dir, "timeout", timeout)

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	result := domain.ExecutionResult{
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
		Elapsed: elapsed,
	}

	if ctx.Err() == context.DeadlineExceeded {
		e.logger.Error("command timed out", "cmd", spec.String(), "timeout", timeout)
		e.observe(spec.Program(), "timeout", elapsed)
		return result, &domain.CommandTimeoutError{Command: spec, Timeout: timeout}
	}

	if runErr != nil && ctx.Err() == context.Canceled {
		e.logger.Info("command canceled", "cmd", spec.String())
		e.observe(spec.Program(), "canceled", elapsed)
		return result, fmt.Errorf("command %q canceled: %w", spec.Program(), ctx.Err())
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			if spec.CheckExitCode {
				e.logger.Error("command failed", "cmd", spec.String(), "exit_code", result.ExitCode, "stderr", result.Stderr)
				e.observe(spec.Program(), "failed", elapsed)
				return result, &domain.CommandFailedError{
					Command:  spec,
					ExitCode: result.ExitCode,
					Stderr:   result.Stderr,
				}
			}
			// Unchecked non-zero exit: surface through the result only.
			e.logger.Info("command completed", "cmd", spec.String(), "exit_code", result.ExitCode)
			e.observe(spec.Program(), "success", elapsed)
			return result, nil
		}
		// Spawn failure (binary missing, permission denied, ...).
		e.observe(spec.Program(), "error", elapsed)
		return result, fmt.Errorf("failed to start %q: %w", spec.Program(), runErr)
	}

	e.logger.Info("command completed", "cmd", spec.String(), "exit_code", 0)
	e.observe(spec.Program(), "success", elapsed)
	return result, nil
}

func (e *Executor) observe(program, outcome string, elapsed time.Duration) {
	if e.recorder != nil {
		e.recorder.ObserveCommand(program, outcome, elapsed)
	}
}
