// Package script runs helper scripts through a fixed interpreter.
// The script path is checked before the interpreter is invoked; the
// arguments pass straight into the argument vector and are never shell
// parsed.
package script

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
)

// Runner executes scripts with a configured interpreter.
type Runner struct {
	exec        ports.Executor
	logger      *slog.Logger
	interpreter string
	extension   string
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// WithInterpreter overrides the interpreter binary (default python3).
func WithInterpreter(interpreter, extension string) Option {
	return func(r *Runner) {
		r.interpreter = interpreter
		r.extension = extension
	}
}

// New creates a script Runner over the given executor.
func New(executor ports.Executor, opts ...Option) *Runner {
	r := &Runner{
		exec:        executor,
		logger:      slog.Default(),
		interpreter: "python3",
		extension:   ".py",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOptions describes one script invocation.
type RunOptions struct {
	ScriptPath string
	Args       []string
	Dir        string
	// Timeout for the whole run. Zero means 5 minutes.
	Timeout time.Duration
	Env     map[string]string
}

// Run executes the script and returns the captured result. The script
// must exist and carry the interpreter's expected extension.
func (r *Runner) Run(ctx context.Context, opts RunOptions) (domain.ExecutionResult, error) {
	if _, err := os.Stat(opts.ScriptPath); err != nil {
		return domain.ExecutionResult{}, &domain.ValidationError{Field: "script", Reason: "not found", Value: opts.ScriptPath}
	}
	if filepath.Ext(opts.ScriptPath) != r.extension {
		return domain.ExecutionResult{}, &domain.ValidationError{Field: "script", Reason: "must have extension " + r.extension, Value: opts.ScriptPath}
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	argv := append([]string{r.interpreter, opts.ScriptPath}, opts.Args...)

	r.logger.Info("running script", "interpreter", r.interpreter, "script", opts.ScriptPath)

	return r.exec.Execute(ctx, domain.CommandSpec{
		Argv:          argv,
		Dir:           opts.Dir,
		Timeout:       timeout,
		Env:           opts.Env,
		CheckExitCode: true,
	})
}
