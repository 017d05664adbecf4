// Package latex implements the multi-pass document compilation state
// machine: Init -> Pass(1) -> [BibPass] -> Pass(2) ... -> Done | Failed.
//
// Two properties hold for every compile:
//
//   - The typesetting tool always runs with shell escape disabled, so
//     the document source cannot spawn processes even if the content
//     sanitizer missed a directive.
//   - The whole pass sequence holds a per-project-directory lock, so
//     two compiles can never interleave on the same auxiliary files.
package latex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/adapters/memlock"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
)

// Recorder observes compilation passes. internal/metrics provides the
// Prometheus implementation.
type Recorder interface {
	ObserveCompilePass()
}

// Compiler drives the typesetting and bibliography tools.
type Compiler struct {
	exec        ports.Executor
	locker      ports.Locker
	logger      *slog.Logger
	recorder    Recorder
	tool        string
	bibTool     string
	runs        int
	passTimeout time.Duration
	bibTimeout  time.Duration
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithLocker replaces the default in-process lock, e.g. with the Redis
// locker when replicas share a workspace volume.
func WithLocker(l ports.Locker) Option {
	return func(c *Compiler) { c.locker = l }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Compiler) { c.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Compiler) { c.recorder = r }
}

// WithTool overrides the typesetting tool (default pdflatex).
func WithTool(tool string) Option {
	return func(c *Compiler) { c.tool = tool }
}

// WithBibTool overrides the bibliography tool (default bibtex).
func WithBibTool(tool string) Option {
	return func(c *Compiler) { c.bibTool = tool }
}

// WithRuns sets the number of passes. Three passes let cross-references,
// the table of contents, and bibliography citations converge.
func WithRuns(runs int) Option {
	return func(c *Compiler) {
		if runs > 0 {
			c.runs = runs
		}
	}
}

// WithPassTimeout bounds each individual pass.
func WithPassTimeout(d time.Duration) Option {
	return func(c *Compiler) { c.passTimeout = d }
}

// New creates a Compiler over the given executor.
func New(executor ports.Executor, opts ...Option) *Compiler {
	c := &Compiler{
		exec:        executor,
		locker:      memlock.New(),
		logger:      slog.Default(),
		tool:        "pdflatex",
		bibTool:     "bibtex",
		runs:        3,
		passTimeout: 2 * time.Minute,
		bibTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// state tracks one compile invocation. It lives only for the duration
// of a Compile call and is discarded on return.
type state struct {
	pass     int
	maxPass  int
	bibRan   bool
	artifact string
}

// Compile runs the full pass sequence for texFile inside projectDir and
// returns the path of the produced PDF.
//
// texFile must be a bare filename ending in .tex; passing a path is
// rejected so the filename parameter cannot be a traversal vector. The
// first failing pass aborts the sequence immediately. The bibliography
// pass (after pass 1, only when a .bib file exists) is best effort: its
// failure is logged and swallowed because later passes can still
// succeed with a stale bibliography.
func (c *Compiler) Compile(ctx context.Context, texFile, projectDir string) (string, error) {
	if !strings.HasSuffix(texFile, ".tex") {
		return "", &domain.ValidationError{Field: "tex file", Reason: "must end with .tex", Value: texFile}
	}
	if strings.ContainsAny(texFile, `/\`) {
		return "", &domain.ValidationError{Field: "tex file", Reason: "must be a filename, not a path", Value: texFile}
	}
	info, err := os.Stat(projectDir)
	if err != nil || !info.IsDir() {
		return "", &domain.ValidationError{Field: "project directory", Reason: "not a directory", Value: projectDir}
	}
	if _, err := os.Stat(filepath.Join(projectDir, texFile)); err != nil {
		return "", &domain.ValidationError{Field: "tex file", Reason: "not found in project directory", Value: texFile}
	}

	baseName := strings.TrimSuffix(texFile, ".tex")

	// Hold the directory lock for the whole sequence; the TTL covers
	// the worst case so a crashed holder cannot wedge the directory
	// forever when the distributed locker is in use.
	ttl := time.Duration(c.runs)*c.passTimeout + c.bibTimeout + time.Minute
	unlock, err := c.locker.Lock(ctx, projectDir, ttl)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLockAcquire, err)
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			c.logger.Warn("failed to release compile lock", "dir", projectDir, "err", err)
		}
	}()

	st := state{maxPass: c.runs}
	c.logger.Info("compiling document", "file", texFile, "dir", projectDir, "passes", c.runs)

	for st.pass = 1; st.pass <= st.maxPass; st.pass++ {
		if err := c.runPass(ctx, &st, texFile, projectDir); err != nil {
			return "", err
		}
		if st.pass == 1 && !st.bibRan && hasBibDatabase(projectDir) {
			c.runBibliography(ctx, &st, baseName, projectDir)
		}
	}

	st.artifact = filepath.Join(projectDir, baseName+".pdf")
	if _, err := os.Stat(st.artifact); err != nil {
		return "", &domain.PDFNotProducedError{Path: st.artifact}
	}

	c.logger.Info("compilation successful", "pdf", st.artifact)
	return st.artifact, nil
}

func (c *Compiler) runPass(ctx context.Context, st *state, texFile, projectDir string) error {
	c.logger.Info("typesetting pass", "pass", st.pass, "of", st.maxPass)
	if c.recorder != nil {
		c.recorder.ObserveCompilePass()
	}

	spec := domain.CommandSpec{
		Argv: []string{
			c.tool,
			"-interaction=nonstopmode",
			"-no-shell-escape",
			"-halt-on-error",
			texFile,
		},
		Dir:           projectDir,
		Timeout:       c.passTimeout,
		// Exit code handled here so the failing pass's stdout can be
		// surfaced: the typesetting tool reports errors on stdout.
		CheckExitCode: false,
	}

	result, err := c.exec.Execute(ctx, spec)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		c.logger.Error("typesetting pass failed", "pass", st.pass, "exit_code", result.ExitCode, "output", result.Stdout)
		stderr := result.Stderr
		if stderr == "" {
			stderr = result.Stdout
		}
		return &domain.CommandFailedError{Command: spec, ExitCode: result.ExitCode, Stderr: stderr}
	}
	return nil
}

// runBibliography is best effort: a missing or stale bibliography does
// not invalidate the rest of the document.
func (c *Compiler) runBibliography(ctx context.Context, st *state, baseName, projectDir string) {
	st.bibRan = true
	c.logger.Info("running bibliography tool", "base", baseName)

	_, err := c.exec.Execute(ctx, domain.CommandSpec{
		Argv:          []string{c.bibTool, baseName},
		Dir:           projectDir,
		Timeout:       c.bibTimeout,
		CheckExitCode: false,
	})
	if err != nil {
		c.logger.Warn("bibliography tool failed, continuing with stale bibliography", "err", err)
	}
}

func hasBibDatabase(projectDir string) bool {
	matches, err := filepath.Glob(filepath.Join(projectDir, "*.bib"))
	return err == nil && len(matches) > 0
}
