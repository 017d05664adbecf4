/*
Package folio is the secure execution boundary between an automated
paper-writing pipeline and the operating system. It mediates every
process the pipeline spawns: cloning reference repositories, running
helper scripts, and compiling the final typeset document.

One security invariant governs the whole module: no user- or
model-supplied string is ever interpreted by a command shell, or by the
typesetting language's own code-execution facilities. Untrusted input
flows one way:

	untrusted string -> validate -> typed safe value -> Executor (argv) -> result or typed failure

# Key Components

  - validate: Pure validators producing typed safe values (identifiers,
    paths, branch names, URLs) or a structured rejection.
  - adapters/process: The only process-creation site. Builds the child
    directly from an argument vector; there is no shell code path.
  - gitops: Safe clone/checkout workflows.
  - latex: Multi-pass compilation with shell escape disabled and a
    best-effort bibliography pass.
  - script: Helper script execution through a fixed interpreter.

The contract ends at command construction: folio does not sandbox the
content of code it did not itself invoke (a cloned repository's build
scripts are the caller's problem).
*/
package folio

import (
	"log/slog"
	"time"

	"github.com/aretw0/folio/pkg/adapters/process"
	"github.com/aretw0/folio/pkg/gitops"
	"github.com/aretw0/folio/pkg/latex"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/script"
)

// Version is the released version of folio.
const Version = "0.2.0"

// Boundary bundles the safe operations over one shared executor.
// It is the high-level entry point for library consumers; components
// can also be constructed individually.
type Boundary struct {
	Executor ports.Executor
	Git      *gitops.Git
	Latex    *latex.Compiler
	Script   *script.Runner
}

// Recorder is the union of the metric hooks the components accept.
// internal/metrics satisfies it.
type Recorder interface {
	process.Recorder
	latex.Recorder
}

// Option configures the Boundary.
type Option func(*settings)

type settings struct {
	logger      *slog.Logger
	recorder    Recorder
	locker      ports.Locker
	latexTool   string
	bibTool     string
	runs        int
	passTimeout time.Duration
	interpreter string
	scriptExt   string
}

// WithLogger sets the logger for all components.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithRecorder wires metrics into the executor and compiler.
func WithRecorder(r Recorder) Option {
	return func(s *settings) { s.recorder = r }
}

// WithLocker replaces the compiler's in-process lock.
func WithLocker(l ports.Locker) Option {
	return func(s *settings) { s.locker = l }
}

// WithLatexTools overrides the typesetting and bibliography binaries.
func WithLatexTools(tool, bibTool string) Option {
	return func(s *settings) {
		s.latexTool = tool
		s.bibTool = bibTool
	}
}

// WithLatexRuns sets the number of compilation passes.
func WithLatexRuns(runs int, passTimeout time.Duration) Option {
	return func(s *settings) {
		s.runs = runs
		s.passTimeout = passTimeout
	}
}

// WithInterpreter overrides the script interpreter.
func WithInterpreter(interpreter, extension string) Option {
	return func(s *settings) {
		s.interpreter = interpreter
		s.scriptExt = extension
	}
}

// New assembles a Boundary with the given options.
func New(opts ...Option) *Boundary {
	s := &settings{
		logger:      slog.Default(),
		latexTool:   "pdflatex",
		bibTool:     "bibtex",
		runs:        3,
		passTimeout: 2 * time.Minute,
		interpreter: "python3",
		scriptExt:   ".py",
	}
	for _, opt := range opts {
		opt(s)
	}

	execOpts := []process.Option{process.WithLogger(s.logger)}
	if s.recorder != nil {
		execOpts = append(execOpts, process.WithRecorder(s.recorder))
	}
	executor := process.New(execOpts...)

	latexOpts := []latex.Option{
		latex.WithLogger(s.logger),
		latex.WithTool(s.latexTool),
		latex.WithBibTool(s.bibTool),
		latex.WithRuns(s.runs),
		latex.WithPassTimeout(s.passTimeout),
	}
	if s.recorder != nil {
		latexOpts = append(latexOpts, latex.WithRecorder(s.recorder))
	}
	if s.locker != nil {
		latexOpts = append(latexOpts, latex.WithLocker(s.locker))
	}

	return &Boundary{
		Executor: executor,
		Git:      gitops.New(executor, gitops.WithLogger(s.logger)),
		Latex:    latex.New(executor, latexOpts...),
		Script:   script.New(executor, script.WithInterpreter(s.interpreter, s.scriptExt), script.WithLogger(s.logger)),
	}
}
