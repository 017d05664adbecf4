// Package gitops provides safe git clone/checkout workflows. Every
// user-supplied value is validated before it is placed in an argument
// vector, and git is always invoked through the Executor port.
package gitops

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/ports"
	"github.com/aretw0/folio/pkg/validate"
)

// Git runs clone and checkout operations.
type Git struct {
	exec   ports.Executor
	logger *slog.Logger
}

// Option configures Git.
type Option func(*Git)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Git) {
		g.logger = logger
	}
}

// New creates a Git operations handle over the given executor.
func New(executor ports.Executor, opts ...Option) *Git {
	g := &Git{
		exec:   executor,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CloneOptions describes one repository clone.
type CloneOptions struct {
	URL       string
	TargetDir string
	// Branch is optional; validated against git ref rules when set.
	Branch string
	// Depth of the shallow clone. Zero means 1; negative disables --depth.
	Depth int
	// Timeout for the whole clone. Zero means 5 minutes.
	Timeout time.Duration
}

// Clone clones a repository into a directory that must not yet exist.
// Validation and the existence check happen before any process is
// spawned. Errors from the validator and executor propagate unchanged.
func (g *Git) Clone(ctx context.Context, opts CloneOptions) error {
	url, err := validate.NewURL(opts.URL, "https", "git")
	if err != nil {
		return err
	}

	var branch validate.BranchName
	if opts.Branch != "" {
		branch, err = validate.NewBranchName(opts.Branch)
		if err != nil {
			return err
		}
	}

	if _, err := os.Stat(opts.TargetDir); err == nil {
		return fmt.Errorf("%w: %s", domain.ErrTargetExists, opts.TargetDir)
	}
	if err := os.MkdirAll(filepath.Dir(opts.TargetDir), 0o755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	depth := opts.Depth
	if depth == 0 {
		depth = 1
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	argv := []string{"git", "clone"}
	if branch != "" {
		argv = append(argv, "--branch", branch.String())
	}
	if depth > 0 {
		argv = append(argv, "--depth", strconv.Itoa(depth))
	}
	argv = append(argv, url.String(), opts.TargetDir)

	g.logger.Info("cloning repository", "url", url.String(), "target", opts.TargetDir)

	_, err = g.exec.Execute(ctx, domain.CommandSpec{
		Argv:          argv,
		Timeout:       timeout,
		CheckExitCode: true,
	})
	if err != nil {
		return err
	}

	g.logger.Info("clone complete", "target", opts.TargetDir)
	return nil
}

// Checkout switches repoDir to branch, optionally creating it.
func (g *Git) Checkout(ctx context.Context, branch, repoDir string, create bool) error {
	validated, err := validate.NewBranchName(branch)
	if err != nil {
		return err
	}

	info, err := os.Stat(repoDir)
	if err != nil || !info.IsDir() {
		return &domain.ValidationError{Field: "repo directory", Reason: "not a directory", Value: repoDir}
	}

	argv := []string{"git", "checkout"}
	if create {
		argv = append(argv, "-b")
	}
	argv = append(argv, validated.String())

	g.logger.Info("checking out branch", "branch", validated.String(), "repo", repoDir)

	_, err = g.exec.Execute(ctx, domain.CommandSpec{
		Argv:          argv,
		Dir:           repoDir,
		CheckExitCode: true,
	})
	return err
}
