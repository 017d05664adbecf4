package testutils

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/domain"
)

// FakeExecutor records every CommandSpec it receives and replays canned
// results, so the higher-level operations can be tested without
// spawning real processes.
type FakeExecutor struct {
	mu sync.Mutex

	// Calls holds every spec in execution order.
	Calls []domain.CommandSpec

	// Results are consumed one per call; when exhausted, a zero-exit
	// result is returned.
	Results []FakeResult

	// OnExecute, when set, runs before each result is returned. Useful
	// to simulate side effects such as the typesetting tool writing its
	// output artifact.
	OnExecute func(spec domain.CommandSpec)
}

// FakeResult pairs a canned result with an optional error.
type FakeResult struct {
	Result domain.ExecutionResult
	Err    error
}

// Execute implements ports.Executor.
func (f *FakeExecutor) Execute(_ context.Context, spec domain.CommandSpec) (domain.ExecutionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, spec)
	if f.OnExecute != nil {
		f.OnExecute(spec)
	}

	if len(f.Results) == 0 {
		return domain.ExecutionResult{}, nil
	}
	r := f.Results[0]
	f.Results = f.Results[1:]
	return r.Result, r.Err
}

// CallCount returns how many commands were executed.
func (f *FakeExecutor) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// WriteFile creates a file with parent directories inside a test tree.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
