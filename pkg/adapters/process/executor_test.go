package process_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/pkg/adapters/process"
	"github.com/aretw0/folio/pkg/domain"
)

func newExecutor() *process.Executor {
	return process.New(process.WithLogger(logging.NewNop()))
}

func TestExecutor_Execute(t *testing.T) {
	t.Run("Captures Stdout By Default", func(t *testing.T) {
		// A minimal spec with nothing but the argv must come back with
		// the output; capture is opt-out, not opt-in.
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv: []string{"echo", "hi"},
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "hi\n", result.Stdout)
	})

	t.Run("Discards Output On Request", func(t *testing.T) {
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"echo", "hi"},
			CheckExitCode: true,
			DiscardOutput: true,
		})
		require.NoError(t, err)
		assert.Empty(t, result.Stdout)
	})

	t.Run("Argv Is Not Shell Parsed", func(t *testing.T) {
		// A metacharacter-laden argument comes back verbatim: it was
		// passed to the process, not interpreted by a shell.
		payload := "hi; echo injected"
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"echo", payload},
			CheckExitCode: true,
		})
		require.NoError(t, err)
		assert.Equal(t, payload+"\n", result.Stdout)
	})

	t.Run("Empty Command", func(t *testing.T) {
		_, err := newExecutor().Execute(context.Background(), domain.CommandSpec{})
		assert.ErrorIs(t, err, domain.ErrEmptyCommand)
	})

	t.Run("Checked Non-Zero Exit", func(t *testing.T) {
		_, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"false"},
			CheckExitCode: true,
		})
		var failed *domain.CommandFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, 1, failed.ExitCode)
	})

	t.Run("Unchecked Non-Zero Exit", func(t *testing.T) {
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv: []string{"false"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("Timeout Kills Process", func(t *testing.T) {
		start := time.Now()
		_, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:    []string{"sleep", "10"},
			Timeout: 100 * time.Millisecond,
		})
		var timeout *domain.CommandTimeoutError
		require.ErrorAs(t, err, &timeout)
		assert.Equal(t, 100*time.Millisecond, timeout.Timeout)
		assert.Less(t, time.Since(start), 5*time.Second, "the child must be killed, not waited for")
	})

	t.Run("Working Directory", func(t *testing.T) {
		dir := t.TempDir()
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"pwd"},
			Dir:           dir,
			CheckExitCode: true,
		})
		require.NoError(t, err)
		assert.Contains(t, result.Stdout, dir)
	})

	t.Run("Environment Override", func(t *testing.T) {
		result, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"printenv", "FOLIO_TEST_VALUE"},
			Env:           map[string]string{"FOLIO_TEST_VALUE": "42"},
			CheckExitCode: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "42\n", result.Stdout)
	})

	t.Run("Parent Cancellation Is Not A Spawn Failure", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(100 * time.Millisecond)
			cancel()
		}()

		_, err := newExecutor().Execute(ctx, domain.CommandSpec{
			Argv:    []string{"sleep", "10"},
			Timeout: time.Minute,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotContains(t, err.Error(), "failed to start")
	})

	t.Run("Spawn Failure", func(t *testing.T) {
		_, err := newExecutor().Execute(context.Background(), domain.CommandSpec{
			Argv: []string{"folio-definitely-not-a-binary"},
		})
		require.Error(t, err)
		var failed *domain.CommandFailedError
		assert.False(t, errors.As(err, &failed), "spawn failure is not a CommandFailedError")
	})
}

type countingRecorder struct {
	commands int
}

func (c *countingRecorder) ObserveCommand(string, string, time.Duration) {
	c.commands++
}

func TestExecutor_Recorder(t *testing.T) {
	rec := &countingRecorder{}
	executor := process.New(process.WithLogger(logging.NewNop()), process.WithRecorder(rec))

	_, err := executor.Execute(context.Background(), domain.CommandSpec{Argv: []string{"true"}})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.commands)
}
