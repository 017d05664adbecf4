package folio_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/domain"
)

func TestNew(t *testing.T) {
	t.Run("Assembles All Components", func(t *testing.T) {
		b := folio.New()
		require.NotNil(t, b)
		assert.NotNil(t, b.Executor)
		assert.NotNil(t, b.Git)
		assert.NotNil(t, b.Latex)
		assert.NotNil(t, b.Script)
	})

	t.Run("Shared Executor Runs Commands", func(t *testing.T) {
		b := folio.New()
		result, err := b.Executor.Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"echo", "boundary"},
			CheckExitCode: true,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, result.ExitCode)
		assert.Equal(t, "boundary\n", result.Stdout)
	})

	t.Run("Recorder Sees Executions", func(t *testing.T) {
		rec := &recordingRecorder{}
		b := folio.New(folio.WithRecorder(rec))

		_, err := b.Executor.Execute(context.Background(), domain.CommandSpec{
			Argv:          []string{"true"},
			CheckExitCode: true,
		})
		require.NoError(t, err)
		require.Len(t, rec.commands, 1)
		assert.Equal(t, "true", rec.commands[0])
	})
}

type recordingRecorder struct {
	commands []string
	passes   int
}

func (r *recordingRecorder) ObserveCommand(program, outcome string, elapsed time.Duration) {
	r.commands = append(r.commands, program)
}

func (r *recordingRecorder) ObserveCompilePass() {
	r.passes++
}
