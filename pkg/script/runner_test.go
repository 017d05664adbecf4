package script_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/logging"
	"github.com/aretw0/folio/internal/testutils"
	"github.com/aretw0/folio/pkg/domain"
	"github.com/aretw0/folio/pkg/script"
)

func TestRun(t *testing.T) {
	t.Run("Builds Expected Argv", func(t *testing.T) {
		fake := &testutils.FakeExecutor{}
		runner := script.New(fake, script.WithLogger(logging.NewNop()))

		path := filepath.Join(t.TempDir(), "process.py")
		testutils.WriteFile(t, path, "print('ok')")

		_, err := runner.Run(context.Background(), script.RunOptions{
			ScriptPath: path,
			Args:       []string{"--input", "data.json"},
			Env:        map[string]string{"PYTHONUNBUFFERED": "1"},
		})
		require.NoError(t, err)

		require.Equal(t, 1, fake.CallCount())
		call := fake.Calls[0]
		assert.Equal(t, []string{"python3", path, "--input", "data.json"}, call.Argv)
		assert.Equal(t, "1", call.Env["PYTHONUNBUFFERED"])
		assert.True(t, call.CheckExitCode)
	})

	t.Run("Custom Interpreter", func(t *testing.T) {
		fake := &testutils.FakeExecutor{}
		runner := script.New(fake,
			script.WithLogger(logging.NewNop()),
			script.WithInterpreter("node", ".js"),
		)

		path := filepath.Join(t.TempDir(), "tool.js")
		testutils.WriteFile(t, path, "console.log('ok')")

		_, err := runner.Run(context.Background(), script.RunOptions{ScriptPath: path})
		require.NoError(t, err)
		assert.Equal(t, []string{"node", path}, fake.Calls[0].Argv)
	})

	t.Run("Missing Script", func(t *testing.T) {
		fake := &testutils.FakeExecutor{}
		runner := script.New(fake, script.WithLogger(logging.NewNop()))

		_, err := runner.Run(context.Background(), script.RunOptions{
			ScriptPath: filepath.Join(t.TempDir(), "missing.py"),
		})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, 0, fake.CallCount())
	})

	t.Run("Wrong Extension", func(t *testing.T) {
		fake := &testutils.FakeExecutor{}
		runner := script.New(fake, script.WithLogger(logging.NewNop()))

		path := filepath.Join(t.TempDir(), "script.sh")
		testutils.WriteFile(t, path, "echo no")

		_, err := runner.Run(context.Background(), script.RunOptions{ScriptPath: path})
		assert.Error(t, err)
		assert.Equal(t, 0, fake.CallCount())
	})
}
