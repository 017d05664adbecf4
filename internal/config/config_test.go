package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults When File Missing", func(t *testing.T) {
		cfg, err := config.Load(filepath.Join(t.TempDir(), "folio.yaml"), false)
		require.NoError(t, err)
		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "pdflatex", cfg.Latex.Tool)
		assert.Equal(t, 3, cfg.Latex.Runs)
		assert.Equal(t, "python3", cfg.Script.Interpreter)
		assert.Equal(t, 1, cfg.Git.CloneDepth)
	})

	t.Run("Explicit Missing File Is An Error", func(t *testing.T) {
		_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"), true)
		assert.Error(t, err)
	})

	t.Run("File Overrides Defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "folio.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
workspace: /workplace
port: 9090
latex:
  tool: xelatex
  runs: 2
  pass_timeout: 4m
script:
  interpreter: python3
redis_addr: "redis:6379"
log_level: debug
`), 0o644))

		cfg, err := config.Load(path, true)
		require.NoError(t, err)
		assert.Equal(t, "/workplace", cfg.Workspace)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, "xelatex", cfg.Latex.Tool)
		assert.Equal(t, 2, cfg.Latex.Runs)
		assert.Equal(t, 4*time.Minute, cfg.Latex.PassTimeout.Std())
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "debug", cfg.LogLevel)
		// Untouched sections keep their defaults.
		assert.Equal(t, "bibtex", cfg.Latex.BibTool)
	})

	t.Run("Malformed YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "folio.yaml")
		require.NoError(t, os.WriteFile(path, []byte("port: [not an int"), 0o644))
		_, err := config.Load(path, true)
		assert.Error(t, err)
	})
}
