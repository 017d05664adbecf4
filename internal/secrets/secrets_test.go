package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/internal/secrets"
)

func newManager(env map[string]string) *secrets.Manager {
	return secrets.NewManagerWithLookup(func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
}

func TestGet(t *testing.T) {
	t.Run("Required Missing", func(t *testing.T) {
		_, err := newManager(nil).Get("OPENROUTER_API_KEY", true)
		assert.Error(t, err)
	})

	t.Run("Optional Missing", func(t *testing.T) {
		v, err := newManager(nil).Get("GITHUB_AI_TOKEN", false)
		require.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("Placeholder Rejected", func(t *testing.T) {
		m := newManager(map[string]string{"OPENROUTER_API_KEY": "your_api_key_here"})
		_, err := m.Get("OPENROUTER_API_KEY", true)
		assert.Error(t, err)
	})

	t.Run("Present", func(t *testing.T) {
		m := newManager(map[string]string{"OPENROUTER_API_KEY": "sk-or-abc"})
		v, err := m.Get("OPENROUTER_API_KEY", true)
		require.NoError(t, err)
		assert.Equal(t, "sk-or-abc", v)
	})
}

func TestProviderConfig(t *testing.T) {
	t.Run("Default Base URL", func(t *testing.T) {
		m := newManager(map[string]string{"OPENAI_API_KEY": "sk-abc"})
		cfg, err := m.ProviderConfig("openai")
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-abc", cfg.APIKey)
		assert.Equal(t, "https://api.openai.com/v1", cfg.BaseURL)
	})

	t.Run("Base URL Override", func(t *testing.T) {
		m := newManager(map[string]string{
			"OPENAI_API_KEY":  "sk-abc",
			"OPENAI_API_BASE": "https://proxy.internal/v1",
		})
		cfg, err := m.ProviderConfig("openai")
		require.NoError(t, err)
		assert.Equal(t, "https://proxy.internal/v1", cfg.BaseURL)
	})

	t.Run("Unknown Provider", func(t *testing.T) {
		_, err := newManager(nil).ProviderConfig("mystery")
		assert.Error(t, err)
	})

	t.Run("Missing Key", func(t *testing.T) {
		_, err := newManager(nil).ProviderConfig("anthropic")
		assert.Error(t, err)
	})
}

func TestForModel(t *testing.T) {
	env := map[string]string{
		"OPENROUTER_API_KEY": "sk-or",
		"OPENAI_API_KEY":     "sk-oa",
		"ANTHROPIC_API_KEY":  "sk-an",
		"DEEPSEEK_API_KEY":   "sk-ds",
		"ZAI_API_KEY":        "sk-za",
	}
	m := newManager(env)

	cases := map[string]string{
		"openrouter/google/gemini-2.5-pro": "openrouter",
		"gpt-4o":                           "openai",
		"o1-preview":                       "openai",
		"claude-sonnet-4":                  "anthropic",
		"deepseek-chat":                    "deepseek",
		"glm-4.6":                          "zai",
		"some-unknown-model":               "openrouter", // fallback
	}
	for model, provider := range cases {
		cfg, err := m.ForModel(model)
		require.NoError(t, err, model)
		assert.Equal(t, provider, cfg.Provider, model)
	}
}

func TestValidateAll(t *testing.T) {
	m := newManager(map[string]string{
		"OPENROUTER_API_KEY": "sk-or",
		"OPENAI_API_KEY":     "your_api_key_here",
	})

	results := m.ValidateAll()
	assert.True(t, results["openrouter"])
	assert.False(t, results["openai"], "placeholder is not a usable key")
	assert.False(t, results["anthropic"])
}
