// Package secrets resolves API credentials for the model providers the
// pipeline talks to. A Manager is constructed explicitly and passed to
// whoever needs it; there is no package-level singleton.
package secrets

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Provider describes where a provider's credentials live.
type Provider struct {
	KeyEnv         string
	BaseURLEnv     string
	DefaultBaseURL string
}

// Providers is the supported provider registry.
var Providers = map[string]Provider{
	"openrouter": {
		KeyEnv:         "OPENROUTER_API_KEY",
		BaseURLEnv:     "OPENROUTER_API_BASE",
		DefaultBaseURL: "https://openrouter.ai/api/v1",
	},
	"openai": {
		KeyEnv:         "OPENAI_API_KEY",
		BaseURLEnv:     "OPENAI_API_BASE",
		DefaultBaseURL: "https://api.openai.com/v1",
	},
	"anthropic": {
		KeyEnv:         "ANTHROPIC_API_KEY",
		BaseURLEnv:     "ANTHROPIC_API_BASE",
		DefaultBaseURL: "https://api.anthropic.com",
	},
	"deepseek": {
		KeyEnv:         "DEEPSEEK_API_KEY",
		BaseURLEnv:     "DEEPSEEK_API_BASE",
		DefaultBaseURL: "https://api.deepseek.com/v1",
	},
	"zai": {
		KeyEnv:         "ZAI_API_KEY",
		BaseURLEnv:     "ZAI_API_BASE",
		DefaultBaseURL: "https://api.z.ai/api/paas/v4",
	},
}

// Config is a resolved provider configuration.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
}

// Manager looks up secrets from the environment.
type Manager struct {
	lookup func(string) (string, bool)
}

// NewManager creates a Manager reading the process environment.
func NewManager() *Manager {
	return &Manager{lookup: os.LookupEnv}
}

// NewManagerWithLookup creates a Manager with a custom lookup, for tests.
func NewManagerWithLookup(lookup func(string) (string, bool)) *Manager {
	return &Manager{lookup: lookup}
}

// Get returns the secret stored under key. With required set, a missing
// value is an error. Values that still carry the .env.example
// placeholder ("your_..._here") are rejected outright.
func (m *Manager) Get(key string, required bool) (string, error) {
	value, ok := m.lookup(key)
	if !ok || value == "" {
		if required {
			return "", fmt.Errorf("required secret %q not set; add it to .env or the environment", key)
		}
		return "", nil
	}

	lower := strings.ToLower(value)
	if strings.Contains(lower, "your_") && strings.Contains(lower, "_here") {
		return "", fmt.Errorf("secret %q still contains a placeholder value", key)
	}
	return value, nil
}

// ProviderConfig resolves the credentials for a named provider.
func (m *Manager) ProviderConfig(provider string) (Config, error) {
	provider = strings.ToLower(provider)
	p, ok := Providers[provider]
	if !ok {
		names := make([]string, 0, len(Providers))
		for name := range Providers {
			names = append(names, name)
		}
		sort.Strings(names)
		return Config{}, fmt.Errorf("unsupported provider %q (supported: %s)", provider, strings.Join(names, ", "))
	}

	key, err := m.Get(p.KeyEnv, true)
	if err != nil {
		return Config{}, err
	}

	baseURL := p.DefaultBaseURL
	if v, ok := m.lookup(p.BaseURLEnv); ok && v != "" {
		baseURL = v
	}

	return Config{Provider: provider, APIKey: key, BaseURL: baseURL}, nil
}

// ForModel routes a model name to its provider's configuration.
// Unknown prefixes fall back to OpenRouter, which proxies most models.
func (m *Manager) ForModel(model string) (Config, error) {
	lower := strings.ToLower(model)
	switch {
	case strings.HasPrefix(lower, "openrouter/") || strings.Contains(lower, "openrouter"):
		return m.ProviderConfig("openrouter")
	case strings.HasPrefix(lower, "gpt-") || strings.HasPrefix(lower, "o1-"):
		return m.ProviderConfig("openai")
	case strings.HasPrefix(lower, "claude-"):
		return m.ProviderConfig("anthropic")
	case strings.HasPrefix(lower, "deepseek-"):
		return m.ProviderConfig("deepseek")
	case strings.HasPrefix(lower, "glm-") || strings.Contains(lower, "z.ai"):
		return m.ProviderConfig("zai")
	default:
		return m.ProviderConfig("openrouter")
	}
}

// ValidateAll reports which providers have a usable key configured.
func (m *Manager) ValidateAll() map[string]bool {
	results := make(map[string]bool, len(Providers))
	for name, p := range Providers {
		v, ok := m.lookup(p.KeyEnv)
		results[name] = ok && v != "" && !strings.Contains(strings.ToLower(v), "your_")
	}
	return results
}

// GitHubToken returns the optional GitHub token.
func (m *Manager) GitHubToken() (string, error) {
	return m.Get("GITHUB_AI_TOKEN", false)
}
