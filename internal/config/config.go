// Package config loads the folio.yaml configuration file.
//
// The configuration is loaded exactly once in cmd/ and handed by value
// into the components that need it. The library packages under pkg/
// never read files or environment variables themselves; whatever they
// validate is supplied explicitly by a caller.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML values can use the "2m30s" form.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all folio configuration.
type Config struct {
	// Workspace is the base directory all validated paths must stay
	// inside (default: current working directory).
	Workspace string `yaml:"workspace"`

	// Port for the health/metrics server (default: 8080).
	Port int `yaml:"port"`

	// Latex settings.
	Latex LatexConfig `yaml:"latex"`

	// Script settings.
	Script ScriptConfig `yaml:"script"`

	// Git settings.
	Git GitConfig `yaml:"git"`

	// RedisAddr enables the distributed compile lock when set
	// (host:port). Empty means in-process locking.
	RedisAddr string `yaml:"redis_addr"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

// LatexConfig holds typesetting settings.
type LatexConfig struct {
	// Tool is the typesetting binary (default: pdflatex).
	Tool string `yaml:"tool"`
	// BibTool is the bibliography binary (default: bibtex).
	BibTool string `yaml:"bib_tool"`
	// Runs is the number of passes (default: 3).
	Runs int `yaml:"runs"`
	// PassTimeout bounds each pass (default: 2m).
	PassTimeout Duration `yaml:"pass_timeout"`
}

// ScriptConfig holds helper script settings.
type ScriptConfig struct {
	// Interpreter used for helper scripts (default: python3).
	Interpreter string `yaml:"interpreter"`
	// Timeout for one script run (default: 5m).
	Timeout Duration `yaml:"timeout"`
}

// GitConfig holds repository operation settings.
type GitConfig struct {
	// CloneTimeout bounds one clone (default: 5m).
	CloneTimeout Duration `yaml:"clone_timeout"`
	// CloneDepth is the default shallow clone depth (default: 1).
	CloneDepth int `yaml:"clone_depth"`
}

// Default returns the built-in configuration.
func Default() Config {
	wd, _ := os.Getwd()
	return Config{
		Workspace: wd,
		Port:      8080,
		Latex: LatexConfig{
			Tool:        "pdflatex",
			BibTool:     "bibtex",
			Runs:        3,
			PassTimeout: Duration(2 * time.Minute),
		},
		Script: ScriptConfig{
			Interpreter: "python3",
			Timeout:     Duration(5 * time.Minute),
		},
		Git: GitConfig{
			CloneTimeout: Duration(5 * time.Minute),
			CloneDepth:   1,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. A missing file at the default
// location is not an error; an explicitly requested file must exist.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
