// Package config loads forge configuration. Precedence, lowest to highest:
// built-in defaults, .forge.yaml (workspace, then $HOME), FORGE_* environment
// variables, command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the workspace and home dirs.
const FileName = ".forge.yaml"

// Config holds all forge settings.
type Config struct {
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the chat-completions endpoint.
type LLMConfig struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

// LoggingConfig configures the session log file.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // relative paths resolve against the workspace
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			BaseURL: "https://api.deepseek.com",
			Model:   "deepseek-chat",
			Timeout: 120 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  ".forge/forge.log",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault looks for .forge.yaml in the workspace, then in $HOME, and
// falls back to defaults when neither exists. Environment overrides are
// applied in every case.
func LoadOrDefault(workspace string) (*Config, error) {
	candidates := []string{filepath.Join(workspace, FileName)}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, FileName))
	}

	cfg := Default()
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		break
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays FORGE_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("FORGE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	// DEEPSEEK_API_KEY is honored for drop-in compatibility.
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("DEEPSEEK_API_KEY")
	}
	if v := os.Getenv("FORGE_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("FORGE_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("FORGE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks startup requirements. A missing credential is the one
// unrecoverable condition; everything else has a default.
func (c *Config) Validate() error {
	if c.LLM.APIKey == "" {
		return fmt.Errorf("no API key configured: set FORGE_API_KEY (or DEEPSEEK_API_KEY), use --api-key, or add llm.api_key to %s", FileName)
	}
	if c.LLM.BaseURL == "" {
		return fmt.Errorf("llm.base_url must not be empty")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model must not be empty")
	}
	return nil
}
