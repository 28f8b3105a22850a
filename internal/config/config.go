// Package config loads hivemind configuration from a YAML file with
// environment-variable overrides for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all hivemind configuration.
type Config struct {
	Name    string `yaml:"name"`
	DataDir string `yaml:"data_dir"`

	Store   StoreConfig   `yaml:"store"`
	Server  ServerConfig  `yaml:"server"`
	Loop    LoopConfig    `yaml:"loop"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`

	// PersonasPath optionally points at a YAML file with persona directive
	// overrides, hot-reloaded while the experiment runs.
	PersonasPath string `yaml:"personas_path"`
}

// StoreConfig configures the SQLite record store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP control surface.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoopConfig configures the periodic turn runner. Interval is a Go duration
// string ("2m", "30s").
type LoopConfig struct {
	Interval string `yaml:"interval"`
}

// LLMConfig holds one API key per backend family. Keys from the environment
// always win over keys in the file.
type LLMConfig struct {
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	XAIAPIKey       string `yaml:"xai_api_key"`
	DeepSeekAPIKey  string `yaml:"deepseek_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
}

// LoggingConfig mirrors what internal/logging reads directly from the file.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the baseline configuration rooted at dataDir.
func Default(dataDir string) *Config {
	return &Config{
		Name:    "hivemind",
		DataDir: dataDir,
		Store:   StoreConfig{Path: filepath.Join(dataDir, "hivemind.db")},
		Server:  ServerConfig{Addr: ":8787"},
		Loop:    LoopConfig{Interval: "2m"},
	}
}

// LoopInterval parses the loop interval, falling back to two minutes on a
// missing or malformed value.
func (c *Config) LoopInterval() time.Duration {
	d, err := time.ParseDuration(c.Loop.Interval)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

// DefaultPath returns the config file location inside dataDir.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "hivemind.yaml")
}

// Load reads the config file at path, layered over defaults, then applies
// environment overrides. A missing file is not an error: defaults plus
// environment are a complete configuration.
func Load(path string) (*Config, error) {
	cfg := Default(filepath.Dir(path))

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if cfg.Store.Path == "" {
		cfg.Store.Path = filepath.Join(cfg.DataDir, "hivemind.db")
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env string
		dst *string
	}{
		{"ANTHROPIC_API_KEY", &c.LLM.AnthropicAPIKey},
		{"OPENAI_API_KEY", &c.LLM.OpenAIAPIKey},
		{"XAI_API_KEY", &c.LLM.XAIAPIKey},
		{"DEEPSEEK_API_KEY", &c.LLM.DeepSeekAPIKey},
		{"GEMINI_API_KEY", &c.LLM.GeminiAPIKey},
		{"HIVEMIND_ADDR", &c.Server.Addr},
		{"HIVEMIND_DB", &c.Store.Path},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.dst = v
		}
	}
}

// KeyFor returns the configured API key for a backend family name.
func (c *Config) KeyFor(provider string) string {
	switch provider {
	case "anthropic":
		return c.LLM.AnthropicAPIKey
	case "openai":
		return c.LLM.OpenAIAPIKey
	case "xai":
		return c.LLM.XAIAPIKey
	case "deepseek":
		return c.LLM.DeepSeekAPIKey
	case "gemini":
		return c.LLM.GeminiAPIKey
	}
	return ""
}
