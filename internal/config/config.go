// Package config loads drdscore settings from an optional YAML file and
// DRD_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/abhisek/drdscore/internal/llm"
	"github.com/abhisek/drdscore/internal/store"
)

// EnvPrefix is prepended to every environment override, e.g. DRD_DB or
// DRD_LLM_PROVIDER.
const EnvPrefix = "DRD"

// Config holds all drdscore configuration.
type Config struct {
	// DB is the SQLite database path. Empty selects store.DefaultDBPath.
	DB string `mapstructure:"db"`

	// Catalog is an optional path to a DRD catalog YAML file replacing
	// the embedded default.
	Catalog string `mapstructure:"catalog"`

	// KeepSnapshots bounds the snapshot history kept per assessment.
	// Zero keeps everything.
	KeepSnapshots int `mapstructure:"keep_snapshots"`

	LLM llm.Config `mapstructure:"llm"`
}

// Load reads configuration. When path is empty the user config file is
// optional; an explicit path must exist.
// Precedence (highest to lowest):
// 1. DRD_* environment variables
// 2. Config file
// 3. Built-in defaults
// When no LLM provider is configured and the default one has no key, the
// standard provider key variables are probed.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(UserConfigDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// llm.provider has no default so an unset provider stays detectable.
	if err := v.BindEnv("llm.provider"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.LLM.Anthropic.APIKey = os.ExpandEnv(cfg.LLM.Anthropic.APIKey)
	cfg.LLM.OpenAI.APIKey = os.ExpandEnv(cfg.LLM.OpenAI.APIKey)
	cfg.LLM.Gemini.APIKey = os.ExpandEnv(cfg.LLM.Gemini.APIKey)
	cfg.LLM.OpenRouter.APIKey = os.ExpandEnv(cfg.LLM.OpenRouter.APIKey)

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = llm.DefaultConfig().Provider
		if found, ok := llm.DiscoverConfig(); ok && !cfg.LLM.HasKey() {
			found.Retry = cfg.LLM.Retry
			found.Timeout = cfg.LLM.Timeout
			cfg.LLM = found
		}
	}

	if cfg.KeepSnapshots < 0 {
		return nil, fmt.Errorf("keep_snapshots must not be negative, got %d", cfg.KeepSnapshots)
	}

	return cfg, nil
}

// DBPath returns the configured database path or the default location.
func (c *Config) DBPath() (string, error) {
	if c.DB != "" {
		return c.DB, store.EnsureDir(c.DB)
	}
	return store.DefaultDBPath()
}

// UserConfigDir returns the XDG config directory for drdscore.
func UserConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "drdscore")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "drdscore")
	}
	return filepath.Join(home, ".config", "drdscore")
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("catalog", "")
	v.SetDefault("keep_snapshots", 50)

	v.SetDefault("llm.timeout", d.Timeout)

	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.anthropic.base_url", "")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("llm.retry.max_attempts", d.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", d.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", d.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", d.Retry.Multiplier)
}
