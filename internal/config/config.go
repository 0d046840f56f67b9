// Package config loads versegen settings from YAML with environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for a config file when --config is unset.
const DefaultPath = "versegen.yaml"

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all versegen configuration.
type Config struct {
	// Profile selects the response language and its defaults: en, zh.
	Profile string `yaml:"profile"`

	// SystemPrompt names the response-style profile sent as system prompt.
	SystemPrompt string `yaml:"system_prompt"`

	Store     StoreConfig     `yaml:"store"`
	Reference ReferenceConfig `yaml:"reference"`
	LLM       LLMConfig       `yaml:"llm"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DefaultConfig returns the default configuration (English profile).
func DefaultConfig() *Config {
	return &Config{
		Profile:      "en",
		SystemPrompt: "commentary",

		Reference: ReferenceConfig{
			BibleDir:    "~/UniqueBible/marvelData",
			Interlinear: "OHGBi",
			Morphology:  "morphology.sqlite",
		},

		LLM: LLMConfig{
			Provider: "openai",
			Timeout:  "10m",
		},

		Logging: LoggingConfig{
			Level:    "info",
			Format:   "text",
			ErrorLog: "errors.txt",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// LLM API key from environment, later entries win.
	providers := []struct {
		env      string
		provider string
	}{
		{"ZAI_API_KEY", "zai"},
		{"ANTHROPIC_API_KEY", "anthropic"},
		{"OPENAI_API_KEY", "openai"},
		{"GEMINI_API_KEY", "gemini"},
		{"XAI_API_KEY", "xai"},
		{"OPENROUTER_API_KEY", "openrouter"},
	}
	for _, p := range providers {
		if key := os.Getenv(p.env); key != "" {
			c.LLM.APIKey = key
			c.LLM.Provider = p.provider
		}
	}

	if v := os.Getenv("VERSEGEN_PROFILE"); v != "" {
		c.Profile = v
	}
	if v := os.Getenv("VERSEGEN_DB"); v != "" {
		c.Store.DatabasePath = v
	}
	if v := os.Getenv("VERSEGEN_BIBLE_DIR"); v != "" {
		c.Reference.BibleDir = v
	}
}

// Validate checks everything except the LLM credentials, which only the
// generate command needs (see ValidateLLM).
func (c *Config) Validate() error {
	if _, ok := profiles[c.Profile]; !ok {
		return fmt.Errorf("%w: unknown profile %q (valid: %s)", ErrInvalidConfig, c.Profile, strings.Join(ProfileNames(), ", "))
	}
	switch c.AcceptabilityMode() {
	case "strict", "lenient":
	default:
		return fmt.Errorf("%w: unknown acceptability mode %q (valid: strict, lenient)", ErrInvalidConfig, c.Store.Acceptability)
	}
	if strings.TrimSpace(c.Reference.BibleDir) == "" {
		return fmt.Errorf("%w: reference.bible_dir is empty", ErrInvalidConfig)
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); c.LLM.Timeout != "" && err != nil {
		return fmt.Errorf("%w: llm.timeout %q: %v", ErrInvalidConfig, c.LLM.Timeout, err)
	}
	return nil
}

// ValidateLLM checks provider and API key.
func (c *Config) ValidateLLM() error {
	if !IsValidProvider(c.LLM.Provider) {
		return fmt.Errorf("%w: invalid LLM provider: %s (valid: %v)", ErrInvalidConfig, c.LLM.Provider, ValidProviders)
	}
	if c.LLM.APIKey == "" {
		return fmt.Errorf("%w: LLM API key not configured (set llm.api_key or one of OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY, XAI_API_KEY, ZAI_API_KEY, OPENROUTER_API_KEY)", ErrInvalidConfig)
	}
	return nil
}

// GetLLMTimeout returns the per-call generation timeout.
func (c *Config) GetLLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// DatabasePath is the commentary database, explicit or from the profile.
func (c *Config) DatabasePath() string {
	if c.Store.DatabasePath != "" {
		return expandHome(c.Store.DatabasePath)
	}
	return profiles[c.Profile].DatabasePath
}

// AcceptabilityMode is the configured mode, or the profile's default.
func (c *Config) AcceptabilityMode() string {
	if c.Store.Acceptability != "" {
		return strings.ToLower(c.Store.Acceptability)
	}
	return profiles[c.Profile].Acceptability
}

// CatalogName is the verse catalog bible (NET, CUV, ...).
func (c *Config) CatalogName() string {
	if c.Reference.Catalog != "" {
		return c.Reference.Catalog
	}
	return profiles[c.Profile].Catalog
}

// CatalogPath is <bible_dir>/bibles/<catalog>.bible.
func (c *Config) CatalogPath() string {
	return filepath.Join(expandHome(c.Reference.BibleDir), "bibles", c.CatalogName()+".bible")
}

// InterlinearPath is <bible_dir>/bibles/<interlinear>.bible.
func (c *Config) InterlinearPath() string {
	return filepath.Join(expandHome(c.Reference.BibleDir), "bibles", c.Reference.Interlinear+".bible")
}

// MorphologyPath is <bible_dir>/<morphology>.
func (c *Config) MorphologyPath() string {
	return filepath.Join(expandHome(c.Reference.BibleDir), c.Reference.Morphology)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
