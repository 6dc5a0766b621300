// Package config handles configuration loading and validation for
// metajudge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultCategories returns the judge categories reviewed when the config
// file does not name its own set. Order is the judge-index order.
func DefaultCategories() []string {
	return []string{
		"factuality",
		"insightfulness",
		"personalization",
		"actionability",
		"safety",
		"tone",
		"toxicity",
	}
}

// Config holds the application configuration.
type Config struct {
	JudgeCategories []string       `yaml:"judge_categories"`
	Autosave        AutosaveConfig `yaml:"autosave"`
	SaveDir         string         `yaml:"save_dir"`
	TUI             TUIConfig      `yaml:"tui"`
	DataDir         string         `yaml:"-"` // set by caller, not from config file
}

// AutosaveConfig controls the debounced autosave.
type AutosaveConfig struct {
	DelayMS int `yaml:"delay_ms"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Accent string `yaml:"accent"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		JudgeCategories: DefaultCategories(),
		Autosave: AutosaveConfig{
			DelayMS: 500,
		},
		SaveDir: defaultSaveDir(),
		TUI: TUIConfig{
			Accent: "#7D56F4",
		},
	}
}

// defaultSaveDir places saves in a dedicated folder under the user's
// home, falling back to the working directory when home is unknown.
func defaultSaveDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Metajudge_Saves"
	}
	return filepath.Join(home, "Metajudge_Saves")
}

// Load reads configuration from the given path and sets the data
// directory. If configPath is empty or doesn't exist, returns defaults
// with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.JudgeCategories) == 0 {
		c.JudgeCategories = defaults.JudgeCategories
	}
	if c.Autosave.DelayMS == 0 {
		c.Autosave.DelayMS = defaults.Autosave.DelayMS
	}
	if c.SaveDir == "" {
		c.SaveDir = defaults.SaveDir
	}
	if c.TUI.Accent == "" {
		c.TUI.Accent = defaults.TUI.Accent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if len(c.JudgeCategories) == 0 {
		return fmt.Errorf("judge_categories cannot be empty")
	}
	seen := make(map[string]bool, len(c.JudgeCategories))
	for i, cat := range c.JudgeCategories {
		if cat == "" {
			return fmt.Errorf("judge_categories[%d] cannot be empty", i)
		}
		if seen[cat] {
			return fmt.Errorf("duplicate judge category %q", cat)
		}
		seen[cat] = true
	}

	if c.Autosave.DelayMS < 0 {
		return fmt.Errorf("autosave.delay_ms cannot be negative")
	}

	if c.SaveDir == "" {
		return fmt.Errorf("save_dir cannot be empty")
	}

	return nil
}

// AutosaveDelay returns the autosave debounce as a duration.
func (c *Config) AutosaveDelay() time.Duration {
	return time.Duration(c.Autosave.DelayMS) * time.Millisecond
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "metajudge.log")
}
