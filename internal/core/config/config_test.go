package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultCategories(), cfg.JudgeCategories)
	assert.Equal(t, 500, cfg.Autosave.DelayMS)
	assert.Equal(t, 500*time.Millisecond, cfg.AutosaveDelay())
	assert.NotEmpty(t, cfg.SaveDir)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultCategories(), cfg.JudgeCategories)
}

func TestLoad_FileOverrides(t *testing.T) {
	content := `
judge_categories:
  - factuality
  - safety
autosave:
  delay_ms: 250
save_dir: /tmp/metajudge-saves
`
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	dataDir := t.TempDir()
	cfg, err := Load(path, dataDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"factuality", "safety"}, cfg.JudgeCategories)
	assert.Equal(t, 250, cfg.Autosave.DelayMS)
	assert.Equal(t, "/tmp/metajudge-saves", cfg.SaveDir)
	assert.Equal(t, dataDir, cfg.DataDir, "data dir comes from the caller, not the file")
	assert.Equal(t, "#7D56F4", cfg.TUI.Accent, "unset keys keep their defaults")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantErr: "data directory",
		},
		{
			name:    "empty category",
			mutate:  func(c *Config) { c.JudgeCategories = []string{"factuality", ""} },
			wantErr: "judge_categories[1]",
		},
		{
			name:    "duplicate category",
			mutate:  func(c *Config) { c.JudgeCategories = []string{"tone", "tone"} },
			wantErr: "duplicate judge category",
		},
		{
			name:    "negative delay",
			mutate:  func(c *Config) { c.Autosave.DelayMS = -1 },
			wantErr: "delay_ms",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = t.TempDir()
			tc.mutate(&cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestValidateDeep_SaveDirIsFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	cfg.SaveDir = file

	err := cfg.ValidateDeep("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWarnings_TinyDelay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Autosave.DelayMS = 50

	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Equal(t, "Autosave", warnings[0].Category)
}
