package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultKeyMappings(t *testing.T) {
	defaults := DefaultKeyMappings()

	if defaults.Quit != "q" {
		t.Errorf("Default Quit key = %s, want q", defaults.Quit)
	}
	if defaults.AddCard != "a" {
		t.Errorf("Default AddCard key = %s, want a", defaults.AddCard)
	}
	if defaults.ViewCard != " " {
		t.Errorf("Default ViewCard key = %s, want space", defaults.ViewCard)
	}
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("PLANK_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() without config file failed: %v", err)
	}

	if cfg.KeyMappings.Quit != "q" {
		t.Errorf("Loaded config Quit key = %s, want q (default)", cfg.KeyMappings.Quit)
	}
	if cfg.Board.NewStageColor != defaultNewStageColor {
		t.Errorf("NewStageColor = %s, want %s", cfg.Board.NewStageColor, defaultNewStageColor)
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("PLANK_HOME", tempDir)

	configContent := `key_mappings:
  quit: "x"
theme:
  accent: "#ff0000"
board:
  new_stage_color: "#112233"
`
	path := filepath.Join(tempDir, "config.yaml")
	if err := os.WriteFile(path, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.KeyMappings.Quit != "x" {
		t.Errorf("Quit key = %s, want x", cfg.KeyMappings.Quit)
	}
	if cfg.Theme.Accent != "#ff0000" {
		t.Errorf("Accent = %s, want #ff0000", cfg.Theme.Accent)
	}
	if cfg.Board.NewStageColor != "#112233" {
		t.Errorf("NewStageColor = %s, want #112233", cfg.Board.NewStageColor)
	}

	// Unset fields fall back to defaults.
	if cfg.KeyMappings.AddCard != "a" {
		t.Errorf("AddCard key = %s, want a (default)", cfg.KeyMappings.AddCard)
	}
	if cfg.Theme.Subtle == "" {
		t.Error("Subtle should be filled with a default")
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Setenv("PLANK_HOME", t.TempDir())

	cfg := defaultConfig()
	cfg.Theme.Accent = "#abcdef"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := Load()
	if err != nil {
		t.Fatalf("Load() after save failed: %v", err)
	}
	if reloaded.Theme.Accent != "#abcdef" {
		t.Errorf("Accent = %s, want #abcdef", reloaded.Theme.Accent)
	}
}
