package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPENT_API_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.General.PageSize)
	}
	if cfg.General.DefaultTimeFilter != "current-month" {
		t.Errorf("DefaultTimeFilter = %q, want current-month", cfg.General.DefaultTimeFilter)
	}
	if cfg.Appearance.Theme != "slate-dark" {
		t.Errorf("Theme = %q, want slate-dark", cfg.Appearance.Theme)
	}
	if cfg.API.BaseURL != "" {
		t.Errorf("BaseURL = %q, want empty (client applies its default)", cfg.API.BaseURL)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if err := os.MkdirAll(filepath.Join(dir, "spent"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := []byte("[api]\nbase_url = \"http://from-file:5001/api\"\n")
	if err := os.WriteFile(filepath.Join(dir, "spent", "config.toml"), file, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SPENT_API_URL", "http://from-env:5001/api")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "http://from-env:5001/api" {
		t.Fatalf("BaseURL = %q, want the SPENT_API_URL value", cfg.API.BaseURL)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPENT_API_URL", "")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "http://api.test/api"
	cfg.General.PageSize = 25
	cfg.Appearance.Theme = "paper-light"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save")
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.API.BaseURL != cfg.API.BaseURL {
		t.Errorf("BaseURL = %q, want %q", got.API.BaseURL, cfg.API.BaseURL)
	}
	if got.General.PageSize != 25 {
		t.Errorf("PageSize = %d, want 25", got.General.PageSize)
	}
	if got.Appearance.Theme != "paper-light" {
		t.Errorf("Theme = %q, want paper-light", got.Appearance.Theme)
	}
}

func TestBadPageSizeFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("SPENT_API_URL", "")

	if err := os.MkdirAll(filepath.Join(dir, "spent"), 0o755); err != nil {
		t.Fatal(err)
	}
	file := []byte("[general]\npage_size = -5\n")
	if err := os.WriteFile(filepath.Join(dir, "spent", "config.toml"), file, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.General.PageSize != 10 {
		t.Fatalf("PageSize = %d, want fallback 10", cfg.General.PageSize)
	}
}
