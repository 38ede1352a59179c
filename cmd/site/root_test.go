package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := []byte(`name: Aurora Scharff
url: https://aurorascharff.no
contentDir: ./content
contentCacheTTL: 10m
theme:
  primary: "#7c3aed"
logLevel: debug
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SITE_PREVIEWPASSWORD", "secret")
	t.Setenv("SITE_THEME_BACKGROUND", "#000000")

	cfg, level, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.Name != "Aurora Scharff" || cfg.URL != "https://aurorascharff.no" || cfg.ContentDir != "./content" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ContentCacheTTL != 10*time.Minute {
		t.Errorf("ContentCacheTTL = %v, want 10m", cfg.ContentCacheTTL)
	}
	if cfg.Theme.Primary != "#7c3aed" || cfg.Theme.Background != "#000000" {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	if cfg.PreviewPassword != "secret" {
		t.Errorf("PreviewPassword = %q, want value from environment", cfg.PreviewPassword)
	}
	if level != "debug" {
		t.Errorf("level = %q, want debug", level)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing --config file")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		level string
		debug bool
		warn  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"error", false, false},
		{"", false, true},
	}
	for _, tt := range tests {
		l := newLogger(tt.level)
		if got := l.Enabled(t.Context(), -4); got != tt.debug {
			t.Errorf("newLogger(%q) debug enabled = %v", tt.level, got)
		}
		if got := l.Enabled(t.Context(), 4); got != tt.warn {
			t.Errorf("newLogger(%q) warn enabled = %v", tt.level, got)
		}
	}
}
