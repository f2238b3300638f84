package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Clock.Duration != nil {
		t.Fatalf("expected empty config")
	}
}

func TestLoadConfigClockSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[clock]
duration = "3:00"
lead-in = "2s"
sound = false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Clock.Duration == nil || *cfg.Clock.Duration != "3:00" {
		t.Fatalf("unexpected duration: %v", cfg.Clock.Duration)
	}
	if cfg.Clock.LeadIn == nil || *cfg.Clock.LeadIn != "2s" {
		t.Fatalf("unexpected lead-in: %v", cfg.Clock.LeadIn)
	}
	if cfg.Clock.Sound == nil || *cfg.Clock.Sound {
		t.Fatalf("expected sound=false")
	}
	if cfg.Clock.Record != nil {
		t.Fatalf("expected record unset")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[clock]\nduraton = \"1:00\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "duraton") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "fightclock", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "fightclock", "fightclock.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/state", "fightclock", "fightclock.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
