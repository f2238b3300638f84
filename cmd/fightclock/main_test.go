package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/fightclock/internal/audio"
	"github.com/verte-zerg/fightclock/internal/config"
	"github.com/verte-zerg/fightclock/internal/model"
)

func TestDefaultConfigTemplateParses(t *testing.T) {
	tmpl := defaultConfigTemplate()
	var cfg config.FileConfig
	if _, err := toml.Decode(tmpl, &cfg); err != nil {
		t.Fatalf("template should be valid TOML: %v", err)
	}
	for _, key := range []string{"duration", "lead-in", "sound", "record", "log-level"} {
		if !strings.Contains(tmpl, "# "+key+" = ") {
			t.Fatalf("template missing %s", key)
		}
	}
}

func TestDefaultConfigTemplateUncommented(t *testing.T) {
	var lines []string
	for _, line := range strings.Split(defaultConfigTemplate(), "\n") {
		if strings.HasPrefix(line, "# ") && strings.Contains(line, " = ") {
			line = strings.TrimPrefix(line, "# ")
		}
		lines = append(lines, line)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Clock.Duration == nil || *cfg.Clock.Duration != defaultDuration {
		t.Fatalf("unexpected duration: %v", cfg.Clock.Duration)
	}
	if cfg.Clock.LeadIn == nil || *cfg.Clock.LeadIn != "5s" {
		t.Fatalf("unexpected lead-in: %v", cfg.Clock.LeadIn)
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig("1:30", 3*time.Second, true, false, "debug")
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.DurationSeconds != 90 || cfg.LeadIn != 3*time.Second || !cfg.Sound || cfg.Record {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestBuildConfigRejectsInvalid(t *testing.T) {
	cases := []struct {
		name     string
		duration string
		leadIn   time.Duration
		level    string
	}{
		{name: "bad format", duration: "90", leadIn: time.Second, level: "info"},
		{name: "zero", duration: "0:00", leadIn: time.Second, level: "info"},
		{name: "seconds overflow", duration: "1:75", leadIn: time.Second, level: "info"},
		{name: "negative lead-in", duration: "1:00", leadIn: -time.Second, level: "info"},
		{name: "long lead-in", duration: "1:00", leadIn: 2 * time.Minute, level: "info"},
		{name: "bad level", duration: "1:00", leadIn: time.Second, level: "loud"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := buildConfig(tc.duration, tc.leadIn, false, false, tc.level); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("duration", "3:00"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fileDuration := "1:00"
	fileLeadIn := "2s"
	applyStringConfig(cmd, "duration", &clockDuration, &fileDuration)
	if err := applyDurationConfig(cmd, "lead-in", &clockLeadIn, &fileLeadIn); err != nil {
		t.Fatalf("apply lead-in: %v", err)
	}
	if clockDuration != "3:00" {
		t.Fatalf("flag should win over file, got %s", clockDuration)
	}
	if clockLeadIn != 2*time.Second {
		t.Fatalf("file should fill unset flag, got %s", clockLeadIn)
	}

	bad := "soon"
	cmd = newRootCmd()
	if err := applyDurationConfig(cmd, "lead-in", &clockLeadIn, &bad); err == nil {
		t.Fatalf("expected error for bad lead-in")
	}
}

func TestNewPlayerSilentWithoutTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	if err != nil {
		t.Fatalf("create temp: %v", err)
	}
	defer f.Close()
	if _, ok := newPlayer(true, f).(audio.Nop); !ok {
		t.Fatalf("expected silent player when output is not a terminal")
	}
	if _, ok := newPlayer(false, f).(audio.Nop); !ok {
		t.Fatalf("expected silent player when sound is off")
	}
}

type staticLister []model.MatchRecord

func (s staticLister) ListMatches(context.Context, model.HistoryConfig) ([]model.MatchRecord, error) {
	return s, nil
}

func TestWritePlainHistory(t *testing.T) {
	src := staticLister{
		{EndedAt: time.Unix(0, 0), ConfiguredMs: 60000, ElapsedMs: 60000, Outcome: model.OutcomeFinished},
	}
	var buf bytes.Buffer
	if err := writePlainHistory(context.Background(), &buf, src, model.HistoryConfig{}); err != nil {
		t.Fatalf("write history: %v", err)
	}
	if !strings.Contains(buf.String(), "Matches: 1 (1 finished, 0 abandoned)") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}
