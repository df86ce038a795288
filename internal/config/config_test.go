package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Region != "monkey_game" {
		t.Errorf("region = %q", cfg.Region)
	}
	if cfg.TickRate != 60 {
		t.Errorf("tick_rate = %d", cfg.TickRate)
	}
	if cfg.ConnectAttempts != 10 || cfg.ConnectInterval != time.Second {
		t.Errorf("retry policy = %d x %v", cfg.ConnectAttempts, cfg.ConnectInterval)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monkeyshm.yaml")
	content := "region: lab42\ntick_rate: 120\nconnect_interval: 500ms\ntrials_path: /data/trials.jsonl\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Region != "lab42" || cfg.TickRate != 120 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ConnectInterval != 500*time.Millisecond {
		t.Errorf("connect_interval = %v", cfg.ConnectInterval)
	}
	// Unset keys keep their defaults.
	if cfg.ConnectAttempts != 10 {
		t.Errorf("connect_attempts = %d, want default 10", cfg.ConnectAttempts)
	}
	if cfg.TrialsPath != "/data/trials.jsonl" {
		t.Errorf("trials_path = %q", cfg.TrialsPath)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing explicit config accepted")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "bad-rate.yaml")
	os.WriteFile(path, []byte("tick_rate: 0\n"), 0600)
	if _, err := Load(path); err == nil {
		t.Error("tick_rate 0 accepted")
	}

	path = filepath.Join(dir, "bad-region.yaml")
	os.WriteFile(path, []byte("region: \"\"\n"), 0600)
	if _, err := Load(path); err == nil {
		t.Error("empty region accepted")
	}
}
