package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `client_id: bench-client
history:
  enabled: true
  data_dir: ` + filepath.Join(dir, "history")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ClientID != "bench-client" {
		t.Errorf("client_id = %q", cfg.ClientID)
	}
	if cfg.Environment != DefaultEnvironment {
		t.Errorf("environment default = %q", cfg.Environment)
	}
	if cfg.Solver.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("max_attempts default = %d", cfg.Solver.MaxAttempts)
	}
	if cfg.Solver.Profile != DefaultProfile {
		t.Errorf("profile default = %q", cfg.Solver.Profile)
	}
	if cfg.Verifier.ReplayTTL != DefaultReplayTTLSeconds {
		t.Errorf("replay_ttl default = %d", cfg.Verifier.ReplayTTL)
	}

	// enabled history must have its data dir created
	if _, err := os.Stat(cfg.History.DataDir); err != nil {
		t.Errorf("history data dir not created: %v", err)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("solver: ["), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestSaveAndReloadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yml")

	cfg := CreateDefaultConfig("round-trip", "dev", "light")
	cfg.History.DataDir = filepath.Join(dir, "history")
	cfg.Solver.Workers = 4

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save: %v", err)
	}
	if got.ClientID != "round-trip" || got.Solver.Profile != "light" || got.Solver.Workers != 4 {
		t.Fatalf("unexpected reloaded config: %+v", got)
	}
}
