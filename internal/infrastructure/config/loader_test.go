package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(envConfigPath, path)

	loader, err := NewFileLoader()
	if err != nil {
		t.Fatalf("NewFileLoader: %v", err)
	}
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}
	if !cfg.Safety.Enabled {
		t.Error("default config should enable safety")
	}
	if cfg.Preferences.CommandTimeoutSeconds != 5 {
		t.Errorf("CommandTimeoutSeconds = %d, want 5", cfg.Preferences.CommandTimeoutSeconds)
	}
	if cfg.Backend.Endpoint != "" {
		t.Error("default config must run offline")
	}
}

func TestLoadHydratesMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	minimal := "preferences:\n  parallel_probes: false\n"
	if err := os.WriteFile(path, []byte(minimal), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfigPath, path)

	loader, err := NewFileLoader()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Preferences.ParallelProbes {
		t.Error("explicit false must survive hydration")
	}
	if cfg.Preferences.CommandTimeoutSeconds <= 0 {
		t.Error("missing timeout was not hydrated")
	}
	if cfg.History.RetainDays <= 0 {
		t.Error("missing retention was not hydrated")
	}
	if cfg.Logging.Level == "" {
		t.Error("missing log level was not hydrated")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("preferences: [unbalanced"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(envConfigPath, path)

	loader, err := NewFileLoader()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := loader.Load(context.Background()); err == nil {
		t.Error("malformed config must surface an error")
	}
}
