// Package config loads ~/.sysq/config.yaml, writing the embedded default on
// first run. The SYSQ_CONFIG environment variable overrides the path.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/sysq/assets"
	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

const (
	envConfigPath = "SYSQ_CONFIG"
	appDirName    = ".sysq"
	configName    = "config.yaml"
	safetyName    = "safety.yaml"
	historyDBPath = "history/history.db"
)

type FileLoader struct {
	path string
}

var _ ports.ConfigProvider = (*FileLoader)(nil)

func NewFileLoader() (*FileLoader, error) {
	if p := os.Getenv(envConfigPath); p != "" {
		return &FileLoader{path: p}, nil
	}
	dir, err := AppDir()
	if err != nil {
		return nil, err
	}
	return &FileLoader{path: filepath.Join(dir, configName)}, nil
}

// AppDir returns ~/.sysq, creating it if missing.
func AppDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	dir := filepath.Join(home, appDirName)
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

// HistoryDBPath returns the trace database location inside the app dir.
func HistoryDBPath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, historyDBPath), nil
}

func (l *FileLoader) Path() string {
	return l.path
}

// Load reads the config file, writing the embedded default first if the file
// does not exist yet. Missing fields are hydrated with defaults so older
// config files keep working after upgrades.
func (l *FileLoader) Load(_ context.Context) (domain.Config, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		if writeErr := l.writeDefault(); writeErr != nil {
			return domain.Config{}, writeErr
		}
		data = assets.DefaultConfig
	} else if err != nil {
		return domain.Config{}, fmt.Errorf("read config %s: %w", l.path, err)
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", l.path, err)
	}
	hydrateDefaults(&cfg)
	return cfg, nil
}

func (l *FileLoader) writeDefault() error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(l.path, assets.DefaultConfig, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}
	// The default safety rules live next to the config so users find them.
	rulesPath := filepath.Join(filepath.Dir(l.path), safetyName)
	if _, err := os.Stat(rulesPath); os.IsNotExist(err) {
		if err := os.WriteFile(rulesPath, assets.DefaultSafetyRules, domain.SecureFilePermissions); err != nil {
			return fmt.Errorf("write default safety rules: %w", err)
		}
	}
	return nil
}

func hydrateDefaults(cfg *domain.Config) {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Preferences.CommandTimeoutSeconds <= 0 {
		cfg.Preferences.CommandTimeoutSeconds = int(domain.DefaultCommandTimeout.Seconds())
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = int(domain.DefaultBackendTimeout.Seconds())
	}
	if cfg.Backend.MaxTokens <= 0 {
		cfg.Backend.MaxTokens = 256
	}
	if cfg.History.RetainDays <= 0 {
		cfg.History.RetainDays = domain.DefaultHistoryRetainDays
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
}
