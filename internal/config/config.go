package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from an optional config
// file with environment variable overrides.
type Config struct {
	DatabaseURL  string `yaml:"database_url" toml:"database_url"`
	Port         string `yaml:"port" toml:"port"`
	APIURL       string `yaml:"api_url" toml:"api_url"`
	DataDir      string `yaml:"data_dir" toml:"data_dir"`
	SyncSchedule string `yaml:"sync_schedule" toml:"sync_schedule"` // cron spec, empty disables scheduled syncs
	LogLevel     string `yaml:"log_level" toml:"log_level"`
}

// LoadConfig loads configuration: defaults, then config.yaml/config.toml
// if present, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:     "8000",
		APIURL:   "http://localhost:8000",
		DataDir:  "data",
		LogLevel: "info",
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg.DatabaseURL, "DATABASE_URL")
	applyEnv(&cfg.Port, "PORT")
	applyEnv(&cfg.APIURL, "API_URL")
	applyEnv(&cfg.DataDir, "DATA_DIR")
	applyEnv(&cfg.SyncSchedule, "SYNC_SCHEDULE")
	applyEnv(&cfg.LogLevel, "LOG_LEVEL")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// loadConfigFile overlays config.yaml or config.toml when one exists.
func loadConfigFile(cfg *Config) error {
	if buf, err := os.ReadFile("config.yaml"); err == nil {
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return fmt.Errorf("failed to parse config.yaml: %w", err)
		}
		return nil
	}
	if _, err := os.Stat("config.toml"); err == nil {
		if _, err := toml.DecodeFile("config.toml", cfg); err != nil {
			return fmt.Errorf("failed to parse config.toml: %w", err)
		}
	}
	return nil
}

func applyEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// CacheDir returns the bulk data cache directory.
func (c *Config) CacheDir() string {
	return filepath.Join(c.DataDir, "cache")
}

// SymbolsDir returns the extracted SVG asset root.
func (c *Config) SymbolsDir() string {
	return filepath.Join(c.DataDir, "symbols")
}
