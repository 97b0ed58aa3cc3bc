package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage backends selectable in the config file.
const (
	BackendSQLite  = "sqlite"
	BackendKeyring = "keyring"
	BackendMemory  = "memory"
)

const (
	defaultQuotaBytes       = 5 << 20
	defaultSizeWarningBytes = 4 << 20
	defaultExportPath       = "project-data.json"
)

// StorageConfig selects and sizes the durable key-value store.
type StorageConfig struct {
	// Backend is one of "sqlite", "keyring" or "memory".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Path is the SQLite database file (sqlite backend only).
	Path string `mapstructure:"path" yaml:"path"`

	// QuotaBytes caps the total size of stored keys and values.
	QuotaBytes int `mapstructure:"quota_bytes" yaml:"quota_bytes"`
}

// PersistenceConfig holds the gateway's advisory thresholds and file defaults.
type PersistenceConfig struct {
	SizeWarningBytes int    `mapstructure:"size_warning_bytes" yaml:"size_warning_bytes"`
	ExportPath       string `mapstructure:"export_path" yaml:"export_path"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// LogConfig controls where the log file goes and how verbose it is.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage     StorageConfig     `mapstructure:"storage" yaml:"storage"`
	Persistence PersistenceConfig `mapstructure:"persistence" yaml:"persistence"`
	Display     DisplayConfig     `mapstructure:"display" yaml:"display"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// DefaultConfigDir returns ~/.config/project-tracker, or "." when the home
// directory cannot be determined.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "project-tracker")
}

// DefaultConfigPath returns the default path for the configuration file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := DefaultConfigDir()
	return &AppConfig{
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			Path:       filepath.Join(dir, "tracker.db"),
			QuotaBytes: defaultQuotaBytes,
		},
		Persistence: PersistenceConfig{
			SizeWarningBytes: defaultSizeWarningBytes,
			ExportPath:       defaultExportPath,
		},
		Display: DisplayConfig{
			Theme: "dark",
		},
		Log: LogConfig{
			Path:  filepath.Join(dir, "tracker.log"),
			Level: "info",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	def := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("storage.backend", def.Storage.Backend)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.quota_bytes", def.Storage.QuotaBytes)
	v.SetDefault("persistence.size_warning_bytes", def.Persistence.SizeWarningBytes)
	v.SetDefault("persistence.export_path", def.Persistence.ExportPath)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("log.path", def.Log.Path)
	v.SetDefault("log.level", def.Log.Level)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return def, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return def, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendKeyring, BackendMemory:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.QuotaBytes < 0 {
		return fmt.Errorf("storage.quota_bytes must not be negative")
	}
	if c.Persistence.SizeWarningBytes < 0 {
		return fmt.Errorf("persistence.size_warning_bytes must not be negative")
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("persistence", cfg.Persistence)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
