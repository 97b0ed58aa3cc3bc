package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/nhle/project-tracker/internal/app"
	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/persist"
	"github.com/nhle/project-tracker/internal/session"
	"github.com/nhle/project-tracker/internal/store"
)

type flags struct {
	configPath string
	backend    string
	dbPath     string
	logPath    string
	logLevel   string
	exportPath string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	fset := pflag.NewFlagSet("tracker", pflag.ContinueOnError)
	fset.StringVarP(&f.configPath, "config", "c", model.DefaultConfigPath(), "path to the YAML config file")
	fset.StringVar(&f.backend, "backend", "", "storage backend: sqlite, keyring or memory")
	fset.StringVar(&f.dbPath, "db", "", "SQLite database file")
	fset.StringVar(&f.logPath, "log", "", "log file")
	fset.StringVar(&f.logLevel, "level", "", "log level (debug, info, warn, error)")
	fset.StringVar(&f.exportPath, "export", "", "default export file")
	if err := fset.Parse(args); err != nil {
		return flags{}, err
	}
	return f, nil
}

// apply overrides config values with the flags that were set.
func (f flags) apply(cfg *model.AppConfig) error {
	if f.backend != "" {
		cfg.Storage.Backend = f.backend
	}
	if f.dbPath != "" {
		cfg.Storage.Path = f.dbPath
	}
	if f.logPath != "" {
		cfg.Log.Path = f.logPath
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.exportPath != "" {
		cfg.Persistence.ExportPath = f.exportPath
	}
	return cfg.Validate()
}

// resolve anchors relative paths at dir.
func resolve(dir, path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func openLog(cfg model.LogConfig) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("parse log level: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("create log directory: %w", err)
	}

	filePerms := 0o666
	logFile, err := os.OpenFile(cfg.Path, os.O_RDWR|os.O_CREATE|os.O_APPEND, fs.FileMode(filePerms))
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("open log file: %w", err)
	}

	log := zerolog.New(zerolog.ConsoleWriter{
		Out: logFile, TimeFormat: "2006-01-02_15:04:05",
	}).Level(level).With().Timestamp().Caller().Logger()

	return log, func() { logFile.Close() }, nil
}

// openStore builds the configured backend. An open failure yields an
// UnavailableKV so the session starts in memory-only mode.
func openStore(cfg model.StorageConfig, dir string, log zerolog.Logger) store.KV {
	quota := store.WithQuota(cfg.QuotaBytes)

	var (
		kv  store.KV
		err error
	)
	switch cfg.Backend {
	case model.BackendKeyring:
		kv, err = store.OpenKeyring(filepath.Join(dir, "keyring"), quota)
	case model.BackendMemory:
		kv = store.NewMemoryKV(quota)
	default:
		if mkErr := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); mkErr != nil {
			log.Warn().Err(mkErr).Msg("creating database directory")
		}
		kv, err = store.NewSQLiteKV(cfg.Path, quota)
	}
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.Backend).Msg("opening storage")
		return store.NewUnavailableKV(err)
	}
	return kv
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := model.LoadConfig(f.configPath)
	if err != nil {
		return err
	}
	// The settings view writes back what the file said, not the flags.
	fileCfg := *cfg
	if err := f.apply(cfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	dir := model.DefaultConfigDir()
	cfg.Storage.Path = resolve(dir, cfg.Storage.Path)
	cfg.Log.Path = resolve(dir, cfg.Log.Path)

	log, closeLog, err := openLog(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	log.Info().Str("backend", cfg.Storage.Backend).Msg("starting application...")

	kv := openStore(cfg.Storage, dir, log)
	defer kv.Close()

	ctx := context.Background()
	gw := persist.NewGateway(kv,
		persist.WithLogger(log),
		persist.WithSizeThreshold(cfg.Persistence.SizeWarningBytes),
	)
	s := session.Open(ctx, gw, log)

	m := app.New(ctx, s, app.Options{
		ExportPath: cfg.Persistence.ExportPath,
		Theme:      cfg.Display.Theme,
		ConfigPath: f.configPath,
		Config:     fileCfg,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	log.Info().Msg("exiting")
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "tracker:", err)
		os.Exit(1)
	}
}
