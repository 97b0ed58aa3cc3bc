package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/project-tracker/internal/model"
	"github.com/nhle/project-tracker/internal/store"
)

func TestFlagsOverrideConfig(t *testing.T) {
	f, err := parseFlags([]string{"--backend", "memory", "--db", "other.db", "--level", "debug"})
	require.NoError(t, err)

	cfg := model.DefaultAppConfig()
	require.NoError(t, f.apply(cfg))

	assert.Equal(t, model.BackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "other.db", cfg.Storage.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, model.DefaultAppConfig().Log.Path, cfg.Log.Path, "unset flags leave config alone")
}

func TestFlagsRejectUnknownBackend(t *testing.T) {
	f, err := parseFlags([]string{"--backend", "redis"})
	require.NoError(t, err)
	assert.Error(t, f.apply(model.DefaultAppConfig()))
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(dir, "x.db")

	assert.Equal(t, filepath.Join(dir, "x.db"), resolve(dir, "x.db"))
	assert.Equal(t, abs, resolve("/elsewhere", abs))
	assert.Equal(t, ":memory:", resolve(dir, ":memory:"))
	assert.Equal(t, "", resolve(dir, ""))
}

func TestOpenStoreFallsBackWhenUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := model.StorageConfig{
		Backend: model.BackendSQLite,
		Path:    filepath.Join(blocker, "sub", "tracker.db"),
	}

	kv := openStore(cfg, dir, zerolog.Nop())
	assert.IsType(t, &store.UnavailableKV{}, kv)
}

func TestOpenStoreSQLite(t *testing.T) {
	dir := t.TempDir()
	cfg := model.StorageConfig{
		Backend:    model.BackendSQLite,
		Path:       filepath.Join(dir, "data", "tracker.db"),
		QuotaBytes: store.DefaultQuota,
	}

	kv := openStore(cfg, dir, zerolog.Nop())
	t.Cleanup(func() { kv.Close() })
	assert.IsType(t, &store.SQLiteKV{}, kv)
}

func TestOpenLogRejectsBadLevel(t *testing.T) {
	_, closeLog, err := openLog(model.LogConfig{Path: filepath.Join(t.TempDir(), "t.log"), Level: "loud"})
	defer closeLog()
	assert.Error(t, err)
}
