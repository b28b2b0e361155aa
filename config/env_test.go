package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBalance, "2500.5")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogPretty, "true")
	t.Setenv(EnvJournalType, "sqlite")
	t.Setenv(EnvJournalDB, "/tmp/x.sqlite")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, 2500.5, cfg.Account.Balance)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "/tmp/x.sqlite", cfg.Journal.DBPath)
}

func TestApplyEnvErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvBalance, "lots"},
		{EnvLogPretty, "maybe"},
		{EnvBalance, "-10"},
		{EnvJournalType, "csv"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			assert.Error(t, Default().ApplyEnv())
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TRADER_BALANCE=777\n"), 0644))

	t.Setenv(EnvBalance, "")
	require.NoError(t, os.Unsetenv(EnvBalance))

	require.NoError(t, LoadEnv(path))
	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, 777.0, cfg.Account.Balance)
}

func TestLoadEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}
