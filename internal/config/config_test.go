package config

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/clockstate/internal/program"
	"github.com/roach88/clockstate/internal/pubkey"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clockstate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "6o2E5vCAzGhKh3Dq6eqy5Cqxy4Eo4nPjjGHw8tou1M82", cfg.ProgramID.String())

	variant, err := cfg.ProgramVariant()
	require.NoError(t, err)
	assert.Equal(t, program.VariantClock, variant)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
program_id: 11111111111111111111111111111112
variant: timestamp
database_path: /tmp/ledger.db
log_level: debug
rent:
  lamports_per_byte_year: 1
  exemption_threshold: 1.5
  account_storage_overhead: 0
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pubkey.MustParsePubkey("11111111111111111111111111111112"), cfg.ProgramID)
	assert.Equal(t, "timestamp", cfg.Variant)
	assert.Equal(t, "/tmp/ledger.db", cfg.DatabasePath)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, 1.5, cfg.Rent.ExemptionThreshold)
	assert.Equal(t, uint64(1_000_000_000), cfg.FaucetLamports, "unset keys keep defaults")
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, "varient: clock\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "varient")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "variant: clock\n")
	t.Setenv("CLOCKSTATE_VARIANT", "timestamp")
	t.Setenv("CLOCKSTATE_RENT_LAMPORTS_PER_BYTE_YEAR", "10")
	t.Setenv("CLOCKSTATE_FAUCET_LAMPORTS", "5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "timestamp", cfg.Variant)
	assert.Equal(t, uint64(10), cfg.Rent.LamportsPerByteYear)
	assert.Equal(t, uint64(5), cfg.FaucetLamports)
}

func TestLoad_EnvBadProgramID(t *testing.T) {
	t.Setenv("CLOCKSTATE_PROGRAM_ID", "not-a-key")
	_, err := Load("")
	require.Error(t, err)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown variant", func(c *Config) { c.Variant = "calendar" }},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }},
		{"zero faucet", func(c *Config) { c.FaucetLamports = 0 }},
		{"negative threshold", func(c *Config) { c.Rent.ExemptionThreshold = -1 }},
		{"huge threshold", func(c *Config) { c.Rent.ExemptionThreshold = 1e6 }},
		{"huge lamports per byte", func(c *Config) { c.Rent.LamportsPerByteYear = 1 << 62 }},
		{"huge storage overhead", func(c *Config) { c.Rent.AccountStorageOverhead = 1 << 40 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
		})
	}
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestSlogLevel_Unknown(t *testing.T) {
	cfg := Config{LogLevel: "nope"}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
