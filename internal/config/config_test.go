package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/rateio/internal/model"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.False(t, Exists())

	assert.Equal(t, 5.50, cfg.General.DefaultRate)
	assert.Equal(t, model.ModePercentage, cfg.Allocation.Mode)
	assert.Equal(t, 50, cfg.Allocation.TargetUsers)
	assert.Equal(t, 8.0, cfg.Allocation.TargetPercentage)
	require.Len(t, cfg.Costs, 3)
	assert.Equal(t, model.USD, cfg.Costs[0].Currency)
	assert.Equal(t, 109.99, cfg.Costs[2].Amount)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.DefaultRate = 6.1
	cfg.Allocation.Mode = model.ModeUsers
	cfg.Allocation.TargetUsers = 12
	cfg.Export.Format = "pdf"
	cfg.Costs = []model.CostEntry{{Name: "Domain", Amount: 12.5, Currency: model.USD}}
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[general]
default_rate = 5.75

[allocation]
mode = "users"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5.75, cfg.General.DefaultRate)
	assert.Equal(t, model.ModeUsers, cfg.Allocation.Mode)
	assert.Equal(t, 50, cfg.Allocation.TargetUsers)
	assert.Equal(t, "flexoki-dark", cfg.Appearance.Theme)
	assert.Equal(t, DefaultCosts(), cfg.Costs)
}

func TestLoadFile_CostsReplaceSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[costs]]
name = "Fly.io"
amount = 7
currency = "usd"
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, cfg.Costs, 1)
	assert.Equal(t, model.CostEntry{Name: "Fly.io", Amount: 7, Currency: model.USD}, cfg.Costs[0])
}

func TestLoadFile_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[costs]]
name = "Bad"
currency = "EUR"
`), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.General.DefaultRate = 0
	cfg.Allocation.TargetUsers = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_rate")
	assert.Contains(t, err.Error(), "target_users")
}

func TestValidate_NonFiniteRate(t *testing.T) {
	for _, r := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		cfg := DefaultConfig()
		cfg.General.DefaultRate = r
		err := cfg.Validate()
		require.Error(t, err, "rate %v", r)
		assert.Contains(t, err.Error(), "default_rate")
	}
}

func TestEnvOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Quote.BaseURL = "http://from-config"
	cfg.Log.Level = "warn"

	t.Setenv(EnvQuoteURL, "")
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, "http://from-config", GetQuoteURL(cfg))
	assert.Equal(t, "warn", GetLogLevel(cfg))

	t.Setenv(EnvQuoteURL, "http://from-env")
	t.Setenv(EnvLogLevel, "debug")
	assert.Equal(t, "http://from-env", GetQuoteURL(cfg))
	assert.Equal(t, "debug", GetLogLevel(cfg))
}

func TestPaths(t *testing.T) {
	cfgHome := t.TempDir()
	cacheHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	assert.Equal(t, filepath.Join(cfgHome, "rateio", "config.toml"), ConfigPath())
	assert.Equal(t, filepath.Join(cacheHome, "rateio", "rateio.db"), CachePath())
	assert.Equal(t, filepath.Join(cacheHome, "rateio", "rateio.log"), LogPath(DefaultConfig()))

	cfg := DefaultConfig()
	cfg.Log.File = "/tmp/custom.log"
	assert.Equal(t, "/tmp/custom.log", LogPath(cfg))
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("RATEIO_TEST_ONLY=from-dotenv\n"), 0o600))
	t.Setenv("RATEIO_TEST_ONLY", "")
	require.NoError(t, os.Unsetenv("RATEIO_TEST_ONLY"))

	require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
	assert.Equal(t, "from-dotenv", os.Getenv("RATEIO_TEST_ONLY"))
}
