package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/rateio/internal/model"
)

const appName = "rateio"

// Environment overrides. Env wins over the config file.
const (
	EnvQuoteURL = "RATEIO_QUOTE_URL"
	EnvLogLevel = "RATEIO_LOG_LEVEL"
)

// Config holds all rateio configuration.
type Config struct {
	General    GeneralConfig            `toml:"general"`
	Allocation model.AllocationSettings `toml:"allocation"`
	Quote      QuoteConfig              `toml:"quote"`
	Export     ExportConfig             `toml:"export"`
	Appearance AppearanceConfig         `toml:"appearance"`
	Log        LogConfig                `toml:"log"`
	Costs      []model.CostEntry        `toml:"costs"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	DefaultRate float64 `toml:"default_rate"`
}

// QuoteConfig holds exchange rate fetch settings.
type QuoteConfig struct {
	AutoFetch  bool   `toml:"auto_fetch"`
	BaseURL    string `toml:"base_url,omitempty"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// ExportConfig holds report export defaults.
type ExportConfig struct {
	Format   string `toml:"format"`
	Dir      string `toml:"dir,omitempty"`
	FileName string `toml:"file_name"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// LogConfig holds log output settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultCosts returns the seed cost entries.
func DefaultCosts() []model.CostEntry {
	return []model.CostEntry{
		{Name: "Railway subscription", Amount: 20, Currency: model.USD},
		{Name: "Apple Developer fees", Amount: 20, Currency: model.USD},
		{Name: "Hostinger temporary VPS", Amount: 109.99, Currency: model.BRL},
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DefaultRate: 5.50,
		},
		Allocation: model.AllocationSettings{
			Mode:             model.ModePercentage,
			TargetUsers:      50,
			TargetPercentage: 8,
		},
		Quote: QuoteConfig{
			AutoFetch:  true,
			TimeoutSec: 10,
		},
		Export: ExportConfig{
			Format:   "xls",
			FileName: "cost-report",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Log: LogConfig{
			Level: "info",
		},
		Costs: DefaultCosts(),
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// CachePath returns the full path to the quote cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), appName+".db")
}

// LogPath returns the configured log file, or the default under CacheDir.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(CacheDir(), appName+".log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads a config file at path, returning defaults if it doesn't exist.
// A [[costs]] list in the file replaces the seed costs entirely.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	cfg.Costs = nil
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}
	if !md.IsDefined("costs") {
		cfg.Costs = DefaultCosts()
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes the config to path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing config: %w", err)
	}
	return f.Close()
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// Validate reports settings that would make the calculator misbehave.
func (c Config) Validate() error {
	var errs []error
	if r := c.General.DefaultRate; !(r > 0) || math.IsInf(r, 0) {
		errs = append(errs, fmt.Errorf("general.default_rate must be positive, got %v", c.General.DefaultRate))
	}
	if c.Allocation.TargetUsers < 0 {
		errs = append(errs, fmt.Errorf("allocation.target_users must not be negative, got %d", c.Allocation.TargetUsers))
	}
	if c.Quote.TimeoutSec < 0 {
		errs = append(errs, fmt.Errorf("quote.timeout_sec must not be negative, got %d", c.Quote.TimeoutSec))
	}
	for i, e := range c.Costs {
		if !e.Currency.Valid() {
			errs = append(errs, fmt.Errorf("costs[%d]: invalid currency", i))
		}
	}
	return errors.Join(errs...)
}

// GetQuoteURL returns the quote API base URL from env var or config, in that order.
// Empty means the client default.
func GetQuoteURL(cfg Config) string {
	if u := strings.TrimSpace(os.Getenv(EnvQuoteURL)); u != "" {
		return u
	}
	return cfg.Quote.BaseURL
}

// GetLogLevel returns the log level from env var or config, in that order.
func GetLogLevel(cfg Config) string {
	if lvl := strings.TrimSpace(os.Getenv(EnvLogLevel)); lvl != "" {
		return lvl
	}
	return cfg.Log.Level
}
