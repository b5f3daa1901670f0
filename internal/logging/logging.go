// Package logging builds the zap logger. Output goes to a file because the
// TUI owns the terminal.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger initialization inputs.
type Config struct {
	Level string // debug, info, warn, error; empty means info
	File  string // JSON lines destination
}

// New creates a JSON logger writing to cfg.File and returns it with a
// runtime-adjustable level handle.
func New(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := resolveLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	if cfg.File == "" {
		return nil, zap.AtomicLevel{}, fmt.Errorf("log file is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o750); err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("creating log dir: %w", err)
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "json"
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{cfg.File}
	zc.ErrorOutputPaths = []string{cfg.File}
	zc.DisableStacktrace = true
	zc.Sampling = nil

	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("rateio"), level, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}

func resolveLevel(s string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(s) == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}
	var parsed zapcore.Level
	if err := parsed.Set(strings.ToLower(strings.TrimSpace(s))); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", s, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}
