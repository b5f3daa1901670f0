package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rateio.log")

	logger, level, err := New(Config{Level: "warn", File: path})
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, level.Level())

	logger.Info("dropped")
	logger.Warn("quote fetch failed", zap.String("pair", "USD-BRL"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `"msg":"quote fetch failed"`)
	assert.Contains(t, out, `"pair":"USD-BRL"`)
	assert.Equal(t, 1, strings.Count(strings.TrimSpace(out), "\n")+1)
}

func TestNew_DefaultLevelAndErrors(t *testing.T) {
	_, level, err := New(Config{File: filepath.Join(t.TempDir(), "a.log")})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	_, _, err = New(Config{Level: "loud", File: filepath.Join(t.TempDir(), "b.log")})
	assert.Error(t, err)

	_, _, err = New(Config{Level: "info"})
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Error("ignored") })
}
