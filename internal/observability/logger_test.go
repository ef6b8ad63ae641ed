package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/fieldsim/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGetLoggerBeforeInitialize(t *testing.T) {
	ResetForTest()
	l := GetLogger()
	require.NotNil(t, l)
	l.Info("dropped")
	Sync()
}

func TestConsoleLogger(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "debug", Format: "console"}, zapcore.AddSync(&buf))
	Named("driver").Debug("particle respawned", zap.Int("frame", 3))
	Sync()

	out := buf.String()
	assert.Contains(t, out, "DEBUG")
	assert.Contains(t, out, colorCyan)
	assert.Contains(t, out, "fieldsim.driver.")
	assert.Contains(t, out, "particle respawned")
	assert.Contains(t, out, `"frame": 3`)
}

func TestJSONLoggerRespectsLevel(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "warn", Format: "json"}, zapcore.AddSync(&buf))
	GetLogger().Info("hidden")
	GetLogger().Warn("shown", zap.String("mode", "electric"))
	Sync()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "electric", entry["mode"])
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LogConfig{Level: "loud", Format: "json"}, zapcore.AddSync(&buf))
	GetLogger().Debug("hidden")
	GetLogger().Info("shown")
	Sync()

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestInitializeRunsOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LogConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	GetLogger().Info("once")
	Sync()

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestFileSink(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "fieldsim.log")
	Initialize(config.LogConfig{Level: "info", File: path}, nil)
	GetLogger().Info("to file", zap.Int("charges", 2))
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "to file", entry["msg"])
	assert.EqualValues(t, 2, entry["charges"])
}
