package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2023, 1, 1, 12, 30, 0, 0, time.UTC)
}

func TestLoggerWritesFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	var console bytes.Buffer

	logger, err := NewLogger(path, &console)
	require.NoError(t, err)
	logger.now = fixedClock

	logger.Info("loaded 150 rows")
	logger.Errorf("chart %s failed", "heatmap")
	logger.Debug("dropped")
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "[2023-01-01 12:30:00] INFO: loaded 150 rows\n" +
		"[2023-01-01 12:30:00] ERROR: chart heatmap failed\n"
	assert.Equal(t, want, string(data))
	assert.Equal(t, want, console.String())
}

func TestLoggerLevel(t *testing.T) {
	var console bytes.Buffer
	logger, err := NewLogger("", &console)
	require.NoError(t, err)

	logger.SetLevel(DEBUG)
	logger.Debug("visible")
	logger.SetLevel(ERROR)
	logger.Warning("hidden")

	assert.Contains(t, console.String(), "DEBUG: visible")
	assert.NotContains(t, console.String(), "hidden")
}

func TestCheckRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")

	logger, err := NewLogger(path, nil)
	require.NoError(t, err)
	defer logger.Close()
	logger.now = fixedClock

	logger.Info(strings.Repeat("x", 64))
	require.NoError(t, logger.CheckRotate(1024))
	_, err = os.Stat(filepath.Join(dir, "app.20230101123000.log"))
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, logger.CheckRotate(16))
	_, err = os.Stat(filepath.Join(dir, "app.20230101123000.log"))
	assert.NoError(t, err)

	logger.Info("after rotate")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[2023-01-01 12:30:00] INFO: after rotate\n", string(data))
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "WARNING", WARNING.String())
	assert.Equal(t, "FATAL", FATAL.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
