package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogDebug("quiet")
	cl.LogInfo("quiet")
	cl.LogWarn("loud")
	cl.LogError("louder")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "[WARN] loud")
	assert.Contains(t, out, "[ERROR] louder")
}

func TestConsoleLoggerTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "trace")

	cl.LogTrace("everything")
	cl.LogDebug("shown too")
	assert.Contains(t, buf.String(), "[TRACE] everything")
	assert.Contains(t, buf.String(), "[DEBUG] shown too")

	buf.Reset()
	NewConsoleLogger(&buf, "debug").LogTrace("filtered")
	assert.NotContains(t, buf.String(), "filtered")
}

func TestConsoleLoggerDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "shout")

	cl.LogDebug("hidden")
	cl.LogInfo("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")
	cl.LogInfo("no panic")
}

func TestConsoleLoggerNoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")
	cl.LogInfo("plain")
	assert.NotContains(t, buf.String(), "\x1b[", "non-terminal writers get plain text")
}

func TestFileLogger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	fl, err := NewFileLogger(dir, "debug")
	require.NoError(t, err)

	fl.LogDebug("first")
	fl.LogInfo("second")
	require.NoError(t, fl.Close())

	data, err := os.ReadFile(fl.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "[DEBUG] first")
	assert.Contains(t, lines[1], "[INFO] second")

	assert.True(t, strings.HasPrefix(filepath.Base(fl.Path()), "labeller-"))
}

func TestFileLoggerFiltersLevels(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "error")
	require.NoError(t, err)
	fl.LogInfo("skipped")
	fl.LogError("kept")
	require.NoError(t, fl.Close())

	data, err := os.ReadFile(fl.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "skipped")
	assert.Contains(t, string(data), "kept")
}

func TestCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info")
	require.NoError(t, err)
	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())
	fl.LogInfo("after close is a no-op")
}
