package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"INFO":    LogLevelInfo,
		"Warning": LogLevelWarn,
		"error":   LogLevelError,
		"bogus":   LogLevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LogLevelInfo, Output: &buf})

	l.Debug("hidden %d", 1)
	l.WithComponent("put").WithField("caret", "ab12").Info("inserted %d bytes", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `msg="inserted 4 bytes"`)
	assert.Contains(t, out, "component=put")
	assert.Contains(t, out, "caret=ab12")

	l.SetLevel(LogLevelDebug)
	l.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestDerivedLoggersShareLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LogLevelError, Output: &buf})
	child := root.WithComponent("x")

	child.Warn("dropped")
	root.SetLevel(LogLevelWarn)
	child.Warn("kept")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
}

func TestNullLogger(t *testing.T) {
	assert.False(t, NullLogger.Enabled(LogLevelError))
	NullLogger.Error("nothing")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vimput.log")
	l := New(Config{Level: LogLevelInfo, File: path, MaxSizeMB: 1})
	l.Info("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "to file"))
}

func TestDefaultLogger(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	SetDefault(New(Config{Level: LogLevelInfo, Output: &buf}))
	Default().Info("hello")
	assert.Contains(t, buf.String(), "hello")
}
