package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		logger := FromContext(ctx)

		require.NotNil(t, logger)
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	assert.Equal(t, charmlog.DebugLevel, DebugLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.InfoLevel, InfoLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.WarnLevel, WarnLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.ErrorLevel, ErrorLevel.ToCharmlogLevel())
	assert.Equal(t, charmlog.InfoLevel, LogLevel("verbose").ToCharmlogLevel())
	assert.Greater(t, DisabledLevel.ToCharmlogLevel(), charmlog.FatalLevel)
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output at or above the level", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})

		l.Info("hidden")
		l.Warn("shown", "package", "service")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
		assert.Contains(t, out, "package=service")
	})

	t.Run("Should create logger with JSON formatting when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true})

		l.Info("generated", "files", 2)

		assert.True(t, strings.HasPrefix(strings.TrimSpace(buf.String()), "{"))
		assert.Contains(t, buf.String(), `"files":2`)
	})

	t.Run("Should disable all logging when DisabledLevel is used", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&Config{Level: DisabledLevel, Output: &buf})

		l.Error("nothing")

		assert.Empty(t, buf.String())
	})
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewLogger(&Config{Level: DebugLevel, Output: &buf})

	base.With("component", "planner").Debug("planning")

	assert.Contains(t, buf.String(), "component=planner")
}

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, InfoLevel, config.Level)
	assert.Equal(t, os.Stderr, config.Output)
	assert.False(t, config.JSON)

	config = TestConfig()
	assert.Equal(t, io.Discard, config.Output)
	assert.Equal(t, DisabledLevel, config.Level)
}

func TestSetupLogger(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("log-level", "debug", "")
	cmd.Flags().Bool("log-json", true, "")
	cmd.Flags().Bool("log-source", false, "")

	level, json, source, err := GetLoggerConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "debug", level)
	assert.True(t, json)
	assert.False(t, source)

	SetupLogger(level, json, source)
	assert.NotNil(t, GetDefault())

	_, _, _, err = GetLoggerConfig(&cobra.Command{Use: "bare"})
	require.Error(t, err)
}
