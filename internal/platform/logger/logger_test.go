package logger_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/phrazzld/upscayl-gateway/internal/config"
	"github.com/phrazzld/upscayl-gateway/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// restoreDefault puts back the process-wide default logger after a test that
// calls Setup.
func restoreDefault(t *testing.T) {
	t.Helper()
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })
}

func TestSetupWithWriter_WritesJSON(t *testing.T) {
	restoreDefault(t)
	buf := &logger.CaptureBuffer{}

	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info", Port: 8046}, buf)
	require.NoError(t, err)
	require.NotNil(t, log)

	log.Info("upscale task started", "task_id", "t1")

	entries, err := buf.Records()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "upscale task started", entries[0]["msg"])
	assert.Equal(t, "t1", entries[0]["task_id"])

	// Setup installs the logger as the process default.
	assert.Equal(t, log, slog.Default())
}

func TestSetupWithWriter_Levels(t *testing.T) {
	testCases := []struct {
		name      string
		logLevel  string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{name: "debug level", logLevel: "debug", wantDebug: true, wantInfo: true, wantWarn: true},
		{name: "info level", logLevel: "info", wantInfo: true, wantWarn: true},
		{name: "warn level", logLevel: "warn", wantWarn: true},
		{name: "error level", logLevel: "error"},
		{name: "case insensitive - DEBUG", logLevel: "DEBUG", wantDebug: true, wantInfo: true, wantWarn: true},
		{name: "case insensitive - Info", logLevel: "Info", wantInfo: true, wantWarn: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			restoreDefault(t)
			buf := &logger.CaptureBuffer{}

			log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tc.logLevel, Port: 8046}, buf)
			require.NoError(t, err)

			ctx := context.Background()
			assert.Equal(t, tc.wantDebug, log.Enabled(ctx, slog.LevelDebug))
			assert.Equal(t, tc.wantInfo, log.Enabled(ctx, slog.LevelInfo))
			assert.Equal(t, tc.wantWarn, log.Enabled(ctx, slog.LevelWarn))
			assert.True(t, log.Enabled(ctx, slog.LevelError))
		})
	}
}

// TestInvalidLogLevelParsing checks that an invalid level falls back to info
// and warns on stderr.
func TestInvalidLogLevelParsing(t *testing.T) {
	restoreDefault(t)

	origStderr := os.Stderr
	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = stderrW

	buf := &logger.CaptureBuffer{}
	log, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "invalid_level", Port: 8046}, buf)

	os.Stderr = origStderr
	require.NoError(t, stderrW.Close())

	stderrBuf := new(bytes.Buffer)
	_, copyErr := io.Copy(stderrBuf, stderrR)
	require.NoError(t, copyErr)
	stderrOutput := stderrBuf.String()

	require.NoError(t, err)
	require.NotNil(t, log)

	assert.True(t, strings.Contains(stderrOutput, "invalid log level configured"), stderrOutput)
	assert.Contains(t, stderrOutput, "invalid_level")

	ctx := context.Background()
	assert.False(t, log.Enabled(ctx, slog.LevelDebug))
	assert.True(t, log.Enabled(ctx, slog.LevelInfo))
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel(" warn ")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, level)

	level, ok = logger.ParseLevel("fatal")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}

func TestFromContextOrDefault(t *testing.T) {
	defaultLogger := slog.Default()
	customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "nil_context_returns_default",
			ctx:      nil,
			expected: defaultLogger,
		},
		{
			name:     "context_without_logger_returns_default",
			ctx:      context.Background(),
			expected: defaultLogger,
		},
		{
			name:     "context_with_logger_returns_context_logger",
			ctx:      logger.WithLogger(context.Background(), customLogger),
			expected: customLogger,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			//nolint:staticcheck // nil context is part of the contract under test
			result := logger.FromContextOrDefault(tt.ctx, defaultLogger)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("valid_logger", func(t *testing.T) {
		customLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
		ctx := logger.WithLogger(context.Background(), customLogger)

		assert.Equal(t, customLogger, logger.FromContext(ctx))
	})

	t.Run("nil_logger_panics", func(t *testing.T) {
		assert.Panics(t, func() {
			logger.WithLogger(context.Background(), nil)
		})
	})
}
