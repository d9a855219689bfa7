package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/support-desk/internal/config"
)

func TestNewLoggerLevel(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "WARN"}, config.AppConfig{Name: "support-desk", Env: "production"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "chatty"}, config.AppConfig{})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestLogEncoding(t *testing.T) {
	assert.Equal(t, "console", logEncoding(" Console "))
	assert.Equal(t, "json", logEncoding("json"))
	assert.Equal(t, "json", logEncoding("logfmt"))
}
