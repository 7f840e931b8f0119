package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger("debug", "json")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = NewLogger("warn", "console")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	_, err := NewLogger("loud", "console")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}
