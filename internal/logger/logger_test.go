package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("ConsoleFormat", func(t *testing.T) {
		log, err := NewLogger("debug", "console")
		assert.NoError(t, err)
		assert.NotNil(t, log)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("JSONFormat", func(t *testing.T) {
		log, err := NewLogger("warn", "json")
		assert.NoError(t, err)
		assert.NotNil(t, log)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := NewLogger("verbose", "console")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "verbose")
	})
}
