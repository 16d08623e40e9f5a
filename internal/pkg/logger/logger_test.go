package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuildConfig(t *testing.T) {
	tests := []struct {
		level    string
		want     zapcore.Level
		encoding string
	}{
		{"info", zapcore.InfoLevel, "json"},
		{"warn", zapcore.WarnLevel, "json"},
		{"error", zapcore.ErrorLevel, "json"},
		{"debug", zapcore.DebugLevel, "console"},
		{"DEBUG", zapcore.DebugLevel, "console"},
		{"verbose", zapcore.InfoLevel, "json"},
		{"", zapcore.InfoLevel, "json"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := buildConfig(tt.level)
			assert.Equal(t, tt.want, cfg.Level.Level())
			assert.Equal(t, tt.encoding, cfg.Encoding)
		})
	}
}

func TestBuildConfig_ProductionTimestamp(t *testing.T) {
	cfg := buildConfig("info")
	assert.Equal(t, "timestamp", cfg.EncoderConfig.TimeKey)
	assert.False(t, cfg.Development)
}

func TestNew(t *testing.T) {
	log, err := New("info")
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}
