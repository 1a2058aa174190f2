package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func reset(t *testing.T) {
	t.Helper()
	prev := Logger
	Logger = nil
	t.Cleanup(func() { Logger = prev })
}

func TestGetBeforeInit(t *testing.T) {
	reset(t)
	l := Get()
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel), "fallback logger discards everything")
}

func TestInitLevels(t *testing.T) {
	tests := []struct {
		env   string
		level string
		debug bool
		info  bool
	}{
		{"development", "", true, true},
		{"production", "", false, true},
		{"production", "debug", true, true},
		{"development", "warn", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.env+"/"+tt.level, func(t *testing.T) {
			reset(t)
			require.NoError(t, Init(tt.env, tt.level))
			core := Get().Core()
			assert.Equal(t, tt.debug, core.Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.info, core.Enabled(zapcore.InfoLevel))
		})
	}
}

func TestInitBadLevel(t *testing.T) {
	reset(t)
	err := Init("development", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log level")
	assert.Nil(t, Logger)
}

func TestSyncWithoutInit(t *testing.T) {
	reset(t)
	assert.NotPanics(t, Sync)
}
