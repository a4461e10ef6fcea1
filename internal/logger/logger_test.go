package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"production", "PROD", "development", "", "nop"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l.SugaredLogger, mode)
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "advisor").Info("rule added", "rule", "Musik-Art")
	l.Warn("drop facts message", "error", "bad json")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "rule added", entries[0].Message)
	assert.Equal(t, map[string]interface{}{"component": "advisor", "rule": "Musik-Art"}, entries[0].ContextMap())
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}
