package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := FromCore(core).With("component", "ledger")

	log.Warn("persist failed", "key", "currentStreak")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "persist failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ledger", fields["component"])
	assert.Equal(t, "currentStreak", fields["key"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}
