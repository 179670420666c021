package service

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"letterpath/internal/logger"
	"letterpath/internal/repository"
)

func TestPersisterWritesInOrder(t *testing.T) {
	store := repository.NewMemoryStore()
	p := newTestPersister(t, store)

	for i := 0; i < 100; i++ {
		p.Set("counter", strconv.Itoa(i))
	}
	p.Set("gone", "soon")
	p.Delete("gone")
	p.Flush()

	v, ok := storedValue(t, store, "counter")
	require.True(t, ok)
	assert.Equal(t, "99", v)
	_, ok = storedValue(t, store, "gone")
	assert.False(t, ok)
}

func TestPersisterLogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store := repository.NewMemoryStore()
	store.FailWith = errors.New("disk full")

	p := NewPersister(store, logger.FromCore(core))
	t.Cleanup(p.Close)

	p.Set("k", "v")
	p.Flush()

	entries := logs.FilterMessage("failed to persist setting").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "k", entries[0].ContextMap()["key"])
}

func TestPersisterCloseDrainsAndDropsLateWrites(t *testing.T) {
	store := repository.NewMemoryStore()
	p := NewPersister(store, nil)

	p.Set("a", "1")
	p.Close()
	p.Close()
	p.Set("b", "2")
	p.Flush()

	_, ok := storedValue(t, store, "a")
	assert.True(t, ok, "queued write is drained on close")
	_, ok = storedValue(t, store, "b")
	assert.False(t, ok, "write after close is dropped")
}
