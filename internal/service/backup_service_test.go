package service

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterpath/internal/models"
	"letterpath/internal/repository"
)

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, store.ReplaceAll(map[string]string{
		KeyUnlockedCharacters:       `["A","B","C"]`,
		KeyCurrentLearningCharacter: "D",
		KeyCurrentStreak:            "2",
		KeyLongestStreak:            "5",
		KeyLastActivityDate:         "2024-03-02T09:00:00Z",
	}, nil))
	return store
}

func TestBackupSnapshot(t *testing.T) {
	svc := NewBackupService(seededStore(t), nil)

	snap, err := svc.Snapshot()
	require.NoError(t, err)

	last := time.Date(2024, time.March, 2, 9, 0, 0, 0, time.UTC)
	want := models.ProgressSnapshot{
		Unlocked:         []string{"A", "B", "C"},
		Cursor:           "D",
		CurrentStreak:    2,
		LongestStreak:    5,
		LastActivityDate: &last,
	}
	if diff := cmp.Diff(want, snap); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestBackupSnapshotOfEmptyStore(t *testing.T) {
	svc := NewBackupService(repository.NewMemoryStore(), nil)

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, snap.Unlocked)
	assert.Equal(t, "B", snap.Cursor)
	assert.Zero(t, snap.CurrentStreak)
	assert.Nil(t, snap.LastActivityDate)
}

func TestBackupRoundTrip(t *testing.T) {
	src := NewBackupService(seededStore(t), nil)
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, src.ExportToFile(path))

	dstStore := repository.NewMemoryStore()
	require.NoError(t, dstStore.SetSetting("legacy", "x"))
	dst := NewBackupService(dstStore, nil)
	require.NoError(t, dst.ImportFromFile(path, true))

	want, err := src.Snapshot()
	require.NoError(t, err)
	got, err := dst.Snapshot()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("imported snapshot mismatch (-want +got):\n%s", diff)
	}

	_, ok := storedValue(t, dstStore, "legacy")
	assert.False(t, ok, "clear removes keys the backup does not carry")
}

func TestBackupImportWithoutClearKeepsOtherKeys(t *testing.T) {
	store := seededStore(t)
	require.NoError(t, store.SetSetting("legacy", "x"))
	svc := NewBackupService(store, nil)

	backup := `{"version":"1","unlocked_characters":["a","f"],"current_learning_character":"Q","current_streak":0,"longest_streak":1}`
	require.NoError(t, svc.Import(strings.NewReader(backup), false))

	v, _ := storedValue(t, store, KeyUnlockedCharacters)
	assert.JSONEq(t, `["A","F"]`, v)
	v, _ = storedValue(t, store, KeyCurrentLearningCharacter)
	assert.Equal(t, "G", v, "cursor is derived from the unlocked set")
	_, ok := storedValue(t, store, KeyLastActivityDate)
	assert.False(t, ok)
	_, ok = storedValue(t, store, "legacy")
	assert.True(t, ok)
}

func TestBackupImportRejectsInvalidData(t *testing.T) {
	tests := []struct {
		name   string
		backup string
	}{
		{"wrong version", `{"version":"9","unlocked_characters":["A"]}`},
		{"bad letter", `{"version":"1","unlocked_characters":["A","7"]}`},
		{"negative streak", `{"version":"1","current_streak":-1}`},
		{"longest below current", `{"version":"1","current_streak":3,"longest_streak":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore(t)
			svc := NewBackupService(store, nil)

			err := svc.Import(strings.NewReader(tt.backup), true)
			assert.ErrorIs(t, err, ErrInvalidBackup)

			v, _ := storedValue(t, store, KeyCurrentStreak)
			assert.Equal(t, "2", v, "store is untouched")
		})
	}

	err := NewBackupService(seededStore(t), nil).Import(strings.NewReader("{"), false)
	assert.Error(t, err)
}

func TestBackupExportFormat(t *testing.T) {
	svc := NewBackupService(seededStore(t), nil)
	svc.now = func() time.Time { return time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC) }

	var buf bytes.Buffer
	require.NoError(t, svc.Export(&buf))

	var backup BackupData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &backup))
	assert.Equal(t, BackupVersion, backup.Version)
	assert.Equal(t, svc.now(), backup.ExportedAt)
	assert.Equal(t, []string{"A", "B", "C"}, backup.UnlockedCharacters)
	assert.Equal(t, "D", backup.CurrentLearningCharacter)
}

func TestBackupResetProgress(t *testing.T) {
	store := seededStore(t)
	svc := NewBackupService(store, nil)
	require.NoError(t, svc.ResetProgress())

	snap, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.ProgressSnapshot{Unlocked: []string{"A"}, Cursor: "B"}, snap)

	ledger := NewLedgerService(newTestPersister(t, store), nil, nil)
	assert.Equal(t, letters("A"), ledger.Unlocked())
}
