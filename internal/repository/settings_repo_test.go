package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letterpath/internal/database"
)

type settingsStore interface {
	LookupSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
	AllSettings() (map[string]string, error)
	ReplaceAll(values map[string]string, remove []string) error
}

func newSQLiteRepo(t *testing.T) *SettingsRepository {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.RunMigrations("../../migrations")
	require.NoError(t, err)
	return NewSettingsRepository(db)
}

func TestSettingsStores(t *testing.T) {
	stores := map[string]func(t *testing.T) settingsStore{
		"memory": func(t *testing.T) settingsStore { return NewMemoryStore() },
		"sqlite": func(t *testing.T) settingsStore {
			if testing.Short() {
				t.Skip("Skipping integration test in short mode")
			}
			return newSQLiteRepo(t)
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)

			_, ok, err := store.LookupSetting("currentStreak")
			require.NoError(t, err)
			assert.False(t, ok, "missing key should report absent")

			require.NoError(t, store.SetSetting("currentStreak", "1"))
			require.NoError(t, store.SetSetting("currentStreak", "2"))
			v, ok, err := store.LookupSetting("currentStreak")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "2", v)

			require.NoError(t, store.DeleteSetting("currentStreak"))
			require.NoError(t, store.DeleteSetting("currentStreak"))
			_, ok, err = store.LookupSetting("currentStreak")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.SetSetting("lastActivityDate", "2024-01-01T00:00:00Z"))
			require.NoError(t, store.ReplaceAll(map[string]string{
				"unlockedCharacters": `["A","B"]`,
				"currentStreak":      "4",
			}, []string{"lastActivityDate"}))

			all, err := store.AllSettings()
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				"unlockedCharacters": `["A","B"]`,
				"currentStreak":      "4",
			}, all)
		})
	}
}
