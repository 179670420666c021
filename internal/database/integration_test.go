package database

import (
	"errors"
	"path/filepath"
	"testing"
)

const migrationsDir = "../../migrations"

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)

	applied, err := db.RunMigrations(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if len(applied) == 0 {
		t.Fatal("expected at least one migration to be applied")
	}

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", "settings").Scan(&name)
	if err != nil {
		t.Errorf("Table settings not found: %v", err)
	}

	// A second run is a no-op
	again, err := db.RunMigrations(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to re-run migrations: %v", err)
	}
	if len(again) != 0 {
		t.Errorf("expected no migrations on second run, got %v", again)
	}
}

// TestUpsertSetting checks the dialect upsert against a real SQLite database
func TestUpsertSetting(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if _, err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	for _, v := range []string{"1", "2"} {
		if _, err := db.Exec(db.Dialect.UpsertSettingQuery(), "currentStreak", v); err != nil {
			t.Fatalf("upsert failed: %v", err)
		}
	}

	var value string
	if err := db.QueryRow("SELECT value FROM settings WHERE name = ?", "currentStreak").Scan(&value); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if value != "2" {
		t.Errorf("expected value 2 after upsert, got %q", value)
	}
}

// TestWithTx tests commit and rollback through WithTx
func TestWithTx(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openTestDB(t)
	if _, err := db.RunMigrations(migrationsDir); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	err := db.WithTx(func(tx *Tx) error {
		_, err := tx.Exec(tx.GetDialect().UpsertSettingQuery(), "committed", "yes")
		return err
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	boom := errors.New("boom")
	err = db.WithTx(func(tx *Tx) error {
		if _, err := tx.Exec(tx.GetDialect().UpsertSettingQuery(), "rolled_back", "yes"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row after rollback, got %d", count)
	}
}
