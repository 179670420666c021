package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"letterpath/internal/database"
)

// SettingsRepository is a key/value store over the settings table
type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// LookupSetting retrieves a setting value by key; ok is false when absent
func (r *SettingsRepository) LookupSetting(key string) (string, bool, error) {
	return lookupSetting(r.db, key)
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	return setSetting(r.db, key, value)
}

// DeleteSetting removes a setting; deleting a missing key is not an error
func (r *SettingsRepository) DeleteSetting(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE name = ?`, key)
	return err
}

// AllSettings returns every stored setting
func (r *SettingsRepository) AllSettings() (map[string]string, error) {
	rows, err := r.db.Query(`SELECT name, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		settings[name] = value
	}
	return settings, rows.Err()
}

// ReplaceAll atomically writes values and deletes the keys in remove
func (r *SettingsRepository) ReplaceAll(values map[string]string, remove []string) error {
	return r.db.WithTx(func(tx *database.Tx) error {
		for _, key := range remove {
			if _, err := tx.Exec(`DELETE FROM settings WHERE name = ?`, key); err != nil {
				return fmt.Errorf("failed to delete %s: %w", key, err)
			}
		}
		for key, value := range values {
			if err := setSetting(tx, key, value); err != nil {
				return fmt.Errorf("failed to set %s: %w", key, err)
			}
		}
		return nil
	})
}

func lookupSetting(q database.DBTX, key string) (string, bool, error) {
	var value string
	err := q.QueryRow(`SELECT value FROM settings WHERE name = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func setSetting(q database.DBTX, key, value string) error {
	_, err := q.Exec(q.GetDialect().UpsertSettingQuery(), key, value)
	return err
}
