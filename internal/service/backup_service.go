package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"letterpath/internal/logger"
	"letterpath/internal/models"
)

// BackupVersion is written into every export
const BackupVersion = "1"

var ErrInvalidBackup = errors.New("invalid backup")

// BackupStore is a settings store that can be read and rewritten in bulk
type BackupStore interface {
	SettingsStore
	AllSettings() (map[string]string, error)
	ReplaceAll(values map[string]string, remove []string) error
}

// BackupData represents the complete progress backup structure
type BackupData struct {
	Version                  string     `json:"version"`
	ExportedAt               time.Time  `json:"exported_at"`
	UnlockedCharacters       []string   `json:"unlocked_characters"`
	CurrentLearningCharacter string     `json:"current_learning_character"`
	CurrentStreak            int        `json:"current_streak"`
	LongestStreak            int        `json:"longest_streak"`
	LastActivityDate         *time.Time `json:"last_activity_date,omitempty"`
}

// BackupService exports, imports and resets persisted progress. It works
// directly on the store and is meant for offline use by operators.
type BackupService struct {
	store BackupStore
	log   *logger.Logger
	now   func() time.Time
}

func NewBackupService(store BackupStore, log *logger.Logger) *BackupService {
	if log == nil {
		log = logger.NewNop()
	}
	return &BackupService{store: store, log: log.With("component", "backup"), now: time.Now}
}

// Snapshot reads the stored progress. Missing or unreadable values fall back
// to the same defaults the running services use.
func (s *BackupService) Snapshot() (models.ProgressSnapshot, error) {
	values, err := s.store.AllSettings()
	if err != nil {
		return models.ProgressSnapshot{}, fmt.Errorf("failed to read settings: %w", err)
	}

	unlocked := map[models.Letter]bool{models.FirstLetter: true}
	if raw, ok := values[KeyUnlockedCharacters]; ok {
		letters, skipped, err := decodeLetters(raw)
		if err != nil {
			s.log.Warn("stored unlocked characters are corrupt", "error", err)
		}
		if len(skipped) > 0 {
			s.log.Warn("ignoring invalid stored characters", "skipped", skipped)
		}
		for _, l := range letters {
			unlocked[l] = true
		}
	}

	snap := models.ProgressSnapshot{}
	highest := models.FirstLetter
	for l := range unlocked {
		snap.Unlocked = append(snap.Unlocked, l.String())
		if l > highest {
			highest = l
		}
	}
	sort.Strings(snap.Unlocked)
	cursor, _ := highest.Next()
	snap.Cursor = cursor.String()

	if n, err := decodeInt(values[KeyCurrentStreak]); err == nil && n >= 0 {
		snap.CurrentStreak = n
	}
	if n, err := decodeInt(values[KeyLongestStreak]); err == nil && n >= 0 {
		snap.LongestStreak = n
	}
	if snap.LongestStreak < snap.CurrentStreak {
		snap.LongestStreak = snap.CurrentStreak
	}
	if raw, ok := values[KeyLastActivityDate]; ok {
		if t, err := decodeTime(raw); err == nil {
			snap.LastActivityDate = &t
		}
	}
	return snap, nil
}

// Export writes the stored progress as JSON
func (s *BackupService) Export(w io.Writer) error {
	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	backup := BackupData{
		Version:                  BackupVersion,
		ExportedAt:               s.now().UTC(),
		UnlockedCharacters:       snap.Unlocked,
		CurrentLearningCharacter: snap.Cursor,
		CurrentStreak:            snap.CurrentStreak,
		LongestStreak:            snap.LongestStreak,
		LastActivityDate:         snap.LastActivityDate,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	s.log.Info("progress exported", "unlocked", len(backup.UnlockedCharacters), "streak", backup.CurrentStreak)
	return nil
}

// ExportToFile writes the export to outputPath
func (s *BackupService) ExportToFile(outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := s.Export(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Import replaces stored progress with a backup. With clear set, stored
// keys the backup does not carry are removed as well.
func (s *BackupService) Import(r io.Reader, clear bool) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	values, err := validateBackup(backup)
	if err != nil {
		return err
	}

	var remove []string
	if backup.LastActivityDate == nil {
		remove = append(remove, KeyLastActivityDate)
	}
	if clear {
		existing, err := s.store.AllSettings()
		if err != nil {
			return fmt.Errorf("failed to read settings: %w", err)
		}
		for key := range existing {
			if _, keep := values[key]; !keep && key != KeyLastActivityDate {
				remove = append(remove, key)
			}
		}
	}

	if err := s.store.ReplaceAll(values, remove); err != nil {
		return fmt.Errorf("failed to import backup: %w", err)
	}
	s.log.Info("progress imported", "version", backup.Version, "exported_at", backup.ExportedAt, "cleared", clear)
	return nil
}

// ImportFromFile imports the backup stored at inputPath
func (s *BackupService) ImportFromFile(inputPath string, clear bool) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()
	return s.Import(file, clear)
}

// ResetProgress returns stored progress to a fresh learner: {A}, cursor B,
// no streak
func (s *BackupService) ResetProgress() error {
	values := map[string]string{
		KeyUnlockedCharacters:       encodeLetters([]models.Letter{models.FirstLetter}),
		KeyCurrentLearningCharacter: "B",
		KeyCurrentStreak:            encodeInt(0),
		KeyLongestStreak:            encodeInt(0),
	}
	if err := s.store.ReplaceAll(values, []string{KeyLastActivityDate}); err != nil {
		return fmt.Errorf("failed to reset progress: %w", err)
	}
	s.log.Info("progress reset")
	return nil
}

// validateBackup checks a decoded backup and converts it to stored values.
// The cursor is recomputed from the unlocked set rather than trusted.
func validateBackup(backup BackupData) (map[string]string, error) {
	if backup.Version != BackupVersion {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrInvalidBackup, backup.Version)
	}
	if backup.CurrentStreak < 0 || backup.LongestStreak < 0 {
		return nil, fmt.Errorf("%w: negative streak", ErrInvalidBackup)
	}
	if backup.LongestStreak < backup.CurrentStreak {
		return nil, fmt.Errorf("%w: longest streak %d below current streak %d", ErrInvalidBackup, backup.LongestStreak, backup.CurrentStreak)
	}

	set := map[models.Letter]bool{models.FirstLetter: true}
	for _, raw := range backup.UnlockedCharacters {
		l, err := models.ParseLetterString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
		}
		set[l] = true
	}
	letters := make([]models.Letter, 0, len(set))
	highest := models.FirstLetter
	for l := range set {
		letters = append(letters, l)
		if l > highest {
			highest = l
		}
	}
	cursor, _ := highest.Next()

	values := map[string]string{
		KeyUnlockedCharacters:       encodeLetters(letters),
		KeyCurrentLearningCharacter: cursor.String(),
		KeyCurrentStreak:            encodeInt(backup.CurrentStreak),
		KeyLongestStreak:            encodeInt(backup.LongestStreak),
	}
	if backup.LastActivityDate != nil {
		values[KeyLastActivityDate] = encodeTime(*backup.LastActivityDate)
	}
	return values, nil
}
