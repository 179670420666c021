package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"letterpath/internal/models"
)

// Persistence keys
const (
	KeyUnlockedCharacters       = "unlockedCharacters"
	KeyCurrentStreak            = "currentStreak"
	KeyLongestStreak            = "longestStreak"
	KeyLastActivityDate         = "lastActivityDate"
	KeyCurrentLearningCharacter = "currentLearningCharacter"
)

// SettingsStore is the key/value persistence collaborator. Durability is
// the implementation's concern.
type SettingsStore interface {
	LookupSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
	DeleteSetting(key string) error
}

// Observer receives progression and grading signals, typically metrics
type Observer interface {
	ObserveVerdict(kind models.CaptureKind, passed bool)
	CaptureTimedOut()
	LetterUnlocked()
	SetStreak(days int)
}

type nopObserver struct{}

func (nopObserver) ObserveVerdict(models.CaptureKind, bool) {}
func (nopObserver) CaptureTimedOut()                        {}
func (nopObserver) LetterUnlocked()                         {}
func (nopObserver) SetStreak(int)                           {}

func observerOrNop(obs Observer) Observer {
	if obs == nil {
		return nopObserver{}
	}
	return obs
}

// encodeLetters stores letters as a sorted JSON array of one-letter strings
func encodeLetters(letters []models.Letter) string {
	strs := make([]string, len(letters))
	for i, l := range letters {
		strs[i] = l.String()
	}
	sort.Strings(strs)
	data, _ := json.Marshal(strs)
	return string(data)
}

// decodeLetters parses a stored letter list. Entries that are not single
// letters are returned in skipped rather than failing the whole list.
func decodeLetters(raw string) (letters []models.Letter, skipped []string, err error) {
	var strs []string
	if err := json.Unmarshal([]byte(raw), &strs); err != nil {
		return nil, nil, fmt.Errorf("failed to decode letters: %w", err)
	}
	for _, s := range strs {
		l, err := models.ParseLetterString(s)
		if err != nil {
			skipped = append(skipped, s)
			continue
		}
		letters = append(letters, l)
	}
	return letters, skipped, nil
}

func encodeInt(n int) string {
	return strconv.Itoa(n)
}

func decodeInt(raw string) (int, error) {
	return strconv.Atoi(raw)
}

func encodeTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func decodeTime(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, raw)
}
