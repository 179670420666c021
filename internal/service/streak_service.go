package service

import (
	"sync"
	"time"

	"letterpath/internal/logger"
	"letterpath/internal/models"
)

// StreakService tracks consecutive calendar days with at least one
// completed activity. Only the date part of a timestamp matters.
type StreakService struct {
	mu      sync.Mutex
	record  models.StreakRecord
	persist *Persister
	obs     Observer
	log     *logger.Logger
}

// NewStreakService loads the streak from the persister's store, defaulting
// to a zero streak with no activity
func NewStreakService(persist *Persister, log *logger.Logger, obs Observer) *StreakService {
	if log == nil {
		log = logger.NewNop()
	}
	s := &StreakService{
		persist: persist,
		obs:     observerOrNop(obs),
		log:     log.With("component", "streak"),
	}
	s.load()
	s.obs.SetStreak(s.record.CurrentStreak)
	return s
}

func (s *StreakService) load() {
	store := s.persist.Store()

	if n, ok := s.loadInt(store, KeyCurrentStreak); ok && n >= 0 {
		s.record.CurrentStreak = n
	}
	if n, ok := s.loadInt(store, KeyLongestStreak); ok && n >= 0 {
		s.record.LongestStreak = n
	}
	if s.record.LongestStreak < s.record.CurrentStreak {
		s.record.LongestStreak = s.record.CurrentStreak
	}

	raw, ok, err := store.LookupSetting(KeyLastActivityDate)
	if err != nil {
		s.log.Warn("failed to load last activity date", "error", err)
		return
	}
	if !ok {
		return
	}
	t, err := decodeTime(raw)
	if err != nil {
		s.log.Warn("stored last activity date is corrupt, ignoring", "value", raw, "error", err)
		return
	}
	s.record.LastActivityDate = &t
}

func (s *StreakService) loadInt(store SettingsStore, key string) (int, bool) {
	raw, ok, err := store.LookupSetting(key)
	if err != nil {
		s.log.Warn("failed to load setting", "key", key, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	n, err := decodeInt(raw)
	if err != nil {
		s.log.Warn("stored setting is not an integer, ignoring", "key", key, "value", raw)
		return 0, false
	}
	return n, true
}

// Record returns a copy of the current streak state
func (s *StreakService) Record() models.StreakRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.record
	if r.LastActivityDate != nil {
		t := *r.LastActivityDate
		r.LastActivityDate = &t
	}
	return r
}

// RecordActivity registers an activity on today's date. Same-day activity
// is a no-op, the next day extends the streak, and any other gap
// (including a clock that went backwards) starts a new streak of 1.
func (s *StreakService) RecordActivity(today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record.LastActivityDate == nil {
		s.record.CurrentStreak = 1
	} else {
		switch diff := calendarDaysBetween(*s.record.LastActivityDate, today); diff {
		case 0:
			return
		case 1:
			s.record.CurrentStreak++
		default:
			s.log.Debug("streak broken", "gap_days", diff, "previous", s.record.CurrentStreak)
			s.record.CurrentStreak = 1
		}
	}

	s.record.LastActivityDate = &today
	if s.record.CurrentStreak > s.record.LongestStreak {
		s.record.LongestStreak = s.record.CurrentStreak
	}
	s.persistLocked()
	s.obs.SetStreak(s.record.CurrentStreak)
}

// CheckAndResetIfStale zeroes the streak when the last activity was neither
// today nor yesterday. Call once at start, before any RecordActivity.
// Unlike a new activity after a gap, which restarts at 1, a passive decay
// leaves the streak at 0 with no last activity date.
func (s *StreakService) CheckAndResetIfStale(today time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.record.LastActivityDate == nil {
		return
	}
	diff := calendarDaysBetween(*s.record.LastActivityDate, today)
	if diff == 0 || diff == 1 {
		return
	}

	s.log.Info("streak expired", "gap_days", diff, "previous", s.record.CurrentStreak)
	s.record.CurrentStreak = 0
	s.record.LastActivityDate = nil
	s.persistLocked()
	s.obs.SetStreak(0)
}

// Reset clears the streak entirely, including the longest streak
func (s *StreakService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record = models.StreakRecord{}
	s.persistLocked()
	s.obs.SetStreak(0)
}

func (s *StreakService) persistLocked() {
	s.persist.Set(KeyCurrentStreak, encodeInt(s.record.CurrentStreak))
	s.persist.Set(KeyLongestStreak, encodeInt(s.record.LongestStreak))
	if s.record.LastActivityDate == nil {
		s.persist.Delete(KeyLastActivityDate)
	} else {
		s.persist.Set(KeyLastActivityDate, encodeTime(*s.record.LastActivityDate))
	}
}

// calendarDaysBetween counts whole calendar days from from to to, using
// the civil dates of both instants in to's location. Negative when from is
// later. DST transitions do not skew the count.
func calendarDaysBetween(from, to time.Time) int {
	from = from.In(to.Location())
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
