package service

import (
	"sort"
	"sync"

	"letterpath/internal/logger"
	"letterpath/internal/models"
)

// LedgerEvent describes a change to the ledger
type LedgerEvent struct {
	Letter   models.Letter // zero on reset
	Unlocked []models.Letter
	Cursor   models.Letter
	Reset    bool
}

// LedgerService tracks which letters the learner has unlocked. 'A' is
// always unlocked. Input outside A-Z is ignored rather than rejected:
// IsUnlocked returns false and Unlock does nothing.
type LedgerService struct {
	mu        sync.Mutex
	unlocked  map[models.Letter]bool
	persist   *Persister
	obs       Observer
	log       *logger.Logger
	listeners []func(LedgerEvent)
}

// NewLedgerService loads the ledger from the persister's store, falling
// back to {A} when nothing usable is stored
func NewLedgerService(persist *Persister, log *logger.Logger, obs Observer) *LedgerService {
	if log == nil {
		log = logger.NewNop()
	}
	s := &LedgerService{
		unlocked: map[models.Letter]bool{models.FirstLetter: true},
		persist:  persist,
		obs:      observerOrNop(obs),
		log:      log.With("component", "ledger"),
	}
	s.load()
	return s
}

func (s *LedgerService) load() {
	raw, ok, err := s.persist.Store().LookupSetting(KeyUnlockedCharacters)
	if err != nil {
		s.log.Warn("failed to load unlocked characters, starting fresh", "error", err)
		return
	}
	if !ok {
		return
	}
	letters, skipped, err := decodeLetters(raw)
	if err != nil {
		s.log.Warn("stored unlocked characters are corrupt, starting fresh", "error", err)
		return
	}
	if len(skipped) > 0 {
		s.log.Warn("ignoring invalid stored characters", "skipped", skipped)
	}
	for _, l := range letters {
		s.unlocked[l] = true
	}
}

// Subscribe registers fn for ledger changes. Delivery is synchronous, in
// registration order, after the change has been applied.
func (s *LedgerService) Subscribe(fn func(LedgerEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// IsUnlocked reports whether c (any case) has been unlocked
func (s *LedgerService) IsUnlocked(c rune) bool {
	l, err := models.ParseLetter(c)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked[l]
}

// Unlock adds c to the ledger and reports whether it was newly added.
// Unlocking an already unlocked letter changes nothing and emits nothing.
func (s *LedgerService) Unlock(c rune) bool {
	l, err := models.ParseLetter(c)
	if err != nil {
		s.log.Debug("ignoring unlock of non-letter", "input", string(c))
		return false
	}

	s.mu.Lock()
	if s.unlocked[l] {
		s.mu.Unlock()
		return false
	}
	s.unlocked[l] = true
	event := s.snapshotLocked()
	event.Letter = l
	listeners := append([]func(LedgerEvent){}, s.listeners...)
	s.persistLocked(event)
	s.mu.Unlock()

	s.obs.LetterUnlocked()
	s.log.Info("letter unlocked", "letter", l.String(), "cursor", event.Cursor.String())
	for _, fn := range listeners {
		fn(event)
	}
	return true
}

// NextToLearn returns the letter after the highest unlocked one, or Z once
// Z is unlocked
func (s *LedgerService) NextToLearn() models.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursorLocked()
}

// Unlocked returns the unlocked letters in alphabetical order
func (s *LedgerService) Unlocked() []models.Letter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Reset returns the ledger to {A}
func (s *LedgerService) Reset() {
	s.mu.Lock()
	s.unlocked = map[models.Letter]bool{models.FirstLetter: true}
	event := s.snapshotLocked()
	event.Reset = true
	listeners := append([]func(LedgerEvent){}, s.listeners...)
	s.persistLocked(event)
	s.mu.Unlock()

	s.log.Info("ledger reset")
	for _, fn := range listeners {
		fn(event)
	}
}

func (s *LedgerService) cursorLocked() models.Letter {
	highest := models.FirstLetter
	for l := range s.unlocked {
		if l > highest {
			highest = l
		}
	}
	next, _ := highest.Next()
	return next
}

func (s *LedgerService) sortedLocked() []models.Letter {
	out := make([]models.Letter, 0, len(s.unlocked))
	for l := range s.unlocked {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *LedgerService) snapshotLocked() LedgerEvent {
	return LedgerEvent{Unlocked: s.sortedLocked(), Cursor: s.cursorLocked()}
}

// persistLocked queues the ledger writes. Queuing under the lock keeps
// writes in the same order as the mutations they describe.
func (s *LedgerService) persistLocked(event LedgerEvent) {
	s.persist.Set(KeyUnlockedCharacters, encodeLetters(event.Unlocked))
	s.persist.Set(KeyCurrentLearningCharacter, event.Cursor.String())
}
