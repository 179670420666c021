package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"letterpath/internal/grading"
	"letterpath/internal/logger"
	"letterpath/internal/models"
	"letterpath/internal/navigation"
	"letterpath/internal/utils"
)

// DefaultCaptureTimeout bounds a speech capture that never produces a
// final transcript
const DefaultCaptureTimeout = 10 * time.Second

var (
	ErrNoActiveSession  = errors.New("no active learning session")
	ErrWrongPhase       = errors.New("not allowed in the current activity phase")
	ErrStaleCapture     = errors.New("capture was superseded or already graded")
	ErrUnknownLevel     = errors.New("unknown level")
	ErrLetterNotInLevel = errors.New("letter is not part of the level")
)

// Phase is a step of a single-letter learning session
type Phase string

const (
	PhasePronunciationIntro Phase = "pronunciation_intro"
	PhaseSpelling           Phase = "spelling"
	PhaseWriting            Phase = "writing"
	PhaseComplete           Phase = "complete"
)

// PronunciationGrader grades a final transcript
type PronunciationGrader interface {
	Grade(transcript string, target models.Letter) models.GradeVerdict
}

// Ledger is the part of the progress ledger the orchestrator mutates
type Ledger interface {
	Unlock(c rune) bool
	NextToLearn() models.Letter
}

// ActivityRecorder is the part of the streak tracker the orchestrator uses
type ActivityRecorder interface {
	RecordActivity(today time.Time)
}

// ActivityDeps are the collaborators of ActivityService
type ActivityDeps struct {
	Ledger         Ledger
	Streak         ActivityRecorder
	Navigation     *navigation.Controller
	Pronunciation  PronunciationGrader
	Shape          grading.ShapeGrader
	Levels         []models.LevelDefinition
	CaptureTimeout time.Duration
	Now            func() time.Time
	Observer       Observer
	Logger         *logger.Logger
}

// VerdictEvent is emitted for every verdict, including timeouts
type VerdictEvent struct {
	CaptureID string
	Kind      models.CaptureKind
	Letter    models.Letter
	Verdict   models.GradeVerdict
	Phase     Phase
	TimedOut  bool
}

// SessionState is a read-only view of the current session
type SessionState struct {
	Letter      models.Letter
	Level       models.LevelDefinition
	Phase       Phase
	CaptureID   string
	CaptureKind models.CaptureKind
}

type activitySession struct {
	letter      models.Letter
	level       models.LevelDefinition
	phase       Phase
	captureID   string
	captureKind models.CaptureKind
	timer       *time.Timer
}

// GradeRequest is a grading submission from the presentation layer
type GradeRequest struct {
	CaptureID  string
	Kind       models.CaptureKind
	Transcript string
	Strokes    []models.Stroke
}

// ActivityService runs the pronunciation -> spelling -> writing session for
// one letter and feeds passing results into the ledger, the streak and the
// navigation stack. All of its operations are serialized. Navigation
// listeners run while the service holds its lock and must not call back
// into it synchronously.
type ActivityService struct {
	mu             sync.Mutex
	ledger         Ledger
	streak         ActivityRecorder
	nav            *navigation.Controller
	pronunciation  PronunciationGrader
	shape          grading.ShapeGrader
	levels         map[int]models.LevelDefinition
	captureTimeout time.Duration
	now            func() time.Time
	obs            Observer
	log            *logger.Logger

	session   *activitySession
	listeners []func(VerdictEvent)
}

// NewActivityService wires an orchestrator. Missing graders, ledger,
// streak or navigation are programmer errors.
func NewActivityService(deps ActivityDeps) (*ActivityService, error) {
	if deps.Ledger == nil || deps.Streak == nil || deps.Navigation == nil {
		return nil, errors.New("activity service requires ledger, streak and navigation")
	}
	if deps.Pronunciation == nil || deps.Shape == nil {
		return nil, errors.New("activity service requires both graders")
	}
	levels := make(map[int]models.LevelDefinition, len(deps.Levels))
	for _, l := range deps.Levels {
		if _, dup := levels[l.ID]; dup {
			return nil, fmt.Errorf("duplicate level id %d", l.ID)
		}
		levels[l.ID] = l
	}
	if deps.CaptureTimeout <= 0 {
		deps.CaptureTimeout = DefaultCaptureTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}

	return &ActivityService{
		ledger:         deps.Ledger,
		streak:         deps.Streak,
		nav:            deps.Navigation,
		pronunciation:  deps.Pronunciation,
		shape:          deps.Shape,
		levels:         levels,
		captureTimeout: deps.CaptureTimeout,
		now:            deps.Now,
		obs:            observerOrNop(deps.Observer),
		log:            deps.Logger.With("component", "activity"),
	}, nil
}

// OnVerdict registers fn for verdict events. Events are delivered
// synchronously after the service has released its lock, in registration
// order.
func (s *ActivityService) OnVerdict(fn func(VerdictEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns the current session, if any
func (s *ActivityService) State() (SessionState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return SessionState{}, false
	}
	return SessionState{
		Letter:      s.session.letter,
		Level:       s.session.level,
		Phase:       s.session.phase,
		CaptureID:   s.session.captureID,
		CaptureKind: s.session.captureKind,
	}, true
}

// StartSession begins learning letter within a level, replacing any
// previous session. Screen changes are left to the caller: the learner is
// normally already looking at the pronunciation helper.
func (s *ActivityService) StartSession(letter models.Letter, levelID int) error {
	if !letter.Valid() {
		return fmt.Errorf("start session: invalid letter %q", rune(letter))
	}
	level, ok := s.levels[levelID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, levelID)
	}
	if !level.Contains(letter) {
		return fmt.Errorf("%w: %s is outside level %d (%s-%s)", ErrLetterNotInLevel, letter, level.ID, level.Lower, level.Upper)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCaptureLocked()
	s.session = &activitySession{letter: letter, level: level, phase: PhasePronunciationIntro}
	s.log.Info("session started", "letter", letter.String(), "level", level.ID)
	return nil
}

// EndSession drops the current session, if any, and cancels its capture.
// Results for the dropped session are rejected with ErrNoActiveSession.
func (s *ActivityService) EndSession() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil {
		return
	}
	s.clearCaptureLocked()
	s.log.Info("session ended", "letter", s.session.letter.String(), "phase", s.session.phase)
	s.session = nil
}

// ContinueToSpelling leaves the pronunciation intro for the spoken attempt
func (s *ActivityService) ContinueToSpelling() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requirePhaseLocked(PhasePronunciationIntro); err != nil {
		return err
	}
	s.session.phase = PhaseSpelling
	s.nav.Push(models.Spelling{Char: s.session.letter, Level: s.session.level.ID})
	return nil
}

// BeginCapture opens a new capture for the current phase and returns its
// id. Any capture still in flight is superseded: its late results are
// rejected with ErrStaleCapture. Speech captures time out after the
// configured duration with a "not detected" verdict.
func (s *ActivityService) BeginCapture(kind models.CaptureKind) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var want Phase
	switch kind {
	case models.CaptureSpeech:
		want = PhaseSpelling
	case models.CaptureDrawing:
		want = PhaseWriting
	default:
		return "", utils.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown capture kind %q", kind)}
	}
	if err := s.requirePhaseLocked(want); err != nil {
		return "", err
	}

	s.clearCaptureLocked()
	id := uuid.NewString()
	s.session.captureID = id
	s.session.captureKind = kind
	if kind == models.CaptureSpeech {
		s.session.timer = time.AfterFunc(s.captureTimeout, func() { s.expireCapture(id) })
	}
	s.log.Debug("capture started", "capture_id", id, "kind", kind)
	return id, nil
}

// SubmitGrade dispatches a grading request to the matching grader
func (s *ActivityService) SubmitGrade(req GradeRequest) (models.GradeVerdict, error) {
	switch req.Kind {
	case models.CaptureSpeech:
		return s.SubmitTranscript(req.CaptureID, req.Transcript)
	case models.CaptureDrawing:
		return s.SubmitDrawing(req.CaptureID, req.Strokes)
	default:
		return models.GradeVerdict{}, utils.ValidationError{Field: "kind", Message: fmt.Sprintf("unknown capture kind %q", req.Kind)}
	}
}

// SubmitTranscript grades the final transcript of a speech capture. A pass
// moves the session to writing; a fail leaves everything unchanged so the
// learner can retry with a new capture.
func (s *ActivityService) SubmitTranscript(captureID, transcript string) (models.GradeVerdict, error) {
	s.mu.Lock()
	if err := s.claimCaptureLocked(captureID, models.CaptureSpeech); err != nil {
		s.mu.Unlock()
		return models.GradeVerdict{}, err
	}

	sess := s.session
	verdict := s.pronunciation.Grade(transcript, sess.letter)
	s.obs.ObserveVerdict(models.CaptureSpeech, verdict.Passed)
	if verdict.Passed {
		sess.phase = PhaseWriting
		s.nav.Push(models.Writing{Char: sess.letter, Level: sess.level.ID})
	}
	event := VerdictEvent{CaptureID: captureID, Kind: models.CaptureSpeech, Letter: sess.letter, Verdict: verdict, Phase: sess.phase}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.log.Info("pronunciation graded", "letter", sess.letter.String(), "passed", verdict.Passed)
	emit(listeners, event)
	return verdict, nil
}

// SubmitDrawing grades the strokes of a drawing capture. A pass completes
// the letter.
func (s *ActivityService) SubmitDrawing(captureID string, strokes []models.Stroke) (models.GradeVerdict, error) {
	s.mu.Lock()
	if err := s.claimCaptureLocked(captureID, models.CaptureDrawing); err != nil {
		s.mu.Unlock()
		return models.GradeVerdict{}, err
	}

	sess := s.session
	verdict := s.shape.Grade(strokes, sess.letter)
	s.obs.ObserveVerdict(models.CaptureDrawing, verdict.Passed)
	if verdict.Passed {
		s.completeLocked()
	}
	event := VerdictEvent{CaptureID: captureID, Kind: models.CaptureDrawing, Letter: sess.letter, Verdict: verdict, Phase: sess.phase}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.log.Info("writing graded", "letter", sess.letter.String(), "passed", verdict.Passed)
	emit(listeners, event)
	return verdict, nil
}

// Close cancels any pending capture timeout
func (s *ActivityService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearCaptureLocked()
}

// completeLocked records the finished letter once per session and moves on
// to the next letter, or back to the level map at the end of a level
func (s *ActivityService) completeLocked() {
	sess := s.session
	sess.phase = PhaseComplete

	s.ledger.Unlock(rune(sess.letter))
	s.streak.RecordActivity(s.now())
	next := s.ledger.NextToLearn()

	if upper, ok := sess.level.UpperLetter(); ok && upper == sess.letter {
		s.log.Info("level complete", "level", sess.level.ID)
		s.nav.Push(models.LevelMap{})
		return
	}
	s.nav.Push(models.PronunciationHelper{Char: next, Level: sess.level.ID})
}

func (s *ActivityService) expireCapture(captureID string) {
	s.mu.Lock()
	sess := s.session
	if sess == nil || sess.captureID != captureID {
		s.mu.Unlock()
		return
	}
	sess.captureID = ""
	sess.captureKind = ""
	sess.timer = nil

	verdict := models.GradeVerdict{
		Passed:  false,
		Message: "Speech not detected. Try saying the letter again.",
		Metrics: map[string]float64{"timed_out": 1},
	}
	s.obs.CaptureTimedOut()
	s.obs.ObserveVerdict(models.CaptureSpeech, false)
	event := VerdictEvent{CaptureID: captureID, Kind: models.CaptureSpeech, Letter: sess.letter, Verdict: verdict, Phase: sess.phase, TimedOut: true}
	listeners := s.listenersLocked()
	s.mu.Unlock()

	s.log.Info("speech capture timed out", "capture_id", captureID, "letter", sess.letter.String())
	emit(listeners, event)
}

// claimCaptureLocked checks that captureID is the live capture of kind and
// consumes it, so each capture yields at most one verdict
func (s *ActivityService) claimCaptureLocked(captureID string, kind models.CaptureKind) error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	if captureID == "" || s.session.captureID != captureID || s.session.captureKind != kind {
		s.log.Debug("rejecting stale capture", "capture_id", captureID, "kind", kind)
		return ErrStaleCapture
	}
	s.clearCaptureLocked()
	return nil
}

func (s *ActivityService) clearCaptureLocked() {
	if s.session == nil {
		return
	}
	if s.session.timer != nil {
		s.session.timer.Stop()
		s.session.timer = nil
	}
	s.session.captureID = ""
	s.session.captureKind = ""
}

func (s *ActivityService) requirePhaseLocked(want Phase) error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	if s.session.phase != want {
		return fmt.Errorf("%w: in %s, need %s", ErrWrongPhase, s.session.phase, want)
	}
	return nil
}

func (s *ActivityService) listenersLocked() []func(VerdictEvent) {
	return append([]func(VerdictEvent){}, s.listeners...)
}

func emit(listeners []func(VerdictEvent), event VerdictEvent) {
	for _, fn := range listeners {
		fn(event)
	}
}
