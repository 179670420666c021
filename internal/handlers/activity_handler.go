package handlers

import (
	"net/http"
	"sync"

	"letterpath/internal/logger"
	"letterpath/internal/models"
	"letterpath/internal/navigation"
	"letterpath/internal/service"
)

// ActivityHandler drives learning sessions over HTTP. Verdicts produced
// without a request, such as capture timeouts, are kept so clients can
// poll for them.
type ActivityHandler struct {
	activity *service.ActivityService
	nav      *navigation.Controller
	log      *logger.Logger

	mu          sync.Mutex
	lastVerdict *VerdictView
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activity *service.ActivityService, nav *navigation.Controller, log *logger.Logger) *ActivityHandler {
	h := &ActivityHandler{activity: activity, nav: nav, log: log}
	activity.OnVerdict(h.recordVerdict)
	return h
}

func (h *ActivityHandler) recordVerdict(e service.VerdictEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastVerdict = newVerdictView(e)
}

// GetState returns the current session and the latest verdict
func (h *ActivityHandler) GetState(w http.ResponseWriter, r *http.Request) {
	resp := ActivityStateResponse{}
	if state, ok := h.activity.State(); ok {
		resp.Active = true
		resp.Char = state.Letter.String()
		resp.Level = state.Level.ID
		resp.Phase = state.Phase
		resp.CaptureID = state.CaptureID
		resp.CaptureKind = state.CaptureKind
	}
	h.mu.Lock()
	resp.LastVerdict = h.lastVerdict
	h.mu.Unlock()

	respondWithJSON(w, http.StatusOK, resp)
}

// Start begins a session for a letter within a level
func (h *ActivityHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	letter, err := models.ParseLetterString(req.Char)
	if err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidLetter, "", err)
		return
	}

	if err := h.activity.StartSession(letter, req.Level); err != nil {
		respondWithServiceError(h.log, w, err)
		return
	}
	h.mu.Lock()
	h.lastVerdict = nil
	h.mu.Unlock()

	h.GetState(w, r)
}

// ContinueToSpelling moves from the pronunciation intro to spelling
func (h *ActivityHandler) ContinueToSpelling(w http.ResponseWriter, r *http.Request) {
	if err := h.activity.ContinueToSpelling(); err != nil {
		respondWithServiceError(h.log, w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// BeginCapture opens a speech or drawing capture
func (h *ActivityHandler) BeginCapture(w http.ResponseWriter, r *http.Request) {
	var req BeginCaptureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}
	id, err := h.activity.BeginCapture(req.Kind)
	if err != nil {
		respondWithServiceError(h.log, w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BeginCaptureResponse{CaptureID: id})
}

// Grade submits a transcript or strokes for the open capture
func (h *ActivityHandler) Grade(w http.ResponseWriter, r *http.Request) {
	var req GradeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return
	}

	verdict, err := h.activity.SubmitGrade(service.GradeRequest{
		CaptureID:  req.CaptureID,
		Kind:       req.Kind,
		Transcript: req.Transcript,
		Strokes:    req.Strokes,
	})
	if err != nil {
		respondWithServiceError(h.log, w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, GradeResponse{
		Verdict: verdict,
		Screen:  models.EncodeScreen(h.nav.Current()),
	})
}
