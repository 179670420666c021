package handlers

import (
	"net/http"

	"letterpath/internal/logger"
	"letterpath/internal/models"
	"letterpath/internal/navigation"
)

// ScreenHandler exposes the navigation stack to the presentation layer
type ScreenHandler struct {
	nav *navigation.Controller
	log *logger.Logger
}

// NewScreenHandler creates a new screen handler
func NewScreenHandler(nav *navigation.Controller, log *logger.Logger) *ScreenHandler {
	return &ScreenHandler{nav: nav, log: log}
}

// GetScreen returns the current screen and the whole stack
func (h *ScreenHandler) GetScreen(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// Push pushes the screen in the request body
func (h *ScreenHandler) Push(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.decodeScreen(w, r)
	if !ok {
		return
	}

	h.nav.Push(screen)
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// Replace swaps the current screen for the one in the request body,
// keeping the stack depth
func (h *ScreenHandler) Replace(w http.ResponseWriter, r *http.Request) {
	screen, ok := h.decodeScreen(w, r)
	if !ok {
		return
	}

	h.nav.Replace(screen)
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

func (h *ScreenHandler) decodeScreen(w http.ResponseWriter, r *http.Request) (models.Screen, bool) {
	var dto models.ScreenDTO
	if err := decodeJSON(w, r, &dto); err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidJSON, "", err)
		return nil, false
	}
	screen, err := models.DecodeScreen(dto)
	if err != nil {
		respondWithError(h.log, w, http.StatusBadRequest, ErrInvalidScreen, "", err)
		return nil, false
	}
	return screen, true
}

// Pop pops the current screen; popping the root is a no-op
func (h *ScreenHandler) Pop(w http.ResponseWriter, r *http.Request) {
	h.nav.Pop()
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// Advance moves to the next onboarding step
func (h *ScreenHandler) Advance(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.nav.Advance(); !ok {
		respondWithError(h.log, w, http.StatusConflict, ErrNoOnboardingStep, "", nil)
		return
	}
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// FinalizeOnboarding replaces the stack with the main app
func (h *ScreenHandler) FinalizeOnboarding(w http.ResponseWriter, r *http.Request) {
	h.nav.FinalizeOnboarding()
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}

// ResetOnboarding replaces the stack with the login screen
func (h *ScreenHandler) ResetOnboarding(w http.ResponseWriter, r *http.Request) {
	h.nav.ResetOnboarding()
	respondWithJSON(w, http.StatusOK, newScreenResponse(h.nav.Stack()))
}
