package handlers

import (
	"net/http"

	"letterpath/internal/logger"
	"letterpath/internal/models"
	"letterpath/internal/service"
)

// ProgressHandler serves the ledger, streak and level catalog
type ProgressHandler struct {
	ledger   *service.LedgerService
	streak   *service.StreakService
	activity *service.ActivityService
	levels   []models.LevelDefinition
	log      *logger.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(ledger *service.LedgerService, streak *service.StreakService, activity *service.ActivityService, levels []models.LevelDefinition, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{ledger: ledger, streak: streak, activity: activity, levels: levels, log: log}
}

// GetProgress returns the unlocked letters, cursor and streak
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.snapshot())
}

// GetLevels returns the level catalog. A level is unlocked once its first
// letter is.
func (h *ProgressHandler) GetLevels(w http.ResponseWriter, r *http.Request) {
	views := make([]LevelView, 0, len(h.levels))
	for _, l := range h.levels {
		view := LevelView{
			ID:          l.ID,
			Name:        l.Name,
			Lower:       l.Lower,
			Upper:       l.Upper,
			MapPosition: l.MapPosition,
		}
		if lower, ok := l.LowerLetter(); ok {
			view.Unlocked = h.ledger.IsUnlocked(rune(lower))
		} else {
			view.Unlocked = h.ledger.IsUnlocked(rune(models.LastLetter))
		}
		views = append(views, view)
	}
	respondWithJSON(w, http.StatusOK, views)
}

// ResetProgress returns the ledger to {A} and clears the streak. The
// session in progress belongs to the old ledger and is ended.
func (h *ProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	h.activity.EndSession()
	h.ledger.Reset()
	h.streak.Reset()
	h.log.Info("progress reset through api")
	respondWithJSON(w, http.StatusOK, h.snapshot())
}

func (h *ProgressHandler) snapshot() models.ProgressSnapshot {
	unlocked := h.ledger.Unlocked()
	rec := h.streak.Record()

	snap := models.ProgressSnapshot{
		Unlocked:         make([]string, len(unlocked)),
		Cursor:           h.ledger.NextToLearn().String(),
		CurrentStreak:    rec.CurrentStreak,
		LongestStreak:    rec.LongestStreak,
		LastActivityDate: rec.LastActivityDate,
	}
	for i, l := range unlocked {
		snap.Unlocked[i] = l.String()
	}
	return snap
}
