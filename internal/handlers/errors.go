package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"letterpath/internal/logger"
	"letterpath/internal/service"
	"letterpath/internal/utils"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(log *logger.Logger, w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, "status", status, "error", err)
		} else {
			log.Debug(logMsg, "status", status, "error", err)
		}
	}

	respondWithJSON(w, status, errorResponse{Error: userMsg})
}

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// respondWithServiceError maps orchestration errors to HTTP statuses
func respondWithServiceError(log *logger.Logger, w http.ResponseWriter, err error) {
	var validationErr utils.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondWithError(log, w, http.StatusBadRequest, validationErr.Error(), "", err)
	case errors.Is(err, service.ErrLetterNotInLevel):
		respondWithError(log, w, http.StatusBadRequest, err.Error(), "", err)
	case errors.Is(err, service.ErrUnknownLevel):
		respondWithError(log, w, http.StatusNotFound, ErrUnknownLevel, "", err)
	case errors.Is(err, service.ErrNoActiveSession),
		errors.Is(err, service.ErrWrongPhase),
		errors.Is(err, service.ErrStaleCapture):
		respondWithError(log, w, http.StatusConflict, err.Error(), "", err)
	default:
		respondWithError(log, w, http.StatusInternalServerError, ErrInternalServerError, "request failed", err)
	}
}
