package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"wordscapes/internal/service"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondFailure writes a {success:false, message} envelope
func respondFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// respondWithError logs an internal error and writes a generic failure.
// The engine never fabricates progress data on storage failure.
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	respondFailure(w, status, userMsg)
}

// respondServiceError maps game service errors onto the response
// taxonomy: missing levels are 404, bad hint parameters are 400,
// conflicts (already found, hints exhausted, gate rejection, invalid
// word) are success:false with a reason and no state change, everything
// else is a generic 500.
func respondServiceError(w http.ResponseWriter, err error, logCtx string) {
	switch {
	case errors.Is(err, service.ErrLevelNotFound), errors.Is(err, service.ErrNoLevels):
		respondFailure(w, http.StatusNotFound, MsgLevelNotFound)
	case errors.Is(err, service.ErrWordNotInLevel), errors.Is(err, service.ErrInvalidPosition):
		respondFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidWord),
		errors.Is(err, service.ErrWordAlreadyFound),
		errors.Is(err, service.ErrHintsExhausted),
		errors.Is(err, service.ErrLevelLocked):
		respondFailure(w, http.StatusOK, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, MsgInternalError, logCtx, err)
	}
}
