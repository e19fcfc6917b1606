package handler

import (
	"encoding/json"
	"net/http"

	"schoolpulse/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAppError maps the error taxonomy onto HTTP statuses. Recoverable
// kinds never reach here; the pipeline absorbs them into fallback
// content before the handler sees them.
func writeAppError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.InvalidArgument:
		writeError(w, http.StatusBadRequest, err.Error())
	case apperr.NotFound:
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
