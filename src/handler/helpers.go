package handler

import (
	"encoding/json"
	"net/http"

	logger "github.com/sirupsen/logrus"
)

// writeJSON marshals v and writes it with the given status. If marshaling
// fails, it falls back to a plain 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.WithError(err).Error("failed to encode response")
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.WithError(err).Warn("failed to write response")
	}
}

// writeError sends {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

type mutationResult struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	Transaction any    `json:"transaction,omitempty"`
	State       any    `json:"state,omitempty"`
}

// writeFailure sends {"success": false, "error": msg}.
func writeFailure(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, mutationResult{Success: false, Error: msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(msg)); err != nil {
		logger.WithError(err).Warn("failed to write response")
	}
}
