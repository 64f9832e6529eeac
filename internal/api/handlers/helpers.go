package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"transit-reachability-service/internal/logging"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.LogError(logging.FromContext(r.Context()), "encode failed", err,
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// NotFound and MethodNotAllowed keep router-level errors in the JSON error shape.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found")
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}
