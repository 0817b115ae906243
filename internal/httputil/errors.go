// Package httputil holds the small response helpers shared by HTTP handlers.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse is the JSON envelope returned for every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

// WriteJSON serializes v with the proper content type. Encoding failures are
// logged, not surfaced: headers are already on the wire at that point.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, errorType, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: msg, ErrorType: errorType})
}

func WriteBadRequest(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusBadRequest, "invalid_request", msg)
}

func WriteNotImplemented(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotImplemented, "not_implemented", msg)
}

func WriteInternal(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusInternalServerError, "provider_failure", msg)
}

func WriteTooManyRequests(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusTooManyRequests, "rate_limited", msg)
}
