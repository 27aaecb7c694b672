package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse mirrors the upstream API's error convention: a single
// human-readable message under "error", so gate rejections and relayed
// upstream errors look the same to the frontend.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Log encoding errors but don't expose them to client
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// Common error writers for consistency
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

func WriteBadGateway(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadGateway, message)
}
