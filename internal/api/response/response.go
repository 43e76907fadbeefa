// Package response provides standardized HTTP response envelopes for the API
// layer.
package response

import (
	"encoding/json"
	"net/http"
	"time"

	apperrors "showrunner/internal/errors"
)

// SuccessResponse is the envelope every successful endpoint returns
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// WriteSuccess writes a 200 envelope with an optional message
func WriteSuccess(w http.ResponseWriter, data interface{}, message ...string) {
	WriteSuccessStatus(w, http.StatusOK, data, message...)
}

// WriteSuccessStatus writes a success response with an explicit status code
func WriteSuccessStatus(w http.ResponseWriter, statusCode int, data interface{}, message ...string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := SuccessResponse{
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// WriteServiceError maps any service error onto the standard error envelope
// and status code
func WriteServiceError(w http.ResponseWriter, err error) {
	apperrors.AsStandardError(err).WriteHTTPError(w)
}

// WriteBadRequest writes a 400 validation error
func WriteBadRequest(w http.ResponseWriter, field, reason string) {
	apperrors.NewValidationError(field, reason).WriteHTTPError(w)
}
