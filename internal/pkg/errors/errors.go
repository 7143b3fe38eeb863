package errors

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnrecognizedDomain = "UNRECOGNIZED_DOMAIN"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeConfig             = "CONFIG_ERROR"
	ErrCodeUpstream           = "UPSTREAM_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// WriteError renders the JSON error envelope. The message goes into the
// "error" field verbatim; upstream and configuration failures must pass a
// generic message here and log the detail server-side instead.
func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
