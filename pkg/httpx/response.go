package httpx

import (
	"encoding/json"
	"net/http"
)

// Error codes shared by every handler.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeValidation     = "validation_error"
	ErrorCodeNotFound       = "not_found"
	ErrorCodeServerError    = "server_error"
)

// GenericErrorDescription is the only detail clients see for unexpected failures.
const GenericErrorDescription = "Something went wrong!"

// ErrorResponse is the error envelope written by every endpoint.
type ErrorResponse struct {
	Error            string       `json:"error"`
	ErrorDescription string       `json:"error_description,omitempty"`
	Fields           []FieldError `json:"fields,omitempty"`
}

// FieldError describes a single invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code.
// It automatically sets the Content-Type header and Cache-Control headers.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes an ErrorResponse with the given status code.
func WriteError(w http.ResponseWriter, code int, errCode, description string) {
	WriteJSON(w, code, ErrorResponse{Error: errCode, ErrorDescription: description})
}

// WriteServerError writes the fixed 500 envelope. Callers log the cause.
func WriteServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, ErrorCodeServerError, GenericErrorDescription)
}

// NoCache sets the Cache-Control and Pragma headers to prevent caching.
// This is commonly required for sensitive responses like tokens.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
