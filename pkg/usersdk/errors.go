package usersdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Error codes returned in the "error" field.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodePasswordReused     = "password_reused"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeAccountLocked      = "account_locked"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
	Fields      []FieldError
	UnlockAt    *time.Time
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.StatusCode, e.Code)
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	for _, f := range e.Fields {
		fmt.Fprintf(&b, " [%s: %s]", f.Field, f.Message)
	}
	return b.String()
}

// Is matches another *APIError by code so callers can write
// errors.Is(err, usersdk.ErrNotFound).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	ErrValidation         = &APIError{Code: ErrorCodeValidation}
	ErrPasswordReused     = &APIError{Code: ErrorCodePasswordReused}
	ErrInvalidCredentials = &APIError{Code: ErrorCodeInvalidCredentials}
	ErrAccountLocked      = &APIError{Code: ErrorCodeAccountLocked}
	ErrNotFound           = &APIError{Code: ErrorCodeNotFound}
	ErrEmailTaken         = &APIError{Code: ErrorCodeEmailTaken}
	ErrInvalidToken       = &APIError{Code: ErrorCodeInvalidToken}
	ErrRateLimited        = &APIError{Code: ErrorCodeRateLimited}
)

// AsAPIError unwraps err into an *APIError when possible.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// parseErrorResponse builds an *APIError from an error body. Bodies that
// are not the JSON envelope still produce an error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	var env ErrorResponse
	if err := json.Unmarshal(body, &env); err != nil || env.Error == "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        http.StatusText(resp.StatusCode),
			Description: strings.TrimSpace(string(body)),
		}
	}
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        env.Error,
		Description: env.ErrorDescription,
		Fields:      env.Fields,
		UnlockAt:    env.UnlockAt,
	}
}
