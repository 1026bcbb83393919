package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"reuse", credential.ErrPasswordReused, http.StatusBadRequest, usersdk.ErrorCodePasswordReused},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrUserNotFound), http.StatusNotFound, usersdk.ErrorCodeNotFound},
		{"email taken", service.ErrEmailTaken, http.StatusConflict, usersdk.ErrorCodeEmailTaken},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized, usersdk.ErrorCodeInvalidCredentials},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, usersdk.ErrorCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			require.Equal(t, tt.status, rec.Code)
			var env usersdk.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.Equal(t, tt.code, env.Error)
			require.NotContains(t, rec.Body.String(), "disk on fire")
		})
	}
}

func TestWriteErrorLocked(t *testing.T) {
	unlockAt := time.Now().Add(90 * time.Second)
	rec := httptest.NewRecorder()
	writeError(rec, httptest.NewRequest(http.MethodPost, "/users/login", nil), &credential.LockedError{UnlockAt: unlockAt})

	require.Equal(t, http.StatusLocked, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	var env usersdk.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, usersdk.ErrorCodeAccountLocked, env.Error)
	require.NotNil(t, env.UnlockAt)
	require.WithinDuration(t, unlockAt, *env.UnlockAt, time.Millisecond)
}

func TestDecodeBodyTypeError(t *testing.T) {
	tests := []struct {
		body    string
		field   string
		message string
	}{
		{`{"sites_id":"abc"}`, "sites_id", "sites_id must be of type array"},
		{`{"onboarding":"yes"}`, "onboarding", "onboarding must be of type boolean"},
		{`{"quantity":"3"}`, "quantity", "quantity must be of type number"},
		{`{"name":5}`, "name", "name must be of type string"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(tt.body))
			var body createUserBody
			err := decodeBody(httptest.NewRecorder(), req, &body)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			require.Equal(t, []domain.Violation{{Field: tt.field, Message: tt.message}}, ve.Violations)

			rec := httptest.NewRecorder()
			writeError(rec, req, err)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var env usersdk.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			require.Equal(t, []usersdk.FieldError{{Field: tt.field, Message: tt.message}}, env.Fields)
		})
	}
}
