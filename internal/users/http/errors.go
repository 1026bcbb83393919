package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/pkg/httpx"
	"github.com/aussiebroadwan/users/pkg/slogx"
	"github.com/aussiebroadwan/users/pkg/usersdk"
)

const maxBodyBytes = 1 << 20

var errMalformedBody = errors.New("malformed JSON body")

// decodeBody reads a JSON object into v. An empty body decodes as {}.
// Type mismatches are reported as validation errors on the offending field.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(v)

	var typeErr *json.UnmarshalTypeError
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case errors.As(err, &typeErr):
		// Fields of embedded structs come back qualified, e.g.
		// "ProfilePatch.quantity".
		field := typeErr.Field
		if i := strings.LastIndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}
		if field == "" {
			field = "body"
		}
		return domain.Invalid(field, fmt.Sprintf("%s must be of type %s", field, jsonType(typeErr)))
	default:
		return fmt.Errorf("%w: %w", errMalformedBody, err)
	}
}

func jsonType(e *json.UnmarshalTypeError) string {
	t := e.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "number"
	case reflect.Slice:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	}
	return t.String()
}

// writeError maps service and domain errors to the response envelope.
// Anything unrecognised is logged and reported as the generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve     *domain.ValidationError
		locked *credential.LockedError
	)

	switch {
	case errors.Is(err, errMalformedBody):
		httpx.WriteJSON(w, http.StatusBadRequest, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeInvalidRequest,
			ErrorDescription: "Invalid JSON in request body",
		})
	case errors.As(err, &ve):
		fields := make([]usersdk.FieldError, len(ve.Violations))
		for i, v := range ve.Violations {
			fields[i] = usersdk.FieldError{Field: v.Field, Message: v.Message}
		}
		httpx.WriteJSON(w, http.StatusBadRequest, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeValidation,
			ErrorDescription: "Request validation failed",
			Fields:           fields,
		})
	case errors.Is(err, credential.ErrPasswordReused):
		httpx.WriteJSON(w, http.StatusBadRequest, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodePasswordReused,
			ErrorDescription: "New password must differ from recently used passwords",
		})
	case errors.As(err, &locked):
		unlockAt := locked.UnlockAt.UTC()
		retry := int(math.Ceil(time.Until(unlockAt).Seconds()))
		if retry > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(retry))
		}
		httpx.WriteJSON(w, http.StatusLocked, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeAccountLocked,
			ErrorDescription: "Too many failed login attempts",
			UnlockAt:         &unlockAt,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeInvalidCredentials,
			ErrorDescription: "Invalid email or password",
		})
	case errors.Is(err, service.ErrUserNotFound):
		httpx.WriteJSON(w, http.StatusNotFound, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeNotFound,
			ErrorDescription: "User not found",
		})
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteJSON(w, http.StatusConflict, usersdk.ErrorResponse{
			Error:            usersdk.ErrorCodeEmailTaken,
			ErrorDescription: "Email is already registered",
		})
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteServerError(w)
	}
}
