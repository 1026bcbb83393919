package usersdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/users/pkg/usersdk"
	"github.com/stretchr/testify/require"
)

func TestClientDecodesUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/users/abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"abc","email":"a@example.com","name":"A","role":"admin","onboarding_web":true,"quantity":2}`))
	}))
	defer srv.Close()

	u, err := usersdk.NewClient(srv.URL+"/").GetUser(context.Background(), "abc")
	require.NoError(t, err)
	require.Equal(t, "abc", u.ID)
	require.True(t, u.OnboardingWeb)
	require.Equal(t, 2, *u.Quantity)
}

func TestClientSendsJSONAndToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "John", body["name"])
			require.Equal(t, "5", body["team_size"], "profile fields are flattened")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"1","name":"John"}`))
		case "/users/me":
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":"1"}`))
		}
	}))
	defer srv.Close()

	c := usersdk.NewClient(srv.URL)
	size := "5"
	_, err := c.CreateUser(context.Background(), usersdk.CreateUserRequest{
		Name: "John", Email: "j@example.com", Password: "pw12",
		ProfileUpdate: usersdk.ProfileUpdate{TeamSize: &size},
	})
	require.NoError(t, err)

	me, err := c.Me(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "1", me.ID)
}

func TestClientErrors(t *testing.T) {
	unlock := time.Date(2025, 1, 1, 12, 5, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/login":
			w.WriteHeader(http.StatusLocked)
			_ = json.NewEncoder(w).Encode(usersdk.ErrorResponse{
				Error:            usersdk.ErrorCodeAccountLocked,
				ErrorDescription: "locked",
				UnlockAt:         &unlock,
			})
		case "/users":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"validation_error","fields":[{"field":"email","message":"email is required"}]}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	}))
	defer srv.Close()
	c := usersdk.NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Login(ctx, "a@example.com", "pw")
	require.ErrorIs(t, err, usersdk.ErrAccountLocked)
	apiErr, ok := usersdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusLocked, apiErr.StatusCode)
	require.Equal(t, unlock, apiErr.UnlockAt.UTC())

	_, err = c.CreateUser(ctx, usersdk.CreateUserRequest{})
	require.ErrorIs(t, err, usersdk.ErrValidation)
	require.Contains(t, err.Error(), "email: email is required")

	_, err = c.GetLiveness(ctx)
	apiErr, ok = usersdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "upstream down", apiErr.Description)
	require.False(t, errors.Is(err, usersdk.ErrNotFound))
}
