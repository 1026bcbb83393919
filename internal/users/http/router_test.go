package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/users/internal/users/credential"
	usershttp "github.com/aussiebroadwan/users/internal/users/http"
	"github.com/aussiebroadwan/users/internal/users/metrics"
	"github.com/aussiebroadwan/users/internal/users/service"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/users/pkg/cryptox"
	"github.com/aussiebroadwan/users/pkg/jwtx"
	"github.com/aussiebroadwan/users/pkg/slogx"
	"github.com/aussiebroadwan/users/pkg/usersdk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	*httptest.Server
	client *usersdk.Client
	store  store.Store
	router *usershttp.Router
	now    time.Time
}

func (s *testServer) advance(d time.Duration) { s.now = s.now.Add(d) }

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	hs, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "users-test")
	require.NoError(t, err)

	ts := &testServer{store: st, now: time.Now().UTC().Truncate(time.Second)}
	policy := &credential.Policy{
		Hasher:   cryptox.NewPasswordHasher(bcrypt.MinCost),
		Signer:   hs,
		Issuer:   "users-test",
		TokenTTL: time.Hour,
		Now:      func() time.Time { return ts.now },
	}

	reg := prometheus.NewRegistry()
	rec := metrics.NewCollector(reg)

	r := usershttp.NewRouter(hs, "test", "", st, slogx.Discard())
	r.UserService = &service.UserService{Store: st, Policy: policy, Metrics: rec}
	r.AuthService = &service.AuthService{Store: st, Policy: policy, Metrics: rec}
	r.Metrics = rec
	r.Gatherer = reg
	r.Mux.HandleFunc("GET /boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
	r.ApplyRoutes()

	ts.router = r
	ts.Server = httptest.NewServer(r)
	t.Cleanup(ts.Close)
	ts.client = usersdk.NewClient(ts.URL)
	return ts
}

func (s *testServer) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.URL+path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}

func john() usersdk.CreateUserRequest {
	return usersdk.CreateUserRequest{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "john@example",
	}
}

func TestCreateUserScenario(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	resp, body := s.do(t, http.MethodPost, "/users",
		`{"name":"John Doe","email":"john@example.com","password":"john@example"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, resp.Header.Get(slogx.RequestIDHeader))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	require.Equal(t, "John Doe", got["name"])
	require.NotContains(t, got, "password")
	require.NotContains(t, body, "john@example\"")
	require.NotContains(t, body, "$2a$")

	stored, err := s.store.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, "john@example.com", stored[0].Email)
	require.NotEqual(t, "john@example", stored[0].PasswordHash)
}

func TestListUsersScenario(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	users, err := s.client.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, "John Doe", users[0].Name)
	require.Equal(t, "admin", users[0].Role)
	require.True(t, users[0].OnboardingWeb)
	require.NotNil(t, users[0].PasswordChangedAt)
}

func TestUpdateUserScenario(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	u, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	name := "Jane Doe"
	size := 3
	updated, err := s.client.UpdateUser(ctx, u.ID, usersdk.UpdateUserRequest{
		Name:          &name,
		ProfileUpdate: usersdk.ProfileUpdate{Quantity: &size},
	})
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", updated.Name)
	require.Equal(t, "john@example.com", updated.Email)
	require.Equal(t, 3, *updated.Quantity)

	fetched, err := s.client.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", fetched.Name)

	resp, _ := s.do(t, http.MethodPatch, "/users/"+u.ID, `{"team_size":"10"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDeleteUserScenario(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	u, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	deleted, err := s.client.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, deleted.ID)

	_, err = s.client.GetUser(ctx, u.ID)
	require.ErrorIs(t, err, usersdk.ErrNotFound)

	_, err = s.client.DeleteUser(ctx, u.ID)
	require.ErrorIs(t, err, usersdk.ErrNotFound)
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.GetUser(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, usersdk.ErrNotFound)

	_, err = s.client.GetUser(ctx, "not-an-id")
	apiErr, ok := usersdk.AsAPIError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	name := "x"
	_, err = s.client.UpdateUser(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV", usersdk.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, usersdk.ErrNotFound)
}

func TestDuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	dup := john()
	dup.Email = "  JOHN@example.com "
	_, err = s.client.CreateUser(ctx, dup)
	require.ErrorIs(t, err, usersdk.ErrEmailTaken)
	apiErr, _ := usersdk.AsAPIError(err)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		code   string
		fields []string
	}{
		{
			name:   "empty body",
			body:   "",
			code:   usersdk.ErrorCodeValidation,
			fields: []string{"email", "name", "password"},
		},
		{
			name:   "bad email and short password",
			body:   `{"name":"A","email":"nope","password":"abc"}`,
			code:   usersdk.ErrorCodeValidation,
			fields: []string{"email", "password"},
		},
		{
			name:   "unknown role",
			body:   `{"name":"A","email":"a@example.com","password":"abcd","role":"root"}`,
			code:   usersdk.ErrorCodeValidation,
			fields: []string{"role"},
		},
		{
			name:   "wrong type",
			body:   `{"name":"A","email":"a@example.com","password":"abcd","quantity":"two"}`,
			code:   usersdk.ErrorCodeValidation,
			fields: []string{"quantity"},
		},
		{
			name:   "fractional quantity",
			body:   `{"name":"A","email":"a@example.com","password":"abcd","quantity":1.5}`,
			code:   usersdk.ErrorCodeValidation,
			fields: []string{"quantity"},
		},
		{
			name: "malformed json",
			body: `{"name":`,
			code: usersdk.ErrorCodeInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := s.do(t, http.MethodPost, "/users", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

			var env usersdk.ErrorResponse
			require.NoError(t, json.Unmarshal([]byte(body), &env))
			require.Equal(t, tt.code, env.Error)

			got := make([]string, 0, len(env.Fields))
			for _, f := range env.Fields {
				got = append(got, f.Field)
			}
			for _, want := range tt.fields {
				require.Contains(t, got, want)
			}
		})
	}
}

func TestPasswordReuseRejected(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	u, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	for _, pw := range []string{"second-pw", "third-pw"} {
		_, err = s.client.UpdateUser(ctx, u.ID, usersdk.UpdateUserRequest{Password: &pw})
		require.NoError(t, err)
	}

	reused := "john@example"
	_, err = s.client.UpdateUser(ctx, u.ID, usersdk.UpdateUserRequest{Password: &reused})
	require.ErrorIs(t, err, usersdk.ErrPasswordReused)

	fourth := "fourth-pw"
	_, err = s.client.UpdateUser(ctx, u.ID, usersdk.UpdateUserRequest{Password: &fourth})
	require.NoError(t, err)

	// The first password has now rotated out of the history.
	_, err = s.client.UpdateUser(ctx, u.ID, usersdk.UpdateUserRequest{Password: &reused})
	require.NoError(t, err)

	_, err = s.client.Login(ctx, "john@example.com", "john@example")
	require.NoError(t, err)
}

func TestLoginAndMe(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	u, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	login, err := s.client.Login(ctx, "John@Example.com", "john@example")
	require.NoError(t, err)
	require.NotEmpty(t, login.Token)
	require.Equal(t, "Bearer", login.TokenType)
	require.Equal(t, u.ID, login.User.ID)
	require.True(t, login.ExpiresAt.After(time.Now()))

	me, err := s.client.Me(ctx, login.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, me.ID)

	_, err = s.client.Me(ctx, "")
	require.ErrorIs(t, err, usersdk.ErrInvalidToken)
	_, err = s.client.Me(ctx, login.Token+"x")
	require.ErrorIs(t, err, usersdk.ErrInvalidToken)

	_, err = s.client.Login(ctx, "nobody@example.com", "john@example")
	require.ErrorIs(t, err, usersdk.ErrInvalidCredentials)

	_, err = s.client.Login(ctx, "", "")
	require.ErrorIs(t, err, usersdk.ErrValidation)
}

func TestLoginLockout(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	for i := 0; i < credential.DefaultMaxFailedAttempts; i++ {
		_, err = s.client.Login(ctx, "john@example.com", "wrong-password")
		require.ErrorIs(t, err, usersdk.ErrInvalidCredentials, "attempt %d", i+1)
		s.advance(time.Second)
	}
	lastFailure := s.now.Add(-time.Second)

	// Even the right password is refused while locked.
	_, err = s.client.Login(ctx, "john@example.com", "john@example")
	require.ErrorIs(t, err, usersdk.ErrAccountLocked)
	apiErr, _ := usersdk.AsAPIError(err)
	require.Equal(t, http.StatusLocked, apiErr.StatusCode)
	require.NotNil(t, apiErr.UnlockAt)
	require.True(t, lastFailure.Add(credential.DefaultLockoutWindow).Equal(*apiErr.UnlockAt))

	users, err := s.client.ListUsers(ctx)
	require.NoError(t, err)
	require.Equal(t, credential.DefaultMaxFailedAttempts, users[0].FailedLoginAttempts)

	s.now = lastFailure.Add(credential.DefaultLockoutWindow)
	login, err := s.client.Login(ctx, "john@example.com", "john@example")
	require.NoError(t, err)
	require.Zero(t, login.User.FailedLoginAttempts)
	require.Nil(t, login.User.LastFailedAttemptAt)
}

func TestNoSecretsInResponses(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodPost, "/users",
		`{"name":"John Doe","email":"john@example.com","password":"plain-secret"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created usersdk.User
	require.NoError(t, json.Unmarshal([]byte(body), &created))

	bodies := []string{body}
	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/users", ""},
		{http.MethodGet, "/users/" + created.ID, ""},
		{http.MethodPut, "/users/" + created.ID, `{"password":"other-secret"}`},
		{http.MethodPost, "/users/login", `{"email":"john@example.com","password":"other-secret"}`},
		{http.MethodDelete, "/users/" + created.ID, ""},
	} {
		_, b := s.do(t, req.method, req.path, req.body)
		bodies = append(bodies, b)
	}

	for _, b := range bodies {
		require.NotContains(t, b, `"password"`)
		require.NotContains(t, b, "password_hash")
		require.NotContains(t, b, "plain-secret")
		require.NotContains(t, b, "other-secret")
		require.NotContains(t, b, "$2a$")
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodOptions, "/users", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Empty(t, body)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")

	resp, _ = s.do(t, http.MethodGet, "/users", "")
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestPanicReturnsGenericError(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, http.MethodGet, "/boom", "")
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var env usersdk.ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.Equal(t, "server_error", env.Error)
	require.Equal(t, "Something went wrong!", env.ErrorDescription)
	require.NotContains(t, body, "boom")
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	live, err := s.client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)

	ready, err := s.client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)

	_, err = s.client.CreateUser(ctx, john())
	require.NoError(t, err)

	resp, body := s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "users_user_operations_total")
	require.Contains(t, body, `route="POST /users"`)

	resp, _ = s.do(t, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadinessDegradedWhenStoreClosed(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.Close())

	resp, body := s.do(t, http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var health usersdk.HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	require.Equal(t, "degraded", health.Status)
	require.Contains(t, health.Checks.Database, "error")
}
