package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_URL", ":memory:")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("JWT_LIFETIME", "1h")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, ":memory:", cfg.DatabaseURL)
	require.Equal(t, time.Hour, cfg.JWTLifetime)
	require.Equal(t, 10, cfg.BcryptCost)
	require.Equal(t, "*", cfg.CORSAllowedOrigin)
	require.Equal(t, "users-service", cfg.Issuer)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, time.Minute, cfg.HousekeepingInterval)
	require.Equal(t, 20, cfg.LoginLimit.RequestsPerWindow)
	require.Zero(t, cfg.MinEntropyBits)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("PASSWORD_MIN_ENTROPY_BITS", "50")
	t.Setenv("CORS_ALLOWED_ORIGIN", "https://app.example.com")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30")
	t.Setenv("RATELIMIT_LOGIN_REQUESTS", "5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 12, cfg.BcryptCost)
	require.Equal(t, 50.0, cfg.MinEntropyBits)
	require.Equal(t, "https://app.example.com", cfg.CORSAllowedOrigin)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, 5, cfg.LoginLimit.RequestsPerWindow)
}

func TestLoadConfigMissingRequired(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("JWT_LIFETIME", "")

	_, err := LoadConfig()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMissingEnv))
	for _, name := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_LIFETIME"} {
		require.Contains(t, err.Error(), name)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value, want string
	}{
		{"port not a number", "PORT", "http", "invalid PORT"},
		{"port out of range", "PORT", "70000", "invalid PORT"},
		{"short secret", "JWT_SECRET", "short", "at least 32 bytes"},
		{"bad lifetime", "JWT_LIFETIME", "soon", "invalid token lifetime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			require.Error(t, err)
			require.True(t, strings.Contains(err.Error(), tt.want), err.Error())
		})
	}
}

func TestParseLifetime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"1h", time.Hour, true},
		{"30m", 30 * time.Minute, true},
		{"30d", 30 * 24 * time.Hour, true},
		{"90", 90 * time.Minute, true},
		{" 2h ", 2 * time.Hour, true},
		{"0", 0, false},
		{"-5m", 0, false},
		{"xd", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLifetime(tt.in)
			if !tt.ok {
				require.ErrorIs(t, err, ErrInvalidLifetime)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
