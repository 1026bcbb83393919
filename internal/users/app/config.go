package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/users/pkg/cryptox"
	"github.com/aussiebroadwan/users/pkg/httpx"
	"github.com/aussiebroadwan/users/pkg/jwtx"
)

var (
	ErrMissingEnv      = errors.New("missing required environment variable")
	ErrInvalidLifetime = errors.New("invalid token lifetime")
)

type Config struct {
	Port        int           // Required: HTTP server port
	DatabaseURL string        // Required: sqlite path/DSN or postgres:// URL
	JWTSecret   string        // Required: HS256 signing secret, at least 32 bytes
	JWTLifetime time.Duration // Required: access token lifetime ("1h", "30d" or integer minutes)

	Issuer               string        // Optional: issuer claim for tokens (default: users-service)
	BcryptCost           int           // Optional: bcrypt work factor (default: 10)
	MinEntropyBits       float64       // Optional: password entropy floor, 0 disables (default: 0)
	CORSAllowedOrigin    string        // Optional: Access-Control-Allow-Origin value (default: *)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired lockout sweep interval (default: 1m)

	LoginLimit httpx.RateLimitConfig // RATELIMIT_LOGIN_*
	APILimit   httpx.RateLimitConfig // RATELIMIT_API_*
}

// LoadConfig reads the environment. Every missing or malformed required
// variable is reported in the returned error.
func LoadConfig() (Config, error) {
	cfg := Config{
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		Issuer:               getEnvOrDefault("JWT_ISSUER", "users-service"),
		BcryptCost:           getEnvIntOrDefault("BCRYPT_COST", cryptox.DefaultCost),
		MinEntropyBits:       getEnvFloatOrDefault("PASSWORD_MIN_ENTROPY_BITS", 0),
		CORSAllowedOrigin:    getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Minute),
		LoginLimit:           httpx.ParseRateLimitFromEnv("LOGIN", httpx.LoginLimit),
		APILimit:             httpx.ParseRateLimitFromEnv("API", httpx.APILimit),
	}

	var errs []error

	switch port := os.Getenv("PORT"); {
	case port == "":
		errs = append(errs, fmt.Errorf("%w: PORT", ErrMissingEnv))
	default:
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			errs = append(errs, fmt.Errorf("invalid PORT %q", port))
		}
		cfg.Port = p
	}

	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		errs = append(errs, fmt.Errorf("%w: DATABASE_URL", ErrMissingEnv))
	}

	switch {
	case cfg.JWTSecret == "":
		errs = append(errs, fmt.Errorf("%w: JWT_SECRET", ErrMissingEnv))
	case len(cfg.JWTSecret) < jwtx.MinSecretBytes:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", jwtx.MinSecretBytes))
	}

	if lifetime := os.Getenv("JWT_LIFETIME"); lifetime == "" {
		errs = append(errs, fmt.Errorf("%w: JWT_LIFETIME", ErrMissingEnv))
	} else if d, err := ParseLifetime(lifetime); err != nil {
		errs = append(errs, err)
	} else {
		cfg.JWTLifetime = d
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseLifetime accepts Go durations ("1h", "90m"), whole days ("30d") and
// bare integers, read as minutes.
func ParseLifetime(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	var d time.Duration
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLifetime, s)
		}
		d = time.Duration(n) * 24 * time.Hour
	} else if minutes, err := strconv.Atoi(s); err == nil {
		d = time.Duration(minutes) * time.Minute
	} else if parsed, err := time.ParseDuration(s); err == nil {
		d = parsed
	} else {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLifetime, s)
	}

	if d <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidLifetime, s)
	}
	return d, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
