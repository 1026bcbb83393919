package domain

import (
	"strings"
	"time"
)

type User struct {
	ID           string
	Email        string // trimmed, lower-cased
	Name         string
	PasswordHash string // bcrypt encoded
	Role         Role

	PasswordHistory     PasswordHistory
	FailedLoginAttempts int
	LastFailedAttemptAt *time.Time

	Profile Profile

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeEmail is applied before an email is validated, stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
