package domain

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
)

const (
	MinPasswordLength = 4
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field   string
	Message string
}

// ValidationError collects every violation found in a record.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validate composes per-field results into a *ValidationError, or nil when
// every check passed. Nested ValidationErrors are flattened.
func Validate(checks ...error) error {
	var out []Violation
	for _, err := range checks {
		if err == nil {
			continue
		}
		if ve, ok := err.(*ValidationError); ok {
			out = append(out, ve.Violations...)
			continue
		}
		out = append(out, Violation{Message: err.Error()})
	}
	if len(out) == 0 {
		return nil
	}
	return &ValidationError{Violations: out}
}

// Invalid builds a single-violation error.
func Invalid(field, message string) error {
	return &ValidationError{Violations: []Violation{{Field: field, Message: message}}}
}

// ValidateUser is the record-level validator run before every write.
func ValidateUser(u User) error {
	return Validate(
		ValidateEmail(u.Email),
		ValidateName(u.Name),
		ValidateRole(u.Role),
	)
}

func ValidateEmail(email string) error {
	if email == "" {
		return Invalid("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return Invalid("email", "email is not valid")
	}
	return nil
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return Invalid("name", "name is required")
	}
	return nil
}

// ValidatePassword checks a plaintext password before it is hashed.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return Invalid("password", "password is required")
	case len(password) < MinPasswordLength:
		return Invalid("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordBytes:
		return Invalid("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}

func ValidateRole(r Role) error {
	if !r.Valid() {
		return Invalid("role", fmt.Sprintf("role must be one of %s, %s", RoleAdmin, RoleUser))
	}
	return nil
}

// ValidateQuantity accepts nil or any whole number.
func ValidateQuantity(q *float64) error {
	if q == nil {
		return nil
	}
	if math.IsNaN(*q) || math.IsInf(*q, 0) || *q != math.Trunc(*q) {
		return Invalid("quantity", "quantity must be an integer")
	}
	if *q > math.MaxInt32 || *q < math.MinInt32 {
		return Invalid("quantity", "quantity is out of range")
	}
	return nil
}

func trimmed(s string) string { return strings.TrimSpace(s) }
