package cryptox

import (
	"errors"
	"fmt"

	passwordvalidator "github.com/wagslane/go-password-validator"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// MaxPasswordBytes is the longest input bcrypt accepts. Anything longer is
// rejected rather than silently truncated.
const MaxPasswordBytes = 72

var (
	ErrMismatch    = errors.New("password does not match")
	ErrTooLong     = fmt.Errorf("password exceeds %d bytes", MaxPasswordBytes)
	ErrInvalidHash = errors.New("invalid hash format")
)

// PasswordHasher hashes and verifies passwords with bcrypt. The salt is
// generated per call and embedded in the encoded hash, so two hashes of the
// same password never compare equal as strings.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using cost, clamped to the range bcrypt
// supports. A zero cost selects DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return &PasswordHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *PasswordHasher) Cost() int { return h.cost }

// Hash returns the encoded bcrypt hash ("$2a$<cost>$<salt+hash>") of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compares password against an encoded hash using bcrypt's own
// constant-time comparison. It returns ErrMismatch for a wrong password and
// ErrInvalidHash when the stored value is not a bcrypt hash at all.
func (h *PasswordHasher) Verify(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%w: %w", ErrInvalidHash, err)
	}
}

// CheckStrength rejects passwords whose estimated entropy is below minBits.
// A non-positive threshold disables the check.
func CheckStrength(password string, minBits float64) error {
	if minBits <= 0 {
		return nil
	}
	return passwordvalidator.Validate(password, minBits)
}
