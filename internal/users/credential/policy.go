// Package credential owns the account-security rules attached to a user
// record: password hashing and reuse prevention, failed-login lockout and
// access token issuance. Policy methods mutate the user they are given and
// leave persistence to the caller.
package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/pkg/cryptox"
	"github.com/aussiebroadwan/users/pkg/jwtx"
)

const (
	DefaultMaxFailedAttempts = 5
	DefaultLockoutWindow     = 5 * time.Minute
	DefaultHistorySize       = 3
)

var (
	ErrPasswordReused     = errors.New("password_reused")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrAccountLocked      = errors.New("account_locked")
)

// LockedError is returned while an account is locked out.
type LockedError struct {
	UnlockAt time.Time
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.UnlockAt.UTC().Format(time.RFC3339))
}

func (e *LockedError) Unwrap() error { return ErrAccountLocked }

// Hasher is satisfied by *cryptox.PasswordHasher.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) error
}

// Policy is safe for concurrent use once configured. Zero-valued limits
// fall back to the package defaults.
type Policy struct {
	Hasher   Hasher
	Signer   jwtx.Signer
	Issuer   string
	TokenTTL time.Duration
	Now      func() time.Time

	MaxFailedAttempts int
	LockoutWindow     time.Duration
	HistorySize       int

	// MinEntropyBits enables an entropy check on new passwords when > 0.
	MinEntropyBits float64
}

// LockoutStatus is the result of CheckLockout. Reset reports that the check
// cleared an expired lockout on the user, which the caller should persist.
type LockoutStatus struct {
	Locked   bool
	UnlockAt time.Time
	Reset    bool
}

func (p *Policy) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

func (p *Policy) maxFailedAttempts() int {
	if p.MaxFailedAttempts > 0 {
		return p.MaxFailedAttempts
	}
	return DefaultMaxFailedAttempts
}

func (p *Policy) lockoutWindow() time.Duration {
	if p.LockoutWindow > 0 {
		return p.LockoutWindow
	}
	return DefaultLockoutWindow
}

func (p *Policy) historySize() int {
	if p.HistorySize > 0 {
		return p.HistorySize
	}
	return DefaultHistorySize
}

func (p *Policy) tokenTTL() time.Duration {
	if p.TokenTTL > 0 {
		return p.TokenTTL
	}
	return jwtx.DefaultTokenTTL
}

// HashPassword returns a freshly salted hash of plaintext.
func (p *Policy) HashPassword(plaintext string) (string, error) {
	return p.Hasher.Hash(plaintext)
}

// VerifyPassword reports whether plaintext matches hash. Malformed hashes
// never match.
func (p *Policy) VerifyPassword(plaintext, hash string) bool {
	return p.Hasher.Verify(plaintext, hash) == nil
}

// RecordPasswordChange sets a new password on u. It fails with
// ErrPasswordReused, leaving u untouched, when plaintext matches any hash
// still held in the history.
func (p *Policy) RecordPasswordChange(u *domain.User, plaintext string) error {
	if err := cryptox.CheckStrength(plaintext, p.MinEntropyBits); err != nil {
		return domain.Invalid("password", err.Error())
	}

	for _, prev := range u.PasswordHistory.Hashes() {
		if p.VerifyPassword(plaintext, prev) {
			return ErrPasswordReused
		}
	}

	hash, err := p.HashPassword(plaintext)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	u.PasswordHash = hash
	u.PasswordHistory = u.PasswordHistory.Append(domain.PasswordEntry{
		Hash:      hash,
		ChangedAt: p.now(),
	}, p.historySize())
	return nil
}

// CheckLockout evaluates the lockout state of u. An expired lockout is
// cleared on u as part of the check.
func (p *Policy) CheckLockout(u *domain.User) LockoutStatus {
	if u.FailedLoginAttempts < p.maxFailedAttempts() {
		return LockoutStatus{}
	}

	if unlockAt, locked := p.LockedUntil(*u); locked {
		return LockoutStatus{Locked: true, UnlockAt: unlockAt}
	}

	u.FailedLoginAttempts = 0
	u.LastFailedAttemptAt = nil
	return LockoutStatus{Reset: true}
}

// LockedUntil reports whether u is locked out right now and, if so, when
// the lockout ends. It does not modify u.
func (p *Policy) LockedUntil(u domain.User) (time.Time, bool) {
	if u.FailedLoginAttempts < p.maxFailedAttempts() || u.LastFailedAttemptAt == nil {
		return time.Time{}, false
	}
	unlockAt := u.LastFailedAttemptAt.Add(p.lockoutWindow())
	return unlockAt, p.now().Before(unlockAt)
}

// ExpiredLockoutCutoff returns the bounds of lockouts that have run out as
// of now: users with at least attempts failures whose last failure is at or
// before lastFailedBefore. CheckLockout would reset exactly these users.
func (p *Policy) ExpiredLockoutCutoff() (attempts int, lastFailedBefore time.Time) {
	return p.maxFailedAttempts(), p.now().Add(-p.lockoutWindow())
}

// RecordFailedLogin counts a failed attempt on u and returns the resulting
// lockout state.
func (p *Policy) RecordFailedLogin(u *domain.User) LockoutStatus {
	now := p.now()
	u.FailedLoginAttempts++
	u.LastFailedAttemptAt = &now

	if u.FailedLoginAttempts >= p.maxFailedAttempts() {
		return LockoutStatus{Locked: true, UnlockAt: now.Add(p.lockoutWindow())}
	}
	return LockoutStatus{}
}

// RecordSuccessfulLogin clears the failure counter on u.
func (p *Policy) RecordSuccessfulLogin(u *domain.User) {
	u.FailedLoginAttempts = 0
	u.LastFailedAttemptAt = nil
}

// Authenticate runs the login checks against u: lockout, then password,
// then the matching counter update. u is mutated on every path except an
// active lockout, so callers persist it regardless of the returned error.
func (p *Policy) Authenticate(u *domain.User, plaintext string) error {
	if st := p.CheckLockout(u); st.Locked {
		return &LockedError{UnlockAt: st.UnlockAt}
	}

	if !p.VerifyPassword(plaintext, u.PasswordHash) {
		p.RecordFailedLogin(u)
		return ErrInvalidCredentials
	}

	p.RecordSuccessfulLogin(u)
	return nil
}

// IssueToken signs an access token for u carrying its id, email and name.
func (p *Policy) IssueToken(u domain.User) (string, time.Time, error) {
	if p.Signer == nil {
		return "", time.Time{}, errors.New("credential: no token signer configured")
	}

	now := p.now()
	ttl := p.tokenTTL()
	claims := jwtx.NewUserClaims(u.ID, u.Email, u.Name, p.Issuer, ttl, now)

	token, err := p.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, claims.ExpiresAt.Time, nil
}
