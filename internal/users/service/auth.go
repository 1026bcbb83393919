package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/users/internal/users/credential"
	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/metrics"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/pkg/slogx"
)

type AuthService struct {
	Store   store.Store
	Policy  *credential.Policy
	Metrics metrics.Recorder

	dummyOnce sync.Once
	dummyHash string
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

func (s *AuthService) metrics() metrics.Recorder { return metrics.OrNoop(s.Metrics) }

// Login checks email and password and issues an access token. The user is
// read and written back in one transaction. sqlite runs one transaction at a
// time and the postgres driver row-locks the read, so concurrent attempts on
// the same account never lose a failure count.
//
// Failed attempts are committed even though Login returns an error.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)

	email = domain.NormalizeEmail(email)
	if err := domain.Validate(
		required("email", email),
		required("password", password),
	); err != nil {
		return LoginResult{}, err
	}

	var (
		res      LoginResult
		loginErr error
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByEmail(ctx, email)
		if errors.Is(err, store.ErrNotFound) {
			// Spend the same bcrypt time as a real check.
			s.Policy.VerifyPassword(password, s.dummy())
			loginErr = ErrInvalidCredentials
			return nil
		}
		if err != nil {
			return wrapf(err, "load user")
		}

		loginErr = s.Policy.Authenticate(&u, password)

		var locked *credential.LockedError
		if errors.As(loginErr, &locked) {
			// Nothing changed on u.
			return nil
		}

		u, err = tx.Users().UpdateUser(ctx, u)
		if err != nil {
			return wrapf(err, "record login attempt")
		}

		if loginErr != nil {
			if unlockAt, nowLocked := s.Policy.LockedUntil(u); nowLocked {
				s.metrics().RecordLockout()
				l.Warn("account locked",
					slog.String("user_id", u.ID),
					slog.Int("failed_attempts", u.FailedLoginAttempts),
					slog.Time("unlock_at", unlockAt),
				)
			}
			return nil
		}

		token, exp, err := s.Policy.IssueToken(u)
		if err != nil {
			return err
		}
		res = LoginResult{Token: token, ExpiresAt: exp, User: u}
		return nil
	})
	if err != nil {
		return LoginResult{}, err
	}

	var locked *credential.LockedError
	switch {
	case errors.As(loginErr, &locked):
		s.metrics().RecordLogin(metrics.LoginLocked)
		l.Info("login refused, account locked", slog.Time("unlock_at", locked.UnlockAt))
		return LoginResult{}, loginErr
	case loginErr != nil:
		s.metrics().RecordLogin(metrics.LoginInvalidCredentials)
		l.Info("login failed")
		return LoginResult{}, loginErr
	}

	s.metrics().RecordLogin(metrics.LoginSuccess)
	l.Info("login succeeded", slog.String("user_id", res.User.ID))
	return res, nil
}

// dummy returns a hash used to equalise timing for unknown emails.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.Policy.HashPassword("users-timing-equaliser")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func required(field, value string) error {
	if value == "" {
		return domain.Invalid(field, field+" is required")
	}
	return nil
}
