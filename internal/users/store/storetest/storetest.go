// Package storetest holds the behaviour every store driver must share.
// Driver packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty, migrated store. Cleanup is the factory's job.
type Factory func(t *testing.T) store.Store

// Run executes the shared driver suite.
func Run(t *testing.T, newStore Factory) {
	t.Run("CreateAndGet", func(t *testing.T) { testCreateAndGet(t, newStore(t)) })
	t.Run("UniqueEmail", func(t *testing.T) { testUniqueEmail(t, newStore(t)) })
	t.Run("ListOrdered", func(t *testing.T) { testListOrdered(t, newStore(t)) })
	t.Run("Update", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, newStore(t)) })
	t.Run("WithTx", func(t *testing.T) { testWithTx(t, newStore(t)) })
	t.Run("ClearExpiredLockouts", func(t *testing.T) { testClearExpiredLockouts(t, newStore(t)) })
	t.Run("ConcurrentTxUpdates", func(t *testing.T) { testConcurrentTxUpdates(t, newStore(t)) })
	t.Run("MigrationsIdempotent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.ApplyMigrations())
		require.NoError(t, s.Ping(context.Background()))
	})
}

// NewUser returns a valid user that has not been stored yet.
func NewUser(email, name string) domain.User {
	return domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: "$2a$04$C6UzMDM.H6dfI/f/IKcEeO5SxB.YvWAsR6cQfmOB3JW2S9A2zb0HK",
		Role:         domain.DefaultRole,
		PasswordHistory: domain.PasswordHistory{
			{Hash: "$2a$04$C6UzMDM.H6dfI/f/IKcEeO5SxB.YvWAsR6cQfmOB3JW2S9A2zb0HK", ChangedAt: time.UnixMilli(1_700_000_000_000).UTC()},
		},
		Profile: domain.DefaultProfile(),
	}
}

func testCreateAndGet(t *testing.T, s store.Store) {
	ctx := context.Background()

	in := NewUser("john@example.com", "John Doe")
	created, err := s.Users().CreateUser(ctx, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())
	require.Equal(t, created.CreatedAt, created.UpdatedAt)
	require.Equal(t, in.PasswordHistory, created.PasswordHistory)
	require.True(t, created.Profile.OnboardingWeb)

	byID, err := s.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byEmail, err := s.Users().GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, created, byEmail)

	_, err = s.Users().GetUserByID(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testUniqueEmail(t *testing.T, s store.Store) {
	ctx := context.Background()

	_, err := s.Users().CreateUser(ctx, NewUser("dup@example.com", "First"))
	require.NoError(t, err)

	_, err = s.Users().CreateUser(ctx, NewUser("dup@example.com", "Second"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	other, err := s.Users().CreateUser(ctx, NewUser("other@example.com", "Other"))
	require.NoError(t, err)

	other.Email = "dup@example.com"
	_, err = s.Users().UpdateUser(ctx, other)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	all, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func testListOrdered(t *testing.T, s store.Store) {
	ctx := context.Background()

	empty, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		u, err := s.Users().CreateUser(ctx, NewUser(email, email))
		require.NoError(t, err)
		ids = append(ids, u.ID)
		time.Sleep(2 * time.Millisecond)
	}

	all, err := s.Users().ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i, u := range all {
		require.Equal(t, ids[i], u.ID)
	}
}

func testUpdate(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Users().CreateUser(ctx, NewUser("jane@example.com", "Jane"))
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	failedAt := time.UnixMilli(1_700_000_123_456).UTC()
	qty := 7

	created.Name = "Jane Roe"
	created.Role = domain.RoleUser
	created.FailedLoginAttempts = 3
	created.LastFailedAttemptAt = &failedAt
	created.Profile.Quantity = &qty
	created.Profile.Subscription = map[string]any{"plan": "team"}

	updated, err := s.Users().UpdateUser(ctx, created)
	require.NoError(t, err)
	require.Equal(t, "Jane Roe", updated.Name)
	require.Equal(t, domain.RoleUser, updated.Role)
	require.Equal(t, 3, updated.FailedLoginAttempts)
	require.Equal(t, &failedAt, updated.LastFailedAttemptAt)
	require.Equal(t, 7, *updated.Profile.Quantity)
	require.Equal(t, "team", updated.Profile.Subscription["plan"])
	require.Equal(t, created.CreatedAt, updated.CreatedAt, "created_at is immutable")
	require.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	reloaded, err := s.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, updated, reloaded)

	updated.LastFailedAttemptAt = nil
	cleared, err := s.Users().UpdateUser(ctx, updated)
	require.NoError(t, err)
	require.Nil(t, cleared.LastFailedAttemptAt)

	ghost := NewUser("ghost@example.com", "Ghost")
	ghost.ID = "01ARZ3NDEKTSV4RRFFQ69G5FAV"
	_, err = s.Users().UpdateUser(ctx, ghost)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testDelete(t *testing.T, s store.Store) {
	ctx := context.Background()

	created, err := s.Users().CreateUser(ctx, NewUser("del@example.com", "Del"))
	require.NoError(t, err)

	deleted, err := s.Users().DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, deleted)

	_, err = s.Users().GetUserByID(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().DeleteUser(ctx, created.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().CreateUser(ctx, NewUser("del@example.com", "Del again"))
	require.NoError(t, err, "email is free again after delete")
}

func testWithTx(t *testing.T, s store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, NewUser("rollback@example.com", "Rollback"))
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Users().GetUserByEmail(ctx, "rollback@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().CreateUser(ctx, NewUser("commit@example.com", "Commit"))
		return err
	})
	require.NoError(t, err)

	_, err = s.Users().GetUserByEmail(ctx, "commit@example.com")
	require.NoError(t, err)
}

// testConcurrentTxUpdates bumps the failure counter from parallel
// transactions, the way concurrent failed logins do. No increment may be lost.
func testConcurrentTxUpdates(t *testing.T, s store.Store) {
	ctx := context.Background()
	_, err := s.Users().CreateUser(ctx, NewUser("race@example.com", "Race"))
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.WithTx(ctx, func(tx store.Tx) error {
				u, err := tx.Users().GetUserByEmail(ctx, "race@example.com")
				if err != nil {
					return err
				}
				u.FailedLoginAttempts++
				_, err = tx.Users().UpdateUser(ctx, u)
				return err
			})
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Users().GetUserByEmail(ctx, "race@example.com")
	require.NoError(t, err)
	require.Equal(t, workers, got.FailedLoginAttempts)
}

func testClearExpiredLockouts(t *testing.T, s store.Store) {
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000).UTC()

	seed := func(email string, attempts int, lastFailed time.Time) domain.User {
		u, err := s.Users().CreateUser(ctx, NewUser(email, email))
		require.NoError(t, err)
		u.FailedLoginAttempts = attempts
		u.LastFailedAttemptAt = &lastFailed
		u, err = s.Users().UpdateUser(ctx, u)
		require.NoError(t, err)
		return u
	}

	expired := seed("expired@example.com", 5, base)
	edge := seed("edge@example.com", 6, base.Add(time.Minute))
	active := seed("active@example.com", 5, base.Add(2*time.Minute))
	belowLimit := seed("below@example.com", 2, base)

	n, err := s.Users().ClearExpiredLockouts(ctx, 5, base.Add(time.Minute))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	for _, u := range []domain.User{expired, edge} {
		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, got.FailedLoginAttempts, u.Email)
		require.Nil(t, got.LastFailedAttemptAt, u.Email)
	}

	got, err := s.Users().GetUserByID(ctx, active.ID)
	require.NoError(t, err)
	require.Equal(t, 5, got.FailedLoginAttempts, "lockout still running")

	got, err = s.Users().GetUserByID(ctx, belowLimit.ID)
	require.NoError(t, err)
	require.Equal(t, 2, got.FailedLoginAttempts, "never locked, counter kept")

	n, err = s.Users().ClearExpiredLockouts(ctx, 5, base.Add(time.Minute))
	require.NoError(t, err)
	require.Zero(t, n)
}
