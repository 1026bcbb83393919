package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Sub-repositories are reached through methods so
// a Tx can hand out the same repos bound to the transaction.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts u, assigning its id and timestamps. A duplicate
	// email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail expects an already normalised email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns every user ordered by creation time, oldest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// UpdateUser overwrites every mutable column of u.ID and bumps
	// updated_at. It returns the stored row or ErrNotFound.
	UpdateUser(ctx context.Context, u domain.User) (domain.User, error)

	// DeleteUser hard-deletes the user and returns the removed row, or
	// ErrNotFound.
	DeleteUser(ctx context.Context, id string) (domain.User, error)

	// ClearExpiredLockouts zeroes the failure counter of every user with at
	// least minAttempts failures whose last failure is at or before
	// lastFailedBefore. It returns the number of users cleared.
	ClearExpiredLockouts(ctx context.Context, minAttempts int, lastFailedBefore time.Time) (int64, error)
}
