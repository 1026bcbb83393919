package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/rows"
	"github.com/aussiebroadwan/users/pkg/idx"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	insertUser = `INSERT INTO users (` + rows.UserColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + rows.UserColumns

	selectUserByID    = `SELECT ` + rows.UserColumns + ` FROM users WHERE id = ?`
	selectUserByEmail = `SELECT ` + rows.UserColumns + ` FROM users WHERE email = ?`
	selectUsers       = `SELECT ` + rows.UserColumns + ` FROM users ORDER BY created_at, id`

	updateUser = `UPDATE users SET
	email = ?, name = ?, password_hash = ?, role = ?, password_history = ?,
	failed_login_attempts = ?, last_failed_attempt_at = ?, profile = ?, updated_at = ?
WHERE id = ?
RETURNING ` + rows.UserColumns

	deleteUser = `DELETE FROM users WHERE id = ? RETURNING ` + rows.UserColumns

	clearExpiredLockouts = `UPDATE users SET
	failed_login_attempts = 0, last_failed_attempt_at = NULL, updated_at = ?
WHERE failed_login_attempts >= ? AND last_failed_attempt_at <= ?`
)

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	now := time.Now().UTC()
	if u.ID == "" {
		u.ID = idx.NewAt(now).String()
	}
	u.CreatedAt = now
	u.UpdatedAt = now

	row, err := rows.FromUser(u)
	if err != nil {
		return domain.User{}, err
	}

	created, err := rows.ScanUser(r.db.QueryRowContext(ctx, insertUser,
		row.ID, row.Email, row.Name, row.PasswordHash, row.Role, string(row.PasswordHistory),
		row.FailedLoginAttempts, row.LastFailedAttemptAt, string(row.Profile), row.CreatedAt, row.UpdatedAt,
	))
	if err != nil {
		return domain.User{}, fmt.Errorf("insert user: %w", mapConstraint(err))
	}
	return created, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := rows.ScanUser(r.db.QueryRowContext(ctx, selectUserByID, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := rows.ScanUser(r.db.QueryRowContext(ctx, selectUserByEmail, email))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rs, err := r.db.QueryContext(ctx, selectUsers)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	users := []domain.User{}
	for rs.Next() {
		u, err := rows.ScanUser(rs)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rs.Err()
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.UpdatedAt = time.Now().UTC()

	row, err := rows.FromUser(u)
	if err != nil {
		return domain.User{}, err
	}

	updated, err := rows.ScanUser(r.db.QueryRowContext(ctx, updateUser,
		row.Email, row.Name, row.PasswordHash, row.Role, string(row.PasswordHistory),
		row.FailedLoginAttempts, row.LastFailedAttemptAt, string(row.Profile), row.UpdatedAt,
		row.ID,
	))
	if err != nil {
		return domain.User{}, mapConstraint(mapNotFound(err))
	}
	return updated, nil
}

func (r *usersRepo) DeleteUser(ctx context.Context, id string) (domain.User, error) {
	deleted, err := rows.ScanUser(r.db.QueryRowContext(ctx, deleteUser, id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return deleted, nil
}

func (r *usersRepo) ClearExpiredLockouts(ctx context.Context, minAttempts int, lastFailedBefore time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, clearExpiredLockouts,
		rows.Millis(time.Now().UTC()), minAttempts, rows.Millis(lastFailedBefore),
	)
	if err != nil {
		return 0, fmt.Errorf("clear expired lockouts: %w", err)
	}
	return res.RowsAffected()
}
