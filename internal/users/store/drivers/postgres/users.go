package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/rows"
	"github.com/aussiebroadwan/users/pkg/idx"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	insertUser = `INSERT INTO users (` + rows.UserColumns + `)
VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8, $9::jsonb, $10, $11)
RETURNING ` + rows.UserColumns

	selectUserByID    = `SELECT ` + rows.UserColumns + ` FROM users WHERE id = $1`
	selectUserByEmail = `SELECT ` + rows.UserColumns + ` FROM users WHERE email = $1`
	selectUsers       = `SELECT ` + rows.UserColumns + ` FROM users ORDER BY created_at, id`

	updateUser = `UPDATE users SET
	email = $1, name = $2, password_hash = $3, role = $4, password_history = $5::jsonb,
	failed_login_attempts = $6, last_failed_attempt_at = $7, profile = $8::jsonb, updated_at = $9
WHERE id = $10
RETURNING ` + rows.UserColumns

	deleteUser = `DELETE FROM users WHERE id = $1 RETURNING ` + rows.UserColumns

	clearExpiredLockouts = `UPDATE users SET
	failed_login_attempts = 0, last_failed_attempt_at = NULL, updated_at = $1
WHERE failed_login_attempts >= $2 AND last_failed_attempt_at <= $3`
)

type usersRepo struct {
	db dbtx

	// forUpdate row-locks single-user reads so a read-modify-write inside a
	// transaction cannot lose a concurrent update.
	forUpdate bool
}

func (r *usersRepo) lockClause(query string) string {
	if r.forUpdate {
		return query + ` FOR UPDATE`
	}
	return query
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
		return domain.User{}, fmt.Errorf("insert user: %w", mapPQError(err))
	}
	return created, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := rows.ScanUser(r.db.QueryRowContext(ctx, r.lockClause(selectUserByID), id))
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := rows.ScanUser(r.db.QueryRowContext(ctx, r.lockClause(selectUserByEmail), email))
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
		return domain.User{}, mapPQError(mapNotFound(err))
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
