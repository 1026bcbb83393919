// Package rows converts between domain users and their SQL row layout,
// shared by every SQL driver. Timestamps are unix milliseconds and the
// password history and profile are JSON documents.
package rows

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aussiebroadwan/users/internal/users/domain"
)

// UserColumns lists the users table columns in scan order.
const UserColumns = `id, email, name, password_hash, role, password_history,
	failed_login_attempts, last_failed_attempt_at, profile, created_at, updated_at`

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// User is the flattened row form of domain.User.
type User struct {
	ID                  string
	Email               string
	Name                string
	PasswordHash        string
	Role                string
	PasswordHistory     []byte
	FailedLoginAttempts int
	LastFailedAttemptAt sql.NullInt64
	Profile             []byte
	CreatedAt           int64
	UpdatedAt           int64
}

type historyEntry struct {
	Hash      string `json:"hash"`
	ChangedAt int64  `json:"changed_at"`
}

// FromUser encodes u for writing.
func FromUser(u domain.User) (User, error) {
	history := make([]historyEntry, len(u.PasswordHistory))
	for i, e := range u.PasswordHistory {
		history[i] = historyEntry{Hash: e.Hash, ChangedAt: Millis(e.ChangedAt)}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return User{}, fmt.Errorf("encode password history: %w", err)
	}

	profileJSON, err := json.Marshal(u.Profile)
	if err != nil {
		return User{}, fmt.Errorf("encode profile: %w", err)
	}

	row := User{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		PasswordHash:        u.PasswordHash,
		Role:                string(u.Role),
		PasswordHistory:     historyJSON,
		FailedLoginAttempts: u.FailedLoginAttempts,
		Profile:             profileJSON,
		CreatedAt:           Millis(u.CreatedAt),
		UpdatedAt:           Millis(u.UpdatedAt),
	}
	if u.LastFailedAttemptAt != nil {
		row.LastFailedAttemptAt = sql.NullInt64{Int64: Millis(*u.LastFailedAttemptAt), Valid: true}
	}
	return row, nil
}

// ScanUser reads one row selected with UserColumns.
func ScanUser(s Scanner) (domain.User, error) {
	var r User
	if err := s.Scan(
		&r.ID, &r.Email, &r.Name, &r.PasswordHash, &r.Role, &r.PasswordHistory,
		&r.FailedLoginAttempts, &r.LastFailedAttemptAt, &r.Profile, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return domain.User{}, err
	}
	return r.User()
}

// User decodes the row.
func (r User) User() (domain.User, error) {
	var history []historyEntry
	if len(r.PasswordHistory) > 0 {
		if err := json.Unmarshal(r.PasswordHistory, &history); err != nil {
			return domain.User{}, fmt.Errorf("decode password history for %s: %w", r.ID, err)
		}
	}
	var ph domain.PasswordHistory
	for _, e := range history {
		ph = append(ph, domain.PasswordEntry{Hash: e.Hash, ChangedAt: FromMillis(e.ChangedAt)})
	}

	profile := domain.DefaultProfile()
	if len(r.Profile) > 0 {
		if err := json.Unmarshal(r.Profile, &profile); err != nil {
			return domain.User{}, fmt.Errorf("decode profile for %s: %w", r.ID, err)
		}
	}

	u := domain.User{
		ID:                  r.ID,
		Email:               r.Email,
		Name:                r.Name,
		PasswordHash:        r.PasswordHash,
		Role:                domain.Role(r.Role),
		PasswordHistory:     ph,
		FailedLoginAttempts: r.FailedLoginAttempts,
		Profile:             profile,
		CreatedAt:           FromMillis(r.CreatedAt),
		UpdatedAt:           FromMillis(r.UpdatedAt),
	}
	if r.LastFailedAttemptAt.Valid {
		t := FromMillis(r.LastFailedAttemptAt.Int64)
		u.LastFailedAttemptAt = &t
	}
	return u, nil
}

func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
