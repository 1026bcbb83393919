// Package drivers picks a store implementation from a connection string.
package drivers

import (
	"context"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/postgres"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/sqlite"
)

// Open returns a store for dsn: postgres:// and postgresql:// URLs use the
// postgres driver, anything else is handed to sqlite as a path, "file:"
// URI or ":memory:". Migrations are not applied.
func Open(ctx context.Context, dsn string) (store.Store, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("drivers: empty database url")
	}

	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return postgres.NewStore(ctx, dsn)
	case strings.HasPrefix(dsn, "sqlite://"):
		return sqlite.NewStore(strings.TrimPrefix(dsn, "sqlite://"))
	default:
		return sqlite.NewStore(dsn)
	}
}

// Kind reports which driver Open would choose for dsn.
func Kind(dsn string) string {
	dsn = strings.TrimSpace(dsn)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}
