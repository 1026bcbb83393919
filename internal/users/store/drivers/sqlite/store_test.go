package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/users/internal/users/store"
	"github.com/aussiebroadwan/users/internal/users/store/drivers/sqlite"
	"github.com/aussiebroadwan/users/internal/users/store/storetest"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestSQLiteStore(t *testing.T) {
	storetest.Run(t, newMemoryStore)
}

func TestSQLiteFilePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	s, err := sqlite.NewStore("file:" + path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())

	created, err := s.Users().CreateUser(ctx, storetest.NewUser("file@example.com", "File"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := sqlite.NewStore("file:" + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	require.NoError(t, reopened.ApplyMigrations())

	got, err := reopened.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestSQLiteNestedTxUnsupported(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Tx(ctx)
		require.Error(t, err)
		require.Error(t, tx.WithTx(ctx, func(store.Tx) error { return nil }))
		return nil
	})
	require.NoError(t, err)
}
