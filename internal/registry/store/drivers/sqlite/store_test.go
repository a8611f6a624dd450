package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/internal/registry/store/storetest"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestStoreConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return newTestStore(t)
	})
}

func TestApplyMigrationsTwice(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "registry.db")
	admin := storetest.NewIdentity(t)

	s, err := NewStore("file:" + path)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Admin().WriteAdmin(ctx, admin))
	require.NoError(t, s.Clients().WriteClient(ctx, domain.NewClient(admin, domain.NewBalance(42))))
	require.NoError(t, s.Close())

	s, err = NewStore("file:" + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	got, err := s.Admin().ReadAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, admin, got)

	c, err := s.Clients().ReadClient(ctx, admin)
	require.NoError(t, err)
	require.Equal(t, "42", c.Balance.String())
	require.Equal(t, domain.ClientEnabled, c.Status)
}

func TestCorruptClientEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := storetest.NewIdentity(t)

	require.NoError(t, s.Set(ctx, store.ClientKey(id), []byte("not json")))

	_, err := s.Clients().ReadClient(ctx, id)
	require.Error(t, err)
	require.False(t, store.IsNotFound(err))
}
