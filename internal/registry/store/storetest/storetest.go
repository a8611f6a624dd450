// Package storetest holds the behaviour every store driver must share.
// Driver packages call Run from their own tests.
package storetest

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, migrated, empty store.
type Factory func(t *testing.T) store.Store

// NewIdentity returns a random valid identity.
func NewIdentity(t testing.TB) domain.Identity {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return domain.IdentityFromPublicKey(pub)
}

var errAbort = errors.New("abort")

// Run exercises the KV, repo and transaction contract against newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("kv get missing", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Get(ctx, store.AdminKey())
		require.ErrorIs(t, err, store.ErrNotFound)

		ok, err := s.Has(ctx, store.ClientKey(NewIdentity(t)))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("kv set overwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		key := store.ClientKey(NewIdentity(t))

		require.NoError(t, s.Set(ctx, key, []byte("one")))
		require.NoError(t, s.Set(ctx, key, []byte("two")))

		got, err := s.Get(ctx, key)
		require.NoError(t, err)
		require.Equal(t, []byte("two"), got)
	})

	t.Run("kv remove is idempotent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		key := store.ClientKey(NewIdentity(t))

		require.NoError(t, s.Set(ctx, key, []byte("v")))
		require.NoError(t, s.Remove(ctx, key))
		require.NoError(t, s.Remove(ctx, key))

		ok, err := s.Has(ctx, key)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("kv list separates kinds", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a, b := NewIdentity(t), NewIdentity(t)

		require.NoError(t, s.Set(ctx, store.AdminKey(), []byte(a)))
		require.NoError(t, s.Set(ctx, store.ClientKey(b), []byte("{}")))
		require.NoError(t, s.Set(ctx, store.ClientKey(a), []byte("{}")))

		admins, err := s.List(ctx, store.KindAdmin)
		require.NoError(t, err)
		require.Len(t, admins, 1)
		require.Equal(t, store.AdminKey(), admins[0].Key)

		clients, err := s.List(ctx, store.KindClient)
		require.NoError(t, err)
		require.Len(t, clients, 2)
		require.Less(t, clients[0].Key.String(), clients[1].Key.String())
	})

	t.Run("admin repo", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		admin := NewIdentity(t)

		ok, err := s.Admin().HasAdmin(ctx)
		require.NoError(t, err)
		require.False(t, ok)

		_, err = s.Admin().ReadAdmin(ctx)
		require.True(t, store.IsNotFound(err))

		require.NoError(t, s.Admin().WriteAdmin(ctx, admin))

		got, err := s.Admin().ReadAdmin(ctx)
		require.NoError(t, err)
		require.Equal(t, admin, got)
	})

	t.Run("clients repo", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := NewIdentity(t)
		bal, err := domain.ParseBalance("-170141183460469231731687303715884105728")
		require.NoError(t, err)

		c := domain.Client{Identity: id, Balance: bal, Status: domain.ClientDisabled}
		require.NoError(t, s.Clients().WriteClient(ctx, c))

		got, err := s.Clients().ReadClient(ctx, id)
		require.NoError(t, err)
		require.Equal(t, c, got)

		list, err := s.Clients().ListClients(ctx)
		require.NoError(t, err)
		require.Equal(t, []domain.Client{c}, list)

		require.NoError(t, s.Clients().RemoveClient(ctx, id))
		_, err = s.Clients().ReadClient(ctx, id)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("clients repo rejects invalid status", func(t *testing.T) {
		s := newStore(t)
		c := domain.Client{Identity: NewIdentity(t), Status: domain.ClientStatus(7)}
		require.ErrorIs(t, s.Clients().WriteClient(context.Background(), c), domain.ErrInvalidStatus)
	})

	t.Run("with tx commits", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := NewIdentity(t)

		err := s.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Admin().WriteAdmin(ctx, id); err != nil {
				return err
			}
			return tx.Clients().WriteClient(ctx, domain.NewClient(id, domain.NewBalance(10)))
		})
		require.NoError(t, err)

		got, err := s.Admin().ReadAdmin(ctx)
		require.NoError(t, err)
		require.Equal(t, id, got)

		ok, err := s.Clients().HasClient(ctx, id)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("with tx rolls back on error", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		id := NewIdentity(t)

		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Admin().WriteAdmin(ctx, id))

			// Writes are visible inside the transaction.
			ok, err := tx.Admin().HasAdmin(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		ok, err := s.Admin().HasAdmin(ctx)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("store usable after tx", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		tx, err := s.Tx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Set(ctx, store.AdminKey(), []byte("x")))
		require.NoError(t, tx.Commit())
		require.Error(t, tx.Rollback())

		tx, err = s.Tx(ctx)
		require.NoError(t, err)
		require.NoError(t, tx.Remove(ctx, store.AdminKey()))
		require.NoError(t, tx.Rollback())

		got, err := s.Get(ctx, store.AdminKey())
		require.NoError(t, err)
		require.Equal(t, []byte("x"), got)
	})

	t.Run("nested tx unsupported", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Tx(ctx)
			return err
		})
		require.Error(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Ping(context.Background()))
	})
}
