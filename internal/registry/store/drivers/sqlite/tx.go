package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/registry/internal/registry/store"
)

type txStore struct {
	*kv

	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{
		kv: &kv{q: tx},
		tx: tx,
	}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open

// Ping is a no-op for transactions; the connection is already held.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Admin() store.Admin     { return store.NewAdmin(t) }
func (t *txStore) Clients() store.Clients { return store.NewClients(t) }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx
