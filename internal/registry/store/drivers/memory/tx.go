package memory

import (
	"context"

	"github.com/aussiebroadwan/registry/internal/registry/store"
)

type txStore struct {
	parent *Store
	staged entries
	done   bool
}

func (t *txStore) Has(ctx context.Context, key store.Key) (bool, error) {
	if t.done {
		return false, ErrTxDone
	}
	return t.staged.has(key), nil
}

func (t *txStore) Get(ctx context.Context, key store.Key) ([]byte, error) {
	if t.done {
		return nil, ErrTxDone
	}
	return t.staged.get(key)
}

func (t *txStore) Set(ctx context.Context, key store.Key, value []byte) error {
	if t.done {
		return ErrTxDone
	}
	t.staged.set(key, value)
	return nil
}

func (t *txStore) Remove(ctx context.Context, key store.Key) error {
	if t.done {
		return ErrTxDone
	}
	t.staged.remove(key)
	return nil
}

func (t *txStore) List(ctx context.Context, kind store.Kind) ([]store.Entry, error) {
	if t.done {
		return nil, ErrTxDone
	}
	return t.staged.list(kind)
}

// Commit publishes the staged map and releases the store.
func (t *txStore) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.parent.data = t.staged
	t.done = true
	t.parent.release()
	return nil
}

// Rollback drops the staged map and releases the store.
func (t *txStore) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.staged = nil
	t.done = true
	t.parent.release()
	return nil
}

func (t *txStore) Admin() store.Admin     { return store.NewAdmin(t) }
func (t *txStore) Clients() store.Clients { return store.NewClients(t) }

func (t *txStore) ApplyMigrations() error { return nil }

func (t *txStore) Close() error { return nil }

func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return ErrTxDone
}
