package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("store: not found")

// Entry is a raw key/value pair.
type Entry struct {
	Key   Key
	Value []byte
}

// KV is the persistent key-value collaborator. Drivers implement it both on
// the root store and on transactions.
type KV interface {
	// Has reports whether key is present.
	Has(ctx context.Context, key Key) (bool, error)

	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set writes the whole value, replacing any previous one.
	Set(ctx context.Context, key Key, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key Key) error

	// List returns every entry of kind ordered by key.
	List(ctx context.Context, kind Kind) ([]Entry, error)
}

// Store is the root data access interface. Concrete drivers (sqlite, memory)
// implement this. The typed repos are views over the same KV.
type Store interface {
	KV

	Admin() Admin
	Clients() Clients

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back and nothing fn wrote is visible; otherwise
	// it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}
