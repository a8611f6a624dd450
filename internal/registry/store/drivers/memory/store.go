// Package memory is an in-process store driver. It keeps everything in a map
// and is meant for tests and throwaway local instances.
package memory

import (
	"context"
	"errors"
	"maps"
	"slices"
	"strings"

	"github.com/aussiebroadwan/registry/internal/registry/store"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New("memory: transaction already committed or rolled back")

// Store keeps entries in a map. A single slot semaphore serializes access:
// plain calls hold it for one operation, transactions for their whole life.
type Store struct {
	sem  chan struct{}
	data map[string][]byte
}

func New() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: make(map[string][]byte),
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.sem }

func (s *Store) Has(ctx context.Context, key store.Key) (bool, error) {
	if err := s.acquire(ctx); err != nil {
		return false, err
	}
	defer s.release()
	return entries(s.data).has(key), nil
}

func (s *Store) Get(ctx context.Context, key store.Key) ([]byte, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	return entries(s.data).get(key)
}

func (s *Store) Set(ctx context.Context, key store.Key, value []byte) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	entries(s.data).set(key, value)
	return nil
}

func (s *Store) Remove(ctx context.Context, key store.Key) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	entries(s.data).remove(key)
	return nil
}

func (s *Store) List(ctx context.Context, kind store.Kind) ([]store.Entry, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	return entries(s.data).list(kind)
}

func (s *Store) Admin() store.Admin     { return store.NewAdmin(s) }
func (s *Store) Clients() store.Clients { return store.NewClients(s) }

func (s *Store) ApplyMigrations() error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// Tx takes the store exclusively and stages writes on a copy of the data.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	return &txStore{parent: s, staged: maps.Clone(s.data)}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// entries holds the map operations shared by the store and its transactions.
type entries map[string][]byte

func (e entries) has(key store.Key) bool {
	_, ok := e[key.String()]
	return ok
}

func (e entries) get(key store.Key) ([]byte, error) {
	v, ok := e[key.String()]
	if !ok {
		return nil, store.ErrNotFound
	}
	return slices.Clone(v), nil
}

func (e entries) set(key store.Key, value []byte) {
	e[key.String()] = slices.Clone(value)
}

func (e entries) remove(key store.Key) {
	delete(e, key.String())
}

func (e entries) list(kind store.Kind) ([]store.Entry, error) {
	prefix := kind.Prefix()
	keys := make([]string, 0, len(e))
	for k := range e {
		if k == prefix || (kind == store.KindClient && strings.HasPrefix(k, prefix)) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	out := make([]store.Entry, 0, len(keys))
	for _, k := range keys {
		key, err := store.ParseKey(k)
		if err != nil {
			return nil, err
		}
		out = append(out, store.Entry{Key: key, Value: slices.Clone(e[k])})
	}
	return out, nil
}
