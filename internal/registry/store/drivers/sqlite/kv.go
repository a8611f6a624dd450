package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/registry/internal/registry/store"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const (
	hasEntry = `SELECT EXISTS(SELECT 1 FROM entries WHERE key = ?)`
	getEntry = `SELECT value FROM entries WHERE key = ?`
	setEntry = `INSERT INTO entries (key, kind, value) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	removeEntry = `DELETE FROM entries WHERE key = ?`
	listEntries = `SELECT key, value FROM entries WHERE kind = ? ORDER BY key`
)

type kv struct {
	q querier
}

func (k *kv) Has(ctx context.Context, key store.Key) (bool, error) {
	var exists bool
	if err := k.q.QueryRowContext(ctx, hasEntry, key.String()).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (k *kv) Get(ctx context.Context, key store.Key) ([]byte, error) {
	var value []byte
	if err := k.q.QueryRowContext(ctx, getEntry, key.String()).Scan(&value); err != nil {
		return nil, mapNotFound(err)
	}
	return value, nil
}

func (k *kv) Set(ctx context.Context, key store.Key, value []byte) error {
	_, err := k.q.ExecContext(ctx, setEntry, key.String(), string(key.Kind()), value)
	return err
}

func (k *kv) Remove(ctx context.Context, key store.Key) error {
	_, err := k.q.ExecContext(ctx, removeEntry, key.String())
	return err
}

func (k *kv) List(ctx context.Context, kind store.Kind) ([]store.Entry, error) {
	rows, err := k.q.QueryContext(ctx, listEntries, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		var (
			rawKey string
			value  []byte
		)
		if err := rows.Scan(&rawKey, &value); err != nil {
			return nil, err
		}
		key, err := store.ParseKey(rawKey)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		entries = append(entries, store.Entry{Key: key, Value: value})
	}
	return entries, rows.Err()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}
