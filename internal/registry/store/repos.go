package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
)

type Admin interface {
	// HasAdmin reports whether the admin has been bootstrapped.
	HasAdmin(ctx context.Context) (bool, error)

	// ReadAdmin returns the admin identity, or ErrNotFound.
	ReadAdmin(ctx context.Context) (domain.Identity, error)

	// WriteAdmin stores the admin identity.
	WriteAdmin(ctx context.Context, id domain.Identity) error
}

type Clients interface {
	HasClient(ctx context.Context, id domain.Identity) (bool, error)

	// ReadClient returns the record for id, or ErrNotFound.
	ReadClient(ctx context.Context, id domain.Identity) (domain.Client, error)

	// WriteClient replaces the whole record for c.Identity.
	WriteClient(ctx context.Context, c domain.Client) error

	RemoveClient(ctx context.Context, id domain.Identity) error

	// ListClients returns every record ordered by identity.
	ListClients(ctx context.Context) ([]domain.Client, error)
}

// NewAdmin returns the admin repo over kv.
func NewAdmin(kv KV) Admin { return &adminRepo{kv: kv} }

// NewClients returns the clients repo over kv.
func NewClients(kv KV) Clients { return &clientsRepo{kv: kv} }

type adminRepo struct {
	kv KV
}

func (r *adminRepo) HasAdmin(ctx context.Context) (bool, error) {
	return r.kv.Has(ctx, AdminKey())
}

func (r *adminRepo) ReadAdmin(ctx context.Context) (domain.Identity, error) {
	raw, err := r.kv.Get(ctx, AdminKey())
	if err != nil {
		return "", err
	}
	id, err := domain.ParseIdentity(string(raw))
	if err != nil {
		return "", fmt.Errorf("store: corrupt admin entry: %w", err)
	}
	return id, nil
}

func (r *adminRepo) WriteAdmin(ctx context.Context, id domain.Identity) error {
	return r.kv.Set(ctx, AdminKey(), []byte(id.String()))
}

// clientRecord is the stored value of a client key. The identity is the key
// itself and is not repeated.
type clientRecord struct {
	Balance domain.Balance      `json:"balance"`
	Status  domain.ClientStatus `json:"status"`
}

type clientsRepo struct {
	kv KV
}

func (r *clientsRepo) HasClient(ctx context.Context, id domain.Identity) (bool, error) {
	return r.kv.Has(ctx, ClientKey(id))
}

func (r *clientsRepo) ReadClient(ctx context.Context, id domain.Identity) (domain.Client, error) {
	raw, err := r.kv.Get(ctx, ClientKey(id))
	if err != nil {
		return domain.Client{}, err
	}
	return decodeClient(id, raw)
}

func (r *clientsRepo) WriteClient(ctx context.Context, c domain.Client) error {
	if !c.Status.Valid() {
		return domain.ErrInvalidStatus
	}
	raw, err := json.Marshal(clientRecord{Balance: c.Balance, Status: c.Status})
	if err != nil {
		return fmt.Errorf("store: encode client: %w", err)
	}
	return r.kv.Set(ctx, ClientKey(c.Identity), raw)
}

func (r *clientsRepo) RemoveClient(ctx context.Context, id domain.Identity) error {
	return r.kv.Remove(ctx, ClientKey(id))
}

func (r *clientsRepo) ListClients(ctx context.Context) ([]domain.Client, error) {
	entries, err := r.kv.List(ctx, KindClient)
	if err != nil {
		return nil, err
	}

	clients := make([]domain.Client, 0, len(entries))
	for _, e := range entries {
		c, err := decodeClient(e.Key.Identity(), e.Value)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

func decodeClient(id domain.Identity, raw []byte) (domain.Client, error) {
	var rec clientRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return domain.Client{}, fmt.Errorf("store: corrupt client entry %s: %w", id, err)
	}
	return domain.Client{Identity: id, Balance: rec.Balance, Status: rec.Status}, nil
}

// IsNotFound is shorthand for errors.Is(err, ErrNotFound).
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
