package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/metrics"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/pkg/slogx"
)

// ClientService manages client records. Every mutation is gated by the
// admin and runs in a single transaction.
type ClientService struct {
	Store   store.Store
	Admin   *AdminService
	Metrics *metrics.Metrics
}

// AddClient writes a fresh Enabled record with balance for id. An existing
// record is replaced, status included.
func (s *ClientService) AddClient(ctx context.Context, id domain.Identity, balance domain.Balance) (c domain.Client, err error) {
	defer observe(s.Metrics, opAddClient, time.Now(), &err)
	if err := id.Validate(); err != nil {
		return domain.Client{}, err
	}

	inv := auth.NewInvocation(auth.OpAddClient, id.String(), balance.String())
	c = domain.NewClient(id, balance)

	err = s.Admin.guarded(ctx, inv, func(tx store.Tx) error {
		return tx.Clients().WriteClient(ctx, c)
	})
	if err != nil {
		s.logFailure(ctx, inv.Op, id, err)
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client added",
		slog.String("identity", id.String()),
		slog.String("balance", balance.String()),
	)
	return c, nil
}

// UpdateClient sets the status of an existing record. The balance is kept.
func (s *ClientService) UpdateClient(ctx context.Context, id domain.Identity, enabled bool) (c domain.Client, err error) {
	defer observe(s.Metrics, opUpdateClient, time.Now(), &err)
	if err := id.Validate(); err != nil {
		return domain.Client{}, err
	}

	inv := auth.NewInvocation(auth.OpUpdateClient, id.String(), strconv.FormatBool(enabled))

	err = s.Admin.guarded(ctx, inv, func(tx store.Tx) error {
		existing, err := tx.Clients().ReadClient(ctx, id)
		if err != nil {
			if store.IsNotFound(err) {
				return ErrClientNotFound
			}
			return err
		}

		existing.Status = domain.StatusFromEnabled(enabled)
		if err := tx.Clients().WriteClient(ctx, existing); err != nil {
			return err
		}
		c = existing
		return nil
	})
	if err != nil {
		s.logFailure(ctx, inv.Op, id, err)
		return domain.Client{}, err
	}

	slogx.FromContext(ctx).Info("client updated",
		slog.String("identity", id.String()),
		slog.String("status", c.Status.String()),
	)
	return c, nil
}

// RemoveClient deletes an existing record.
func (s *ClientService) RemoveClient(ctx context.Context, id domain.Identity) (err error) {
	defer observe(s.Metrics, opRemoveClient, time.Now(), &err)
	if err := id.Validate(); err != nil {
		return err
	}

	inv := auth.NewInvocation(auth.OpRemoveClient, id.String())

	err = s.Admin.guarded(ctx, inv, func(tx store.Tx) error {
		exists, err := tx.Clients().HasClient(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrClientNotFound
		}
		return tx.Clients().RemoveClient(ctx, id)
	})
	if err != nil {
		s.logFailure(ctx, inv.Op, id, err)
		return err
	}

	slogx.FromContext(ctx).Info("client removed", slog.String("identity", id.String()))
	return nil
}

// GetClient returns the record for id. It needs no authorization.
func (s *ClientService) GetClient(ctx context.Context, id domain.Identity) (c domain.Client, err error) {
	defer observe(s.Metrics, opGetClient, time.Now(), &err)

	c, err = s.Store.Clients().ReadClient(ctx, id)
	if err != nil {
		if store.IsNotFound(err) {
			return domain.Client{}, ErrClientNotFound
		}
		return domain.Client{}, err
	}
	return c, nil
}

// ListClients returns every record ordered by identity.
func (s *ClientService) ListClients(ctx context.Context) (clients []domain.Client, err error) {
	defer observe(s.Metrics, opListClients, time.Now(), &err)
	return s.Store.Clients().ListClients(ctx)
}

func (s *ClientService) logFailure(ctx context.Context, op string, id domain.Identity, err error) {
	l := slogx.FromContext(ctx)
	attrs := []any{slog.String("op", op), slog.String("identity", id.String()), slog.Any("error", err)}

	switch {
	case errors.Is(err, ErrUnauthorized):
		// Already logged by RequireAdmin.
	case errors.Is(err, ErrUninitialized), errors.Is(err, ErrClientNotFound):
		l.Info("client operation rejected", attrs...)
	default:
		l.Error("client operation failed", attrs...)
	}
}
