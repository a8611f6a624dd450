package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/metrics"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/pkg/slogx"
)

// AdminService owns the single admin identity and gates privileged calls
// behind proof from it.
type AdminService struct {
	Store      store.Store
	Authorizer auth.Authorizer
	Metrics    *metrics.Metrics
}

// Bootstrap stores id as the admin. It succeeds at most once per store.
func (s *AdminService) Bootstrap(ctx context.Context, id domain.Identity) (err error) {
	defer observe(s.Metrics, opBootstrap, time.Now(), &err)
	l := slogx.FromContext(ctx)

	if err := id.Validate(); err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		exists, err := tx.Admin().HasAdmin(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyInitialized
		}
		return tx.Admin().WriteAdmin(ctx, id)
	})
	switch {
	case errors.Is(err, ErrAlreadyInitialized):
		l.Warn("attempted bootstrap on already-initialized registry", slog.String("identity", id.String()))
		return err
	case err != nil:
		l.Error("failed to bootstrap admin", slog.Any("error", err))
		return err
	}

	l.Info("admin bootstrapped", slog.String("identity", id.String()))
	return nil
}

// GetAdmin returns the admin identity. It needs no authorization.
func (s *AdminService) GetAdmin(ctx context.Context) (id domain.Identity, err error) {
	defer observe(s.Metrics, opGetAdmin, time.Now(), &err)

	id, err = s.Store.Admin().ReadAdmin(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return "", ErrUninitialized
		}
		slogx.FromContext(ctx).Error("failed to read admin", slog.Any("error", err))
		return "", err
	}
	return id, nil
}

// RequireAdmin loads the admin inside tx and demands proof from it for inv.
// It must run before any write of the surrounding transaction.
func (s *AdminService) RequireAdmin(ctx context.Context, tx store.Tx, inv auth.Invocation) (domain.Identity, error) {
	admin, err := tx.Admin().ReadAdmin(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return "", ErrUninitialized
		}
		return "", err
	}

	if err := s.Authorizer.RequireAuth(ctx, admin, inv); err != nil {
		slogx.FromContext(ctx).Warn("admin authorization rejected",
			slog.String("op", inv.Op),
			slog.Any("error", err),
		)
		return "", fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return admin, nil
}

// guarded runs fn in one transaction behind RequireAdmin. A proof accepted by
// the check stays spent only if the transaction commits.
func (s *AdminService) guarded(ctx context.Context, inv auth.Invocation, fn func(tx store.Tx) error) error {
	ctx, spend := auth.TrackSpend(ctx)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := s.RequireAdmin(ctx, tx, inv); err != nil {
			return err
		}
		return fn(tx)
	})
	spend.Settle(err == nil)
	return err
}
