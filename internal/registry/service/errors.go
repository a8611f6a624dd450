package service

import (
	"errors"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/metrics"
)

var (
	ErrAlreadyInitialized = errors.New("admin already initialized")
	ErrUninitialized      = errors.New("admin not initialized")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrClientNotFound     = errors.New("client not found")
)

// Operation names used for metrics labels.
const (
	opBootstrap    = "bootstrap_admin"
	opGetAdmin     = "get_admin"
	opAddClient    = "add_client"
	opUpdateClient = "update_client"
	opRemoveClient = "remove_client"
	opGetClient    = "get_client"
	opListClients  = "list_clients"
)

// Outcome returns the short label for err used in metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrAlreadyInitialized):
		return "already_initialized"
	case errors.Is(err, ErrUninitialized):
		return "uninitialized"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrClientNotFound):
		return "client_not_found"
	default:
		return "error"
	}
}

func observe(m *metrics.Metrics, op string, start time.Time, err *error) {
	m.Observe(op, Outcome(*err), time.Since(start))
}
