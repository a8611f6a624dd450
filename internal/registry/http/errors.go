package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/aussiebroadwan/registry/pkg/slogx"
)

// writeServiceError maps service and domain errors onto API errors.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyInitialized):
		registrysdk.ErrAlreadyInitialized.WriteError(w)
	case errors.Is(err, service.ErrUninitialized):
		registrysdk.ErrUninitialized.WriteError(w)
	case errors.Is(err, service.ErrUnauthorized):
		registrysdk.ErrUnauthorized.WriteError(w)
	case errors.Is(err, service.ErrClientNotFound):
		registrysdk.ErrClientNotFound.WriteError(w)
	case errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, domain.ErrInvalidBalance),
		errors.Is(err, httpx.ErrBadBody):
		registrysdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	default:
		slogx.FromContext(ctx).Error("unhandled service error", "error", err)
		registrysdk.ErrServerError.WriteError(w)
	}
}

// pathIdentity parses the {identity} wildcard.
func pathIdentity(r *http.Request) (domain.Identity, error) {
	return domain.ParseIdentity(r.PathValue("identity"))
}
