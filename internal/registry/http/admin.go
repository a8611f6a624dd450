package http

import (
	"net/http"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/pkg/cryptox"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/aussiebroadwan/registry/pkg/slogx"
)

type AdminHandler struct {
	AdminService *service.AdminService

	// BootstrapToken, when set, must be presented in X-Bootstrap-Token.
	BootstrapToken string
}

// HandleBootstrap handles POST /v1/admin
//
//	@Summary		Bootstrap the admin identity
//	@Description	Stores the admin identity. Succeeds only once per registry. When the server is configured with a bootstrap token it must be supplied in X-Bootstrap-Token.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			X-Bootstrap-Token	header		string							false	"Bootstrap token, if configured"
//	@Param			request				body		registrysdk.BootstrapRequest	true	"Admin identity"
//	@Success		201					{object}	registrysdk.AdminResponse
//	@Failure		400					{object}	registrysdk.ErrorResponse	"invalid_request"
//	@Failure		401					{object}	registrysdk.ErrorResponse	"unauthorized - bad bootstrap token"
//	@Failure		409					{object}	registrysdk.ErrorResponse	"already_initialized"
//	@Failure		500					{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/admin [post].
func (h *AdminHandler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.BootstrapToken != "" {
		token := r.Header.Get(registrysdk.BootstrapTokenHeader)
		if !cryptox.TokensEqual(token, h.BootstrapToken) {
			slogx.FromContext(ctx).Warn("bootstrap attempted with bad token")
			registrysdk.ErrUnauthorized.WithDescription("valid bootstrap token is required in X-Bootstrap-Token header").WriteError(w)
			return
		}
	}

	var req registrysdk.BootstrapRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	id, err := domain.ParseIdentity(req.Identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	if err := h.AdminService.Bootstrap(ctx, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registrysdk.AdminResponse{Identity: id.String()})
}

// HandleGet handles GET /v1/admin
//
//	@Summary		Get the admin identity
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{object}	registrysdk.AdminResponse
//	@Failure		409	{object}	registrysdk.ErrorResponse	"uninitialized"
//	@Failure		500	{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/admin [get].
func (h *AdminHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := h.AdminService.GetAdmin(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, registrysdk.AdminResponse{Identity: id.String()})
}
