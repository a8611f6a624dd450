package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
)

// ClientsHandler handles all client record endpoints.
type ClientsHandler struct {
	ClientService *service.ClientService
}

func toResponse(c domain.Client) registrysdk.ClientResponse {
	return registrysdk.ClientResponse{
		Identity: c.Identity.String(),
		Balance:  c.Balance.String(),
		Status:   c.Status.String(),
		Enabled:  c.Status.Enabled(),
	}
}

// HandleAdd handles PUT /v1/clients/{identity}
//
//	@Summary		Add or replace a client
//	@Description	Writes a fresh enabled record with the given balance. An existing record is replaced, status included.
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		RegistryProof
//	@Param			identity	path		string							true	"Client identity"
//	@Param			request		body		registrysdk.AddClientRequest	true	"Balance as a decimal string"
//	@Success		200			{object}	registrysdk.ClientResponse
//	@Failure		400			{object}	registrysdk.ErrorResponse	"invalid_request"
//	@Failure		401			{object}	registrysdk.ErrorResponse	"unauthorized"
//	@Failure		409			{object}	registrysdk.ErrorResponse	"uninitialized"
//	@Failure		500			{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/clients/{identity} [put].
func (h *ClientsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathIdentity(r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	var req registrysdk.AddClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	balance, err := domain.ParseBalance(req.Balance)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	c, err := h.ClientService.AddClient(ctx, id, balance)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

// HandleUpdate handles PATCH /v1/clients/{identity}
//
//	@Summary		Enable or disable a client
//	@Tags			Clients
//	@Accept			json
//	@Produce		json
//	@Security		RegistryProof
//	@Param			identity	path		string							true	"Client identity"
//	@Param			request		body		registrysdk.UpdateClientRequest	true	"New status"
//	@Success		200			{object}	registrysdk.ClientResponse
//	@Failure		400			{object}	registrysdk.ErrorResponse	"invalid_request"
//	@Failure		401			{object}	registrysdk.ErrorResponse	"unauthorized"
//	@Failure		404			{object}	registrysdk.ErrorResponse	"client_not_found"
//	@Failure		409			{object}	registrysdk.ErrorResponse	"uninitialized"
//	@Failure		500			{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/clients/{identity} [patch].
func (h *ClientsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathIdentity(r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	var req registrysdk.UpdateClientRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	if req.Enabled == nil {
		writeServiceError(ctx, w, fmt.Errorf("%w: enabled is required", httpx.ErrBadBody))
		return
	}

	c, err := h.ClientService.UpdateClient(ctx, id, *req.Enabled)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

// HandleRemove handles DELETE /v1/clients/{identity}
//
//	@Summary		Remove a client
//	@Tags			Clients
//	@Security		RegistryProof
//	@Param			identity	path	string	true	"Client identity"
//	@Success		204
//	@Failure		400	{object}	registrysdk.ErrorResponse	"invalid_request"
//	@Failure		401	{object}	registrysdk.ErrorResponse	"unauthorized"
//	@Failure		404	{object}	registrysdk.ErrorResponse	"client_not_found"
//	@Failure		409	{object}	registrysdk.ErrorResponse	"uninitialized"
//	@Failure		500	{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/clients/{identity} [delete].
func (h *ClientsHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathIdentity(r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	if err := h.ClientService.RemoveClient(ctx, id); err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /v1/clients/{identity}
//
//	@Summary		Get a client
//	@Tags			Clients
//	@Produce		json
//	@Param			identity	path		string	true	"Client identity"
//	@Success		200			{object}	registrysdk.ClientResponse
//	@Failure		400			{object}	registrysdk.ErrorResponse	"invalid_request"
//	@Failure		404			{object}	registrysdk.ErrorResponse	"client_not_found"
//	@Failure		500			{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/clients/{identity} [get].
func (h *ClientsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := pathIdentity(r)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}

	c, err := h.ClientService.GetClient(ctx, id)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toResponse(c))
}

// HandleList handles GET /v1/clients
//
//	@Summary		List clients
//	@Tags			Clients
//	@Produce		json
//	@Success		200	{object}	registrysdk.ListClientsResponse
//	@Failure		500	{object}	registrysdk.ErrorResponse	"server_error"
//	@Router			/v1/clients [get].
func (h *ClientsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	clients, err := h.ClientService.ListClients(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}

	resp := registrysdk.ListClientsResponse{Clients: make([]registrysdk.ClientResponse, 0, len(clients))}
	for _, c := range clients {
		resp.Clients = append(resp.Clients, toResponse(c))
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
