package registrysdk

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
)

// AddClient creates or replaces the record for identity with balance and
// status enabled. balance is a decimal signed 128-bit integer.
// Requires: admin signer
func (c *Client) AddClient(ctx context.Context, identity, balance string) (*ClientResponse, error) {
	// The server signs over the canonical form, so "+05" must become "5".
	n, ok := new(big.Int).SetString(strings.TrimSpace(balance), 10)
	if !ok {
		return nil, fmt.Errorf("registrysdk: invalid balance %q", balance)
	}
	balance = n.String()

	proof, err := c.proof(OpAddClient, identity, balance)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPut, clientPath(identity),
		AddClientRequest{Balance: balance},
		map[string]string{ProofHeader: proof},
	)
	if err != nil {
		return nil, err
	}

	var client ClientResponse
	if err := decodeJSON(resp, &client, http.StatusOK); err != nil {
		return nil, err
	}

	return &client, nil
}

// UpdateClient enables or disables an existing client.
// Requires: admin signer
func (c *Client) UpdateClient(ctx context.Context, identity string, enabled bool) (*ClientResponse, error) {
	proof, err := c.proof(OpUpdateClient, identity, strconv.FormatBool(enabled))
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPatch, clientPath(identity),
		UpdateClientRequest{Enabled: &enabled},
		map[string]string{ProofHeader: proof},
	)
	if err != nil {
		return nil, err
	}

	var client ClientResponse
	if err := decodeJSON(resp, &client, http.StatusOK); err != nil {
		return nil, err
	}

	return &client, nil
}

// RemoveClient deletes an existing client.
// Requires: admin signer
func (c *Client) RemoveClient(ctx context.Context, identity string) error {
	proof, err := c.proof(OpRemoveClient, identity)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodDelete, clientPath(identity), nil,
		map[string]string{ProofHeader: proof},
	)
	if err != nil {
		return err
	}

	return checkStatusNoContent(resp)
}

// GetClient returns the record for identity.
func (c *Client) GetClient(ctx context.Context, identity string) (*ClientResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, clientPath(identity), nil, nil)
	if err != nil {
		return nil, err
	}

	var client ClientResponse
	if err := decodeJSON(resp, &client, http.StatusOK); err != nil {
		return nil, err
	}

	return &client, nil
}

// ListClients returns every client ordered by identity.
func (c *Client) ListClients(ctx context.Context) (*ListClientsResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/clients", nil, nil)
	if err != nil {
		return nil, err
	}

	var list ListClientsResponse
	if err := decodeJSON(resp, &list, http.StatusOK); err != nil {
		return nil, err
	}

	return &list, nil
}
