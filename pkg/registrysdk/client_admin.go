package registrysdk

import (
	"context"
	"net/http"
)

// Bootstrap makes identity the admin. token is only needed when the server
// was started with a bootstrap token.
func (c *Client) Bootstrap(ctx context.Context, token, identity string) (*AdminResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/admin",
		BootstrapRequest{Identity: identity},
		map[string]string{BootstrapTokenHeader: token},
	)
	if err != nil {
		return nil, err
	}

	var admin AdminResponse
	if err := decodeJSON(resp, &admin, http.StatusCreated); err != nil {
		return nil, err
	}

	return &admin, nil
}

// GetAdmin returns the admin identity.
func (c *Client) GetAdmin(ctx context.Context) (*AdminResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/admin", nil, nil)
	if err != nil {
		return nil, err
	}

	var admin AdminResponse
	if err := decodeJSON(resp, &admin, http.StatusOK); err != nil {
		return nil, err
	}

	return &admin, nil
}
