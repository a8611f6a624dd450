package registrysdk

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	// Error is the machine readable code (e.g., "client_not_found")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status   string        `json:"status"`
	Uptime   string        `json:"uptime"`
	Version  string        `json:"version"`
	Instance string        `json:"instance,omitempty"`
	Checks   *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Store string `json:"store"`
}

// BootstrapRequest names the identity that becomes admin.
type BootstrapRequest struct {
	Identity string `json:"identity"`
}

// AdminResponse carries the admin identity.
type AdminResponse struct {
	Identity string `json:"identity"`
}

// AddClientRequest is the body of PUT /v1/clients/{identity}.
type AddClientRequest struct {
	// Balance is a signed 128-bit integer in decimal form.
	Balance string `json:"balance"`
}

// UpdateClientRequest is the body of PATCH /v1/clients/{identity}.
type UpdateClientRequest struct {
	// Enabled is required. A body without it is rejected.
	Enabled *bool `json:"enabled"`
}

// ClientResponse is a single client record.
type ClientResponse struct {
	Identity string `json:"identity"`
	Balance  string `json:"balance"`
	Status   string `json:"status"`
	Enabled  bool   `json:"enabled"`
}

// ListClientsResponse lists every client ordered by identity.
type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}
