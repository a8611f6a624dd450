package registrysdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/registry/pkg/httpx"
)

const (
	ErrorCodeAlreadyInitialized = "already_initialized"
	ErrorCodeUninitialized      = "uninitialized"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeClientNotFound     = "client_not_found"
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeRateLimitExceeded  = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// APIError is an error response from the registry. It is used both by the
// server to write responses and by the client to represent them.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches any *APIError with the same code, so callers can compare a
// decoded response against the predefined errors.
func (e *APIError) Is(target error) bool {
	var t *APIError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WriteError writes this error to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// WithDescription returns a copy of e carrying desc.
func (e *APIError) WithDescription(desc string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

var (
	// ErrAlreadyInitialized is returned by bootstrap once an admin exists.
	ErrAlreadyInitialized = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeAlreadyInitialized,
		Description: "admin already initialized",
	}

	// ErrUninitialized is returned by admin reads and mutations before bootstrap.
	ErrUninitialized = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUninitialized,
		Description: "admin not initialized",
	}

	// ErrUnauthorized is returned when the admin proof is missing or invalid.
	ErrUnauthorized = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeUnauthorized,
		Description: "valid authorization proof from the admin is required",
	}

	// ErrClientNotFound is returned for operations on an unknown client.
	ErrClientNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeClientNotFound,
		Description: "client not found",
	}

	// ErrInvalidRequest is returned when the request is malformed.
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	// ErrRateLimited is returned when the caller exceeded its request budget.
	ErrRateLimited = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "too many requests",
	}

	// ErrServerError is returned when the service hit an unexpected condition.
	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}

	// ErrNoSigner is returned locally when a mutation is attempted without
	// a signer configured.
	ErrNoSigner = errors.New("registrysdk: signer and audience required for mutations")
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	// Fallback: create generic error from status code
	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
