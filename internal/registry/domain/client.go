package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidStatus = errors.New("invalid client status")

// ClientStatus is a closed two-valued enumeration.
type ClientStatus uint32

const (
	ClientEnabled  ClientStatus = 0
	ClientDisabled ClientStatus = 1
)

// StatusFromEnabled maps the update flag onto a status.
func StatusFromEnabled(enabled bool) ClientStatus {
	if enabled {
		return ClientEnabled
	}
	return ClientDisabled
}

func (s ClientStatus) Valid() bool {
	return s == ClientEnabled || s == ClientDisabled
}

func (s ClientStatus) Enabled() bool { return s == ClientEnabled }

func (s ClientStatus) String() string {
	switch s {
	case ClientEnabled:
		return "enabled"
	case ClientDisabled:
		return "disabled"
	default:
		return fmt.Sprintf("ClientStatus(%d)", uint32(s))
	}
}

func (s ClientStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrInvalidStatus
	}
	return []byte(s.String()), nil
}

func (s *ClientStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "enabled":
		*s = ClientEnabled
	case "disabled":
		*s = ClientDisabled
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, text)
	}
	return nil
}

// Client is a registry record. Its existence is exactly the presence of its
// key in the store.
type Client struct {
	Identity Identity
	Balance  Balance
	Status   ClientStatus
}

// NewClient builds a freshly added record, which always starts enabled.
func NewClient(id Identity, balance Balance) Client {
	return Client{Identity: id, Balance: balance, Status: ClientEnabled}
}
