//go:build e2e

package registry_test

import (
	"testing"

	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/stretchr/testify/require"
)

// TestBootstrapOnce verifies the admin can only be set a single time.
func TestBootstrapOnce(t *testing.T) {
	baseURL, cleanup := setupRegistryContainer(t, relaxedLimits)
	defer cleanup()

	admin := newKeyClient(t, baseURL)

	_, err := admin.GetAdmin(t.Context())
	require.ErrorIs(t, err, registrysdk.ErrUninitialized)

	bootstrapAdmin(t, admin)

	other := newKeyClient(t, baseURL)
	_, err = other.Bootstrap(t.Context(), bootstrapToken, other.Identity())
	require.ErrorIs(t, err, registrysdk.ErrAlreadyInitialized)

	got, err := other.GetAdmin(t.Context())
	require.NoError(t, err)
	require.Equal(t, admin.Identity(), got.Identity)
}

// TestBootstrapRequiresToken verifies the configured bootstrap token gates the endpoint.
func TestBootstrapRequiresToken(t *testing.T) {
	baseURL, cleanup := setupRegistryContainer(t, relaxedLimits)
	defer cleanup()

	admin := newKeyClient(t, baseURL)

	_, err := admin.Bootstrap(t.Context(), "", admin.Identity())
	require.ErrorIs(t, err, registrysdk.ErrUnauthorized)

	_, err = admin.Bootstrap(t.Context(), "wrong-token", admin.Identity())
	require.ErrorIs(t, err, registrysdk.ErrUnauthorized)

	bootstrapAdmin(t, admin)
}
