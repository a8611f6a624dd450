package app

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/stretchr/testify/require"
)

// startApp serves cfg on a loopback port and stops it with the test.
func startApp(t *testing.T, cfg Config) string {
	t.Helper()

	app, err := New(cfg)
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("application did not stop")
		}
	})

	return "http://" + ln.Addr().String()
}

func TestApplicationServes(t *testing.T) {
	tests := map[string]func(t *testing.T) Config{
		"memory": func(t *testing.T) Config {
			cfg := DefaultConfig()
			cfg.StoreDriver = DriverMemory
			return cfg
		},
		"sqlite": func(t *testing.T) Config {
			cfg := DefaultConfig()
			cfg.DatabaseFile = filepath.Join(t.TempDir(), "registry.db")
			return cfg
		},
	}

	for name, newConfig := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := newConfig(t)
			cfg.Instance = "app-test"
			cfg.LogLevel = "error"
			url := startApp(t, cfg)

			_, priv, err := ed25519.GenerateKey(rand.Reader)
			require.NoError(t, err)
			signer, err := jwtx.NewSigner(priv)
			require.NoError(t, err)

			c := registrysdk.NewClient(url)
			c.Signer = signer
			c.Audience = cfg.Instance
			ctx := context.Background()

			ready, err := c.GetReadiness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", ready.Status)
			require.Equal(t, BuildVersion, ready.Version)

			_, err = c.Bootstrap(ctx, "", c.Identity())
			require.NoError(t, err)

			_, err = c.AddClient(ctx, c.Identity(), "42")
			require.NoError(t, err)

			got, err := c.GetClient(ctx, c.Identity())
			require.NoError(t, err)
			require.Equal(t, "42", got.Balance)
		})
	}
}

func TestSQLiteStatePersists(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "registry.db")
	cfg.LogLevel = "error"

	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	id := domain.IdentityFromPublicKey(pub)

	first, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, first.adminService.Bootstrap(ctx, id))
	require.NoError(t, first.closeResources())

	second, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.closeResources() })

	got, err := second.adminService.GetAdmin(ctx)
	require.NoError(t, err)
	require.Equal(t, id, got)
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StoreDriver = "postgres"
	_, err := New(cfg)
	require.Error(t, err)
}
