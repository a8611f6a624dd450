package http

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/auth"
	"github.com/aussiebroadwan/registry/internal/registry/metrics"
	"github.com/aussiebroadwan/registry/internal/registry/service"
	"github.com/aussiebroadwan/registry/internal/registry/store"
	"github.com/aussiebroadwan/registry/internal/registry/store/drivers/memory"
	"github.com/aussiebroadwan/registry/internal/registry/store/drivers/sqlite"
	"github.com/aussiebroadwan/registry/pkg/httpx"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/aussiebroadwan/registry/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const testInstance = "registry-test"

var newStores = map[string]func(t *testing.T) store.Store{
	"sqlite": func(t *testing.T) store.Store {
		s, err := sqlite.NewStore(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		require.NoError(t, s.ApplyMigrations())
		return s
	},
	"memory": func(t *testing.T) store.Store {
		return memory.New()
	},
}

type testServer struct {
	*httptest.Server
	store   store.Store
	metrics *metrics.Metrics
}

type serverOption func(*Router)

func withBootstrapToken(token string) serverOption {
	return func(r *Router) { r.BootstrapToken = token }
}

func withLimits(l Limits) serverOption {
	return func(r *Router) { r.limits = l }
}

func newTestServer(t *testing.T, st store.Store, opts ...serverOption) *testServer {
	t.Helper()

	nonces := auth.NewNonceCache(0)
	t.Cleanup(nonces.Close)

	m := metrics.New()
	admin := &service.AdminService{
		Store: st,
		Authorizer: &auth.ProofAuthorizer{
			Audience: testInstance,
			MaxAge:   jwtx.DefaultMaxProofAge,
			Leeway:   5 * time.Second,
			Nonces:   nonces,
		},
		Metrics: m,
	}

	// Rate limits are off unless a test asks for them
	r := NewRouter(testInstance, "test", st, Limits{}, slogx.Discard())
	r.Metrics = m
	r.AdminService = admin
	r.ClientService = &service.ClientService{Store: st, Admin: admin, Metrics: m}
	for _, opt := range opts {
		opt(r)
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, store: st, metrics: m}
}

func newSigner(t *testing.T) *jwtx.Signer {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	s, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	return s
}

// sdk returns a client signing proofs with signer, or an anonymous one.
func (s *testServer) sdk(signer *jwtx.Signer) *registrysdk.Client {
	c := registrysdk.NewClient(s.URL)
	c.Signer = signer
	c.Audience = testInstance
	return c
}

func TestHealthEndpoints(t *testing.T) {
	for name, newStore := range newStores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			srv := newTestServer(t, newStore(t))
			c := srv.sdk(nil)

			live, err := c.GetLiveness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", live.Status)
			require.Equal(t, testInstance, live.Instance)

			ready, err := c.GetReadiness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", ready.Status)
			require.NotNil(t, ready.Checks)
			require.Equal(t, "ok", ready.Checks.Store)
		})
	}
}

func TestReadyzDegraded(t *testing.T) {
	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	srv := newTestServer(t, st)
	require.NoError(t, st.Close())

	resp, err := http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	var body registrysdk.HealthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "degraded", body.Status)
}

func TestBootstrapEndpoint(t *testing.T) {
	for name, newStore := range newStores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			srv := newTestServer(t, newStore(t))
			admin := newSigner(t)
			c := srv.sdk(admin)

			_, err := c.GetAdmin(ctx)
			require.ErrorIs(t, err, registrysdk.ErrUninitialized)

			got, err := c.Bootstrap(ctx, "", admin.KID())
			require.NoError(t, err)
			require.Equal(t, admin.KID(), got.Identity)

			_, err = c.Bootstrap(ctx, "", newSigner(t).KID())
			require.ErrorIs(t, err, registrysdk.ErrAlreadyInitialized)

			got, err = c.GetAdmin(ctx)
			require.NoError(t, err)
			require.Equal(t, admin.KID(), got.Identity)
		})
	}
}

func TestBootstrapRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	c := srv.sdk(nil)

	_, err := c.Bootstrap(ctx, "", "not-a-key")
	require.ErrorIs(t, err, registrysdk.ErrInvalidRequest)

	resp, err := http.Post(srv.URL+"/v1/admin", "application/json", strings.NewReader(`{"identity":"x","extra":1}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, err = c.GetAdmin(ctx)
	require.ErrorIs(t, err, registrysdk.ErrUninitialized)
}

func TestBootstrapToken(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New(), withBootstrapToken("s3cret"))
	admin := newSigner(t)
	c := srv.sdk(admin)

	_, err := c.Bootstrap(ctx, "", admin.KID())
	require.ErrorIs(t, err, registrysdk.ErrUnauthorized)

	_, err = c.Bootstrap(ctx, "wrong", admin.KID())
	require.ErrorIs(t, err, registrysdk.ErrUnauthorized)

	_, err = c.Bootstrap(ctx, "s3cret", admin.KID())
	require.NoError(t, err)
}

func TestClientLifecycleOverHTTP(t *testing.T) {
	for name, newStore := range newStores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			srv := newTestServer(t, newStore(t))
			admin := newSigner(t)
			c := srv.sdk(admin)
			client := newSigner(t).KID()

			_, err := c.AddClient(ctx, client, "100")
			require.ErrorIs(t, err, registrysdk.ErrUninitialized)

			_, err = c.Bootstrap(ctx, "", admin.KID())
			require.NoError(t, err)

			added, err := c.AddClient(ctx, client, " -170141183460469231731687303715884105728 ")
			require.NoError(t, err)
			require.Equal(t, "-170141183460469231731687303715884105728", added.Balance)
			require.True(t, added.Enabled)

			updated, err := c.UpdateClient(ctx, client, false)
			require.NoError(t, err)
			require.False(t, updated.Enabled)
			require.Equal(t, added.Balance, updated.Balance)

			got, err := c.GetClient(ctx, client)
			require.NoError(t, err)
			require.Equal(t, updated, got)

			list, err := c.ListClients(ctx)
			require.NoError(t, err)
			require.Len(t, list.Clients, 1)

			require.NoError(t, c.RemoveClient(ctx, client))

			_, err = c.GetClient(ctx, client)
			require.ErrorIs(t, err, registrysdk.ErrClientNotFound)
			_, err = c.UpdateClient(ctx, client, true)
			require.ErrorIs(t, err, registrysdk.ErrClientNotFound)
			require.ErrorIs(t, c.RemoveClient(ctx, client), registrysdk.ErrClientNotFound)
		})
	}
}

func TestMutationsNeedAdminProof(t *testing.T) {
	for name, newStore := range newStores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			srv := newTestServer(t, newStore(t))
			admin := newSigner(t)
			client := newSigner(t).KID()

			_, err := srv.sdk(admin).Bootstrap(ctx, "", admin.KID())
			require.NoError(t, err)
			_, err = srv.sdk(admin).AddClient(ctx, client, "7")
			require.NoError(t, err)

			// Signed by someone other than the admin
			intruder := srv.sdk(newSigner(t))
			_, err = intruder.AddClient(ctx, client, "1000")
			require.ErrorIs(t, err, registrysdk.ErrUnauthorized)
			_, err = intruder.UpdateClient(ctx, client, false)
			require.ErrorIs(t, err, registrysdk.ErrUnauthorized)
			require.ErrorIs(t, intruder.RemoveClient(ctx, client), registrysdk.ErrUnauthorized)

			// Admin key but issued for another instance
			elsewhere := srv.sdk(admin)
			elsewhere.Audience = "other-instance"
			_, err = elsewhere.AddClient(ctx, client, "1000")
			require.ErrorIs(t, err, registrysdk.ErrUnauthorized)

			// No proof at all
			req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/clients/"+client, nil)
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			got, err := srv.sdk(nil).GetClient(ctx, client)
			require.NoError(t, err)
			require.Equal(t, "7", got.Balance)
			require.True(t, got.Enabled)
		})
	}
}

func TestProofIsBoundToInvocation(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	admin := newSigner(t)
	client := newSigner(t).KID()

	_, err := srv.sdk(admin).Bootstrap(ctx, "", admin.KID())
	require.NoError(t, err)

	// Proof signed for balance 1 but sent with balance 1000
	claims := jwtx.NewProofClaims(admin.KID(), testInstance,
		jwtx.InvocationDigest(registrysdk.OpAddClient, client, "1"), jwtx.DefaultProofTTL, time.Now())
	proof, err := admin.Sign(claims)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/v1/clients/"+client, strings.NewReader(`{"balance":"1000"}`))
	require.NoError(t, err)
	req.Header.Set(registrysdk.ProofHeader, proof)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, err = srv.sdk(nil).GetClient(ctx, client)
	require.ErrorIs(t, err, registrysdk.ErrClientNotFound)
}

func TestProofReplayRejected(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	admin := newSigner(t)
	client := newSigner(t).KID()

	c := srv.sdk(admin)
	_, err := c.Bootstrap(ctx, "", admin.KID())
	require.NoError(t, err)
	_, err = c.AddClient(ctx, client, "1")
	require.NoError(t, err)

	claims := jwtx.NewProofClaims(admin.KID(), testInstance,
		jwtx.InvocationDigest(registrysdk.OpRemoveClient, client), jwtx.DefaultProofTTL, time.Now())
	proof, err := admin.Sign(claims)
	require.NoError(t, err)

	remove := func() int {
		req, err := http.NewRequest(http.MethodDelete, srv.URL+"/v1/clients/"+client, nil)
		require.NoError(t, err)
		req.Header.Set(registrysdk.ProofHeader, proof)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}

	require.Equal(t, http.StatusNoContent, remove())

	_, err = c.AddClient(ctx, client, "1")
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, remove())

	_, err = c.GetClient(ctx, client)
	require.NoError(t, err)
}

func TestInvalidClientInput(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	admin := newSigner(t)
	c := srv.sdk(admin)

	_, err := c.Bootstrap(ctx, "", admin.KID())
	require.NoError(t, err)

	_, err = c.GetClient(ctx, "bogus")
	require.ErrorIs(t, err, registrysdk.ErrInvalidRequest)

	// Out of range for 128 bits
	_, err = c.AddClient(ctx, newSigner(t).KID(), "170141183460469231731687303715884105728")
	require.ErrorIs(t, err, registrysdk.ErrInvalidRequest)
}

func TestUpdateRequiresEnabled(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	admin := newSigner(t)
	client := newSigner(t).KID()

	c := srv.sdk(admin)
	_, err := c.Bootstrap(ctx, "", admin.KID())
	require.NoError(t, err)
	_, err = c.AddClient(ctx, client, "3")
	require.NoError(t, err)

	update := func(body string) *http.Response {
		claims := jwtx.NewProofClaims(admin.KID(), testInstance,
			jwtx.InvocationDigest(registrysdk.OpUpdateClient, client, "false"), jwtx.DefaultProofTTL, time.Now())
		proof, err := admin.Sign(claims)
		require.NoError(t, err)

		req, err := http.NewRequest(http.MethodPatch, srv.URL+"/v1/clients/"+client, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set(registrysdk.ProofHeader, proof)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	for _, body := range []string{`{}`, `{"enabled":null}`} {
		resp := update(body)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode, body)

		var apiErr registrysdk.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&apiErr))
		require.Equal(t, registrysdk.ErrInvalidRequest.Code, apiErr.Error)
	}

	got, err := c.GetClient(ctx, client)
	require.NoError(t, err)
	require.True(t, got.Enabled)

	require.Equal(t, http.StatusOK, update(`{"enabled":false}`).StatusCode)
	got, err = c.GetClient(ctx, client)
	require.NoError(t, err)
	require.False(t, got.Enabled)
}

func TestRateLimitedBootstrap(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New(), withLimits(Limits{
		Bootstrap: httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Hour, Burst: 1},
	}))
	c := srv.sdk(nil)

	_, err := c.Bootstrap(ctx, "", "not-a-key")
	require.ErrorIs(t, err, registrysdk.ErrInvalidRequest)

	_, err = c.Bootstrap(ctx, "", newSigner(t).KID())
	require.ErrorIs(t, err, registrysdk.ErrRateLimited)

	// Reads use their own profile
	_, err = c.GetAdmin(ctx)
	require.ErrorIs(t, err, registrysdk.ErrUninitialized)
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t, memory.New())
	admin := newSigner(t)

	_, err := srv.sdk(admin).Bootstrap(ctx, "", admin.KID())
	require.NoError(t, err)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `registry_operations_total{op="bootstrap_admin",outcome="ok"} 1`)
}
