package auth

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testAudience = "registry-test"

type keyPair struct {
	id     domain.Identity
	signer *jwtx.Signer
}

func newKeyPair(t *testing.T) keyPair {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := jwtx.NewSigner(priv)
	require.NoError(t, err)
	return keyPair{id: domain.IdentityFromPublicKey(pub), signer: signer}
}

func (k keyPair) prove(t *testing.T, ctx context.Context, inv Invocation) context.Context {
	t.Helper()
	claims := jwtx.NewProofClaims(k.id.String(), testAudience, inv.Digest(), jwtx.DefaultProofTTL, time.Now().UTC())
	token, err := k.signer.Sign(claims)
	require.NoError(t, err)
	return WithProof(ctx, token)
}

func newAuthorizer(t *testing.T) *ProofAuthorizer {
	nonces := NewNonceCache(0)
	t.Cleanup(nonces.Close)
	return &ProofAuthorizer{
		Audience: testAudience,
		MaxAge:   jwtx.DefaultMaxProofAge,
		Leeway:   5 * time.Second,
		Nonces:   nonces,
	}
}

func TestTestDoubles(t *testing.T) {
	ctx := context.Background()
	inv := NewInvocation(OpRemoveClient, "x")

	require.NoError(t, AllowAll{}.RequireAuth(ctx, "", inv))
	require.ErrorIs(t, DenyAll{}.RequireAuth(ctx, "", inv), ErrDenied)
}

func TestProofFromContext(t *testing.T) {
	_, ok := ProofFromContext(context.Background())
	require.False(t, ok)

	_, ok = ProofFromContext(WithProof(context.Background(), ""))
	require.False(t, ok)

	token, ok := ProofFromContext(WithProof(context.Background(), "abc"))
	require.True(t, ok)
	require.Equal(t, "abc", token)
}

func TestProofAuthorizer(t *testing.T) {
	admin := newKeyPair(t)
	inv := NewInvocation(OpAddClient, admin.id.String(), "100")

	t.Run("accepts proof from identity", func(t *testing.T) {
		a := newAuthorizer(t)
		ctx := admin.prove(t, context.Background(), inv)
		require.NoError(t, a.RequireAuth(ctx, admin.id, inv))
	})

	t.Run("missing proof", func(t *testing.T) {
		a := newAuthorizer(t)
		err := a.RequireAuth(context.Background(), admin.id, inv)
		require.ErrorIs(t, err, ErrMissingProof)
	})

	t.Run("proof from another identity", func(t *testing.T) {
		a := newAuthorizer(t)
		mallory := newKeyPair(t)
		ctx := mallory.prove(t, context.Background(), inv)

		err := a.RequireAuth(ctx, admin.id, inv)
		require.ErrorIs(t, err, ErrInvalidProof)
	})

	t.Run("proof for another invocation", func(t *testing.T) {
		a := newAuthorizer(t)
		ctx := admin.prove(t, context.Background(), NewInvocation(OpAddClient, admin.id.String(), "1"))

		err := a.RequireAuth(ctx, admin.id, inv)
		require.ErrorIs(t, err, ErrInvalidProof)
		require.ErrorIs(t, err, jwtx.ErrInvocation)
	})

	t.Run("replayed proof", func(t *testing.T) {
		a := newAuthorizer(t)
		ctx := admin.prove(t, context.Background(), inv)

		require.NoError(t, a.RequireAuth(ctx, admin.id, inv))
		require.ErrorIs(t, a.RequireAuth(ctx, admin.id, inv), ErrReplayed)
	})

	t.Run("uncommitted spend releases nonce", func(t *testing.T) {
		a := newAuthorizer(t)
		ctx, spend := TrackSpend(admin.prove(t, context.Background(), inv))

		require.NoError(t, a.RequireAuth(ctx, admin.id, inv))
		require.ErrorIs(t, a.RequireAuth(ctx, admin.id, inv), ErrReplayed)
		spend.Settle(false)

		require.NoError(t, a.RequireAuth(ctx, admin.id, inv))
	})

	t.Run("committed spend keeps nonce", func(t *testing.T) {
		a := newAuthorizer(t)
		ctx, spend := TrackSpend(admin.prove(t, context.Background(), inv))

		require.NoError(t, a.RequireAuth(ctx, admin.id, inv))
		spend.Settle(true)
		spend.Settle(false)

		require.ErrorIs(t, a.RequireAuth(ctx, admin.id, inv), ErrReplayed)
	})

	t.Run("audience pinned", func(t *testing.T) {
		a := newAuthorizer(t)
		a.Audience = "other-registry"
		ctx := admin.prove(t, context.Background(), inv)

		err := a.RequireAuth(ctx, admin.id, inv)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("clock override", func(t *testing.T) {
		a := newAuthorizer(t)
		a.Now = func() time.Time { return time.Now().Add(time.Hour) }
		ctx := admin.prove(t, context.Background(), inv)

		err := a.RequireAuth(ctx, admin.id, inv)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})
}

func TestInvocationDigest(t *testing.T) {
	a := NewInvocation(OpUpdateClient, "id", "true")
	b := NewInvocation(OpUpdateClient, "id", "false")
	require.NotEqual(t, a.Digest(), b.Digest())
	require.Equal(t, jwtx.InvocationDigest(OpUpdateClient, "id", "true"), a.Digest())
}

func TestNonceCache(t *testing.T) {
	now := time.Now()

	t.Run("marks and detects replays", func(t *testing.T) {
		c := NewNonceCache(10)
		defer c.Close()

		require.False(t, c.CheckAndMark("a", now.Add(time.Minute)))
		require.True(t, c.CheckAndMark("a", now.Add(time.Minute)))
		require.False(t, c.CheckAndMark("b", now.Add(time.Minute)))
	})

	t.Run("forgets expired ids", func(t *testing.T) {
		c := NewNonceCache(10)
		defer c.Close()

		require.False(t, c.CheckAndMark("a", now.Add(-time.Second)))
		require.False(t, c.CheckAndMark("a", now.Add(time.Minute)))
	})

	t.Run("fails closed when full", func(t *testing.T) {
		c := NewNonceCache(2)
		defer c.Close()

		require.False(t, c.CheckAndMark("a", now.Add(time.Minute)))
		require.False(t, c.CheckAndMark("b", now.Add(time.Minute)))
		require.True(t, c.CheckAndMark("c", now.Add(time.Minute)))
	})

	t.Run("sweeps expired entries to make room", func(t *testing.T) {
		c := NewNonceCache(2)
		defer c.Close()

		current := now
		c.now = func() time.Time { return current }

		require.False(t, c.CheckAndMark("a", now.Add(time.Second)))
		require.False(t, c.CheckAndMark("b", now.Add(time.Minute)))

		current = now.Add(2 * time.Second)
		require.False(t, c.CheckAndMark("c", now.Add(time.Minute)))
		require.Equal(t, 2, c.Len())
	})

	t.Run("close is idempotent", func(t *testing.T) {
		c := NewNonceCache(1)
		c.Close()
		c.Close()
	})
}
