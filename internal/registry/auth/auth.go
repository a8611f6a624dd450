// Package auth decides whether the caller of an invocation controls a given
// identity. The registry asks it for proof from the admin before every
// mutation.
package auth

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
)

// Operation names bound into authorization proofs.
const (
	OpAddClient    = "add_client"
	OpUpdateClient = "update_client"
	OpRemoveClient = "remove_client"
)

var (
	ErrMissingProof = errors.New("auth: missing authorization proof")
	ErrInvalidProof = errors.New("auth: invalid authorization proof")
	ErrReplayed     = errors.New("auth: authorization proof already used")
	ErrDenied       = errors.New("auth: denied")
)

// Invocation is the operation a proof has to cover.
type Invocation struct {
	Op   string
	Args []string
}

func NewInvocation(op string, args ...string) Invocation {
	return Invocation{Op: op, Args: args}
}

// Digest is the value a proof's "inv" claim must carry.
func (i Invocation) Digest() string {
	return jwtx.InvocationDigest(i.Op, i.Args...)
}

// Authorizer verifies that the current caller controls id for inv. Any
// non-nil error means the invocation must be aborted.
type Authorizer interface {
	RequireAuth(ctx context.Context, id domain.Identity, inv Invocation) error
}

// AllowAll accepts every invocation.
type AllowAll struct{}

func (AllowAll) RequireAuth(context.Context, domain.Identity, Invocation) error { return nil }

// DenyAll rejects every invocation.
type DenyAll struct{}

func (DenyAll) RequireAuth(context.Context, domain.Identity, Invocation) error { return ErrDenied }

type proofKey struct{}

// WithProof attaches a compact proof token to ctx.
func WithProof(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, proofKey{}, token)
}

// ProofFromContext returns the proof attached by WithProof.
func ProofFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(proofKey{}).(string)
	return token, ok && token != ""
}
