package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
)

// ProofAuthorizer checks EdDSA proofs signed by the identity's own key.
type ProofAuthorizer struct {
	// Audience is the registry instance name proofs must target.
	Audience string

	// MaxAge caps the exp-iat span of a proof.
	MaxAge time.Duration

	// Leeway tolerates clock skew on exp and iat.
	Leeway time.Duration

	// Nonces remembers spent proof IDs. Nil disables replay protection.
	Nonces *NonceCache

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

func (a *ProofAuthorizer) RequireAuth(ctx context.Context, id domain.Identity, inv Invocation) error {
	token, ok := ProofFromContext(ctx)
	if !ok {
		return ErrMissingProof
	}

	pub, err := id.PublicKey()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	claims, err := jwtx.Verify(token, pub, jwtx.VerifyOptions{
		Subject:    id.String(),
		Audience:   a.Audience,
		Invocation: inv.Digest(),
		MaxAge:     a.MaxAge,
		Leeway:     a.Leeway,
		Now:        a.Now,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProof, err)
	}

	if a.Nonces != nil {
		// The proof can never be accepted again after exp+leeway, so the
		// nonce only needs to be remembered that long.
		if a.Nonces.CheckAndMark(claims.ID, claims.ExpiresAt.Add(a.Leeway)) {
			return ErrReplayed
		}
		if spend := spendFromContext(ctx); spend != nil {
			nonces, jti := a.Nonces, claims.ID
			spend.add(func() { nonces.Forget(jti) })
		}
	}

	return nil
}
