package jwtx

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"slices"
	"time"

	"github.com/aussiebroadwan/registry/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultProofTTL is how long a freshly minted proof stays valid.
	// Proofs are bound to one invocation so they only need to survive
	// a single round trip.
	DefaultProofTTL = 30 * time.Second

	// DefaultMaxProofAge is the longest exp-iat span a verifier accepts.
	DefaultMaxProofAge = 5 * time.Minute
)

// ProofClaims are the claims of an authorization proof. The subject is the
// identity vouching for the call, the audience is the registry instance and
// Inv pins the proof to a single invocation.
type ProofClaims struct {
	jwt.RegisteredClaims

	// Invocation digest, see InvocationDigest.
	Inv string `json:"inv"`
}

// NewProofClaims builds minimally-correct proof claims.
func NewProofClaims(subject, audience, invocation string, ttl time.Duration, now time.Time) ProofClaims {
	return ProofClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.NewAt(now).String(),
		},
		Inv: invocation,
	}
}

// InvocationDigest hashes an operation name and its arguments into the
// value carried by the "inv" claim. Every part is length prefixed so
// ("ab","c") and ("a","bc") never share a digest.
func InvocationDigest(op string, args ...string) string {
	buf := binary.AppendUvarint(nil, uint64(len(op)))
	buf = append(buf, op...)
	for _, a := range args {
		buf = binary.AppendUvarint(buf, uint64(len(a)))
		buf = append(buf, a...)
	}
	sum := sha256.Sum256(buf)
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// ValidateSubject checks the proof was issued for expected.
func (c *ProofClaims) ValidateSubject(expected string) error {
	if c.Subject != expected {
		return ErrSubject
	}
	return nil
}

// ValidateAudience checks the expected audience is present.
func (c *ProofClaims) ValidateAudience(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if !slices.Contains(c.Audience, expected) {
		return ErrAudience
	}
	return nil
}

// ValidateInvocation checks the proof covers the invocation digest.
func (c *ProofClaims) ValidateInvocation(expected string) error {
	if c.Inv == "" || c.Inv != expected {
		return ErrInvocation
	}
	return nil
}

// ValidateExpiryWithLeeway checks exp and iat against now, allowing a
// small grace period for clock skew.
func (c *ProofClaims) ValidateExpiryWithLeeway(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil || now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.IssuedAt == nil || now.Before(c.IssuedAt.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateLifetime rejects proofs whose exp-iat span exceeds maxAge, so a
// signer cannot mint long-lived proofs.
func (c *ProofClaims) ValidateLifetime(maxAge time.Duration) error {
	if maxAge <= 0 {
		return nil
	}
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return ErrInvalidClaim
	}
	if c.ExpiresAt.Sub(c.IssuedAt.Time) > maxAge {
		return ErrLifetime
	}
	return nil
}
