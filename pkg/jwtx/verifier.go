package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// VerifyOptions captures what a proof must satisfy.
type VerifyOptions struct {
	// Subject the proof must name (claims.sub).
	Subject string

	// Audience the proof must contain (claims.aud). Empty means "don't care".
	Audience string

	// Invocation digest the proof must carry (claims.inv).
	Invocation string

	// MaxAge caps exp-iat. Zero disables the check.
	MaxAge time.Duration

	// Leeway allows small clock skew when validating exp/iat.
	Leeway time.Duration

	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")

	ErrSubject      = errors.New("jwtx: subject mismatch")
	ErrAudience     = errors.New("jwtx: audience mismatch")
	ErrInvocation   = errors.New("jwtx: invocation mismatch")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrLifetime     = errors.New("jwtx: token lifetime too long")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Verify checks tokenStr was signed by pub and satisfies opts.
func Verify(tokenStr string, pub ed25519.PublicKey, opts VerifyOptions) (*ProofClaims, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 public key size")
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	// Time claims are checked below with our own leeway rules.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &ProofClaims{}, func(t *jwt.Token) (any, error) {
		return pub, nil
	})
	if err != nil {
		return nil, mapParseError(err)
	}

	claims, ok := token.Claims.(*ProofClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaim
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing jti", ErrInvalidClaim)
	}

	// Now check all the claim requirements
	if err := claims.ValidateSubject(opts.Subject); err != nil {
		return nil, err
	}
	if err := claims.ValidateAudience(opts.Audience); err != nil {
		return nil, err
	}
	if err := claims.ValidateInvocation(opts.Invocation); err != nil {
		return nil, err
	}
	if err := claims.ValidateExpiryWithLeeway(now().UTC(), opts.Leeway); err != nil {
		return nil, err
	}
	if err := claims.ValidateLifetime(opts.MaxAge); err != nil {
		return nil, err
	}

	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrAlgMismatch, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSig, err)
	default:
		return fmt.Errorf("jwtx: parse or verify: %w", err)
	}
}
