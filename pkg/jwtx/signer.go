package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"

	"github.com/aussiebroadwan/registry/pkg/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Signer mints EdDSA proofs with a single Ed25519 key.
type Signer struct {
	kid string
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

// NewSigner wraps an Ed25519 private key. The key ID is the unpadded
// base64url encoding of the public key, which is also the signer's identity.
func NewSigner(key ed25519.PrivateKey) (*Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("jwtx: invalid Ed25519 private key size")
	}
	pub := key.Public().(ed25519.PublicKey)

	return &Signer{
		kid: KeyID(pub),
		key: key,
		pub: pub,
	}, nil
}

// NewSignerFromPEM loads the key from PKCS8 PEM or an OpenSSH private key.
func NewSignerFromPEM(data []byte) (*Signer, error) {
	key, err := cryptox.ParseEd25519PrivateKey(data)
	if err != nil {
		return nil, err
	}
	return NewSigner(key)
}

// KeyID returns the key ID used for pub.
func KeyID(pub ed25519.PublicKey) string {
	return base64.RawURLEncoding.EncodeToString(pub)
}

func (s *Signer) Alg() string                  { return jwt.SigningMethodEdDSA.Alg() }
func (s *Signer) KID() string                  { return s.kid }
func (s *Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Sign turns claims into a compact JWS.
func (s *Signer) Sign(claims ProofClaims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	t.Header["kid"] = s.kid
	return t.SignedString(s.key)
}
