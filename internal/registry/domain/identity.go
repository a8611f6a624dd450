package domain

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidIdentity = errors.New("invalid identity")

// Identity names an account. It is the unpadded base64url encoding of the
// account's Ed25519 public key, so whoever holds the private key can prove
// control over it.
type Identity string

// IdentityLen is the encoded length of an Ed25519 public key.
const IdentityLen = 43

// ParseIdentity validates s and returns it as an Identity. Only the canonical
// encoding is accepted so one key never maps to two storage keys.
func ParseIdentity(s string) (Identity, error) {
	s = strings.TrimSpace(s)
	if len(s) != IdentityLen {
		return "", ErrInvalidIdentity
	}

	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return "", ErrInvalidIdentity
	}
	if base64.RawURLEncoding.EncodeToString(raw) != s {
		return "", ErrInvalidIdentity
	}

	return Identity(s), nil
}

// IdentityFromPublicKey encodes pub as an Identity.
func IdentityFromPublicKey(pub ed25519.PublicKey) Identity {
	return Identity(base64.RawURLEncoding.EncodeToString(pub))
}

// PublicKey decodes the Ed25519 public key behind the identity.
func (id Identity) PublicKey() (ed25519.PublicKey, error) {
	raw, err := base64.RawURLEncoding.DecodeString(string(id))
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidIdentity
	}
	return ed25519.PublicKey(raw), nil
}

func (id Identity) String() string { return string(id) }

// Validate reports ErrInvalidIdentity unless id is already in the canonical
// form ParseIdentity produces.
func (id Identity) Validate() error {
	parsed, err := ParseIdentity(string(id))
	if err != nil || parsed != id {
		return ErrInvalidIdentity
	}
	return nil
}
