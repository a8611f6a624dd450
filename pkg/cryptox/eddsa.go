package cryptox

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/ssh"
)

// ErrNotEd25519 is returned when a parsed key is some other algorithm.
var ErrNotEd25519 = errors.New("cryptox: not an Ed25519 key")

// GenerateEd25519Key generates a new Ed25519 private key and returns it in
// PEM format (PKCS8).
func GenerateEd25519Key() ([]byte, error) {
	_, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to generate Ed25519 key: %w", err)
	}
	return MarshalEd25519Key(privateKey)
}

// MarshalEd25519Key encodes key as a PKCS8 "PRIVATE KEY" PEM block.
func MarshalEd25519Key(key ed25519.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: failed to marshal PKCS8 key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ParseEd25519PrivateKey accepts a PKCS8 PEM key or an unencrypted OpenSSH
// private key (as written by ssh-keygen -t ed25519).
func ParseEd25519PrivateKey(data []byte) (ed25519.PrivateKey, error) {
	raw, err := ssh.ParseRawPrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse private key: %w", err)
	}

	switch k := raw.(type) {
	case ed25519.PrivateKey:
		return k, nil
	case *ed25519.PrivateKey:
		return *k, nil
	default:
		return nil, ErrNotEd25519
	}
}

// ParseEd25519PublicKey parses an authorized_keys style line
// ("ssh-ed25519 AAAA... comment").
func ParseEd25519PublicKey(line string) (ed25519.PublicKey, error) {
	pub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(strings.TrimSpace(line)))
	if err != nil {
		return nil, fmt.Errorf("cryptox: parse public key: %w", err)
	}

	cpk, ok := pub.(ssh.CryptoPublicKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	key, ok := cpk.CryptoPublicKey().(ed25519.PublicKey)
	if !ok {
		return nil, ErrNotEd25519
	}
	return key, nil
}
