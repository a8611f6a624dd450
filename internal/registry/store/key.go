package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/registry/internal/registry/domain"
)

// Kind discriminates the key space.
type Kind string

const (
	KindAdmin  Kind = "admin"
	KindClient Kind = "client"
)

var ErrInvalidKey = errors.New("store: invalid key")

// Key addresses a single entry. Admin is a singleton; Client carries the
// identity it belongs to. The encoded forms are "admin" and
// "client/<identity>", which cannot collide.
type Key struct {
	kind Kind
	id   domain.Identity
}

func AdminKey() Key { return Key{kind: KindAdmin} }

func ClientKey(id domain.Identity) Key { return Key{kind: KindClient, id: id} }

func (k Key) Kind() Kind { return k.kind }

// Identity is empty for the admin key.
func (k Key) Identity() domain.Identity { return k.id }

func (k Key) String() string {
	if k.kind == KindClient {
		return string(KindClient) + "/" + k.id.String()
	}
	return string(k.kind)
}

// Prefix returns the encoded prefix shared by every key of kind.
func (k Kind) Prefix() string {
	if k == KindClient {
		return string(KindClient) + "/"
	}
	return string(k)
}

// ParseKey decodes the String form of a key.
func ParseKey(s string) (Key, error) {
	if s == string(KindAdmin) {
		return AdminKey(), nil
	}

	rest, ok := strings.CutPrefix(s, KindClient.Prefix())
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	id, err := domain.ParseIdentity(rest)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	return ClientKey(id), nil
}
