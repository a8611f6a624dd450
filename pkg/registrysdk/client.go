package registrysdk

import (
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/registry/pkg/jwtx"
)

const (
	// ProofHeader carries the admin's authorization proof.
	ProofHeader = "X-Registry-Proof"

	// BootstrapTokenHeader carries the optional bootstrap token.
	BootstrapTokenHeader = "X-Bootstrap-Token"
)

// Operation names bound into authorization proofs.
const (
	OpAddClient    = "add_client"
	OpUpdateClient = "update_client"
	OpRemoveClient = "remove_client"
)

// Client talks to a registry instance. Reads need nothing; mutations need
// Signer and Audience.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// Signer holds the admin key used to sign proofs.
	Signer *jwtx.Signer

	// Audience is the registry instance name proofs are issued for.
	Audience string

	// ProofTTL is the lifetime of each proof. Defaults to jwtx.DefaultProofTTL.
	ProofTTL time.Duration

	// Now overrides the clock used for proofs.
	Now func() time.Time
}

// NewClient creates a client with a 10 second HTTP timeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Identity returns the signer's identity, or "" without a signer.
func (c *Client) Identity() string {
	if c.Signer == nil {
		return ""
	}
	return c.Signer.KID()
}

// proof signs a proof for one invocation.
func (c *Client) proof(op string, args ...string) (string, error) {
	if c.Signer == nil || c.Audience == "" {
		return "", ErrNoSigner
	}

	ttl := c.ProofTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultProofTTL
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	claims := jwtx.NewProofClaims(c.Signer.KID(), c.Audience, jwtx.InvocationDigest(op, args...), ttl, now().UTC())
	return c.Signer.Sign(claims)
}
