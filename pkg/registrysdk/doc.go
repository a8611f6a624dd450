/*
Package registrysdk is a Go client for the client registry service.

# Overview

The registry keeps one admin identity and a set of client records. Anyone
may read; only the admin may add, update or remove clients. Identities are
Ed25519 public keys in unpadded base64url form, and the admin proves control
of its key by signing a short-lived proof for each mutation.

	client := registrysdk.NewClient("https://registry.example.com")

	// Public reads
	admin, err := client.GetAdmin(ctx)
	clients, err := client.ListClients(ctx)

Mutations need a signer holding the admin key:

	signer, err := jwtx.NewSignerFromPEM(pemBytes)
	client.Signer = signer
	client.Audience = "registry"

	_, err = client.AddClient(ctx, identity, "100")
	_, err = client.UpdateClient(ctx, identity, false)
	err = client.RemoveClient(ctx, identity)

# Errors

Service errors are returned as *APIError. Compare against the predefined
values with errors.Is:

	if errors.Is(err, registrysdk.ErrClientNotFound) {
		// ...
	}
*/
package registrysdk
