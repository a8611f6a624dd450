package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/aussiebroadwan/registry/pkg/registrysdk"
	"github.com/spf13/cobra"
)

const (
	envServer   = "REGISTRY_SERVER"
	envInstance = "REGISTRY_INSTANCE"
	envKeyFile  = "REGISTRY_KEY_FILE"

	defaultServer   = "http://127.0.0.1:8080"
	defaultInstance = "registry"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "registry",
		Short:         "Access-controlled client registry",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newServeCommand(),
		newKeygenCommand(),
		newIdentityCommand(),
		newTokenCommand(),
		newAdminCommand(),
		newClientCommand(),
		newVersionCommand(),
	)
	return cmd
}

// remoteConfig holds the flags shared by every command that talks to a
// running registry.
type remoteConfig struct {
	server   string
	instance string
	keyFile  string
}

func (c *remoteConfig) bind(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.server, "server", envOr(envServer, defaultServer), "registry base URL (env "+envServer+")")
	flags.StringVar(&c.instance, "instance", envOr(envInstance, defaultInstance), "registry instance name proofs are issued for (env "+envInstance+")")
	flags.StringVar(&c.keyFile, "key", os.Getenv(envKeyFile), "admin private key file, PKCS8 PEM or OpenSSH (env "+envKeyFile+")")
}

// client returns an SDK client. Signing is only set up when withKey is true.
func (c *remoteConfig) client(withKey bool) (*registrysdk.Client, error) {
	cli := registrysdk.NewClient(c.server)
	cli.Audience = c.instance
	if !withKey {
		return cli, nil
	}

	if c.keyFile == "" {
		return nil, fmt.Errorf("a private key is required: pass --key or set %s", envKeyFile)
	}
	signer, err := loadSigner(c.keyFile)
	if err != nil {
		return nil, err
	}
	cli.Signer = signer
	return cli, nil
}

func loadSigner(path string) (*jwtx.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	return jwtx.NewSignerFromPEM(data)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
