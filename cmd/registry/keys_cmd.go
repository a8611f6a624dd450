package main

import (
	"crypto/ed25519"
	"fmt"
	"os"

	"github.com/aussiebroadwan/registry/pkg/cryptox"
	"github.com/aussiebroadwan/registry/pkg/jwtx"
	"github.com/spf13/cobra"
)

func newKeygenCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an Ed25519 key and print its identity",
		Example: `  # Write a key and keep the identity for bootstrap
  registry keygen -o admin.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pemData, err := cryptox.GenerateEd25519Key()
			if err != nil {
				return err
			}
			signer, err := jwtx.NewSignerFromPEM(pemData)
			if err != nil {
				return err
			}

			if out == "" || out == "-" {
				if _, err := cmd.OutOrStdout().Write(pemData); err != nil {
					return err
				}
			} else {
				if err := os.WriteFile(out, pemData, 0o600); err != nil {
					return fmt.Errorf("write key: %w", err)
				}
			}

			_, err = fmt.Fprintln(cmd.ErrOrStderr(), "identity:", signer.KID())
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "-", "key output file (use - for stdout)")
	return cmd
}

func newIdentityCommand() *cobra.Command {
	var keyFile, sshPub string
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Print the identity of a private key or an ssh-ed25519 public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var pub ed25519.PublicKey
			switch {
			case keyFile != "" && sshPub != "":
				return fmt.Errorf("--key and --ssh-pubkey are mutually exclusive")
			case keyFile != "":
				signer, err := loadSigner(keyFile)
				if err != nil {
					return err
				}
				pub = signer.PublicKey()
			case sshPub != "":
				data, err := os.ReadFile(sshPub)
				if err != nil {
					return fmt.Errorf("read public key: %w", err)
				}
				pub, err = cryptox.ParseEd25519PublicKey(string(data))
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("pass --key or --ssh-pubkey")
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), jwtx.KeyID(pub))
			return err
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", os.Getenv(envKeyFile), "private key file (env "+envKeyFile+")")
	cmd.Flags().StringVar(&sshPub, "ssh-pubkey", "", "ssh-ed25519 public key file")
	return cmd
}

func newTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Generate a random bootstrap token",
		Example: `  REGISTRY_BOOTSTRAP_TOKEN=$(registry token) registry serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := cryptox.GenerateToken(cryptox.TokenSize256)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
}
