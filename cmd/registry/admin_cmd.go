package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newAdminCommand() *cobra.Command {
	cfg := &remoteConfig{}
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Bootstrap or inspect the registry admin",
	}
	cfg.bind(cmd)

	cmd.AddCommand(
		newAdminBootstrapCommand(cfg),
		newAdminGetCommand(cfg),
	)
	return cmd
}

func newAdminBootstrapCommand(cfg *remoteConfig) *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "bootstrap [identity]",
		Short: "Set the admin identity, defaulting to the identity of --key",
		Example: `  registry admin bootstrap --key admin.pem
  registry admin bootstrap 11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(len(args) == 0)
			if err != nil {
				return err
			}

			identity := cli.Identity()
			if len(args) == 1 {
				identity = args[0]
			}

			resp, err := cli.Bootstrap(cmd.Context(), token, identity)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringVar(&token, "bootstrap-token", os.Getenv("REGISTRY_BOOTSTRAP_TOKEN"), "bootstrap token if the server requires one")
	return cmd
}

func newAdminGetCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the admin identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(false)
			if err != nil {
				return err
			}
			resp, err := cli.GetAdmin(cmd.Context())
			if err != nil {
				return fmt.Errorf("get admin: %w", err)
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}
