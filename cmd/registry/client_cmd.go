package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newClientCommand() *cobra.Command {
	cfg := &remoteConfig{}
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage client records on a running registry",
	}
	cfg.bind(cmd)

	cmd.AddCommand(
		newClientAddCommand(cfg),
		newClientUpdateCommand(cfg),
		newClientRemoveCommand(cfg),
		newClientGetCommand(cfg),
		newClientListCommand(cfg),
	)
	return cmd
}

func newClientAddCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "add <identity> <balance>",
		Short: "Add a client, replacing any existing record",
		Example: `  registry client add --key admin.pem 11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo 1000
  registry client add --key admin.pem 11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo -- -250`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(true)
			if err != nil {
				return err
			}
			resp, err := cli.AddClient(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newClientUpdateCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "update <identity> <enabled>",
		Short: "Enable or disable an existing client",
		Example: `  registry client update --key admin.pem 11qYAYKxCrfVS_7TyWQHOg7hcvPapiMlrwIaaPcHURo false`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("enabled must be true or false: %w", err)
			}
			cli, err := cfg.client(true)
			if err != nil {
				return err
			}
			resp, err := cli.UpdateClient(cmd.Context(), args[0], enabled)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newClientRemoveCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <identity>",
		Short: "Remove an existing client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(true)
			if err != nil {
				return err
			}
			if err := cli.RemoveClient(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.ErrOrStderr(), "removed", args[0])
			return err
		},
	}
}

func newClientGetCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "get <identity>",
		Short: "Print one client record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(false)
			if err != nil {
				return err
			}
			resp, err := cli.GetClient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}
}

func newClientListCommand(cfg *remoteConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every client record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := cfg.client(false)
			if err != nil {
				return err
			}
			resp, err := cli.ListClients(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp.Clients)
		},
	}
}
