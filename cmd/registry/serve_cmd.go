package main

import (
	"github.com/aussiebroadwan/registry/internal/registry/app"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the registry HTTP server",
		Long: `Run the registry HTTP server.

Configuration is read from built-in defaults, then the optional YAML file
given with --config, then REGISTRY_* environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configPath)
			if err != nil {
				return err
			}

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			return application.Run(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", envOr("REGISTRY_CONFIG", ""), "YAML config file (env REGISTRY_CONFIG)")
	return cmd
}
