package main

import (
	"fmt"

	"github.com/aussiebroadwan/registry/internal/registry/app"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the registry version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "registry %s\n", app.BuildVersion)
			return err
		},
	}
}
