// ABOUTME: floatctl version subcommand
// ABOUTME: Prints the build version, commit and date injected with -ldflags

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the floatctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "floatctl %s (commit: %s, built: %s)\n", version, commit, date)
			return err
		},
	}
}
