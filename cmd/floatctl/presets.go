// ABOUTME: floatctl presets: prints the effective preset configuration and validates config files
// ABOUTME: Effective means defaults, then the config file, then FLOATKIT_ environment overrides

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mauromedda/floatkit/internal/config"
)

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Print the effective overlay presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return printValue(cmd, cfg)
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Args:  cobra.NoArgs,
		RunE:  runPresetsValidate,
	})
	return cmd
}

func runPresetsValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d presets)\n", path, len(cfg.Presets))
	return err
}
