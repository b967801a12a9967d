// ABOUTME: Root cobra command with the persistent --config, --format and --verbose flags
// ABOUTME: loadConfig resolves the config path and validates what koanf loaded

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mauromedda/floatkit/internal/config"
	"github.com/mauromedda/floatkit/internal/log"
)

// Output formats accepted by --format.
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "floatctl",
		Short:         "Position and preview floating overlays",
		Long:          "floatctl resolves overlay placements, inspects preset configuration and renders overlays on a terminal host.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}
	root.PersistentFlags().String("config", "", "Config file (default ~/.floatkit/config.yaml)")
	root.PersistentFlags().String("format", formatYAML, "Output format: yaml or json")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.LevelDebug)
		}
		format, _ := cmd.Flags().GetString("format")
		switch format {
		case formatYAML, formatJSON:
			return nil
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
	}

	root.AddCommand(
		newResolveCmd(),
		newPresetsCmd(),
		newRenderCmd(),
		newDemoCmd(),
		newVersionCmd(),
	)
	return root
}

// configPath returns --config, or the default path when unset.
func configPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigFile()
}

// loadConfig loads and validates the configuration for cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath(cmd)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	log.Debug("floatctl: loaded config from %s", path)
	return cfg, nil
}
