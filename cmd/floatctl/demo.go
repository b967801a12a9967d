// ABOUTME: floatctl demo: runs the interactive Bubble Tea overlay demo with config hot reload
// ABOUTME: Logs go to a file so they do not corrupt the alternate screen

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mauromedda/floatkit/internal/config"
	"github.com/mauromedda/floatkit/internal/demo"
	"github.com/mauromedda/floatkit/internal/log"
)

func newDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive overlay demo",
		Args:  cobra.NoArgs,
		RunE:  runDemo,
	}
	cmd.Flags().String("log-file", "", "Log file (default ~/.floatkit/demo.log)")
	return cmd
}

func runDemo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	if logPath == "" {
		logPath = config.DefaultLogFile()
	}
	if err := config.EnsureDir(filepath.Dir(logPath)); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)
	defer log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("floatctl: demo starting with config %s", configPath(cmd))
	return demo.Run(ctx, demo.RunOptions{Config: cfg, ConfigPath: configPath(cmd)})
}
