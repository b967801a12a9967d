// ABOUTME: Entry point for the interactive overlay demo
// ABOUTME: Runs the Bubble Tea program and, when a config path is set, a reload watcher in one errgroup

package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/floatkit/internal/config"
)

// RunOptions configures Run.
type RunOptions struct {
	Config *config.Config
	// ConfigPath is watched for changes when non-empty.
	ConfigPath string
	Input      io.Reader
	Output     io.Writer
}

// Run starts the demo and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	m := New(opts.Config)

	progOpts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithOutput(os.Stderr),
	}
	if opts.Input != nil {
		progOpts = append(progOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		progOpts = append(progOpts, tea.WithOutput(opts.Output))
	}
	p := tea.NewProgram(m, progOpts...)
	m.SetSender(p)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// The watcher stops with the program.
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("bubble tea: %w", err)
		}
		return nil
	})

	if opts.ConfigPath != "" {
		w := config.NewWatcher(opts.ConfigPath, func(cfg *config.Config) {
			p.Send(ConfigMsg{Config: cfg})
		})
		g.Go(func() error { return w.Run(gctx) })
	}

	return g.Wait()
}
