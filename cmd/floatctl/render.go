// ABOUTME: floatctl render: opens one preset overlay on an offscreen terminal host and prints the frame
// ABOUTME: Runs the whole engine, host and compositor path without a TTY

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mauromedda/floatkit/internal/config"
	"github.com/mauromedda/floatkit/pkg/overlay"
	"github.com/mauromedda/floatkit/pkg/tui"
)

// asciiBorder keeps rendered frames plain ASCII.
var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

func newRenderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a preset overlay into a text frame",
		Long:  "Open one overlay of the given preset against an anchor drawn as #, then print the composited frame.",
		Args:  cobra.NoArgs,
		RunE:  runRender,
	}
	cmd.Flags().String("preset", "popover", "Preset name")
	cmd.Flags().String("anchor", "", "Anchor rect as x,y,w,h (required)")
	cmd.Flags().StringArray("text", nil, "Content line (repeatable)")
	cmd.Flags().String("viewport", "60x16", "Viewport as WxH, or auto for the terminal size")
	_ = cmd.MarkFlagRequired("anchor")
	return cmd
}

func runRender(cmd *cobra.Command, args []string) error {
	preset, _ := cmd.Flags().GetString("preset")
	anchorFlag, _ := cmd.Flags().GetString("anchor")
	text, _ := cmd.Flags().GetStringArray("text")
	viewportFlag, _ := cmd.Flags().GetString("viewport")

	anchor, err := parseRect(anchorFlag)
	if err != nil {
		return fmt.Errorf("--anchor: %w", err)
	}
	viewport, err := parseViewport(viewportFlag)
	if err != nil {
		return fmt.Errorf("--viewport: %w", err)
	}
	if len(text) == 0 {
		text = []string{preset}
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	frame, s, err := renderFrame(cfg, preset, anchor, text, viewport)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range frame {
		if _, err := fmt.Fprintln(out, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s at %s (%s)\n", preset, s.State, s.RenderPosition(), s.ActivePlacement)
	return nil
}

// renderFrame opens preset against anchor on a fresh host and returns the
// composited frame with the session it produced.
func renderFrame(cfg *config.Config, preset string, anchor overlay.Rect, text []string, vp overlay.Size) ([]string, overlay.Session, error) {
	t := tui.New(io.Discard, vp.Width, vp.Height)
	h := tui.NewHost(vp.Width, vp.Height)
	t.Attach(h)

	opts, err := cfg.Options(preset, h)
	if err != nil {
		return nil, overlay.Session{}, err
	}
	t.Container().Add(tui.Lines(background(anchor, vp)))

	trigger := h.NewNode("anchor", h.Root, anchor)
	box := lipgloss.NewStyle().Border(asciiBorder).Padding(0, 1).Render(strings.Join(text, "\n"))
	surface := tui.NewComponentSurface(h, trigger, tui.Lines(strings.Split(box, "\n")), 0)
	e := overlay.New(h, surface, opts)
	defer e.Dispose()
	unbind := surface.Bind(e)
	defer unbind()
	t.AddLayer(surface.Layer())

	e.Open()
	t.RenderOnce()
	return t.Frame(), e.State(), nil
}

// background draws the anchor as # on an otherwise blank page.
func background(anchor overlay.Rect, vp overlay.Size) []string {
	lines := make([]string, vp.Height)
	for y := anchor.Y; y < anchor.Bottom(); y++ {
		if y < 0 || y >= vp.Height || anchor.X < 0 {
			continue
		}
		lines[y] = strings.Repeat(" ", anchor.X) + strings.Repeat("#", max(anchor.Width, 1))
	}
	return lines
}
