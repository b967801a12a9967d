// ABOUTME: floatctl resolve: computes where content lands for an anchor, placement and viewport
// ABOUTME: Prints both the raw resolved position and the viewport-clamped one

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mauromedda/floatkit/pkg/overlay"
)

// resolveResult is the output of floatctl resolve.
type resolveResult struct {
	Placement string           `json:"placement" yaml:"placement"`
	Anchor    overlay.Rect     `json:"anchor" yaml:"anchor"`
	Content   overlay.Size     `json:"content" yaml:"content"`
	Viewport  overlay.Size     `json:"viewport" yaml:"viewport"`
	Offset    int              `json:"offset" yaml:"offset"`
	Margin    int              `json:"margin" yaml:"margin"`
	Resolved  overlay.Position `json:"resolved" yaml:"resolved"`
	Clamped   overlay.Position `json:"clamped" yaml:"clamped"`
}

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve an overlay position",
		Long:  "Compute the position of content placed against an anchor, then clamp it into the viewport.",
		Args:  cobra.NoArgs,
		RunE:  runResolve,
	}
	cmd.Flags().String("anchor", "", "Anchor rect as x,y,w,h (required)")
	cmd.Flags().String("content", "", "Content size as w,h (required)")
	cmd.Flags().String("placement", "bottom", "Placement, e.g. top-start")
	cmd.Flags().Int("offset", overlay.DefaultOffset, "Gap between anchor and content")
	cmd.Flags().Int("margin", overlay.DefaultMargin, "Minimum distance from the viewport edges")
	cmd.Flags().String("viewport", "1024x768", "Viewport as WxH, or auto for the terminal size")
	_ = cmd.MarkFlagRequired("anchor")
	_ = cmd.MarkFlagRequired("content")
	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	anchorFlag, _ := cmd.Flags().GetString("anchor")
	contentFlag, _ := cmd.Flags().GetString("content")
	placementFlag, _ := cmd.Flags().GetString("placement")
	offset, _ := cmd.Flags().GetInt("offset")
	margin, _ := cmd.Flags().GetInt("margin")
	viewportFlag, _ := cmd.Flags().GetString("viewport")

	anchor, err := parseRect(anchorFlag)
	if err != nil {
		return fmt.Errorf("--anchor: %w", err)
	}
	content, err := parseSize(contentFlag, ",")
	if err != nil {
		return fmt.Errorf("--content: %w", err)
	}
	placement, err := overlay.ParsePlacement(placementFlag)
	if err != nil {
		return fmt.Errorf("--placement: %w", err)
	}
	if margin < 0 {
		return fmt.Errorf("--margin must be non-negative, got %d", margin)
	}
	viewport, err := parseViewport(viewportFlag)
	if err != nil {
		return fmt.Errorf("--viewport: %w", err)
	}

	contentRect := overlay.NewRect(0, 0, content.Width, content.Height)
	resolved := overlay.Resolve(anchor, contentRect, placement, offset)
	return printValue(cmd, resolveResult{
		Placement: placement.String(),
		Anchor:    anchor,
		Content:   content,
		Viewport:  viewport,
		Offset:    offset,
		Margin:    margin,
		Resolved:  resolved,
		Clamped:   overlay.Clamp(resolved, contentRect, viewport, margin),
	})
}

func parseInts(s, sep string, n int) ([]int, error) {
	parts := strings.Split(s, sep)
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values separated by %q, got %q", n, sep, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out[i] = v
	}
	return out, nil
}

// parseRect parses "x,y,w,h".
func parseRect(s string) (overlay.Rect, error) {
	v, err := parseInts(s, ",", 4)
	if err != nil {
		return overlay.Rect{}, err
	}
	return overlay.NewRect(v[0], v[1], v[2], v[3]), nil
}

// parseSize parses "w<sep>h" and rejects negative extents.
func parseSize(s, sep string) (overlay.Size, error) {
	v, err := parseInts(s, sep, 2)
	if err != nil {
		return overlay.Size{}, err
	}
	if v[0] < 0 || v[1] < 0 {
		return overlay.Size{}, fmt.Errorf("negative size %q", s)
	}
	return overlay.Size{Width: v[0], Height: v[1]}, nil
}

// parseViewport parses "WxH" or "auto", which asks the terminal on stdout.
func parseViewport(s string) (overlay.Size, error) {
	if s != "auto" {
		return parseSize(strings.ToLower(s), "x")
	}
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return overlay.Size{}, fmt.Errorf("reading terminal size: %w", err)
	}
	return overlay.Size{Width: w, Height: h}, nil
}
