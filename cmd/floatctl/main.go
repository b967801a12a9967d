// ABOUTME: floatctl entry point: resolves placements, dumps presets, renders overlays and runs the demo
// ABOUTME: Errors print as "error: ..." on stderr with exit status 1

package main

import (
	"fmt"
	"os"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/floatkit/internal/termfix"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
