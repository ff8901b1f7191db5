// Package cli implements the popover command-line interface.
//
// The CLI fronts the positioning engine three ways: `solve` runs one
// placement computation from flag-supplied geometry, `demo` opens an
// interactive terminal playground that re-solves live as the anchor moves
// and the window resizes, and `serve` exposes the solver plus trace
// recording over HTTP.
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// travel through context.Context, charmbracelet/log underneath.
package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version string // semantic version (e.g., "v1.2.3")
	commit  string // git commit SHA
	date    string // build timestamp
)

// SetVersion sets the version information displayed by --version. Called
// by the main package with values injected via ldflags at build time.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the popover CLI and returns an error if any command fails.
func Execute(ctx context.Context) error {
	var verbose bool

	root := &cobra.Command{
		Use:          "popover",
		Short:        "Popover positions floating overlay panels against a viewport",
		Long:         `Popover is a viewport-aware positioning engine for floating overlay panels: it measures an anchor, the panel content and the viewport, then picks a placement, flipping sides and clamping the content when room runs out.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("popover %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newDemoCmd())
	root.AddCommand(newServeCmd())

	return root.ExecuteContext(ctx)
}
