package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fieldmark/popover/pkg/geom"
	"github.com/fieldmark/popover/pkg/popover"
	"github.com/fieldmark/popover/pkg/trace"
)

// newSolveCmd creates the solve command: one placement computation from
// flag-supplied geometry, printed as JSON.
func newSolveCmd() *cobra.Command {
	var (
		contentFlag   string
		anchorFlag    string
		viewportFlag  string
		position      string
		paddingTop    string
		paddingBottom string
		expandMobile  bool
		record        bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Compute one placement from explicit geometry",
		Example: `  # Content fits above the anchor
  popover solve --content 150x250 --anchor 100,700,100x20 --viewport 1000x800 --position top

  # Anchor box carries vertical padding that the popover should hug
  popover solve --content 150x250 --anchor 100,700,100x40 --padding-top 10px --padding-bottom 10px --viewport 1000x800`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			content, err := parseSize(contentFlag)
			if err != nil {
				return fmt.Errorf("invalid --content: %w", err)
			}
			viewport, err := parseSize(viewportFlag)
			if err != nil {
				return fmt.Errorf("invalid --viewport: %w", err)
			}
			anchor, err := parseAnchor(anchorFlag)
			if err != nil {
				return fmt.Errorf("invalid --anchor: %w", err)
			}
			if paddingTop != "" || paddingBottom != "" {
				anchor = geom.PadRect(anchor, paddingTop, paddingBottom)
			}

			req := popover.SolveRequest{
				Content:        content,
				Anchor:         anchor,
				Viewport:       viewport,
				Position:       position,
				ExpandOnMobile: expandMobile,
			}
			placement := req.Solve()
			logger.Debug("solved",
				"y", placement.YAxis, "x", placement.XAxis,
				"top", placement.PopoverTop, "left", placement.PopoverLeft)

			if record {
				store, err := trace.NewFileStore("")
				if err != nil {
					return fmt.Errorf("open trace store: %w", err)
				}
				defer store.Close()

				tr := trace.New(req, placement)
				if err := store.Put(cmd.Context(), tr); err != nil {
					return fmt.Errorf("record trace: %w", err)
				}
				logger.Info("trace recorded", "id", tr.ID)
			}

			out, err := json.MarshalIndent(placement, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&contentFlag, "content", "", "content panel size as WxH, e.g. 150x250 (required)")
	cmd.Flags().StringVar(&anchorFlag, "anchor", "", "anchor box as left,top,WxH, e.g. 100,700,100x20 (required)")
	cmd.Flags().StringVar(&viewportFlag, "viewport", "", "viewport size as WxH, e.g. 1000x800 (required)")
	cmd.Flags().StringVar(&position, "position", "bottom center", "placement preference, \"<y> [<x>]\"")
	cmd.Flags().StringVar(&paddingTop, "padding-top", "", "anchor container's top padding, e.g. 10px")
	cmd.Flags().StringVar(&paddingBottom, "padding-bottom", "", "anchor container's bottom padding, e.g. 10px")
	cmd.Flags().BoolVar(&expandMobile, "expand-on-mobile", false, "opt into full-screen rendering below the mobile breakpoint")
	cmd.Flags().BoolVar(&record, "record", false, "record the solve to the local trace store")

	_ = cmd.MarkFlagRequired("content")
	_ = cmd.MarkFlagRequired("anchor")
	_ = cmd.MarkFlagRequired("viewport")

	return cmd
}

// parseSize parses a "WxH" pair such as "150x250".
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return geom.Size{}, fmt.Errorf("expected WxH, got %q", s)
	}
	width, err := strconv.ParseFloat(w, 64)
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid width %q", w)
	}
	height, err := strconv.ParseFloat(h, 64)
	if err != nil {
		return geom.Size{}, fmt.Errorf("invalid height %q", h)
	}
	return geom.Size{Width: width, Height: height}, nil
}

// parseAnchor parses an anchor box written as "left,top,WxH", e.g.
// "100,700,100x20".
func parseAnchor(s string) (geom.Rect, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 3 {
		return geom.Rect{}, fmt.Errorf("expected left,top,WxH, got %q", s)
	}
	left, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("invalid left %q", parts[0])
	}
	top, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return geom.Rect{}, fmt.Errorf("invalid top %q", parts[1])
	}
	size, err := parseSize(parts[2])
	if err != nil {
		return geom.Rect{}, err
	}
	return geom.NewRect(left, top, size.Width, size.Height), nil
}
