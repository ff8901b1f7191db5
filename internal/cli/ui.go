package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette, shared by the demo playground.
var (
	colorCyan   = lipgloss.Color("36")  // primary actions
	colorGreen  = lipgloss.Color("35")  // success / anchor
	colorYellow = lipgloss.Color("220") // warnings / clamped panels
	colorWhite  = lipgloss.Color("255") // values
	colorDim    = lipgloss.Color("240") // muted text
)

var (
	// styleTitle for headings.
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// styleDim for key hints and secondary text.
	styleDim = lipgloss.NewStyle().Foreground(colorDim)

	// styleValue for data values in the status line.
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// styleAnchor colors the anchor block.
	styleAnchor = lipgloss.NewStyle().Foreground(colorGreen)

	// stylePanel colors the popover panel, amber when clamped.
	stylePanel        = lipgloss.NewStyle().Foreground(colorCyan)
	stylePanelClamped = lipgloss.NewStyle().Foreground(colorYellow)
)
