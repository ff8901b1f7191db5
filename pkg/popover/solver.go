package popover

import (
	"math"

	"github.com/fieldmark/popover/pkg/geom"
)

// MobileBreakpoint is the viewport width below which a popover that opted
// into mobile expansion renders full-screen instead of anchored.
const MobileBreakpoint = 782

// Solve picks a placement for a popover panel.
//
// The horizontal anchor point is always the anchor's center, regardless of
// the chosen alignment. Each side gets a budget: the full content dimension
// if it fits in the space available on that side, otherwise the space
// itself. The preferred side wins only when its budget equals the unclamped
// content size; otherwise the solver falls back to the side with the larger
// budget and records the clamp.
//
// Solve is pure: identical inputs always produce identical placements.
func Solve(content geom.Size, anchor geom.Rect, pref Preference, viewport geom.Size, expandOnMobile bool) Placement {
	popoverLeft := math.Round(anchor.Left + anchor.Width/2)

	// Vertical budgets. Space above the anchor is bounded by the anchor's
	// own top edge; space below by the viewport bottom.
	topBudget := anchor.Top
	if anchor.Top-content.Height > 0 {
		topBudget = content.Height
	}
	bottomBudget := viewport.Height - anchor.Bottom
	if viewport.Height-(anchor.Bottom+content.Height) > 0 {
		bottomBudget = content.Height
	}

	var yAxis Axis
	var contentHeight *float64
	switch {
	case pref.YAxis == AxisTop && topBudget == content.Height:
		yAxis = AxisTop
	case pref.YAxis == AxisBottom && bottomBudget == content.Height:
		yAxis = AxisBottom
	case bottomBudget > topBudget:
		yAxis = AxisBottom
		if bottomBudget != content.Height {
			contentHeight = &bottomBudget
		}
	default:
		// Ties go to top: only a strictly larger bottom budget flips down.
		yAxis = AxisTop
		if topBudget != content.Height {
			contentHeight = &topBudget
		}
	}

	popoverTop := anchor.Top
	if yAxis == AxisBottom {
		popoverTop = anchor.Bottom
	}

	// Horizontal budgets. Centered placement splits the width across the
	// anchor point and loses whatever each half pushes past a viewport
	// edge; left/right placements keep the whole width on one side.
	width := content.Width

	leftHalf := popoverLeft
	if popoverLeft-width/2 > 0 {
		leftHalf = width / 2
	}
	rightHalf := viewport.Width - popoverLeft
	if popoverLeft+width/2 < viewport.Width {
		rightHalf = width / 2
	}
	centerBudget := leftHalf + rightHalf

	leftBudget := popoverLeft
	if popoverLeft-width > 0 {
		leftBudget = width
	}
	rightBudget := viewport.Width - popoverLeft
	if popoverLeft+width < viewport.Width {
		rightBudget = width
	}

	var xAxis Axis
	var contentWidth *float64
	switch {
	case pref.XAxis == AxisCenter && centerBudget == width:
		xAxis = AxisCenter
	case pref.XAxis == AxisLeft && leftBudget == width:
		xAxis = AxisLeft
	case pref.XAxis == AxisRight && rightBudget == width:
		xAxis = AxisRight
	case rightBudget > leftBudget:
		// Center never competes in the fallback, even when it would fit.
		xAxis = AxisRight
		if rightBudget != width {
			contentWidth = &rightBudget
		}
	default:
		xAxis = AxisLeft
		if leftBudget != width {
			contentWidth = &leftBudget
		}
	}

	return Placement{
		YAxis:         yAxis,
		XAxis:         xAxis,
		PopoverTop:    popoverTop,
		PopoverLeft:   popoverLeft,
		ContentHeight: contentHeight,
		ContentWidth:  contentWidth,
		IsMobile:      viewport.Width < MobileBreakpoint && expandOnMobile,
	}
}
