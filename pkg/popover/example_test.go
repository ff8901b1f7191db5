package popover_test

import (
	"fmt"

	"github.com/fieldmark/popover/pkg/geom"
	"github.com/fieldmark/popover/pkg/popover"
)

func ExampleSolve() {
	content := geom.Size{Width: 150, Height: 250}
	anchor := geom.NewRect(100, 700, 100, 20)
	viewport := geom.Size{Width: 1000, Height: 800}

	// 700px of room above the anchor fits the 250px panel: no flip, no
	// clamp, centered on the anchor's midpoint.
	p := popover.Solve(content, anchor, popover.ParsePosition("top"), viewport, false)

	fmt.Println(p.YAxis, p.XAxis)
	fmt.Println(p.PopoverTop, p.PopoverLeft)
	fmt.Println(p.ContentHeight == nil)
	// Output:
	// top center
	// 700 150
	// true
}

func ExampleSolve_flip() {
	content := geom.Size{Width: 150, Height: 250}
	anchor := geom.NewRect(100, 100, 100, 20)
	viewport := geom.Size{Width: 1000, Height: 800}

	// Only 100px above: the preferred top side loses to the bottom, which
	// holds the full content height.
	p := popover.Solve(content, anchor, popover.ParsePosition("top"), viewport, false)

	fmt.Println(p.YAxis)
	fmt.Println(p.PopoverTop)
	fmt.Println(p.ContentHeight == nil)
	// Output:
	// bottom
	// 120
	// true
}

func ExampleParsePosition() {
	fmt.Println(popover.ParsePosition("top left"))
	fmt.Println(popover.ParsePosition("bottom"))
	// Output:
	// top left
	// bottom center
}
