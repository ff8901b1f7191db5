// Package geom provides the geometry primitives used by the popover engine.
//
// All coordinates are float64 pixels in viewport space: the origin is the
// viewport's top-left corner, x grows rightward and y grows downward. The
// package also contains the measurement helpers the engine needs around an
// anchor element: lenient CSS pixel-string parsing and padding-adjusted
// anchor rectangles.
//
// # Anchor rectangles
//
// A popover is positioned against the bounding box of its anchor's parent,
// shrunk vertically by the parent's own padding so the popover hugs the
// visible content rather than the padded box:
//
//	rect := geom.PadRect(parentBox, "12px", "12px")
//
// Hosts that measure anchors differently (virtual anchors, text ranges)
// supply their own AnchorRectFunc instead.
package geom
