package geom

import (
	"strconv"
	"strings"
)

// ParsePixels parses a computed-style pixel value such as "12px" or "12"
// into a number of pixels. Values that fail to parse are treated as zero;
// measurement must degrade gracefully rather than fail.
func ParsePixels(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return float64(n)
}

// PadRect returns rect shrunk vertically by the given top and bottom
// padding values. Top moves down, bottom moves up, and height shrinks by
// the sum; the horizontal fields pass through untouched.
func PadRect(rect Rect, paddingTop, paddingBottom string) Rect {
	top := ParsePixels(paddingTop)
	bottom := ParsePixels(paddingBottom)

	rect.Top += top
	rect.Bottom -= bottom
	rect.Height -= top + bottom
	return rect
}
