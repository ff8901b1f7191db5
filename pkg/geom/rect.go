package geom

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// IsZero returns true if both dimensions are zero.
func (s Size) IsZero() bool { return s.Width == 0 && s.Height == 0 }

// Rect is a rectangle in viewport coordinates.
//
// The edge fields are stored rather than derived so a Rect can represent
// padding-adjusted boxes whose top/bottom no longer follow from y+height
// alone. NewRect keeps them consistent for the common case.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Left   float64 `json:"left" bson:"left"`
	Right  float64 `json:"right" bson:"right"`
	Top    float64 `json:"top" bson:"top"`
	Bottom float64 `json:"bottom" bson:"bottom"`
}

// NewRect builds a Rect from a top-left origin and dimensions, deriving the
// edge fields.
func NewRect(x, y, width, height float64) Rect {
	return Rect{
		X:      x,
		Y:      y,
		Width:  width,
		Height: height,
		Left:   x,
		Right:  x + width,
		Top:    y,
		Bottom: y + height,
	}
}

// CenterX returns the horizontal midpoint of the rectangle.
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// AnchorRectFunc measures the current anchor rectangle. The boolean is
// false when the anchor is detached from a rendered tree, in which case the
// engine skips the positioning pass entirely.
type AnchorRectFunc func() (Rect, bool)
