package popover

import (
	"github.com/fieldmark/popover/pkg/geom"
)

// Placement is the solver's output: the chosen sides, the popover's
// top-left anchor point in viewport coordinates, and the clamped content
// budget when the natural size does not fit.
//
// ContentHeight and ContentWidth are nil when no clamping is required on
// that dimension; otherwise they hold the pixel budget the content must
// shrink to.
type Placement struct {
	YAxis         Axis     `json:"y_axis" bson:"y_axis"`
	XAxis         Axis     `json:"x_axis" bson:"x_axis"`
	PopoverTop    float64  `json:"popover_top" bson:"popover_top"`
	PopoverLeft   float64  `json:"popover_left" bson:"popover_left"`
	ContentHeight *float64 `json:"content_height,omitempty" bson:"content_height,omitempty"`
	ContentWidth  *float64 `json:"content_width,omitempty" bson:"content_width,omitempty"`
	IsMobile      bool     `json:"is_mobile" bson:"is_mobile"`
}

// sameAnchoring reports whether two placements agree on the fields that
// gate a state commit: the horizontal anchor point, both axes, and the
// mobile flag. PopoverTop and the clamp budgets are deliberately excluded.
func (p Placement) sameAnchoring(q Placement) bool {
	return p.PopoverLeft == q.PopoverLeft &&
		p.YAxis == q.YAxis &&
		p.XAxis == q.XAxis &&
		p.IsMobile == q.IsMobile
}

// sameClamping reports whether two placements agree on the clamped content
// budgets.
func (p Placement) sameClamping(q Placement) bool {
	return floatPtrEqual(p.ContentHeight, q.ContentHeight) &&
		floatPtrEqual(p.ContentWidth, q.ContentWidth)
}

// Equal reports full structural equality.
func (p Placement) Equal(q Placement) bool {
	return p.sameAnchoring(q) && p.sameClamping(q) && p.PopoverTop == q.PopoverTop
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SolveRequest bundles one complete set of solver inputs. It is the wire
// format of the HTTP API, the payload recorded by trace stores, and the
// input assembled by the solve CLI command.
type SolveRequest struct {
	Content        geom.Size `json:"content" bson:"content"`
	Anchor         geom.Rect `json:"anchor" bson:"anchor"`
	Viewport       geom.Size `json:"viewport" bson:"viewport"`
	Position       string    `json:"position,omitempty" bson:"position,omitempty"`
	ExpandOnMobile bool      `json:"expand_on_mobile,omitempty" bson:"expand_on_mobile,omitempty"`
}

// Solve runs the positioning solver on the request's inputs.
func (r SolveRequest) Solve() Placement {
	return Solve(r.Content, r.Anchor, ParsePosition(r.Position), r.Viewport, r.ExpandOnMobile)
}
