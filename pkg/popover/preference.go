package popover

import "strings"

// Axis identifies a placement side or alignment.
type Axis string

// Vertical sides and horizontal alignments.
const (
	AxisTop    Axis = "top"
	AxisBottom Axis = "bottom"
	AxisLeft   Axis = "left"
	AxisCenter Axis = "center"
	AxisRight  Axis = "right"
)

// Preference is the caller-requested placement, used as a first choice
// before fit-based fallback kicks in.
type Preference struct {
	YAxis Axis `json:"y_axis" bson:"y_axis"`
	XAxis Axis `json:"x_axis" bson:"x_axis"`
}

// ParsePosition parses a two-token position string such as "top left" or
// "bottom" into a Preference. The horizontal token defaults to center when
// omitted.
//
// Unrecognized tokens are carried through as-is rather than rejected: an
// unknown axis never matches a candidate's "fits unclamped" check, so the
// solver simply lands in its fallback branch.
func ParsePosition(position string) Preference {
	pref := Preference{XAxis: AxisCenter}

	tokens := strings.Fields(position)
	if len(tokens) > 0 {
		pref.YAxis = Axis(tokens[0])
	}
	if len(tokens) > 1 {
		pref.XAxis = Axis(tokens[1])
	}
	return pref
}

// String renders the preference back to its position-string form.
func (p Preference) String() string {
	if p.XAxis == "" {
		return string(p.YAxis)
	}
	return string(p.YAxis) + " " + string(p.XAxis)
}
