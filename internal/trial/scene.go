package trial

import "ovab-go/internal/geometry"

// MarkerKind selects the fixation drawing primitive.
type MarkerKind string

const (
	MarkerDot  MarkerKind = "dot"
	MarkerPlus MarkerKind = "plus"
)

// Marker is a fixation mark.
type Marker struct {
	Kind  MarkerKind     `json:"kind"`
	Pos   geometry.Point `json:"pos"`
	Size  float64        `json:"size"`
	Color string         `json:"color"`
}

// Disc is a filled circular target.
type Disc struct {
	Pos    geometry.Point `json:"pos"`
	Radius float64        `json:"radius"`
	Color  string         `json:"color"`
}

// StripeField is a stripe pattern plus its current horizontal scroll offset.
type StripeField struct {
	Pattern geometry.StripePattern `json:"pattern"`
	Offset  float64                `json:"offset"`
	Color   string                 `json:"color"`
}

// QuadrantGrid is a 2x2 image layout. Images hold slot indexes into the
// client's image pool in quadrant order (top-left, top-right, bottom-left,
// bottom-right); Novel is the quadrant new to the current phase.
type QuadrantGrid struct {
	Images [4]int `json:"images"`
	Novel  int    `json:"novel"`
}

// Scene is the full drawing description for one frame. Nil members are
// absent from the frame.
type Scene struct {
	Fixation  *Marker       `json:"fixation,omitempty"`
	Target    *Disc         `json:"target,omitempty"`
	Stripes   *StripeField  `json:"stripes,omitempty"`
	Quadrants *QuadrantGrid `json:"quadrants,omitempty"`
	Overlay   string        `json:"overlay,omitempty"`
}
