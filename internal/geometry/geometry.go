package geometry

import (
	"math"
	"math/rand"
)

// Point is a position in viewport coordinates, origin at the top-left.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a viewport extent in CSS pixels.
type Size struct {
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

// Rect is an axis-aligned rectangle, inclusive on all edges.
type Rect struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

func (r Rect) valid() bool {
	return r.MaxX > r.MinX && r.MaxY > r.MinY
}

// Inset shrinks the viewport by pad on every edge.
func (s Size) Inset(pad float64) Rect {
	return Rect{MinX: pad, MinY: pad, MaxX: s.W - pad, MaxY: s.H - pad}
}

func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

const (
	// Saccade targets land on a random side at a horizontal offset in
	// [lateralMin, lateralMax) px with a small vertical jitter.
	lateralMin     = 250.0
	lateralMax     = 450.0
	lateralJitterY = 50.0

	scatterAttempts = 64
)

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// ScatterTarget returns a uniformly random point inside the viewport inset
// by pad on every edge and at least minDist away from the viewport center.
// Candidates inside the exclusion radius are rejected and resampled.
func ScatterTarget(rng *rand.Rand, view Size, pad, minDist float64) Point {
	center := view.Center()
	rect := view.Inset(pad)
	if !rect.valid() {
		return center
	}

	for i := 0; i < scatterAttempts; i++ {
		p := Point{
			X: uniform(rng, rect.MinX, rect.MaxX),
			Y: uniform(rng, rect.MinY, rect.MaxY),
		}
		if Distance(p, center) >= minDist {
			return p
		}
	}

	// The exclusion radius nearly fills the padded rect; settle for the
	// corner farthest from center.
	return farthestCorner(rect, center)
}

func farthestCorner(r Rect, from Point) Point {
	corners := []Point{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MinX, r.MaxY},
		{r.MaxX, r.MaxY},
	}

	best := corners[0]
	bestDist := Distance(best, from)
	for _, c := range corners[1:] {
		if d := Distance(c, from); d > bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// LateralTarget returns a saccade target offset horizontally from center on
// a randomly chosen side.
func LateralTarget(rng *rand.Rand, view Size) Point {
	center := view.Center()

	side := 1.0
	if rng.Intn(2) == 0 {
		side = -1.0
	}

	return Point{
		X: center.X + side*uniform(rng, lateralMin, lateralMax),
		Y: center.Y + uniform(rng, -lateralJitterY, lateralJitterY),
	}
}

// RadialTarget returns a point at exactly radius from the viewport center,
// at a uniformly random angle.
func RadialTarget(rng *rand.Rand, view Size, radius float64) Point {
	center := view.Center()
	angle := uniform(rng, 0, 2*math.Pi)
	return Point{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y + radius*math.Sin(angle),
	}
}
