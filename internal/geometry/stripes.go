package geometry

import "math/rand"

const (
	stripeMinWidth = 20.0
	stripeMaxWidth = 80.0
	stripeGap      = 20.0
)

// StripePattern is the randomized vertical-stripe layout for one optokinetic
// run. Widths are ordered left to right; every stripe is followed by Gap px
// of background.
type StripePattern struct {
	Widths []float64 `json:"widths"`
	Gap    float64   `json:"gap"`
}

// Span returns the total horizontal extent covered by the pattern,
// counting each stripe plus its trailing gap.
func (p StripePattern) Span() float64 {
	var span float64
	for _, w := range p.Widths {
		span += w + p.Gap
	}
	return span
}

// NewStripePattern samples stripe widths in [20, 80) px until the pattern
// spans at least total px. Patterns depend on the current viewport, so one
// must be generated fresh for every run.
func NewStripePattern(rng *rand.Rand, total float64) StripePattern {
	p := StripePattern{Gap: stripeGap}
	for p.Span() < total {
		p.Widths = append(p.Widths, uniform(rng, stripeMinWidth, stripeMaxWidth))
	}
	return p
}
