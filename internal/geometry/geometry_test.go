package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScatterTargetHonorsConstraints(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	view := Size{W: 1024, H: 768}
	pad := 50.0
	minDist := 56.0

	rect := view.Inset(pad)
	center := view.Center()

	for i := 0; i < 500; i++ {
		p := ScatterTarget(rng, view, pad, minDist)
		assert.True(t, rect.Contains(p), "sample %d outside padded rect: %+v", i, p)
		assert.GreaterOrEqual(t, Distance(p, center), minDist, "sample %d inside exclusion radius", i)
	}
}

func TestScatterTargetDegenerateViewport(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	view := Size{W: 60, H: 60}

	// Padding swallows the whole viewport; fall back to center.
	p := ScatterTarget(rng, view, 50, 10)
	assert.Equal(t, view.Center(), p)
}

func TestLateralTargetRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	view := Size{W: 1280, H: 800}
	center := view.Center()

	var left, right int
	for i := 0; i < 500; i++ {
		p := LateralTarget(rng, view)

		dx := math.Abs(p.X - center.X)
		assert.GreaterOrEqual(t, dx, 250.0)
		assert.Less(t, dx, 450.0)

		dy := p.Y - center.Y
		assert.GreaterOrEqual(t, dy, -50.0)
		assert.Less(t, dy, 50.0)

		if p.X < center.X {
			left++
		} else {
			right++
		}
	}

	// Both sides must be exercised.
	assert.Positive(t, left)
	assert.Positive(t, right)
}

func TestRadialTargetDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	view := Size{W: 900, H: 700}
	radius := (view.W + view.H) / 8
	center := view.Center()

	angles := map[int]bool{}
	for i := 0; i < 200; i++ {
		p := RadialTarget(rng, view, radius)
		assert.InDelta(t, radius, Distance(p, center), 1e-9)

		quadrant := 0
		if p.X >= center.X {
			quadrant |= 1
		}
		if p.Y >= center.Y {
			quadrant |= 2
		}
		angles[quadrant] = true
	}

	// Angles should spread over all four quadrants.
	assert.Len(t, angles, 4)
}

func TestStripePatternTightTermination(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	total := 2000.0

	p := NewStripePattern(rng, total)
	require.NotEmpty(t, p.Widths)

	assert.GreaterOrEqual(t, p.Span(), total)

	trimmed := StripePattern{Widths: p.Widths[:len(p.Widths)-1], Gap: p.Gap}
	assert.Less(t, trimmed.Span(), total)
}

func TestStripePatternWidthBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	p := NewStripePattern(rng, 4000)

	for _, w := range p.Widths {
		assert.GreaterOrEqual(t, w, 20.0)
		assert.Less(t, w, 80.0)
	}
	assert.Equal(t, 20.0, p.Gap)
}

func TestStripePatternZeroTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := NewStripePattern(rng, 0)
	assert.Empty(t, p.Widths)
}
