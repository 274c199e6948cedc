package engines

import (
	"time"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	gapEffectTrials    = 5
	gapEffectFixation  = time.Second
	gapEffectGap       = 300 * time.Millisecond
	gapEffectTargetFor = time.Second
)

// NewGapEffect builds the gap-effect test: like the antisaccade cycle but
// with targets at a fixed radial distance of (W+H)/8 from center at a
// random angle, probing saccade latency changes when fixation is released
// before the target appears.
func NewGapEffect() trial.Engine {
	return &saccade{p: saccadeParams{
		spec:        trial.Spec{ID: "gapeffect", Name: "Gap Effect", MetricLabel: "targets"},
		trials:      gapEffectTrials,
		fixation:    gapEffectFixation,
		gap:         gapEffectGap,
		targetFor:   gapEffectTargetFor,
		marker:      trial.MarkerPlus,
		markerSize:  plusMarkSize,
		markerColor: colorWhite,
		targetColor: colorCyan,
		targetSize:  saccadeTargetSize,
		place: func(rt *trial.Runtime) geometry.Point {
			radius := (rt.View.W + rt.View.H) / 8
			return geometry.RadialTarget(rt.Rand, rt.View, radius)
		},
	}}
}
