package engines

import (
	"time"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	antisaccadeTrials    = 5
	antisaccadeFixation  = 1500 * time.Millisecond
	antisaccadeGap       = 250 * time.Millisecond
	antisaccadeTargetFor = time.Second
)

// NewAntisaccade builds the antisaccade test: a plus-mark fixation, a
// short blank gap, then a cyan lateral target the user is instructed to
// look away from.
func NewAntisaccade() trial.Engine {
	return &saccade{p: saccadeParams{
		spec:        trial.Spec{ID: "antisaccade", Name: "Antisaccade", MetricLabel: "targets"},
		trials:      antisaccadeTrials,
		fixation:    antisaccadeFixation,
		gap:         antisaccadeGap,
		targetFor:   antisaccadeTargetFor,
		marker:      trial.MarkerPlus,
		markerSize:  plusMarkSize,
		markerColor: colorWhite,
		targetColor: colorCyan,
		targetSize:  saccadeTargetSize,
		place: func(rt *trial.Runtime) geometry.Point {
			return geometry.LateralTarget(rt.Rand, rt.View)
		},
	}}
}
