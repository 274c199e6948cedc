package engines

import (
	"time"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	prosaccadeTrials     = 5
	prosaccadeInterTrial = 3 * time.Second
	prosaccadeTargetFor  = 800 * time.Millisecond
	saccadeTargetSize    = 60.0
)

// NewProsaccade builds the prosaccade test: the user looks from a central
// white dot, which never disappears, toward red targets flashed at lateral
// offsets.
func NewProsaccade() trial.Engine {
	return &saccade{p: saccadeParams{
		spec:        trial.Spec{ID: "prosaccade", Name: "Prosaccade", MetricLabel: "targets"},
		trials:      prosaccadeTrials,
		fixation:    prosaccadeInterTrial,
		targetFor:   prosaccadeTargetFor,
		marker:      trial.MarkerDot,
		markerSize:  fixationDotSize,
		persistent:  true,
		markerColor: colorWhite,
		targetColor: colorRed,
		targetSize:  saccadeTargetSize,
		place: func(rt *trial.Runtime) geometry.Point {
			return geometry.LateralTarget(rt.Rand, rt.View)
		},
	}}
}
