package engines

import (
	"fmt"
	"time"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	optoStaticDuration = 2 * time.Second
	optoScrollDuration = 7 * time.Second
)

// Optokinetic fills the viewport with a randomized vertical stripe pattern
// that holds still for two seconds, then drifts left by twice the viewport
// width. Passive: the user fixates a red dot and no responses are taken.
type Optokinetic struct {
	rt      *trial.Runtime
	pattern geometry.StripePattern
	started time.Duration
	running bool
}

func NewOptokinetic() trial.Engine {
	return &Optokinetic{}
}

func (e *Optokinetic) Spec() trial.Spec {
	return trial.Spec{ID: "optokinetic", Name: "Optokinetic Drift", MetricLabel: "s"}
}

func (e *Optokinetic) Start(rt *trial.Runtime) {
	e.rt = rt
	// The pattern depends on the live viewport, so it is never reused
	// across runs.
	e.pattern = geometry.NewStripePattern(rt.Rand, 2*rt.View.W)
	e.started = rt.Now()
	e.running = true
	rt.After(optoStaticDuration+optoScrollDuration, e.finish)
}

func (e *Optokinetic) finish() {
	e.running = false
	total := optoStaticDuration + optoScrollDuration
	e.rt.Complete(fmt.Sprintf("%.0f s of stripe drift (passive)", total.Seconds()))
}

// offsetAt is the pattern's horizontal scroll after elapsed run time t:
// zero through the static phase, then linear to -2 viewport widths.
func (e *Optokinetic) offsetAt(t time.Duration) float64 {
	scrolled := t - optoStaticDuration
	if scrolled <= 0 {
		return 0
	}
	if scrolled > optoScrollDuration {
		scrolled = optoScrollDuration
	}
	frac := float64(scrolled) / float64(optoScrollDuration)
	return -2 * e.rt.View.W * frac
}

func (e *Optokinetic) HandleTap(p geometry.Point, at time.Duration) {
	// Passive test.
}

func (e *Optokinetic) Scene(now time.Duration) trial.Scene {
	if !e.running {
		return trial.Scene{}
	}
	return trial.Scene{
		Stripes: &trial.StripeField{
			Pattern: e.pattern,
			Offset:  e.offsetAt(now - e.started),
			Color:   colorWhite,
		},
		Fixation: &trial.Marker{
			Kind:  trial.MarkerDot,
			Pos:   e.rt.View.Center(),
			Size:  fixationDotSize,
			Color: colorRed,
		},
	}
}
