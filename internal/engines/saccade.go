package engines

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

// saccadePhase tracks where a saccade trial is in its cycle.
type saccadePhase int

const (
	saccadeFixating saccadePhase = iota
	saccadeBlank
	saccadeShowing
)

// saccadeParams fixes one saccade variant's timing and stimulus policy.
// The three saccade tests run the same discrete cycle, fixation, optional
// blank gap, then a brief peripheral target, and differ only in these
// numbers.
type saccadeParams struct {
	spec       trial.Spec
	trials     int
	fixation   time.Duration
	gap        time.Duration
	targetFor  time.Duration
	marker     trial.MarkerKind
	markerSize float64
	// persistent keeps the fixation mark up while the target is shown.
	persistent  bool
	markerColor string
	targetColor string
	targetSize  float64
	place       func(rt *trial.Runtime) geometry.Point
}

// saccade is the shared pass-through engine behind the prosaccade,
// antisaccade and gap-effect tests. It presents targets on a fixed
// schedule and records nothing; the summary reports presentation counts.
type saccade struct {
	p      saccadeParams
	rt     *trial.Runtime
	index  int
	phase  saccadePhase
	target geometry.Point
}

func (e *saccade) Spec() trial.Spec {
	return e.p.spec
}

func (e *saccade) Start(rt *trial.Runtime) {
	e.rt = rt
	e.beginTrial()
}

func (e *saccade) beginTrial() {
	e.phase = saccadeFixating
	if e.p.gap > 0 {
		e.rt.After(e.p.fixation, e.beginGap)
		return
	}
	e.rt.After(e.p.fixation, e.showTarget)
}

func (e *saccade) beginGap() {
	e.phase = saccadeBlank
	e.rt.After(e.p.gap, e.showTarget)
}

func (e *saccade) showTarget() {
	e.target = e.p.place(e.rt)
	e.phase = saccadeShowing

	e.rt.Log.Debug("saccade target shown",
		zap.String("test", e.p.spec.ID),
		zap.Int("trial", e.index),
		zap.Float64("x", e.target.X),
		zap.Float64("y", e.target.Y))

	e.rt.After(e.p.targetFor, e.hideTarget)
}

func (e *saccade) hideTarget() {
	e.index++
	if e.index >= e.p.trials {
		e.rt.Complete(fmt.Sprintf("%d targets presented", e.p.trials))
		return
	}
	e.beginTrial()
}

func (e *saccade) HandleTap(p geometry.Point, at time.Duration) {
	// Pass-through: saccade tests capture no responses.
}

func (e *saccade) Scene(now time.Duration) trial.Scene {
	s := trial.Scene{}

	showMarker := e.phase == saccadeFixating || (e.p.persistent && e.phase != saccadeBlank)
	if showMarker {
		s.Fixation = &trial.Marker{
			Kind:  e.p.marker,
			Pos:   e.rt.View.Center(),
			Size:  e.p.markerSize,
			Color: e.p.markerColor,
		}
	}
	if e.phase == saccadeShowing {
		s.Target = &trial.Disc{Pos: e.target, Radius: e.p.targetSize / 2, Color: e.p.targetColor}
	}
	return s
}
