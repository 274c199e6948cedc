package engines

import (
	"fmt"
	"math"
	"time"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	pursuitDuration = 12 * time.Second
	pursuitRamp     = 800 * time.Millisecond
	pursuitPeriod   = 4 * time.Second
	pursuitRadius   = 40.0
)

// Pursuit sweeps a disc horizontally along a sine path for a fixed
// duration. Every tap scores a hit or a miss against the target position
// computed at the moment of the tap, never against a stale frame.
type Pursuit struct {
	rt        *trial.Runtime
	started   time.Duration
	amplitude float64
	running   bool
}

func NewPursuit() trial.Engine {
	return &Pursuit{}
}

func (e *Pursuit) Spec() trial.Spec {
	return trial.Spec{ID: "pursuit", Name: "Smooth Pursuit", MetricLabel: "% on target"}
}

func (e *Pursuit) Start(rt *trial.Runtime) {
	e.rt = rt
	e.started = rt.Now()
	e.amplitude = 0.35 * math.Min(rt.View.W, rt.View.H)
	e.running = true
	rt.After(pursuitDuration, e.finish)
}

func (e *Pursuit) finish() {
	e.running = false
	hits := e.rt.Stats.Hits()
	misses := e.rt.Stats.Misses()
	e.rt.Complete(fmt.Sprintf("%.0f%% on target (%d of %d taps)",
		e.rt.Stats.AccuracyPercent(), hits, hits+misses))
}

// positionAt is the target center after elapsed run time t.
func (e *Pursuit) positionAt(t time.Duration) geometry.Point {
	center := e.rt.View.Center()
	omega := 2 * math.Pi / pursuitPeriod.Seconds()
	x := center.X + e.amplitude*math.Sin(omega*t.Seconds())*ease(t, pursuitDuration, pursuitRamp)
	return geometry.Point{X: x, Y: center.Y}
}

func (e *Pursuit) HandleTap(p geometry.Point, at time.Duration) {
	if e.rt == nil || !e.rt.Live() || !e.running {
		return
	}
	if geometry.Distance(p, e.positionAt(at-e.started)) <= pursuitRadius {
		e.rt.Stats.RecordHit()
	} else {
		e.rt.Stats.RecordMiss()
	}
}

func (e *Pursuit) Scene(now time.Duration) trial.Scene {
	if !e.running {
		return trial.Scene{}
	}
	return trial.Scene{
		Target: &trial.Disc{Pos: e.positionAt(now - e.started), Radius: pursuitRadius, Color: colorBlue},
	}
}

// ease scales the sweep amplitude: 0 at the endpoints, ramping to 1 over
// ramp at both ends of the run with a smoothstep profile, 1 in between.
func ease(t, total, ramp time.Duration) float64 {
	if t <= 0 || t >= total {
		return 0
	}
	if t < ramp {
		return smoothstep(float64(t) / float64(ramp))
	}
	if t > total-ramp {
		return smoothstep(float64(total-t) / float64(ramp))
	}
	return 1
}

func smoothstep(x float64) float64 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x * x * (3 - 2*x)
}
