package engines

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/geometry"
	"ovab-go/internal/metrics"
	"ovab-go/internal/trial"
)

const (
	reactionTrials     = 5
	reactionStartDelay = time.Second
	reactionInterTrial = 500 * time.Millisecond
	reactionPad        = 50.0
	reactionTargetSize = 88.0
)

// Reaction measures tap latency: a blue disc appears at a random scatter
// position and the trial completes when the user taps inside it. Five
// discrete trials, each feeding a record into the aggregator.
type Reaction struct {
	rt       *trial.Runtime
	index    int
	target   geometry.Point
	previous geometry.Point
	onset    time.Duration
	visible  bool
}

func NewReaction() trial.Engine {
	return &Reaction{}
}

func (e *Reaction) Spec() trial.Spec {
	return trial.Spec{ID: "reaction", Name: "Reaction Time", MetricLabel: "ms"}
}

func (e *Reaction) Start(rt *trial.Runtime) {
	e.rt = rt
	e.previous = rt.View.Center()
	rt.After(reactionStartDelay, e.showTarget)
}

func (e *Reaction) showTarget() {
	minDist := (fixedMarkerSize + reactionTargetSize) / 2
	e.target = geometry.ScatterTarget(e.rt.Rand, e.rt.View, reactionPad, minDist)
	e.onset = e.rt.Now()
	e.visible = true

	e.rt.Log.Debug("reaction target shown",
		zap.Int("trial", e.index),
		zap.Float64("x", e.target.X),
		zap.Float64("y", e.target.Y))
}

func (e *Reaction) HandleTap(p geometry.Point, at time.Duration) {
	if e.rt == nil || !e.rt.Live() || !e.visible {
		return
	}
	if geometry.Distance(p, e.target) > reactionTargetSize/2 {
		return
	}

	response := at
	e.rt.Stats.Record(metrics.TrialRecord{
		Index:    e.index,
		Onset:    e.onset,
		Response: &response,
		Target:   e.target,
		Previous: e.previous,
	})

	e.visible = false
	e.previous = e.target
	e.index++

	if e.index >= reactionTrials {
		e.rt.Complete(fmt.Sprintf("mean latency %.0f ms over %d trials",
			e.rt.Stats.AverageLatency(), reactionTrials))
		return
	}
	e.rt.After(reactionInterTrial, e.showTarget)
}

func (e *Reaction) Scene(now time.Duration) trial.Scene {
	if !e.visible {
		return trial.Scene{}
	}
	return trial.Scene{
		Target: &trial.Disc{Pos: e.target, Radius: reactionTargetSize / 2, Color: colorBlue},
	}
}
