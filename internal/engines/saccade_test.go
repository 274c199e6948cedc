package engines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

func TestProsaccadeKeepsFixationThroughTarget(t *testing.T) {
	view := geometry.Size{W: 1280, H: 800}
	h := newHarness(view, 17)
	e := NewProsaccade()
	e.Start(h.rt)

	scene := e.Scene(h.sched.Now())
	require.NotNil(t, scene.Fixation)
	assert.Equal(t, trial.MarkerDot, scene.Fixation.Kind)
	assert.Equal(t, colorWhite, scene.Fixation.Color)
	assert.Nil(t, scene.Target)

	h.sched.Advance(prosaccadeInterTrial)
	scene = e.Scene(h.sched.Now())
	require.NotNil(t, scene.Target, "target due after the inter-trial wait")
	assert.Equal(t, colorRed, scene.Target.Color)
	assert.NotNil(t, scene.Fixation, "central dot must stay up during the target")

	h.sched.Advance(prosaccadeTargetFor)
	scene = e.Scene(h.sched.Now())
	assert.Nil(t, scene.Target)
	assert.NotNil(t, scene.Fixation)
}

func TestProsaccadeCompletesAfterFiveTargets(t *testing.T) {
	h := newHarness(geometry.Size{W: 1280, H: 800}, 23)
	e := NewProsaccade()
	e.Start(h.rt)

	for i := 0; i < prosaccadeTrials; i++ {
		h.sched.Advance(prosaccadeInterTrial)
		require.NotNil(t, e.Scene(h.sched.Now()).Target, "trial %d", i)

		if i < prosaccadeTrials-1 {
			h.sched.Advance(prosaccadeTargetFor)
			assert.Empty(t, h.done)
		}
	}

	h.sched.Advance(prosaccadeTargetFor)
	require.Len(t, h.done, 1)
	assert.Contains(t, h.done[0], "5 targets")
}

func TestProsaccadeTargetsAreLateral(t *testing.T) {
	view := geometry.Size{W: 1280, H: 800}
	h := newHarness(view, 29)
	e := NewProsaccade()
	e.Start(h.rt)
	center := view.Center()

	for i := 0; i < prosaccadeTrials; i++ {
		h.sched.Advance(prosaccadeInterTrial)
		scene := e.Scene(h.sched.Now())
		require.NotNil(t, scene.Target)

		dx := scene.Target.Pos.X - center.X
		if dx < 0 {
			dx = -dx
		}
		assert.GreaterOrEqual(t, dx, 250.0)
		assert.Less(t, dx, 450.0)

		h.sched.Advance(prosaccadeTargetFor)
	}
}

func TestAntisaccadeGapSequence(t *testing.T) {
	h := newHarness(geometry.Size{W: 1280, H: 800}, 37)
	e := NewAntisaccade()
	e.Start(h.rt)

	// Fixation: plus-mark up, no target.
	scene := e.Scene(h.sched.Now())
	require.NotNil(t, scene.Fixation)
	assert.Equal(t, trial.MarkerPlus, scene.Fixation.Kind)
	assert.Nil(t, scene.Target)

	// Gap: screen goes blank before the target.
	h.sched.Advance(antisaccadeFixation)
	scene = e.Scene(h.sched.Now())
	assert.Nil(t, scene.Fixation)
	assert.Nil(t, scene.Target)

	// Target: cyan disc alone.
	h.sched.Advance(antisaccadeGap)
	scene = e.Scene(h.sched.Now())
	require.NotNil(t, scene.Target)
	assert.Equal(t, colorCyan, scene.Target.Color)
	assert.Nil(t, scene.Fixation)

	// Next trial's fixation.
	h.sched.Advance(antisaccadeTargetFor)
	scene = e.Scene(h.sched.Now())
	assert.Nil(t, scene.Target)
	require.NotNil(t, scene.Fixation)
}

func TestAntisaccadeCompletesAfterFiveTargets(t *testing.T) {
	h := newHarness(geometry.Size{W: 1280, H: 800}, 41)
	e := NewAntisaccade()
	e.Start(h.rt)

	cycle := antisaccadeFixation + antisaccadeGap + antisaccadeTargetFor
	h.sched.Advance(time.Duration(antisaccadeTrials)*cycle - time.Millisecond)
	assert.Empty(t, h.done)

	h.sched.Advance(time.Millisecond)
	require.Len(t, h.done, 1)
}

func TestGapEffectTargetsSitOnFixedRadius(t *testing.T) {
	view := geometry.Size{W: 1100, H: 700}
	h := newHarness(view, 53)
	e := NewGapEffect()
	e.Start(h.rt)

	radius := (view.W + view.H) / 8
	center := view.Center()

	for i := 0; i < gapEffectTrials; i++ {
		h.sched.Advance(gapEffectFixation + gapEffectGap)
		scene := e.Scene(h.sched.Now())
		require.NotNil(t, scene.Target, "trial %d", i)
		assert.InDelta(t, radius, geometry.Distance(scene.Target.Pos, center), 1e-9)

		h.sched.Advance(gapEffectTargetFor)
	}

	require.Len(t, h.done, 1)
}

func TestSaccadeTapsLeaveStatsUntouched(t *testing.T) {
	h := newHarness(geometry.Size{W: 1280, H: 800}, 61)
	e := NewProsaccade()
	e.Start(h.rt)

	h.sched.Advance(prosaccadeInterTrial)
	scene := e.Scene(h.sched.Now())
	require.NotNil(t, scene.Target)

	e.HandleTap(scene.Target.Pos, h.sched.Now())

	assert.Zero(t, h.stats.Count())
	assert.Zero(t, h.stats.Hits())
	assert.Zero(t, h.stats.Misses())
}
