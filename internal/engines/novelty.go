package engines

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

const (
	noveltyPhases       = 3
	noveltyBlank        = time.Second
	noveltyGridDuration = 10500 * time.Millisecond
	noveltyPoolSize     = 8
)

// Novelty runs three fixation phases (start, 1-back, 2-back), each a
// blank second followed by a 2x2 image grid held for 10.5 seconds. The
// 1-back grid repeats the previous grid with one quadrant swapped for an
// unseen image; the 2-back grid does the same against the grid from two
// phases earlier. The swapped quadrant is the phase's novel probe.
type Novelty struct {
	rt      *trial.Runtime
	phase   int
	showing bool
	grid    trial.QuadrantGrid
	history []trial.QuadrantGrid
	unused  []int
}

func NewNovelty() trial.Engine {
	return &Novelty{}
}

func (e *Novelty) Spec() trial.Spec {
	return trial.Spec{ID: "novelty", Name: "Novelty Fixation", MetricLabel: "phases"}
}

func (e *Novelty) Start(rt *trial.Runtime) {
	e.rt = rt
	e.unused = rt.Rand.Perm(noveltyPoolSize)
	e.beginPhase()
}

func (e *Novelty) beginPhase() {
	e.showing = false
	e.rt.After(noveltyBlank, e.showGrid)
}

// takeImage pops the next unseen image slot from the shuffled pool.
func (e *Novelty) takeImage() int {
	img := e.unused[0]
	e.unused = e.unused[1:]
	return img
}

func (e *Novelty) showGrid() {
	novel := e.rt.Rand.Intn(4)

	var grid trial.QuadrantGrid
	if e.phase == 0 {
		for q := range grid.Images {
			grid.Images[q] = e.takeImage()
		}
	} else {
		// 1-back repeats the previous grid, 2-back the one before it,
		// with only the novel quadrant swapped for a fresh image.
		base := e.history[len(e.history)-e.phase]
		grid.Images = base.Images
		grid.Images[novel] = e.takeImage()
	}
	grid.Novel = novel

	e.grid = grid
	e.history = append(e.history, grid)
	e.showing = true

	e.rt.Log.Debug("novelty grid shown",
		zap.Int("phase", e.phase),
		zap.Int("novelQuadrant", novel))

	e.rt.After(noveltyGridDuration, e.endPhase)
}

func (e *Novelty) endPhase() {
	e.showing = false
	e.phase++
	if e.phase >= noveltyPhases {
		e.rt.Complete(fmt.Sprintf("%d encoding phases shown", noveltyPhases))
		return
	}
	e.beginPhase()
}

func (e *Novelty) HandleTap(p geometry.Point, at time.Duration) {
	// Pass-through: fixation is inferred, no responses taken.
}

func (e *Novelty) Scene(now time.Duration) trial.Scene {
	if !e.showing {
		return trial.Scene{}
	}
	grid := e.grid
	return trial.Scene{Quadrants: &grid}
}
