package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ovab-go/internal/geometry"
	"ovab-go/internal/trial"
)

// runNoveltyPhases drives the engine through its three phases and returns
// each phase's grid as shown.
func runNoveltyPhases(t *testing.T, seed int64) []trial.QuadrantGrid {
	t.Helper()

	h := newHarness(geometry.Size{W: 1024, H: 768}, seed)
	e := NewNovelty()
	e.Start(h.rt)

	var grids []trial.QuadrantGrid
	for i := 0; i < noveltyPhases; i++ {
		h.sched.Advance(noveltyBlank)
		scene := e.Scene(h.sched.Now())
		require.NotNil(t, scene.Quadrants, "phase %d grid missing", i)
		grids = append(grids, *scene.Quadrants)

		h.sched.Advance(noveltyGridDuration)
	}

	require.Len(t, h.done, 1)
	assert.Contains(t, h.done[0], "3")
	return grids
}

func sharedQuadrants(a, b trial.QuadrantGrid) int {
	n := 0
	for q := range a.Images {
		if a.Images[q] == b.Images[q] {
			n++
		}
	}
	return n
}

func TestNoveltyStartGridUsesDistinctImages(t *testing.T) {
	grids := runNoveltyPhases(t, 71)

	seen := map[int]bool{}
	for _, img := range grids[0].Images {
		assert.False(t, seen[img], "image %d repeated in start grid", img)
		seen[img] = true
	}
}

func TestNoveltyBackPhasesSwapExactlyOneQuadrant(t *testing.T) {
	grids := runNoveltyPhases(t, 73)

	// 1-back repeats the start grid except the novel quadrant.
	assert.Equal(t, 3, sharedQuadrants(grids[1], grids[0]))
	assert.NotEqual(t, grids[0].Images[grids[1].Novel], grids[1].Images[grids[1].Novel])

	// 2-back reaches past the middle grid to the start grid.
	assert.Equal(t, 3, sharedQuadrants(grids[2], grids[0]))
	assert.NotEqual(t, grids[0].Images[grids[2].Novel], grids[2].Images[grids[2].Novel])
}

func TestNoveltyNovelImagesAreUnseen(t *testing.T) {
	grids := runNoveltyPhases(t, 79)

	seen := map[int]bool{}
	for _, img := range grids[0].Images {
		seen[img] = true
	}

	for phase := 1; phase < len(grids); phase++ {
		novelImg := grids[phase].Images[grids[phase].Novel]
		assert.False(t, seen[novelImg], "phase %d novel image %d already shown", phase, novelImg)
		seen[novelImg] = true
	}
}

func TestNoveltyBlankBetweenPhases(t *testing.T) {
	h := newHarness(geometry.Size{W: 1024, H: 768}, 83)
	e := NewNovelty()
	e.Start(h.rt)

	assert.Nil(t, e.Scene(h.sched.Now()).Quadrants, "blank expected before first grid")

	h.sched.Advance(noveltyBlank)
	assert.NotNil(t, e.Scene(h.sched.Now()).Quadrants)

	h.sched.Advance(noveltyGridDuration)
	assert.Nil(t, e.Scene(h.sched.Now()).Quadrants, "blank expected between phases")
}
