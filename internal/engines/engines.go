// Package engines holds the seven test implementations the battery can
// run. Each engine owns one run's trial loop: it schedules its stimulus
// phases through the runtime, consumes taps, and describes what to draw.
package engines

import (
	"sort"

	"ovab-go/internal/trial"
)

// Stimulus colors, CSS names understood by the canvas client.
const (
	colorBlue  = "blue"
	colorRed   = "red"
	colorCyan  = "cyan"
	colorWhite = "white"
)

const (
	fixationDotSize = 12.0
	plusMarkSize    = 36.0
	fixedMarkerSize = 24.0
)

// Factory builds a fresh engine for one run. Engines are single-use;
// the sequencer constructs a new one every time a test starts.
type Factory func() trial.Engine

var registry = map[string]Factory{}

func register(id string, f Factory) {
	if _, dup := registry[id]; dup {
		panic("engines: duplicate engine id " + id)
	}
	registry[id] = f
}

func init() {
	register("reaction", NewReaction)
	register("pursuit", NewPursuit)
	register("optokinetic", NewOptokinetic)
	register("prosaccade", NewProsaccade)
	register("antisaccade", NewAntisaccade)
	register("gapeffect", NewGapEffect)
	register("novelty", NewNovelty)
}

// New builds the engine registered under id.
func New(id string) (trial.Engine, bool) {
	f, ok := registry[id]
	if !ok {
		return nil, false
	}
	return f(), true
}

// IDs lists every registered engine id, sorted.
func IDs() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
