package trial

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/geometry"
	"ovab-go/internal/metrics"
)

// Scheduler schedules continuations on the session's event loop.
// Implementations must run callbacks on the same logical thread that calls
// After, with monotonic timestamps; callbacks scheduled with a shorter
// delay fire before those scheduled later from the same point.
type Scheduler interface {
	After(d time.Duration, fn func())
	Now() time.Duration
}

// Spec identifies an engine to the battery definition and the results view.
type Spec struct {
	ID          string
	Name        string
	MetricLabel string
}

// Engine runs one test: a fixed count of discrete trials or a fixed
// duration of continuous motion. Engines never block; every wait point is
// a continuation scheduled through the Runtime. All methods are invoked on
// the session loop.
type Engine interface {
	Spec() Spec
	Start(rt *Runtime)
	HandleTap(p geometry.Point, at time.Duration)
	Scene(now time.Duration) Scene
}

// Runtime hands an engine its per-run collaborators. After wraps the
// session scheduler with a liveness check: once the run is invalidated
// (restart, session teardown) every outstanding callback is a silent no-op.
type Runtime struct {
	View  geometry.Size
	Rand  *rand.Rand
	Stats *metrics.Aggregator
	Log   *zap.Logger

	sched     Scheduler
	onDone    func(summary string)
	invalid   bool
	completed bool
}

func NewRuntime(sched Scheduler, view geometry.Size, rng *rand.Rand,
	stats *metrics.Aggregator, log *zap.Logger, onDone func(string)) *Runtime {
	return &Runtime{
		View:   view,
		Rand:   rng,
		Stats:  stats,
		Log:    log,
		sched:  sched,
		onDone: onDone,
	}
}

func (rt *Runtime) Now() time.Duration {
	return rt.sched.Now()
}

// After schedules fn behind the liveness check.
func (rt *Runtime) After(d time.Duration, fn func()) {
	rt.sched.After(d, func() {
		if rt.invalid {
			return
		}
		fn()
	})
}

// Invalidate detaches the run. Outstanding callbacks and a late Complete
// become no-ops.
func (rt *Runtime) Invalidate() {
	rt.invalid = true
}

func (rt *Runtime) Live() bool {
	return !rt.invalid
}

// Complete reports the run's summary. It must be called exactly once per
// live run; a second call means the engine's sequencing is corrupted.
func (rt *Runtime) Complete(summary string) {
	if rt.invalid {
		return
	}
	if rt.completed {
		panic("trial: Complete called twice in one run")
	}
	rt.completed = true
	rt.onDone(summary)
}
