// Package session owns one user's battery run end to end: the event loop,
// the phase machine, the per-test engines and the session-scoped stats.
package session

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"ovab-go/internal/engines"
	"ovab-go/internal/geometry"
	"ovab-go/internal/metrics"
	"ovab-go/internal/models"
	"ovab-go/internal/trial"
)

const interstitialDuration = 3 * time.Second

// Frame is one render snapshot streamed to the presentation layer.
type Frame struct {
	Phase   string      `json:"phase"`
	Test    int         `json:"test"`
	Scene   trial.Scene `json:"scene"`
	Elapsed float64     `json:"elapsed"`
}

// Session is a single battery run. All state lives on the session's loop
// goroutine; the exported methods marshal onto it and are safe from any
// goroutine.
type Session struct {
	ID  string
	log *zap.Logger

	battery *models.Battery
	sched   trial.Scheduler
	loop    *Loop
	rng     *rand.Rand

	phase      Phase
	generation int
	view       geometry.Size
	viewSet    bool
	stats      *metrics.Aggregator
	results    map[string]string
	engine     trial.Engine
	rt         *trial.Runtime
	interUntil time.Duration
	sink       func(Frame)
	created    time.Time
}

// New builds a session with its own event loop; call Run to serve it.
func New(id string, log *zap.Logger, battery *models.Battery, frameEvery time.Duration, rng *rand.Rand) *Session {
	loop := NewLoop(log, frameEvery)
	s := newSession(id, log, battery, loop, rng)
	s.loop = loop
	loop.frame = s.emitFrame
	return s
}

// newSession wires everything that does not need a live loop; tests drive
// the returned session directly under a manual scheduler.
func newSession(id string, log *zap.Logger, battery *models.Battery, sched trial.Scheduler, rng *rand.Rand) *Session {
	return &Session{
		ID:      id,
		log:     log,
		battery: battery,
		sched:   sched,
		rng:     rng,
		phase:   Phase{Kind: PhaseStart},
		stats:   metrics.NewAggregator(),
		results: make(map[string]string),
		created: time.Now(),
	}
}

// Run starts the loop goroutine. The session stops when ctx is canceled
// or Close is called.
func (s *Session) Run(ctx context.Context) {
	go s.loop.Run(ctx)
}

// Close shuts the session down; outstanding callbacks are dropped.
func (s *Session) Close() {
	s.loop.Stop()
}

func (s *Session) Attach(view geometry.Size, sink func(Frame)) bool {
	return s.loop.Post(func() { s.attach(view, sink) })
}

func (s *Session) Detach() bool {
	return s.loop.Post(s.detach)
}

func (s *Session) Tap(p geometry.Point) bool {
	return s.loop.Post(func() { s.tap(p) })
}

func (s *Session) Restart() bool {
	return s.loop.Post(s.restart)
}

// Report captures the results view's data on the loop thread. ok is false
// once the session has shut down.
func (s *Session) Report() (Report, bool) {
	var r Report
	done := make(chan struct{})
	if !s.loop.Post(func() { r = s.report(); close(done) }) {
		return Report{}, false
	}

	select {
	case <-done:
		return r, true
	case <-s.loop.Stopped():
		select {
		case <-done:
			return r, true
		default:
			return Report{}, false
		}
	}
}

// --- loop-thread internals ---

// attach stores the client's viewport and frame sink. A reconnect simply
// overrides the previous sink.
func (s *Session) attach(view geometry.Size, sink func(Frame)) {
	s.view = view
	s.viewSet = true
	s.sink = sink
	s.log.Info("client attached",
		zap.String("session", s.ID),
		zap.Float64("w", view.W),
		zap.Float64("h", view.H))
}

func (s *Session) detach() {
	s.sink = nil
}

// tap routes a pointer tap by phase: it arms the battery from the start
// screen, advances instruction cards, and feeds the active engine.
func (s *Session) tap(p geometry.Point) {
	switch s.phase.Kind {
	case PhaseStart:
		if !s.viewSet {
			return
		}
		s.beginBattery()
	case PhaseInstruction:
		s.phase = Transition(s.phase, EventBegin, len(s.battery.Tests))
		s.startEngine(s.phase.Test)
	case PhaseRunning:
		if s.engine != nil {
			s.engine.HandleTap(p, s.sched.Now())
		}
	default:
		// Interstitials advance on their own timer; the results screen
		// takes no taps.
	}
}

// beginBattery resets all session state and moves to the first test's
// instruction card.
func (s *Session) beginBattery() {
	s.stats.Reset()
	s.results = make(map[string]string)
	s.phase = Transition(s.phase, EventBegin, len(s.battery.Tests))
	s.log.Info("battery started",
		zap.String("session", s.ID),
		zap.Int("tests", len(s.battery.Tests)))
}

func (s *Session) startEngine(i int) {
	def := s.battery.Tests[i]
	eng, ok := engines.New(def.Engine)
	if !ok {
		panic(fmt.Sprintf("session: battery references unknown engine %q", def.Engine))
	}

	gen := s.generation
	s.rt = trial.NewRuntime(s.sched, s.view, s.rng, s.stats, s.log, func(summary string) {
		if gen != s.generation {
			return
		}
		s.testDone(def.ID, summary)
	})
	s.engine = eng

	s.log.Info("test started",
		zap.String("session", s.ID),
		zap.String("test", def.ID),
		zap.Int("index", i))
	eng.Start(s.rt)
}

func (s *Session) testDone(id, summary string) {
	s.results[id] = summary
	s.engine = nil
	s.rt = nil

	s.phase = Transition(s.phase, EventTestDone, len(s.battery.Tests))
	s.log.Info("test completed",
		zap.String("session", s.ID),
		zap.String("test", id),
		zap.String("summary", summary))

	if s.phase.Kind == PhaseInterstitial {
		s.scheduleInterstitial()
		return
	}
	s.log.Info("battery complete",
		zap.String("session", s.ID),
		zap.Int("tests", len(s.results)))
}

func (s *Session) scheduleInterstitial() {
	s.interUntil = s.sched.Now() + interstitialDuration

	gen := s.generation
	s.sched.After(interstitialDuration, func() {
		if gen != s.generation {
			return
		}
		s.phase = Transition(s.phase, EventInterstitialDone, len(s.battery.Tests))
	})
}

// restart bumps the generation so outstanding callbacks die silently, then
// returns to the start screen with clean state.
func (s *Session) restart() {
	s.generation++
	if s.rt != nil {
		s.rt.Invalidate()
	}
	s.engine = nil
	s.rt = nil
	s.stats.Reset()
	s.results = make(map[string]string)
	s.phase = Transition(s.phase, EventRestart, len(s.battery.Tests))

	s.log.Info("session restarted",
		zap.String("session", s.ID),
		zap.Int("generation", s.generation))
}

// scene composes the frame for the current phase.
func (s *Session) scene() trial.Scene {
	switch s.phase.Kind {
	case PhaseStart:
		return trial.Scene{Overlay: s.battery.Title + "\nTap to begin"}

	case PhaseInstruction:
		def := s.battery.Tests[s.phase.Test]
		return trial.Scene{Overlay: fmt.Sprintf("%s\n%s\nTap to start", def.Name, def.Instructions)}

	case PhaseRunning:
		if s.engine != nil {
			return s.engine.Scene(s.sched.Now())
		}

	case PhaseInterstitial:
		var remaining time.Duration
		if s.interUntil > s.sched.Now() {
			remaining = s.interUntil - s.sched.Now()
		}
		return trial.Scene{Overlay: fmt.Sprintf("Test %d of %d\nstarting in %d",
			s.phase.Test+1, len(s.battery.Tests), int(remaining.Seconds())+1)}

	case PhaseResults:
		return trial.Scene{Overlay: "Battery complete"}
	}
	return trial.Scene{}
}

func (s *Session) emitFrame() {
	if s.sink == nil {
		return
	}
	s.sink(Frame{
		Phase:   s.phase.Kind.String(),
		Test:    s.phase.Test,
		Scene:   s.scene(),
		Elapsed: s.sched.Now().Seconds(),
	})
}
