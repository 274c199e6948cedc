package session

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Loop is a session's event loop: one goroutine owns all session state and
// multiplexes a timer heap serving After, a frame tick for render
// snapshots, and an inbox for events posted from other goroutines. It
// satisfies trial.Scheduler.
//
// After and Now must only be called from the loop goroutine, that is,
// from inside posted or scheduled callbacks. Post, Stop and Stopped are
// safe from anywhere.
type Loop struct {
	log        *zap.Logger
	frameEvery time.Duration
	frame      func()

	inbox   chan func()
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once

	epoch  time.Time
	timers timerHeap
	seq    int
}

func NewLoop(log *zap.Logger, frameEvery time.Duration) *Loop {
	return &Loop{
		log:        log,
		frameEvery: frameEvery,
		inbox:      make(chan func(), 64),
		stop:       make(chan struct{}),
		stopped:    make(chan struct{}),
		epoch:      time.Now(),
	}
}

// Now is the monotonic time since the loop was created.
func (l *Loop) Now() time.Duration {
	return time.Since(l.epoch)
}

// After schedules fn on the loop after d. Loop goroutine only.
func (l *Loop) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	heap.Push(&l.timers, &timerEntry{due: l.Now() + d, seq: l.seq, fn: fn})
	l.seq++
}

// Post hands fn to the loop goroutine. It reports false once the loop has
// shut down.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stopped:
		return false
	default:
	}
	select {
	case l.inbox <- fn:
		return true
	case <-l.stopped:
		return false
	}
}

// Stop shuts the loop down. Idempotent, safe from any goroutine.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Stopped is closed once Run has returned.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

// Run blocks, serving the loop until ctx is canceled or Stop is called.
// Callback panics are contained: the loop logs them and shuts the session
// down rather than taking the process with it.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("session loop panicked", zap.Any("panic", r))
		}
	}()

	frames := time.NewTicker(l.frameEvery)
	defer frames.Stop()

	for {
		// Fire everything already due before sleeping again.
		var timerC <-chan time.Time
		if next, ok := l.peek(); ok {
			wait := next - l.Now()
			if wait <= 0 {
				l.fireDue()
				continue
			}
			timerC = time.After(wait)
		}

		select {
		case <-ctx.Done():
			return
		case <-l.stop:
			return
		case fn := <-l.inbox:
			fn()
		case <-timerC:
			l.fireDue()
		case <-frames.C:
			if l.frame != nil {
				l.frame()
			}
		}
	}
}

func (l *Loop) peek() (time.Duration, bool) {
	if len(l.timers) == 0 {
		return 0, false
	}
	return l.timers[0].due, true
}

// fireDue pops and runs every timer whose deadline has passed, in
// deadline order, first-scheduled-first on ties. Callbacks may schedule
// more timers; newly due ones run in the same sweep.
func (l *Loop) fireDue() {
	now := l.Now()
	for len(l.timers) > 0 && l.timers[0].due <= now {
		e := heap.Pop(&l.timers).(*timerEntry)
		e.fn()
	}
}

type timerEntry struct {
	due time.Duration
	seq int
	fn  func()
}

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*timerEntry)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
