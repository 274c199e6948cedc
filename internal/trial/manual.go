package trial

import (
	"sort"
	"time"
)

// ManualScheduler is a deterministic Scheduler driven by explicit time
// advancement; callbacks run inline on the advancing goroutine in deadline
// order, equal deadlines first-scheduled-first. It backs engine tests and
// headless battery dry runs.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	queue []manualTimer
}

type manualTimer struct {
	due time.Duration
	seq int
	fn  func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (m *ManualScheduler) Now() time.Duration {
	return m.now
}

func (m *ManualScheduler) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	t := manualTimer{due: m.now + d, seq: m.seq, fn: fn}
	m.seq++

	i := sort.Search(len(m.queue), func(i int) bool {
		q := m.queue[i]
		if q.due != t.due {
			return q.due > t.due
		}
		return q.seq > t.seq
	})
	m.queue = append(m.queue, manualTimer{})
	copy(m.queue[i+1:], m.queue[i:])
	m.queue[i] = t
}

// Advance moves time forward by d, firing every callback that comes due.
// Callbacks may schedule further work; cascades that land inside the
// window fire during the same call.
func (m *ManualScheduler) Advance(d time.Duration) {
	target := m.now + d
	for len(m.queue) > 0 && m.queue[0].due <= target {
		t := m.queue[0]
		m.queue = m.queue[1:]
		if t.due > m.now {
			m.now = t.due
		}
		t.fn()
	}
	m.now = target
}

// Pending reports how many callbacks are outstanding.
func (m *ManualScheduler) Pending() int {
	return len(m.queue)
}
