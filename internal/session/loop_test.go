package session

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoopServesPostedWork(t *testing.T) {
	l := NewLoop(zap.NewNop(), time.Hour)
	go l.Run(context.Background())
	defer l.Stop()

	done := make(chan struct{})
	require.True(t, l.Post(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("posted work never ran")
	}
}

func TestLoopFiresTimersInDeadlineOrder(t *testing.T) {
	l := NewLoop(zap.NewNop(), time.Hour)
	go l.Run(context.Background())
	defer l.Stop()

	var order []string
	var wg sync.WaitGroup
	wg.Add(2)

	l.Post(func() {
		l.After(60*time.Millisecond, func() {
			order = append(order, "late")
			wg.Done()
		})
		l.After(10*time.Millisecond, func() {
			order = append(order, "early")
			wg.Done()
		})
	})

	wg.Wait()
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestLoopFrameTick(t *testing.T) {
	l := NewLoop(zap.NewNop(), 5*time.Millisecond)

	var frames atomic.Int32
	l.frame = func() { frames.Add(1) }

	go l.Run(context.Background())
	defer l.Stop()

	assert.Eventually(t, func() bool { return frames.Load() >= 3 },
		time.Second, 5*time.Millisecond)
}

func TestLoopStopIsIdempotentAndRefusesLatePosts(t *testing.T) {
	l := NewLoop(zap.NewNop(), time.Hour)
	go l.Run(context.Background())

	l.Stop()
	l.Stop()

	select {
	case <-l.Stopped():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}

	assert.False(t, l.Post(func() {}))
}

func TestLoopStopsWhenContextCanceled(t *testing.T) {
	l := NewLoop(zap.NewNop(), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)

	cancel()

	select {
	case <-l.Stopped():
	case <-time.After(time.Second):
		t.Fatal("loop ignored context cancellation")
	}
}

func TestLoopContainsCallbackPanics(t *testing.T) {
	l := NewLoop(zap.NewNop(), time.Hour)
	go l.Run(context.Background())

	require.True(t, l.Post(func() { panic("boom") }))

	// The loop logs the panic and shuts down instead of crashing the
	// process.
	select {
	case <-l.Stopped():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop after callback panic")
	}
}

func TestSessionReportOverLiveLoop(t *testing.T) {
	s := New("s-live", zap.NewNop(), testBattery(), 10*time.Millisecond,
		rand.New(rand.NewSource(5)))
	s.Run(context.Background())

	r, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, "s-live", r.SessionID)
	assert.Equal(t, PhaseStart, r.Phase.Kind)

	s.Close()
	<-s.loop.Stopped()

	_, ok = s.Report()
	assert.False(t, ok, "reports must fail once the session is gone")
}
