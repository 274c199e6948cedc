package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManagedSession(id string) *Session {
	s := New(id, zap.NewNop(), testBattery(), 50*time.Millisecond,
		rand.New(rand.NewSource(1)))
	s.Run(context.Background())
	return s
}

func stopped(s *Session) func() bool {
	return func() bool {
		select {
		case <-s.loop.Stopped():
			return true
		default:
			return false
		}
	}
}

func TestManagerPutGet(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Minute)

	s := newManagedSession("s-1")
	defer s.Close()
	m.Put(s)

	got, ok := m.Get("s-1")
	require.True(t, ok)
	assert.Same(t, s, got)

	_, ok = m.Get("nope")
	assert.False(t, ok)
	assert.Equal(t, 1, m.Len())
}

func TestManagerRemoveShutsSessionDown(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Minute)

	s := newManagedSession("s-2")
	m.Put(s)
	m.Remove("s-2")

	_, ok := m.Get("s-2")
	assert.False(t, ok)
	assert.Eventually(t, stopped(s), time.Second, 5*time.Millisecond)
}

func TestManagerSweepReapsExpiredSessions(t *testing.T) {
	m := NewManager(zap.NewNop(), 40*time.Millisecond)

	s := newManagedSession("s-3")
	m.Put(s)

	time.Sleep(80 * time.Millisecond)
	m.SweepExpired()

	_, ok := m.Get("s-3")
	assert.False(t, ok)
	assert.Eventually(t, stopped(s), time.Second, 5*time.Millisecond)
}

func TestManagerGetSlidesExpiry(t *testing.T) {
	m := NewManager(zap.NewNop(), 200*time.Millisecond)

	s := newManagedSession("s-4")
	defer s.Close()
	m.Put(s)

	time.Sleep(150 * time.Millisecond)
	_, ok := m.Get("s-4")
	require.True(t, ok)

	// 300ms after Put is past the original TTL but inside the slid one.
	time.Sleep(150 * time.Millisecond)
	m.SweepExpired()
	_, ok = m.Get("s-4")
	assert.True(t, ok)
}

func TestManagerCloseAll(t *testing.T) {
	m := NewManager(zap.NewNop(), time.Minute)

	a := newManagedSession("s-5")
	b := newManagedSession("s-6")
	m.Put(a)
	m.Put(b)

	m.CloseAll()

	assert.Zero(t, m.Len())
	assert.Eventually(t, stopped(a), time.Second, 5*time.Millisecond)
	assert.Eventually(t, stopped(b), time.Second, 5*time.Millisecond)
}
