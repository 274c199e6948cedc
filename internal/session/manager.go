package session

import (
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Manager tracks live sessions by id with a sliding TTL. Evicted or
// removed sessions get their loops shut down so nothing leaks.
type Manager struct {
	log   *zap.Logger
	ttl   time.Duration
	store *cache.Cache
}

// NewManager builds a manager whose sessions expire ttl after their last
// touch. The store runs no janitor of its own; expired entries are reaped
// by SweepExpired, which the janitor service calls on a ticker.
func NewManager(log *zap.Logger, ttl time.Duration) *Manager {
	m := &Manager{
		log:   log,
		ttl:   ttl,
		store: cache.New(ttl, 0),
	}
	m.store.OnEvicted(func(id string, v interface{}) {
		if s, ok := v.(*Session); ok {
			s.Close()
			m.log.Info("session evicted", zap.String("session", id))
		}
	})
	return m
}

// Put registers a session under its id.
func (m *Manager) Put(s *Session) {
	m.store.Set(s.ID, s, m.ttl)
}

// Get returns the live session for id and slides its expiry.
func (m *Manager) Get(id string) (*Session, bool) {
	v, ok := m.store.Get(id)
	if !ok {
		return nil, false
	}
	s := v.(*Session)
	m.store.Set(id, s, m.ttl)
	return s, true
}

// Remove evicts one session, shutting its loop down.
func (m *Manager) Remove(id string) {
	m.store.Delete(id)
}

// Len counts stored sessions, expired-but-unswept entries included.
func (m *Manager) Len() int {
	return m.store.ItemCount()
}

// SweepExpired reaps expired sessions, firing the eviction shutdown for
// each.
func (m *Manager) SweepExpired() {
	m.store.DeleteExpired()
}

// CloseAll evicts every session; used at server shutdown. Expired entries
// are swept first so their loops shut down too.
func (m *Manager) CloseAll() {
	m.store.DeleteExpired()
	for id := range m.store.Items() {
		m.store.Delete(id)
	}
}
