package session

import (
	"errors"
	"sync"
	"time"

	"member-gateway/internal/discord"
)

// ErrCapacityReached is returned by Create once the store holds the
// configured maximum number of concurrent sessions.
var ErrCapacityReached = errors.New("maximum number of concurrent users reached")

// Store is the in-memory session registry. All state is process-local
// and rebuilt empty at startup.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	maxConcurrent int
	idleTimeout   time.Duration
}

func NewStore(maxConcurrent int, idleTimeout time.Duration) *Store {
	return &Store{
		sessions:      make(map[string]*Session),
		maxConcurrent: maxConcurrent,
		idleTimeout:   idleTimeout,
	}
}

// Full reports whether the concurrent-session cap is reached. Used as a
// cheap pre-check before the expensive account connect; Create
// re-validates under the lock.
func (st *Store) Full() bool {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions) >= st.maxConcurrent
}

// Create inserts a new session owning gw. The capacity cap is checked
// under the lock, so the store never overshoots even with logins racing.
func (st *Store) Create(gw discord.Service, token string, now time.Time) (*Session, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= st.maxConcurrent {
		return nil, ErrCapacityReached
	}

	s := &Session{
		ID:           id,
		Gateway:      gw,
		Token:        token,
		CreatedAt:    now,
		LastActivity: now,
	}
	st.sessions[id] = s
	return s, nil
}

// Get is a pure read; it does not refresh activity.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Touch refreshes the session's activity clock. No-op when the session
// was concurrently removed. Last writer wins on the timestamp.
func (st *Store) Touch(id string, now time.Time) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		s.LastActivity = now
	}
}

// Remove deletes and returns the session so the caller can close its
// gateway. The second of two racing removals gets nothing, which keeps
// gateway shutdown exactly-once.
func (st *Store) Remove(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	delete(st.sessions, id)
	return s, true
}

// SweepExpired removes and returns every session idle longer than the
// configured timeout. The caller shuts the gateways down; the sweep
// itself does no I/O.
func (st *Store) SweepExpired(now time.Time) []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	var expired []*Session
	for id, s := range st.sessions {
		if now.Sub(s.LastActivity) > st.idleTimeout {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	return expired
}

// Drain removes and returns all sessions, for process shutdown.
func (st *Store) Drain() []*Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	drained := make([]*Session, 0, len(st.sessions))
	for id, s := range st.sessions {
		drained = append(drained, s)
		delete(st.sessions, id)
	}
	return drained
}

func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
