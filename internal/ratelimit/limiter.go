package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds the number of requests per client within any trailing
// window. It keeps a sliding log of timestamps per client id; entries are
// trimmed lazily on each check, never by a background sweep.
type Limiter struct {
	mu     sync.Mutex
	window time.Duration
	max    int
	log    map[string][]time.Time
}

func New(window time.Duration, max int) *Limiter {
	return &Limiter{
		window: window,
		max:    max,
		log:    make(map[string][]time.Time),
	}
}

// Allow reports whether clientID may make a request at now. A rejected
// request is not recorded against the client's quota.
func (l *Limiter) Allow(clientID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := now.Add(-l.window)

	valid := l.log[clientID][:0:0]
	for _, t := range l.log[clientID] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= l.max {
		l.log[clientID] = valid
		return false
	}

	l.log[clientID] = append(valid, now)
	return true
}

// RetryAfterSeconds is the retry hint advertised on rejection.
func (l *Limiter) RetryAfterSeconds() int {
	secs := l.window / time.Second
	if l.window%time.Second != 0 {
		secs++
	}
	return int(secs)
}

// Prune drops client buckets with no in-window entries. Called from the
// periodic cleanup task so that clients that stopped sending do not pin
// memory forever.
func (l *Limiter) Prune(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := now.Add(-l.window)
	for id, times := range l.log {
		stale := true
		for _, t := range times {
			if t.After(windowStart) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.log, id)
		}
	}
}
