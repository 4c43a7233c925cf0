package session

import (
	"sync"
	"time"

	"member-gateway/internal/discord"
)

// Session binds a bearer id to one live Discord connection. The session
// is the sole owner of its Gateway; whoever removes the session from the
// store closes the gateway, exactly once.
type Session struct {
	ID      string
	Gateway discord.Service
	Token   string

	CreatedAt    time.Time
	LastActivity time.Time // guarded by the store mutex

	callMu sync.Mutex
}

// Acquire serializes gateway calls for this session, so at most one
// collaborator call is in flight per session. The returned func releases.
func (s *Session) Acquire() func() {
	s.callMu.Lock()
	return s.callMu.Unlock
}
