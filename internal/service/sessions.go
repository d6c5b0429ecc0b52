// Package service provides the supporting services around the chat
// engine: session lifecycle and city rankings.
package service

import (
	"sync"
	"time"

	"github.com/rentpulse/rentpulse-assistant-go/internal/dialogue"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/cache"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// session pairs one dialogue state with the mutex that serializes its
// turns. The engine is re-entrant across states but one session must
// never process two turns concurrently.
type session struct {
	mu    sync.Mutex
	state *dialogue.State
}

// SessionManager hands out per-conversation dialogue state, keyed by a
// UUID the client echoes back. Idle sessions expire with the TTL;
// touching a session renews it.
type SessionManager struct {
	sessions *cache.InMemory[*session]
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewSessionManager creates a session manager with the given idle TTL.
func NewSessionManager(ttl time.Duration, metrics *observability.Metrics, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		sessions: cache.New[*session](ttl),
		metrics:  metrics,
		logger:   logger,
	}
}

// Acquire resolves the session for id (minting a fresh one when id is
// empty or expired), locks it, and returns its state plus a release
// function. Callers must invoke release when the turn finishes.
func (m *SessionManager) Acquire(id string) (string, *dialogue.State, func()) {
	if id != "" {
		if s, ok := m.sessions.Get(id); ok {
			m.metrics.IncrCacheHit("session")
			m.sessions.Set(id, s) // renew TTL
			s.mu.Lock()
			return id, s.state, s.mu.Unlock
		}
	}
	m.metrics.IncrCacheMiss("session")

	id = uuid.NewString()
	s := &session{state: dialogue.New()}
	m.sessions.Set(id, s)
	m.logger.Debug("session created", zap.String("session_id", id))

	s.mu.Lock()
	return id, s.state, s.mu.Unlock
}

// Drop removes a session immediately (used when a conversation says
// goodbye, letting state be reclaimed ahead of the TTL).
func (m *SessionManager) Drop(id string) {
	m.sessions.Delete(id)
}
