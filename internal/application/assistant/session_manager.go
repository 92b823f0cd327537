package assistant

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/partnerpro/product-manager/internal/domain/assistant"
	"go.uber.org/zap"
)

// DefaultSessionTTL is how long an idle chat session is kept
const DefaultSessionTTL = 30 * time.Minute

// SessionManager keeps chat sessions in memory and expires idle ones
type SessionManager struct {
	mu            sync.RWMutex
	sessions      map[string]*assistant.ChatSession
	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// SessionManagerOption configures a SessionManager
type SessionManagerOption func(*SessionManager)

// WithSessionTTL sets the inactivity timeout
func WithSessionTTL(ttl time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithSweepInterval sets how often expired sessions are evicted
func WithSweepInterval(interval time.Duration) SessionManagerOption {
	return func(m *SessionManager) {
		if interval > 0 {
			m.sweepInterval = interval
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) SessionManagerOption {
	return func(m *SessionManager) {
		m.now = now
	}
}

// NewSessionManager creates a new SessionManager
func NewSessionManager(logger *zap.Logger, opts ...SessionManagerOption) *SessionManager {
	m := &SessionManager{
		sessions:      make(map[string]*assistant.ChatSession),
		ttl:           DefaultSessionTTL,
		sweepInterval: 5 * time.Minute,
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the inactivity timeout
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// GetOrCreate returns the live session for id. An empty id gets a fresh
// UUID; an unknown or expired id gets a new empty session under that id.
func (m *SessionManager) GetOrCreate(id string) *assistant.ChatSession {
	if id == "" {
		id = uuid.NewString()
	}

	m.mu.RLock()
	session, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok && !session.IsExpired(m.now(), m.ttl) {
		return session
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another request may have replaced it meanwhile
	session, ok = m.sessions[id]
	if ok && !session.IsExpired(m.now(), m.ttl) {
		return session
	}
	if ok {
		m.logger.Info("Session expired, creating new one", zap.String("session_id", id))
	} else {
		m.logger.Info("New session created", zap.String("session_id", id))
	}

	session = assistant.NewChatSession(id)
	m.sessions[id] = session
	return session
}

// Clear removes one session
func (m *SessionManager) Clear(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.logger.Info("Session cleared", zap.String("session_id", id))
}

// ClearAll removes every session
func (m *SessionManager) ClearAll() {
	m.mu.Lock()
	m.sessions = make(map[string]*assistant.ChatSession)
	m.mu.Unlock()
	m.logger.Info("All sessions cleared")
}

// ActiveCount returns the number of stored sessions
func (m *SessionManager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Run evicts expired sessions every sweep interval until ctx is done
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Sweep evicts expired sessions and returns how many were removed
func (m *SessionManager) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.IsExpired(now, m.ttl) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Debug("Expired chat sessions evicted", zap.Int("count", removed))
	}
	return removed
}
