package assistant

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a chat history
type Message struct {
	Role    Role
	Content string
	At      time.Time
}

// ChatSession holds the conversation state of one chat client.
// All accessors are safe for concurrent use.
type ChatSession struct {
	mu              sync.Mutex
	id              string
	history         []Message
	lastProductID   *uuid.UUID
	lastProductName string
	createdAt       time.Time
	lastActivity    time.Time
}

// NewChatSession creates an empty session with the given id
func NewChatSession(id string) *ChatSession {
	now := time.Now()
	return &ChatSession{
		id:           id,
		history:      make([]Message, 0),
		createdAt:    now,
		lastActivity: now,
	}
}

// ID returns the session id
func (s *ChatSession) ID() string {
	return s.id
}

// CreatedAt returns when the session was opened
func (s *ChatSession) CreatedAt() time.Time {
	return s.createdAt
}

// AddMessage appends a message to the history
func (s *ChatSession) AddMessage(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.history = append(s.history, Message{Role: role, Content: content, At: now})
	s.lastActivity = now
}

// History returns a copy of the conversation history
func (s *ChatSession) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// UpdateLastProduct records the most recently referenced product
func (s *ChatSession) UpdateLastProduct(id uuid.UUID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastProductID = &id
	s.lastProductName = name
	s.lastActivity = time.Now()
}

// ClearLastProduct forgets the last referenced product
func (s *ChatSession) ClearLastProduct() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastProductID = nil
	s.lastProductName = ""
	s.lastActivity = time.Now()
}

// LastProduct returns the last referenced product, ok is false when none is set
func (s *ChatSession) LastProduct() (id uuid.UUID, name string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastProductID == nil {
		return uuid.Nil, "", false
	}
	return *s.lastProductID, s.lastProductName, true
}

// LastActivity returns the time of the last mutation
func (s *ChatSession) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// IsExpired reports whether the session has been idle for longer than ttl
func (s *ChatSession) IsExpired(now time.Time, ttl time.Duration) bool {
	return now.After(s.LastActivity().Add(ttl))
}
