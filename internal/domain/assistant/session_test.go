package assistant

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSession_History(t *testing.T) {
	s := NewChatSession("abc")
	assert.Equal(t, "abc", s.ID())
	assert.Empty(t, s.History())

	s.AddMessage(RoleUser, "oi")
	s.AddMessage(RoleAssistant, "Assistant: olá")

	history := s.History()
	require.Len(t, history, 2)
	assert.Equal(t, RoleUser, history[0].Role)
	assert.Equal(t, "Assistant: olá", history[1].Content)

	// returned slice is a copy
	history[0].Content = "changed"
	assert.Equal(t, "oi", s.History()[0].Content)
}

func TestChatSession_LastProduct(t *testing.T) {
	s := NewChatSession("abc")
	_, _, ok := s.LastProduct()
	assert.False(t, ok)

	id := uuid.New()
	s.UpdateLastProduct(id, "Mouse")
	gotID, name, ok := s.LastProduct()
	require.True(t, ok)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "Mouse", name)

	s.ClearLastProduct()
	_, _, ok = s.LastProduct()
	assert.False(t, ok)
}

func TestChatSession_IsExpired(t *testing.T) {
	s := NewChatSession("abc")
	ttl := 30 * time.Minute

	assert.False(t, s.IsExpired(time.Now(), ttl))
	assert.True(t, s.IsExpired(time.Now().Add(31*time.Minute), ttl))
}

func TestChatSession_ConcurrentAccess(t *testing.T) {
	s := NewChatSession("abc")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddMessage(RoleUser, "msg")
			s.UpdateLastProduct(uuid.New(), "p")
		}()
	}
	wg.Wait()

	assert.Len(t, s.History(), 50)
}
