// internal/chat/session.go
package chat

import (
	"sync"
	"time"

	gochat "aiupstart.com/go-chat"
)

// Session is one browser or terminal conversation.
type Session struct {
	ID      string
	Created time.Time

	mu         sync.RWMutex
	messages   []gochat.Message
	lastActive time.Time
	turns      int
	tokens     int
	attached   int // open connections holding the session
}

// Stats is what the sidebar shows about a session.
type Stats struct {
	TotalMessages int
	Turns         int
	Tokens        int
	LastActive    time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{ID: id, Created: now, lastActive: now}
}

// History returns a copy of the conversation history.
func (s *Session) History() []gochat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]gochat.Message(nil), s.messages...)
}

// LastAssistant returns the most recent assistant message, if any.
func (s *Session) LastAssistant() (gochat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == gochat.RoleAssistant {
			return s.messages[i], true
		}
	}
	return gochat.Message{}, false
}

func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalMessages: len(s.messages),
		Turns:         s.turns,
		Tokens:        s.tokens,
		LastActive:    s.lastActive,
	}
}

func (s *Session) append(msg gochat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	s.lastActive = msg.Time
}

// undoTurn takes back a user message whose turn produced no reply.
func (s *Session) undoTurn(msg gochat.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.messages); n > 0 && s.messages[n-1] == msg {
		s.messages = s.messages[:n-1]
	}
	if s.turns > 0 {
		s.turns--
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastActive) {
		s.lastActive = now
	}
}

func (s *Session) reset(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.turns = 0
	s.tokens = 0
	s.lastActive = now
}

// expired reports whether the session has no open connections and has
// been idle since before cutoff.
func (s *Session) expired(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.attached == 0 && s.lastActive.Before(cutoff)
}
