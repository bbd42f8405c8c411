// internal/chat/manager.go
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/agent"
	"aiupstart.com/go-chat/internal/llm"
	"aiupstart.com/go-chat/internal/metrics"
	"aiupstart.com/go-chat/internal/utils"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyMessage    = errors.New("message is empty")
	ErrTurnLimit       = errors.New("turn limit reached")
)

type ChatManager struct {
	assistant agent.Agent
	maxTurns  int // 0 means unlimited
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewChatManager(assistant agent.Agent, maxTurns int) *ChatManager {
	return &ChatManager{
		assistant: assistant,
		maxTurns:  maxTurns,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Open starts a new session and greets the user. A failed greeting is
// logged and the session opens empty.
func (cm *ChatManager) Open(ctx context.Context) *Session {
	s := newSession(uuid.NewString(), cm.now())
	cm.mu.Lock()
	cm.sessions[s.ID] = s
	metrics.ActiveSessions.Set(float64(len(cm.sessions)))
	cm.mu.Unlock()

	utils.Logger.Debug().Str("session", s.ID).Msg("Session opened")
	cm.greet(ctx, s)
	return s
}

func (cm *ChatManager) greet(ctx context.Context, s *Session) {
	reply, err := cm.assistant.Greet(ctx)
	if err != nil {
		utils.Logger.Warn().Err(err).Str("session", s.ID).Msg("Failed to initialize chat")
		return
	}
	cm.record(s, gochat.RoleAssistant, reply.Content)
	s.mu.Lock()
	s.tokens += reply.Usage.TotalTokens
	s.mu.Unlock()
}

// Get returns the session with the given id.
func (cm *ChatManager) Get(id string) (*Session, error) {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	s, ok := cm.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Touch returns the session with the given id and marks it active.
func (cm *ChatManager) Touch(id string) (*Session, error) {
	s, err := cm.Get(id)
	if err != nil {
		return nil, err
	}
	s.touch(cm.now())
	return s, nil
}

// Attach holds the session open for a long-lived connection. Sweep skips
// it until release is called; release counts as activity.
func (cm *ChatManager) Attach(id string) (s *Session, release func(), err error) {
	s, err = cm.Get(id)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	s.attached++
	s.mu.Unlock()

	var once sync.Once
	release = func() {
		once.Do(func() {
			s.mu.Lock()
			s.attached--
			s.mu.Unlock()
			s.touch(cm.now())
		})
	}
	return s, release, nil
}

// Send appends the user's text, produces the assistant reply and appends
// it. The reply is returned even when the model failed; its text then
// carries the error for display. When no reply text came back at all the
// user message and its turn are taken back.
func (cm *ChatManager) Send(ctx context.Context, id, text string, onToken llm.StreamCallback) (gochat.Message, error) {
	s, err := cm.Get(id)
	if err != nil {
		return gochat.Message{}, err
	}
	if strings.TrimSpace(text) == "" {
		return gochat.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if cm.maxTurns > 0 && s.turns >= cm.maxTurns {
		s.mu.Unlock()
		utils.Logger.Warn().Str("session", id).Msgf("Cycle limit reached (%d turns)", cm.maxTurns)
		return gochat.Message{}, fmt.Errorf("%w: maximum of %d turns", ErrTurnLimit, cm.maxTurns)
	}
	s.turns++
	s.mu.Unlock()

	userMsg := cm.record(s, gochat.RoleUser, text)
	reply, genErr := cm.assistant.Respond(ctx, s.History(), onToken)
	if reply.Content == "" && genErr != nil {
		s.undoTurn(userMsg)
		return gochat.Message{}, genErr
	}
	msg := cm.record(s, gochat.RoleAssistant, reply.Content)

	s.mu.Lock()
	s.tokens += reply.Usage.TotalTokens
	s.mu.Unlock()
	return msg, genErr
}

// Clear drops the session history and greets again.
func (cm *ChatManager) Clear(ctx context.Context, id string) error {
	s, err := cm.Get(id)
	if err != nil {
		return err
	}
	s.reset(cm.now())
	utils.Logger.Debug().Str("session", id).Msg("Session cleared")
	cm.greet(ctx, s)
	return nil
}

// Sweep removes unattached sessions idle for longer than ttl and returns
// how many went.
func (cm *ChatManager) Sweep(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := cm.now().Add(-ttl)
	cm.mu.Lock()
	defer cm.mu.Unlock()
	removed := 0
	for id, s := range cm.sessions {
		if s.expired(cutoff) {
			delete(cm.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(cm.sessions)))
	if removed > 0 {
		utils.Logger.Info().Int("removed", removed).Msg("Swept idle sessions")
	}
	return removed
}

// RunSweeper sweeps every interval until ctx is done.
func (cm *ChatManager) RunSweeper(ctx context.Context, interval, ttl time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cm.Sweep(ttl)
		}
	}
}

// Len returns the number of live sessions.
func (cm *ChatManager) Len() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.sessions)
}

func (cm *ChatManager) record(s *Session, role, content string) gochat.Message {
	msg := gochat.NewMessage(role, content)
	msg.Time = cm.now()
	s.append(msg)
	metrics.ChatMessagesTotal.WithLabelValues(role).Inc()
	return msg
}
