package agent

import (
	"context"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/llm"
)

// Agent defines the interface for an agent.
type Agent interface {
	Name() string
	Greet(ctx context.Context) (Reply, error)
	Respond(ctx context.Context, history []gochat.Message, onToken llm.StreamCallback) (Reply, error)
}
