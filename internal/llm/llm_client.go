package llm

import (
	"context"
	"errors"

	gochat "aiupstart.com/go-chat"
)

// ErrNoChoices is returned when the provider answers without any choice.
var ErrNoChoices = errors.New("no choices returned from model")

// StreamCallback receives each token of a streamed reply. Returning an
// error aborts the stream.
type StreamCallback func(token string) error

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response is one complete model reply.
type Response struct {
	Content string
	Usage   Usage
}

// Client defines the interface for interacting with a chat model.
type Client interface {
	Generate(ctx context.Context, messages []gochat.Message) (Response, error)
	Stream(ctx context.Context, messages []gochat.Message, onToken StreamCallback) (Response, error)
}
