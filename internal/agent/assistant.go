// internal/agent/assistant.go
package agent

import (
	"context"
	"fmt"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/llm"
	"aiupstart.com/go-chat/internal/metrics"
	"aiupstart.com/go-chat/internal/utils"
)

// Reply is the outcome of one assistant turn.
type Reply struct {
	Content string
	Canned  bool // answered locally, the model was not called
	Usage   llm.Usage
}

type AssistantAgent struct {
	name            string
	llmClient       llm.Client
	greetingPrompt  string
	triggers        []string
	developerAnswer string
}

func NewAssistantAgent(name string, llmClient llm.Client, greetingPrompt string, triggers []string, developerAnswer string) *AssistantAgent {
	return &AssistantAgent{
		name:            name,
		llmClient:       llmClient,
		greetingPrompt:  greetingPrompt,
		triggers:        triggers,
		developerAnswer: developerAnswer,
	}
}

func (a *AssistantAgent) Name() string { return a.name }

// Greet asks the model to open the conversation.
func (a *AssistantAgent) Greet(ctx context.Context) (Reply, error) {
	resp, err := a.llmClient.Generate(ctx, []gochat.Message{
		{Role: gochat.RoleUser, Content: a.greetingPrompt},
	})
	if err != nil {
		utils.Logger.Error().Err(err).Str("agent", a.name).Msg("Greeting failed")
		return Reply{}, fmt.Errorf("greeting: %w", err)
	}
	return Reply{Content: resp.Content, Usage: resp.Usage}, nil
}

// Respond answers the last user message of history. Developer questions are
// answered with the fixed reply; everything else is streamed from the model.
// A model failure still yields a user-visible reply alongside the error.
func (a *AssistantAgent) Respond(ctx context.Context, history []gochat.Message, onToken llm.StreamCallback) (Reply, error) {
	var input string
	if n := len(history); n > 0 {
		input = history[n-1].Content
	}

	if DeveloperQuestion(input, a.triggers) {
		utils.Logger.Debug().Str("agent", a.name).Msg("Developer question, sending canned reply")
		metrics.CannedRepliesTotal.Inc()
		if onToken != nil {
			if err := onToken(a.developerAnswer); err != nil {
				return Reply{}, err
			}
		}
		return Reply{Content: a.developerAnswer, Canned: true}, nil
	}

	resp, err := a.llmClient.Stream(ctx, history, onToken)
	if err != nil {
		utils.Logger.Error().Err(err).Str("agent", a.name).Msg("Failed to generate response")
		return Reply{Content: "Error generating response: " + err.Error()}, err
	}

	for _, block := range gochat.ExtractCodeBlocks(resp.Content) {
		metrics.CodeBlocksTotal.WithLabelValues(gochat.LanguageExt(block.LanguageOr(gochat.DefaultLanguage))).Inc()
	}
	return Reply{Content: resp.Content, Usage: resp.Usage}, nil
}
