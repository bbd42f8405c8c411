package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gochat "aiupstart.com/go-chat"
	"aiupstart.com/go-chat/internal/metrics"
	"aiupstart.com/go-chat/internal/utils"
	"github.com/prometheus/client_golang/prometheus"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint,
// Gemini's included.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(apiKey, baseURL, model string, timeout time.Duration) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if timeout > 0 {
		// Bound the wait for headers only; a streamed body may outlast timeout.
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.ResponseHeaderTimeout = timeout
		cfg.HTTPClient = &http.Client{Transport: transport}
	}
	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   model,
		timeout: timeout,
	}
}

func (c *OpenAIClient) request(messages []gochat.Message) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: msgs,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, messages []gochat.Message) (Response, error) {
	utils.Logger.Debug().Str("module", "llm").Int("messages", len(messages)).Msg("Generating response")
	metrics.LLMRequestsTotal.WithLabelValues("generate").Inc()
	timer := prometheus.NewTimer(metrics.LLMLatencySeconds.WithLabelValues("generate"))
	defer timer.ObserveDuration()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp, err := c.client.CreateChatCompletion(ctx, c.request(messages))
	if err != nil {
		metrics.LLMErrorsTotal.WithLabelValues("generate").Inc()
		utils.Logger.Error().Err(err).Str("module", "llm").Msg("Failed to generate response")
		return Response{}, fmt.Errorf("model API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		metrics.LLMErrorsTotal.WithLabelValues("generate").Inc()
		utils.Logger.Error().Str("module", "llm").Msg("No choices returned from model API")
		return Response{}, ErrNoChoices
	}

	out := Response{
		Content: resp.Choices[0].Message.Content,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}
	countTokens(out.Usage)
	return out, nil
}

func (c *OpenAIClient) Stream(ctx context.Context, messages []gochat.Message, onToken StreamCallback) (Response, error) {
	utils.Logger.Debug().Str("module", "llm").Int("messages", len(messages)).Msg("Streaming response")
	metrics.LLMRequestsTotal.WithLabelValues("stream").Inc()
	timer := prometheus.NewTimer(metrics.LLMLatencySeconds.WithLabelValues("stream"))
	defer timer.ObserveDuration()

	req := c.request(messages)
	req.Stream = true
	req.StreamOptions = &openai.StreamOptions{IncludeUsage: true}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		metrics.LLMErrorsTotal.WithLabelValues("stream").Inc()
		utils.Logger.Error().Err(err).Str("module", "llm").Msg("Failed to open stream")
		return Response{}, fmt.Errorf("model API error: %w", err)
	}
	defer stream.Close()

	var (
		out     Response
		content strings.Builder
		chunks  int
	)
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.LLMErrorsTotal.WithLabelValues("stream").Inc()
			utils.Logger.Error().Err(err).Str("module", "llm").Msg("Stream interrupted")
			return Response{}, fmt.Errorf("error reading stream: %w", err)
		}
		if chunk.Usage != nil {
			out.Usage = Usage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		chunks++
		token := chunk.Choices[0].Delta.Content
		if token == "" {
			continue
		}
		content.WriteString(token)
		if onToken != nil {
			if err := onToken(token); err != nil {
				return Response{}, err
			}
		}
	}
	if chunks == 0 {
		metrics.LLMErrorsTotal.WithLabelValues("stream").Inc()
		return Response{}, ErrNoChoices
	}

	out.Content = content.String()
	countTokens(out.Usage)
	return out, nil
}

func countTokens(u Usage) {
	metrics.LLMTokensTotal.WithLabelValues("prompt").Add(float64(u.PromptTokens))
	metrics.LLMTokensTotal.WithLabelValues("completion").Add(float64(u.CompletionTokens))
	metrics.LLMTokensTotal.WithLabelValues("total").Add(float64(u.TotalTokens))
}
