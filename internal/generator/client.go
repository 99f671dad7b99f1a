package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ErrRateLimited marks the one generation failure treated as fatal: the
// service's request-rate ceiling. Remaining chunks are abandoned when a
// generate call wraps this.
var ErrRateLimited = errors.New("generation service rate limit reached")

// Client is the narrow seam to the external text-generation service, so
// the pipeline runs against a deterministic fake in tests.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient calls the chat-completion API sequentially, one request
// per chunk.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int
	logger    *slog.Logger
}

// NewOpenAIClient builds the client from the environment credential.
// A missing credential is a configuration error at construction time.
func NewOpenAIClient(model string, maxTokens int, logger *slog.Logger) (*OpenAIClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIClient{
		client:    openai.NewClient(apiKey),
		model:     model,
		maxTokens: maxTokens,
		logger:    logger,
	}, nil
}

// Generate sends one system+user message pair and returns the free-text
// response. Rate-limit responses wrap ErrRateLimited; everything else is
// an ordinary per-chunk error.
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("chat completion: %w", ErrRateLimited)
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
