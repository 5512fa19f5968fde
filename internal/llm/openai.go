package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient calls the OpenAI chat completion API at temperature zero,
// matching the deterministic extraction setting the prompt was tuned for.
type OpenAIClient struct {
	client *openai.Client
	model  string

	Stats *Stats
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
		Stats:  NewStats(time.Hour),
	}
}

// Generate sends the prompt as a single user message and returns the first
// choice's text.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500 {
				return "", &RetryableError{
					StatusCode: apiErr.HTTPStatusCode,
					Message:    apiErr.Message,
				}
			}
		}
		return "", fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}

	c.Stats.Record(time.Since(start).Milliseconds())
	return resp.Choices[0].Message.Content, nil
}

// Model returns the configured model identifier.
func (c *OpenAIClient) Model() string {
	return c.model
}

// StatsSnapshot reports recent call latencies.
func (c *OpenAIClient) StatsSnapshot() StatsSnapshot {
	return c.Stats.Snapshot()
}
