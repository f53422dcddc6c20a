package gpt

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fedutinova/logsuggest/internal/common"
	"github.com/sashabaranov/go-openai"
)

type Client struct {
	openAI *openai.Client
	model  string
}

type Options struct {
	APIKey  string
	Model   string
	BaseURL string
	// HTTPClient overrides the transport; nil keeps the library default.
	HTTPClient *http.Client
}

func NewClient(opts Options) *Client {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	}
	return &Client{
		openAI: openai.NewClientWithConfig(cfg),
		model:  opts.Model,
	}
}

func (c *Client) Model() string {
	return c.model
}

// Complete sends prompt as a single user message and returns the first choice's text.
// There is exactly one attempt and no streaming.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	slog.Debug("sending request to OpenAI", "model", c.model, "prompt_length", len(prompt))

	resp, err := c.openAI.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		attrs := []any{"error", err, "model", c.model}
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			attrs = append(attrs, "status", apiErr.HTTPStatusCode, "type", apiErr.Type)
		}
		slog.Error("OpenAI API error", attrs...)
		return "", common.WrapUpstream("create chat completion", err)
	}

	if len(resp.Choices) == 0 {
		return "", common.WrapUpstream("create chat completion", errors.New("no choices in response"))
	}

	content := resp.Choices[0].Message.Content
	slog.Info("received response from OpenAI",
		"model", resp.Model,
		"tokens_used", resp.Usage.TotalTokens,
		"response_length", len(content),
		"duration_ms", time.Since(start).Milliseconds())

	return content, nil
}
