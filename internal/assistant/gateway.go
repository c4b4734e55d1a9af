package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama3-70b-8192"

	// NoResponse is returned when the upstream answers without content.
	NoResponse = "No response from AI"
)

var ErrUpstream = errors.New("assistant upstream failure")

type completer interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Gateway sends one user-role prompt per question to an OpenAI-compatible
// chat completions endpoint. It never retries.
type Gateway struct {
	client  completer
	model   string
	timeout time.Duration
}

func New(cfg Config) *Gateway {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL
	if clientConfig.BaseURL == "" {
		clientConfig.BaseURL = DefaultBaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return newGateway(openai.NewClientWithConfig(clientConfig), cfg.Model, cfg.Timeout)
}

func newGateway(client completer, model string, timeout time.Duration) *Gateway {
	if model == "" {
		model = DefaultModel
	}
	return &Gateway{client: client, model: model, timeout: timeout}
}

func (g *Gateway) Ask(ctx context.Context, question, financialSummary string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: Prompt(question, financialSummary)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return NoResponse, nil
	}
	return resp.Choices[0].Message.Content, nil
}
