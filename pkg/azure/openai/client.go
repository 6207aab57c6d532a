package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"

	"github.com/boonchuay-ai/boonchuay/internal/config"
	"github.com/boonchuay-ai/boonchuay/pkg/Logger"
)

var (
	ErrAuth        = errors.New("authentication failed, check your API key")
	ErrForbidden   = errors.New("access forbidden, check your API key permissions")
	ErrNotFound    = errors.New("resource not found, check deployment name and endpoint URL")
	ErrRateLimited = errors.New("rate limit exceeded")
	ErrEmptyReply  = errors.New("completion returned no choices")
)

type Role string

const (
	SYSTEM    Role = "system"
	USER      Role = "user"
	ASSISTANT Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

// Client calls Azure OpenAI chat completions. The underlying SDK client is
// rebuilt per request from the current settings snapshot so edits in the
// settings panel take effect on the next turn.
type Client struct {
	manager    *config.Manager
	logger     *Logger.Logger
	httpClient *http.Client
}

func NewClient(manager *config.Manager, logger *Logger.Logger) *Client {
	return &Client{
		manager:    manager,
		logger:     logger,
		httpClient: &http.Client{},
	}
}

// Complete sends the structured conversation and returns the single text
// completion. Fails before any network call when settings are incomplete.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	cfg := c.manager.Snapshot()
	if err := cfg.OpenAI.Validate(); err != nil {
		return "", err
	}

	sdk := c.newSDKClient(cfg.OpenAI)

	converted := make([]oai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		converted = append(converted, convertMessage(msg))
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.OpenAI.RequestTimeout)
	defer cancel()

	completion, err := sdk.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Messages:    converted,
		Model:       oai.ChatModel(cfg.OpenAI.Deployment),
		Temperature: oai.Float(cfg.Chat.Temperature),
		MaxTokens:   oai.Int(cfg.Chat.MaxTokens),
	})
	if err != nil {
		return "", classifyError(err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return completion.Choices[0].Message.Content, nil
}

// TestConnection issues a minimal completion to verify endpoint, key and
// deployment, the way the settings panel's test button expects.
func (c *Client) TestConnection(ctx context.Context) error {
	cfg := c.manager.Snapshot()
	if err := cfg.OpenAI.Validate(); err != nil {
		return err
	}

	sdk := c.newSDKClient(cfg.OpenAI)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := sdk.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Messages:  []oai.ChatCompletionMessageParamUnion{oai.UserMessage("Hello")},
		Model:     oai.ChatModel(cfg.OpenAI.Deployment),
		MaxTokens: oai.Int(10),
	})
	if err != nil {
		return classifyError(err)
	}
	return nil
}

func (c *Client) newSDKClient(cfg config.OpenAIConfig) oai.Client {
	return oai.NewClient(
		azure.WithEndpoint(cfg.BaseURL(), cfg.APIVersion),
		azure.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(c.httpClient),
	)
}

func convertMessage(msg Message) oai.ChatCompletionMessageParamUnion {
	switch msg.Role {
	case ASSISTANT:
		return oai.AssistantMessage(msg.Content)
	case SYSTEM:
		return oai.SystemMessage(msg.Content)
	default:
		return oai.UserMessage(msg.Content)
	}
}

func classifyError(err error) error {
	var apierr *oai.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case http.StatusUnauthorized:
			return fmt.Errorf("%w: %v", ErrAuth, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", ErrForbidden, err)
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		}
	}
	return fmt.Errorf("completion request failed: %w", err)
}
