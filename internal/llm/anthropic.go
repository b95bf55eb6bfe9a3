package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/startupsetu/setu/internal/config"
)

// DefaultAnthropicModel is used when the configured model is the OpenAI-side default.
const DefaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicClient generates replies with the Anthropic Messages API.
type AnthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int64
	logger      *slog.Logger
}

func NewAnthropicClient(log *slog.Logger, cfg config.LLMConfig) (*AnthropicClient, error) {
	if log == nil {
		log = slog.Default()
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" || model == config.DefaultLLMModel {
		model = DefaultAnthropicModel
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("anthropic api key not set; completion calls will fail")
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" && baseURL != config.DefaultLLMBaseURL {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = config.DefaultLLMMaxTokens
	}
	return &AnthropicClient{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		logger:      log.With(slog.String("client", "llm"), slog.String("provider", ProviderAnthropic)),
	}, nil
}

// Generate sends the conversation and joins the text blocks of the reply.
func (c *AnthropicClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages is required")
	}
	system, rest := splitSystem(messages)
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   c.maxTokens,
		Messages:    toAnthropicMessages(rest),
		Temperature: anthropic.Float(c.temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &UpstreamError{Provider: ProviderAnthropic, StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", &UpstreamError{Provider: ProviderAnthropic, Message: err.Error()}
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// toAnthropicMessages drops empty turns, which the Messages API rejects, and folds
// consecutive same-role turns left behind into one message.
func toAnthropicMessages(messages []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	var lastRole string
	for _, m := range messages {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		block := anthropic.NewTextBlock(m.Content)
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		if len(out) > 0 && role == lastRole {
			out[len(out)-1].Content = append(out[len(out)-1].Content, block)
			continue
		}
		if role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
		lastRole = role
	}
	return out
}
