// Package llm sends chat completion requests to a hosted model provider.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/startupsetu/setu/internal/config"
)

// Roles used in Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat message sent to the provider.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer generates the assistant reply for a message list. An empty reply is
// returned as "" with a nil error.
type Completer interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}

// UpstreamError reports a provider failure. StatusCode is 0 for transport errors.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Providers accepted in config.
const (
	ProviderOpenAI    = "openai"
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
)

// New builds the completer selected by cfg.Provider.
func New(log *slog.Logger, cfg config.LLMConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderOpenAI, ProviderGroq:
		return NewOpenAIClient(log, cfg)
	case ProviderAnthropic:
		return NewAnthropicClient(log, cfg)
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}

// splitSystem pulls system messages out of the list; some providers take them separately.
func splitSystem(messages []Message) (string, []Message) {
	var system []string
	rest := make([]Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == RoleSystem {
			system = append(system, m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return strings.Join(system, "\n\n"), rest
}
