package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/startupsetu/setu/internal/config"
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint (Groq by default).
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	logger      *slog.Logger
	http        *http.Client
}

func NewOpenAIClient(log *slog.Logger, cfg config.LLMConfig) (*OpenAIClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = config.DefaultLLMBaseURL
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("llm client: model is required")
	}
	if log == nil {
		log = slog.Default()
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		log.Warn("llm api key not set; completion calls will fail")
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = config.DefaultLLMMaxTokens
	}
	return &OpenAIClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		logger:      log.With(slog.String("client", "llm"), slog.String("provider", ProviderOpenAI)),
		http: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}, nil
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content any    `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate posts messages and returns the first choice's text content.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("messages is required")
	}
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &UpstreamError{Provider: ProviderOpenAI, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &UpstreamError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(b)),
		}
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &UpstreamError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Message: "decode response: " + err.Error()}
	}
	if len(parsed.Choices) == 0 {
		c.logger.Warn("llm response has no choices")
		return "", nil
	}
	content, _ := parsed.Choices[0].Message.Content.(string)
	return content, nil
}
