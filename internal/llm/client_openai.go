package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"versegen/internal/logging"
)

// openAIDefaults holds base URL and model per OpenAI-compatible provider.
var openAIDefaults = map[Provider]struct{ baseURL, model string }{
	ProviderOpenAI:     {"https://api.openai.com/v1", "gpt-4o"},
	ProviderXAI:        {"https://api.x.ai/v1", "grok-2-latest"},
	ProviderZAI:        {"https://api.z.ai/api/paas/v4", "glm-4.6"},
	ProviderOpenRouter: {"https://openrouter.ai/api/v1", "openai/gpt-4o"},
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIClient speaks the chat-completions protocol shared by OpenAI,
// xAI, Z.AI and OpenRouter.
type OpenAIClient struct {
	provider   Provider
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// DefaultOpenAIConfig returns defaults for an OpenAI-compatible provider.
func DefaultOpenAIConfig(provider Provider, apiKey string) Config {
	d := openAIDefaults[provider]
	return Config{
		Provider: provider,
		APIKey:   apiKey,
		BaseURL:  d.baseURL,
		Model:    d.model,
		Timeout:  10 * time.Minute,
	}
}

// NewOpenAIClientWithConfig creates a client; empty fields take provider defaults.
func NewOpenAIClientWithConfig(cfg Config) *OpenAIClient {
	def := DefaultOpenAIConfig(cfg.Provider, cfg.APIKey)
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Model == "" {
		cfg.Model = def.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &OpenAIClient{
		provider:   cfg.Provider,
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Model returns the model name sent with each request.
func (c *OpenAIClient) Model() string {
	return c.model
}

// CompleteWithSystem sends a system and a user message and returns the reply.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	log := logging.Get(logging.CategoryLLM).With(zap.String("provider", string(c.provider)), zap.String("model", c.model))
	if c.apiKey == "" {
		return "", fmt.Errorf("%s: %w", c.provider, ErrNoAPIKey)
	}
	start := time.Now()

	var messages []openAIMessage
	if strings.TrimSpace(systemPrompt) != "" {
		messages = append(messages, openAIMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, openAIMessage{Role: "user", Content: userPrompt})

	jsonData, err := json.Marshal(openAIRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   8192,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var out openAIResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("API error: %s", out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	response := strings.TrimSpace(out.Choices[0].Message.Content)
	log.Debug("completion finished", zap.Duration("latency", time.Since(start)), zap.Int("response_len", len(response)))
	return response, nil
}
