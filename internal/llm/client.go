// Package llm talks to the text-generation backends. Every backend
// implements Client; Generate wraps a single exchange as the message
// sequence the driver inspects.
package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrEmptyResponse is returned when the backend produced no content.
	ErrEmptyResponse = errors.New("empty response from model")
	// ErrNoAPIKey is returned when a backend that needs a key has none.
	ErrNoAPIKey = errors.New("API key not configured")
	// ErrUnknownProvider is returned by NewClient for unsupported providers.
	ErrUnknownProvider = errors.New("unknown provider")
)

// Client is a text-generation backend.
type Client interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Model() string
}

// Provider names a backend.
type Provider string

const (
	ProviderOpenAI     Provider = "openai"
	ProviderAnthropic  Provider = "anthropic"
	ProviderGemini     Provider = "gemini"
	ProviderXAI        Provider = "xai"
	ProviderZAI        Provider = "zai"
	ProviderOpenRouter Provider = "openrouter"
)

// Config selects and configures a backend. Empty Model and BaseURL fall
// back to the provider defaults.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// Role of a message in an exchange.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of an exchange.
type Message struct {
	Role    Role
	Content string
}

// Generate runs one exchange and returns system, user and assistant
// messages. When the backend returns only whitespace the sequence stops at
// the user message and ErrEmptyResponse is returned.
func Generate(ctx context.Context, c Client, systemPrompt, userPrompt string) ([]Message, error) {
	msgs := []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: userPrompt},
	}
	content, err := c.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return msgs, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return msgs, ErrEmptyResponse
	}
	return append(msgs, Message{Role: RoleAssistant, Content: content}), nil
}

// LastContent returns the content of the final assistant message, or "".
func LastContent(msgs []Message) string {
	if len(msgs) == 0 {
		return ""
	}
	last := msgs[len(msgs)-1]
	if last.Role != RoleAssistant {
		return ""
	}
	return last.Content
}
