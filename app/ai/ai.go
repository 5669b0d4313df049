// Package ai is the common interface over hosted chat-completion providers.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	ProviderGroq        = "groq"
	ProviderOpenAI      = "openai"
	ProviderHuggingFace = "huggingface"
	ProviderAnthropic   = "anthropic"
)

// DefaultTimeout bounds one completion call when Settings.Timeout is zero.
const DefaultTimeout = 45 * time.Second

// ErrMissingAPIKey is returned by NewProvider when no key was supplied.
var ErrMissingAPIKey = errors.New("missing llm api key")

// Request is one system+user exchange.
type Request struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Provider sends a Request to a hosted model and returns the reply text.
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Settings select and configure a provider.
type Settings struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// KnownProvider reports whether name selects a provider. "" means the default.
func KnownProvider(name string) bool {
	switch normalize(name) {
	case "", ProviderGroq, ProviderOpenAI, ProviderHuggingFace, ProviderAnthropic:
		return true
	}
	return false
}

// NewProvider builds the provider named in s.Provider.
func NewProvider(s Settings) (Provider, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
	switch provider := normalize(s.Provider); provider {
	case "", ProviderGroq:
		return newOpenAICompatible(ProviderGroq, s, groqBaseURL, groqModel), nil
	case ProviderOpenAI:
		return newOpenAICompatible(ProviderOpenAI, s, "", openAIModel), nil
	case ProviderHuggingFace:
		return newOpenAICompatible(ProviderHuggingFace, s, hfBaseURL, hfModel), nil
	case ProviderAnthropic:
		return newAnthropic(s), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %s", provider)
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func pick(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
