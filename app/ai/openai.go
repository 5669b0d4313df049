package ai

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"stratint/outlook/app/logger"
)

const (
	groqBaseURL = "https://api.groq.com/openai/v1"
	groqModel   = "llama-3.3-70b-versatile"

	hfBaseURL = "https://router.huggingface.co/v1"
	hfModel   = "meta-llama/Llama-3.1-8B-Instruct"

	openAIModel = "gpt-4o-mini"
)

// OpenAICompatible talks to any endpoint speaking the OpenAI chat
// completions protocol.
type OpenAICompatible struct {
	name    string
	client  *openai.Client
	model   string
	timeout time.Duration
}

func newOpenAICompatible(name string, s Settings, defaultBaseURL, defaultModel string) *OpenAICompatible {
	cfg := openai.DefaultConfig(s.APIKey)
	if base := pick(s.BaseURL, defaultBaseURL); base != "" {
		cfg.BaseURL = strings.TrimRight(base, "/")
	}
	return &OpenAICompatible{
		name:    name,
		client:  openai.NewClientWithConfig(cfg),
		model:   pick(s.Model, defaultModel),
		timeout: s.Timeout,
	}
}

// Name returns the provider name
func (p *OpenAICompatible) Name() string {
	return p.name
}

// Complete sends one system+user exchange and returns the first choice.
func (p *OpenAICompatible) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// go-openai omits a zero temperature, which the API reads as 1.
	temperature := req.Temperature
	if temperature <= 0 {
		temperature = math.SmallestNonzeroFloat32
	}

	messages := []openai.ChatCompletionMessage{}
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	logger.Debug("chat completion request",
		"provider", p.name,
		"model", p.model,
		"num_messages", len(messages))

	start := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	duration := time.Since(start)

	if err != nil {
		logger.Error("chat completion failed",
			"provider", p.name,
			"error", err,
			"duration", duration,
			"model", p.model)
		return "", fmt.Errorf("%s chat completion failed: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s api returned no choices", p.name)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	logger.Debug("chat completion response",
		"provider", p.name,
		"model", p.model,
		"duration", duration,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"response_length", len(content))

	if content == "" {
		return "", fmt.Errorf("%s api returned empty content", p.name)
	}
	return content, nil
}
