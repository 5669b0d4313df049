package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"stratint/outlook/app/logger"
)

const anthropicModel = "claude-haiku-4-5"

// Anthropic calls the Messages API.
type Anthropic struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
}

func newAnthropic(s Settings) *Anthropic {
	opts := []option.RequestOption{
		option.WithAPIKey(s.APIKey),
		option.WithMaxRetries(0),
	}
	if s.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(s.BaseURL))
	}
	return &Anthropic{
		client:  anthropic.NewClient(opts...),
		model:   pick(s.Model, anthropicModel),
		timeout: s.Timeout,
	}
}

func (p *Anthropic) Name() string {
	return ProviderAnthropic
}

func (p *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	start := time.Now()
	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		logger.Error("anthropic request failed", "error", err, "duration", time.Since(start), "model", p.model)
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var parts []string
	for _, block := range resp.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	content := strings.TrimSpace(strings.Join(parts, ""))

	logger.Debug("anthropic response",
		"model", p.model,
		"duration", time.Since(start),
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens)

	if content == "" {
		return "", fmt.Errorf("no response from anthropic")
	}
	return content, nil
}
