package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stratint/outlook/app/ai"
	"stratint/outlook/app/feed"
	"stratint/outlook/app/logger"
	"stratint/outlook/app/prompt"
)

// Outcome records how a Result's record came to be.
type Outcome string

const (
	OutcomeOffline         Outcome = "offline"
	OutcomeParsed          Outcome = "parsed"
	OutcomeRecovered       Outcome = "recovered"
	OutcomeTransportFailed Outcome = "transport_failed"
	OutcomeMalformed       Outcome = "malformed"
)

// Degraded reports whether the record is a failure placeholder.
func (o Outcome) Degraded() bool {
	return o == OutcomeTransportFailed || o == OutcomeMalformed
}

// Input is everything the normalizer needs for one topic. Prompt is built
// from the other fields when empty.
type Input struct {
	Topic   string
	Country string
	Items   []feed.Item
	Prompt  string
}

// Result always carries a usable Record. Err explains a degraded outcome.
type Result struct {
	Record  Record
	Outcome Outcome
	Raw     string
	Err     error
}

// ProviderFactory builds a provider for one credential.
type ProviderFactory func(credential string) (ai.Provider, error)

const DefaultMaxTokens = 900

// Normalizer turns one topic's headlines into a Record, either offline or
// through a hosted model.
type Normalizer struct {
	newProvider ProviderFactory
	temperature float32
	maxTokens   int
}

// NewNormalizer returns a Normalizer. maxTokens <= 0 selects DefaultMaxTokens.
func NewNormalizer(factory ProviderFactory, temperature float32, maxTokens int) *Normalizer {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Normalizer{newProvider: factory, temperature: temperature, maxTokens: maxTokens}
}

// SettingsFactory adapts static provider settings into a ProviderFactory.
func SettingsFactory(s ai.Settings) ProviderFactory {
	return func(credential string) (ai.Provider, error) {
		s.APIKey = credential
		return ai.NewProvider(s)
	}
}

// Normalize never fails: transport and parse problems come back as a
// failure record with Outcome and Err set.
func (n *Normalizer) Normalize(ctx context.Context, in Input, credential string) Result {
	if strings.TrimSpace(credential) == "" {
		logger.Debug("no credential, using offline analysis", "topic", in.Topic)
		return Result{Record: Offline(in), Outcome: OutcomeOffline}
	}

	user := in.Prompt
	if user == "" {
		user = prompt.Build(in.Topic, in.Country, in.Items)
	}

	provider, err := n.newProvider(credential)
	if err != nil {
		return n.degraded(in, "", OutcomeTransportFailed, fmt.Errorf("%w: %v", ErrTransport, err))
	}

	start := time.Now()
	raw, err := provider.Complete(ctx, ai.Request{
		System:      prompt.SystemPrompt,
		User:        user,
		Temperature: n.temperature,
		MaxTokens:   n.maxTokens,
	})
	if err != nil {
		return n.degraded(in, "", OutcomeTransportFailed, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	logger.Debug("model reply received", "topic", in.Topic, "provider", provider.Name(), "duration", time.Since(start), "length", len(raw))

	rec, outcome, err := Parse(in.Topic, raw)
	if err != nil {
		return n.degraded(in, raw, outcome, err)
	}
	if outcome == OutcomeRecovered {
		logger.Info("recovered JSON from chatty model reply", "topic", in.Topic)
	}
	return Result{Record: rec, Outcome: outcome, Raw: raw}
}

func (n *Normalizer) degraded(in Input, raw string, outcome Outcome, err error) Result {
	logger.Warn("analysis degraded", "topic", in.Topic, "outcome", string(outcome), "error", err)
	return Result{
		Record:  Failure(in.Topic, in.Items, outcome),
		Outcome: outcome,
		Raw:     raw,
		Err:     err,
	}
}
