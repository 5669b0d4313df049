// Package pipeline runs the per-topic scan: fetch, filter, prompt, analyse.
package pipeline

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"stratint/outlook/app/analysis"
	"stratint/outlook/app/config"
	"stratint/outlook/app/feed"
	"stratint/outlook/app/filter"
	"stratint/outlook/app/logger"
	"stratint/outlook/app/prompt"
)

// FeedSource returns the recent items of a topic's sources.
type FeedSource interface {
	Fetch(ctx context.Context, sources []string, limitPerSource int) []feed.Item
}

// Analyzer turns one topic's headlines into a normalized result.
type Analyzer interface {
	Normalize(ctx context.Context, in analysis.Input, credential string) analysis.Result
}

// Card is everything the presentation layer needs for one topic.
type Card struct {
	Topic   string
	Country string
	Items   []feed.Item
	Legal   []filter.LegalNote
	Result  analysis.Result
	Elapsed time.Duration
}

// Runner wires a FeedSource and an Analyzer together.
type Runner struct {
	feeds    FeedSource
	analyzer Analyzer
}

func NewRunner(feeds FeedSource, analyzer Analyzer) *Runner {
	return &Runner{feeds: feeds, analyzer: analyzer}
}

// Run processes the topics of rc in order and returns one card per topic.
// With concurrency 1, emit sees each card as soon as it is ready; otherwise
// topics run in parallel and emit is called in topic order after all finish.
// emit may be nil.
func (r *Runner) Run(ctx context.Context, rc config.RunConfig, emit func(Card)) []Card {
	topics := rc.Topics()
	cards := make([]Card, len(topics))

	if rc.Concurrency() <= 1 || len(topics) <= 1 {
		for i, t := range topics {
			cards[i] = r.process(ctx, rc, t)
			if emit != nil {
				emit(cards[i])
			}
		}
		return cards
	}

	var g errgroup.Group
	g.SetLimit(rc.Concurrency())
	for i, t := range topics {
		g.Go(func() error {
			cards[i] = r.process(ctx, rc, t)
			return nil
		})
	}
	_ = g.Wait()

	if emit != nil {
		for _, c := range cards {
			emit(c)
		}
	}
	return cards
}

func (r *Runner) process(ctx context.Context, rc config.RunConfig, t config.Topic) Card {
	start := time.Now()

	fetched := r.feeds.Fetch(ctx, t.Sources, rc.PerSourceLimit())
	tagged := filter.TagCountries(fetched, rc.Countries())
	items := filter.Apply(tagged, filter.Criteria{
		Country:  rc.Country(),
		Keywords: t.Keywords,
		Policy:   rc.Policy(),
		Max:      rc.MaxItems(),
	})
	legal := filter.DetectLegal(items, rc.LawFirms())

	logger.Info("topic filtered",
		"topic", t.Name,
		"fetched", len(fetched),
		"kept", len(items),
		"legal", len(legal))

	res := r.analyzer.Normalize(ctx, analysis.Input{
		Topic:   t.Name,
		Country: rc.Country(),
		Items:   items,
		Prompt:  prompt.Build(t.Name, rc.Country(), items),
	}, rc.Credential())

	card := Card{
		Topic:   t.Name,
		Country: rc.Country(),
		Items:   items,
		Legal:   legal,
		Result:  res,
		Elapsed: time.Since(start),
	}
	logger.Info("topic analysed", "topic", t.Name, "outcome", string(res.Outcome), "elapsed", card.Elapsed)
	return card
}
