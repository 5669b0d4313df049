package config

import (
	"fmt"
	"strings"

	"stratint/outlook/app/filter"
)

// RunConfig is the immutable input of one scan. It is built once by
// NewRunConfig and passed explicitly into the pipeline.
type RunConfig struct {
	topics         []Topic
	country        string
	credential     string
	policy         filter.Policy
	perSourceLimit int
	maxItems       int
	concurrency    int
	lawFirms       map[string][]string
	countries      []string
}

// RunOptions are the caller-selected parts of a run. Zero values fall back to
// the configuration.
type RunOptions struct {
	Topics      []string
	Country     string
	Credential  string
	Policy      string
	Concurrency int
}

// NewRunConfig resolves opts against cfg. Topic names must exist in the
// catalogue and the country must be one of cfg.Countries.
func NewRunConfig(cfg *Config, opts RunOptions) (RunConfig, error) {
	names := opts.Topics
	if len(names) == 0 {
		names = cfg.TopicNames()
	}
	topics := make([]Topic, 0, len(names))
	for _, name := range names {
		t, ok := cfg.Topic(name)
		if !ok {
			return RunConfig{}, fmt.Errorf("unknown topic %q", name)
		}
		topics = append(topics, cloneTopic(t))
	}

	countryName := opts.Country
	if strings.TrimSpace(countryName) == "" {
		countryName = cfg.DefaultCountry
	}
	country := cfg.Country(countryName)
	if country == "" {
		return RunConfig{}, fmt.Errorf("unknown country %q (choose one of %s)", countryName, strings.Join(cfg.Countries, ", "))
	}

	policyName := opts.Policy
	if policyName == "" {
		policyName = cfg.Filter.Policy
	}
	policy, err := filter.ParsePolicy(policyName)
	if err != nil {
		return RunConfig{}, err
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	firms := make(map[string][]string, len(cfg.LawFirms))
	for country, list := range cfg.LawFirms {
		firms[country] = append([]string(nil), list...)
	}

	return RunConfig{
		topics:         topics,
		country:        country,
		credential:     strings.TrimSpace(opts.Credential),
		policy:         policy,
		perSourceLimit: cfg.Feeds.PerSourceLimit,
		maxItems:       cfg.Feeds.MaxItems,
		concurrency:    concurrency,
		lawFirms:       firms,
		countries:      append([]string(nil), cfg.Countries...),
	}, nil
}

func cloneTopic(t Topic) Topic {
	return Topic{
		Name:     t.Name,
		Sources:  append([]string(nil), t.Sources...),
		Keywords: append([]string(nil), t.Keywords...),
	}
}

// Topics returns the selected topics in run order.
func (r RunConfig) Topics() []Topic {
	out := make([]Topic, 0, len(r.topics))
	for _, t := range r.topics {
		out = append(out, cloneTopic(t))
	}
	return out
}

func (r RunConfig) Country() string       { return r.country }
func (r RunConfig) Credential() string    { return r.credential }
func (r RunConfig) Policy() filter.Policy { return r.policy }
func (r RunConfig) PerSourceLimit() int   { return r.perSourceLimit }
func (r RunConfig) MaxItems() int         { return r.maxItems }
func (r RunConfig) Concurrency() int      { return r.concurrency }

// Countries returns the enumerated country set used for tagging items.
func (r RunConfig) Countries() []string {
	return append([]string(nil), r.countries...)
}

// LawFirms returns a copy of the country to law-firm mapping.
func (r RunConfig) LawFirms() map[string][]string {
	out := make(map[string][]string, len(r.lawFirms))
	for country, list := range r.lawFirms {
		out[country] = append([]string(nil), list...)
	}
	return out
}
