package render

import (
	"encoding/json"
	"io"

	"stratint/outlook/app/analysis"
	"stratint/outlook/app/feed"
	"stratint/outlook/app/filter"
	"stratint/outlook/app/pipeline"
)

type cardView struct {
	Topic     string             `json:"topic"`
	Country   string             `json:"country"`
	Outcome   analysis.Outcome   `json:"outcome"`
	Error     string             `json:"error,omitempty"`
	Raw       string             `json:"raw,omitempty"`
	ElapsedMS int64              `json:"elapsed_ms"`
	Analysis  analysis.Record    `json:"analysis"`
	Items     []feed.Item        `json:"items"`
	Legal     []filter.LegalNote `json:"legal"`
}

// JSON writes cards as an indented JSON array.
func JSON(w io.Writer, cards []pipeline.Card) error {
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		v := cardView{
			Topic:     c.Topic,
			Country:   c.Country,
			Outcome:   c.Result.Outcome,
			ElapsedMS: c.Elapsed.Milliseconds(),
			Raw:       c.Result.Raw,
			Analysis:  c.Result.Record,
			Items:     displayItems(c.Items),
			Legal:     c.Legal,
		}
		if c.Result.Err != nil {
			v.Error = c.Result.Err.Error()
		}
		if v.Legal == nil {
			v.Legal = []filter.LegalNote{}
		}
		views = append(views, v)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(views)
}

// displayItems copies items with summaries cut for display.
func displayItems(items []feed.Item) []feed.Item {
	out := make([]feed.Item, 0, len(items))
	for _, it := range items {
		it.Summary = feed.Truncate(it.Summary, feed.MaxSummaryRunes)
		out = append(out, it)
	}
	return out
}
