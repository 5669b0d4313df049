package feed

import "time"

// Item is one ingested headline. Items are values; nothing mutates them after
// the fetcher returns.
type Item struct {
	Headline  string    `json:"headline"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Published time.Time `json:"published,omitzero"`
	Countries []string  `json:"countries,omitempty"`
}

// Text is the lowercase-agnostic haystack used for relevance matching.
func (i Item) Text() string {
	return i.Headline + " " + i.Summary
}
