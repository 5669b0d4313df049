package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"

	"stratint/outlook/app/pipeline"
)

// DigestMeta describes the digest channel.
type DigestMeta struct {
	Title       string
	Link        string
	Description string
	Generated   time.Time
}

// Digest writes an RSS 2.0 feed with one item per card.
func Digest(w io.Writer, cards []pipeline.Card, meta DigestMeta) error {
	if meta.Title == "" {
		meta.Title = "STRAT-INT Renewable Outlook"
	}
	if meta.Generated.IsZero() {
		meta.Generated = time.Now()
	}
	generated := meta.Generated.UTC()

	feed := &feeds.Feed{
		Title:       meta.Title,
		Link:        &feeds.Link{Href: meta.Link},
		Description: meta.Description,
		Created:     generated,
		Updated:     generated,
	}

	for _, c := range cards {
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       digestTitle(c),
			Link:        &feeds.Link{Href: digestLink(c, meta.Link)},
			Description: digestBody(c),
			Id:          uuid.NewString(),
			Created:     generated,
		})
	}

	if err := feed.WriteRss(w); err != nil {
		return fmt.Errorf("failed to write digest: %w", err)
	}
	return nil
}

func digestTitle(c pipeline.Card) string {
	title := c.Topic + " (" + c.Country + ")"
	if v := c.Result.Record.Verdict; v != "" {
		title += ": " + v
	}
	return title
}

func digestLink(c pipeline.Card, fallback string) string {
	for _, n := range c.Result.Record.News {
		if n.Link != "" {
			return n.Link
		}
	}
	return fallback
}

func digestBody(c pipeline.Card) string {
	rec := c.Result.Record
	var b strings.Builder
	b.WriteString(rec.CoreThesis)
	for _, d := range rec.Drivers {
		fmt.Fprintf(&b, "\n%s %s", signMark(d.Sign), d.Text)
	}
	for _, s := range rec.BullCase {
		fmt.Fprintf(&b, "\nBull: %s", s)
	}
	for _, s := range rec.BearCase {
		fmt.Fprintf(&b, "\nBear: %s", s)
	}
	if c.Result.Outcome.Degraded() {
		fmt.Fprintf(&b, "\nStatus: %s", c.Result.Outcome)
	}
	return b.String()
}
