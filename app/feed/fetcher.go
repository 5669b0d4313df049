package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"stratint/outlook/app/logger"
)

// DefaultLimitPerSource is used when Fetch is called with a non-positive limit.
const DefaultLimitPerSource = 6

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// FetchFunc retrieves the raw bytes behind a feed URL.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Fetcher pulls RSS/Atom sources and turns their entries into Items.
type Fetcher struct {
	fetch FetchFunc
}

// NewFetcher returns a Fetcher that uses fetch for retrieval.
func NewFetcher(fetch FetchFunc) *Fetcher {
	return &Fetcher{fetch: fetch}
}

// NewHTTPFetcher returns a Fetcher doing plain GETs with the given timeout.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return NewFetcher(HTTPGet(&http.Client{Timeout: timeout}, userAgent))
}

// HTTPGet builds a FetchFunc on client. Any non-2xx answer is an error.
func HTTPGet(client *http.Client, userAgent string) FetchFunc {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return func(ctx context.Context, url string) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.7")

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("feed status: %s", resp.Status)
		}
		return io.ReadAll(resp.Body)
	}
}

// Fetch retrieves every source in order and returns at most limitPerSource
// of the most recent entries of each. A source that cannot be retrieved or
// parsed is skipped; the result is never nil.
func (f *Fetcher) Fetch(ctx context.Context, sources []string, limitPerSource int) []Item {
	if limitPerSource <= 0 {
		limitPerSource = DefaultLimitPerSource
	}

	items := []Item{}
	for _, source := range sources {
		got, err := f.fetchSource(ctx, source, limitPerSource)
		if err != nil {
			logger.Warn("feed source skipped", "url", source, "error", err)
			continue
		}
		logger.Debug("feed source fetched", "url", source, "items", len(got))
		items = append(items, got...)
	}
	return items
}

func (f *Fetcher) fetchSource(ctx context.Context, source string, limit int) ([]Item, error) {
	body, err := f.fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// gofeed parsers keep state between calls, so each source gets its own.
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	name := strings.TrimSpace(parsed.Title)
	if name == "" {
		name = source
	}

	entries := newestFirst(parsed.Items)
	out := make([]Item, 0, limit)
	for _, entry := range entries {
		if len(out) >= limit {
			break
		}
		if entry == nil {
			continue
		}
		item, ok := convert(entry, name)
		if !ok {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func convert(entry *gofeed.Item, source string) (Item, bool) {
	headline := PlainText(entry.Title)
	if headline == "" {
		return Item{}, false
	}

	link := strings.TrimSpace(entry.Link)
	if link == "" && len(entry.Links) > 0 {
		link = strings.TrimSpace(entry.Links[0])
	}

	summary := entry.Description
	if strings.TrimSpace(summary) == "" {
		summary = entry.Content
	}

	return Item{
		Headline:  headline,
		Link:      link,
		Summary:   PlainText(summary),
		Source:    source,
		Published: published(entry),
	}, true
}

func published(entry *gofeed.Item) time.Time {
	if entry.PublishedParsed != nil {
		return entry.PublishedParsed.UTC()
	}
	if entry.UpdatedParsed != nil {
		return entry.UpdatedParsed.UTC()
	}
	return time.Time{}
}

// newestFirst orders entries by date, newest first, when every entry is
// dated. Otherwise the feed's own order is kept.
func newestFirst(entries []*gofeed.Item) []*gofeed.Item {
	out := make([]*gofeed.Item, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			continue
		}
		if published(e).IsZero() {
			return entries
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return published(out[i]).After(published(out[j]))
	})
	return out
}
