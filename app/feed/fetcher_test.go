package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Energy Storage News</title>
    <link>https://example.com</link>
    <description>storage</description>
    <item>
      <title>Older battery tender in India</title>
      <link>https://example.com/older</link>
      <description>&lt;p&gt;Tender for &lt;b&gt;500MWh&lt;/b&gt;&lt;/p&gt;&lt;p&gt;in Gujarat&lt;/p&gt;</description>
      <pubDate>Mon, 02 Jun 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Newest BESS project in Japan</title>
      <link>https://example.com/newest</link>
      <description>Grid-scale storage</description>
      <pubDate>Wed, 04 Jun 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Middle lithium update</title>
      <link>https://example.com/middle</link>
      <pubDate>Tue, 03 Jun 2025 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>   </title>
      <link>https://example.com/untitled</link>
      <pubDate>Tue, 03 Jun 2025 09:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`

const atomFixture = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Hydrogen Insight</title>
  <id>urn:example:h2</id>
  <updated>2025-06-04T08:00:00Z</updated>
  <entry>
    <title>Electrolyser order in Australia</title>
    <id>urn:example:h2:1</id>
    <link href="https://example.com/h2/1"/>
    <updated>2025-06-04T08:00:00Z</updated>
    <summary>Green hydrogen hub</summary>
  </entry>
</feed>`

const untitledFeedFixture = `<?xml version="1.0"?>
<rss version="2.0"><channel>
  <item><title>Only a title</title></item>
</channel></rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/rss", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, rssFixture)
	})
	mux.HandleFunc("/atom", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, atomFixture)
	})
	mux.HandleFunc("/untitled", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, untitledFeedFixture)
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not a feed")
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_OrdersNewestFirstAndLimits(t *testing.T) {
	srv := newFeedServer(t)
	f := NewHTTPFetcher(5*time.Second, "")

	items := f.Fetch(context.Background(), []string{srv.URL + "/rss"}, 2)

	require.Len(t, items, 2)
	assert.Equal(t, "Newest BESS project in Japan", items[0].Headline)
	assert.Equal(t, "Middle lithium update", items[1].Headline)
	assert.Equal(t, "Energy Storage News", items[0].Source)
	assert.Equal(t, "https://example.com/newest", items[0].Link)
	assert.Equal(t, time.Date(2025, 6, 4, 8, 0, 0, 0, time.UTC), items[0].Published)
}

func TestFetch_StripsMarkupAndSkipsUntitled(t *testing.T) {
	srv := newFeedServer(t)
	f := NewHTTPFetcher(5*time.Second, "")

	items := f.Fetch(context.Background(), []string{srv.URL + "/rss"}, 10)

	require.Len(t, items, 3)
	older := items[2]
	assert.Equal(t, "Older battery tender in India", older.Headline)
	assert.Equal(t, "Tender for 500MWh in Gujarat", older.Summary)
	for _, it := range items {
		assert.NotEmpty(t, strings.TrimSpace(it.Headline))
	}
}

func TestFetch_SkipsFailingSourcesAndKeepsOrder(t *testing.T) {
	srv := newFeedServer(t)
	f := NewHTTPFetcher(5*time.Second, "")

	items := f.Fetch(context.Background(), []string{
		srv.URL + "/down",
		srv.URL + "/atom",
		srv.URL + "/broken",
		"http://127.0.0.1:1/unreachable",
		srv.URL + "/rss",
	}, 1)

	require.Len(t, items, 2)
	assert.Equal(t, "Electrolyser order in Australia", items[0].Headline)
	assert.Equal(t, "Hydrogen Insight", items[0].Source)
	assert.Equal(t, "https://example.com/h2/1", items[0].Link)
	assert.Equal(t, "Green hydrogen hub", items[0].Summary)
	assert.Equal(t, "Newest BESS project in Japan", items[1].Headline)
}

func TestFetch_MissingFieldsDefaultToEmpty(t *testing.T) {
	srv := newFeedServer(t)
	f := NewHTTPFetcher(5*time.Second, "")

	url := srv.URL + "/untitled"
	items := f.Fetch(context.Background(), []string{url}, 5)

	require.Len(t, items, 1)
	assert.Equal(t, "Only a title", items[0].Headline)
	assert.Empty(t, items[0].Link)
	assert.Empty(t, items[0].Summary)
	assert.Equal(t, url, items[0].Source, "feed without title falls back to its URL")
	assert.True(t, items[0].Published.IsZero())
}

func TestFetch_NoReachableSourcesIsEmptyNotNil(t *testing.T) {
	failing := NewFetcher(func(ctx context.Context, url string) ([]byte, error) {
		return nil, errors.New("connection refused")
	})

	items := failing.Fetch(context.Background(), []string{"https://a.example", "https://b.example"}, 5)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	assert.NotNil(t, failing.Fetch(context.Background(), nil, 5))
}

func TestFetch_UsesDefaultLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Many</title>`)
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "<item><title>Item %d</title></item>", i)
	}
	b.WriteString(`</channel></rss>`)

	f := NewFetcher(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(b.String()), nil
	})

	items := f.Fetch(context.Background(), []string{"https://many.example"}, 0)
	require.Len(t, items, DefaultLimitPerSource)
	assert.Equal(t, "Item 0", items[0].Headline, "undated feeds keep their own order")
}

func TestFetch_KeepsFullSummary(t *testing.T) {
	long := strings.Repeat("grid ", 120) + "India"
	f := NewFetcher(func(ctx context.Context, url string) ([]byte, error) {
		return []byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Wire</title>` +
			`<item><title>Long read</title><description>` + long + `</description></item></channel></rss>`), nil
	})

	items := f.Fetch(context.Background(), []string{"https://wire.example"}, 5)
	require.Len(t, items, 1)
	assert.Equal(t, long, items[0].Summary)
}

func TestHTTPGet_SendsHeaders(t *testing.T) {
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	body, err := HTTPGet(srv.Client(), "stratint-test/1.0")(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "stratint-test/1.0", gotUA)
	assert.Contains(t, gotAccept, "application/rss+xml")
}

func TestPlainTextAndTruncate(t *testing.T) {
	assert.Equal(t, "AT&T wins grid deal", PlainText("AT&amp;T <em>wins</em>\n grid deal"))
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab...", Truncate("abcdefgh", 5))
	assert.Equal(t, "ab", Truncate("abcdefgh", 2))
	assert.Equal(t, "", Truncate("abc", 0))
}
