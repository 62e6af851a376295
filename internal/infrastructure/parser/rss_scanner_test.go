package parser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/scanner"
)

const acmeFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Acme Engineering Blog</title>
  <item>
    <title>Semantic code search across monorepos</title>
    <link>https://eng.example.com/search</link>
    <guid>acme-1</guid>
    <pubDate>Sat, 08 Nov 2025 10:00:00 GMT</pubDate>
    <category>search</category>
    <description><![CDATA[<p>We built <b>code search</b> &amp; more</p>]]></description>
  </item>
  <item>
    <title>Bitcoin miners adopt new chips</title>
    <link>https://eng.example.com/btc</link>
    <guid>acme-2</guid>
    <pubDate>Sat, 08 Nov 2025 09:00:00 GMT</pubDate>
    <description>Hardware news.</description>
  </item>
  <item>
    <title>Old post about indexing pipelines</title>
    <link>https://eng.example.com/old</link>
    <guid>acme-3</guid>
    <pubDate>Mon, 06 Oct 2025 09:00:00 GMT</pubDate>
    <description>Indexing.</description>
  </item>
  <item>
    <title>Short</title>
    <link>https://eng.example.com/short</link>
    <guid>acme-4</guid>
    <pubDate>Sat, 08 Nov 2025 08:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Cryptography primitives for engineers</title>
    <link>https://eng.example.com/crypto-primitives</link>
    <guid>acme-5</guid>
    <pubDate>Fri, 07 Nov 2025 08:00:00 GMT</pubDate>
    <description>Hashes and signatures.</description>
  </item>
</channel>
</rss>`

var windowStart = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

func feedServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func serveFeed(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}
}

func newTestRSSScanner(client *http.Client) *RSSScanner {
	s := NewRSSScanner(client, nil)
	s.retryInterval = time.Millisecond
	return s
}

func TestRSSScannerScan(t *testing.T) {
	t.Parallel()

	server := feedServer(t, serveFeed(acmeFeed))
	req := scanner.Request{
		Since:      windowStart,
		SiteName:   "blogs",
		Categories: []scanner.Category{{URL: server.URL + "/feed"}},
	}

	items, err := newTestRSSScanner(server.Client()).Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "acme-1", first.ID)
	assert.Equal(t, "Semantic code search across monorepos", first.Title)
	assert.Equal(t, "We built code search & more", first.Body)
	assert.Contains(t, first.Content, "<b>code search</b>")
	assert.Equal(t, "Acme Engineering Blog", first.FeedName)
	assert.Equal(t, domain.SourceArticle, first.SourceKind)
	assert.Equal(t, domain.SourceEngineeringBlog, first.SourceCategory)
	assert.Equal(t, []string{"search"}, first.Tags)
	assert.Equal(t, "2025", first.Year)
	assert.True(t, first.PublishedAt.Equal(time.Date(2025, time.November, 8, 10, 0, 0, 0, time.UTC)), first.PublishedAt)

	assert.Equal(t, "acme-5", items[1].ID, "exclusion keywords match whole words only")
}

func TestRSSScannerStrictFeedsRequireKeywords(t *testing.T) {
	t.Parallel()

	server := feedServer(t, serveFeed(acmeFeed))
	req := scanner.Request{
		Since:      windowStart,
		SiteName:   "aggregators",
		Categories: []scanner.Category{{Name: "Hacker News", URL: server.URL}},
		Options:    map[string]string{"strict": "true", "labels": "Competitors, AI, Search, ai"},
	}

	items, err := newTestRSSScanner(server.Client()).Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "acme-1", items[0].ID)
	assert.Equal(t, "Hacker News", items[0].FeedName)
	assert.Equal(t, domain.SourceCompetitorBlog, items[0].SourceCategory)
	assert.Equal(t, []string{"search", "Competitors", "AI"}, items[0].Tags)
}

func TestRSSScannerRetriesTransientErrors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	server := feedServer(t, func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		serveFeed(acmeFeed)(w, r)
	})

	items, err := newTestRSSScanner(server.Client()).Scan(context.Background(), scanner.Request{
		Since:      windowStart,
		Categories: []scanner.Category{{URL: server.URL}},
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(3), hits.Load())
}

func TestRSSScannerSkipsBrokenFeeds(t *testing.T) {
	t.Parallel()

	var missingHits atomic.Int32
	missing := feedServer(t, func(w http.ResponseWriter, _ *http.Request) {
		missingHits.Add(1)
		http.NotFound(w, nil)
	})
	good := feedServer(t, serveFeed(acmeFeed))

	s := newTestRSSScanner(http.DefaultClient)
	items, err := s.Scan(context.Background(), scanner.Request{
		Since: windowStart,
		Categories: []scanner.Category{
			{Name: "Gone", URL: missing.URL},
			{Name: "Acme", URL: good.URL},
		},
	})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int32(1), missingHits.Load(), "client errors are not retried")

	_, err = s.Scan(context.Background(), scanner.Request{
		Categories: []scanner.Category{{Name: "Gone", URL: missing.URL}},
	})
	require.Error(t, err)
}

func TestEntryDateFallsBackToDateparse(t *testing.T) {
	t.Parallel()

	got := entryDate(&gofeed.Item{Published: "2025-11-08T10:00:00Z"})
	assert.True(t, got.Equal(time.Date(2025, time.November, 8, 10, 0, 0, 0, time.UTC)), got)

	assert.True(t, entryDate(&gofeed.Item{Published: "sometime soon"}).IsZero())
}

func TestInferSourceCategory(t *testing.T) {
	t.Parallel()

	cases := []struct {
		labels []string
		feed   string
		want   domain.SourceCategory
	}{
		{labels: []string{"Competition"}, feed: "Acme Blog", want: domain.SourceCompetitorBlog},
		{labels: []string{"Dev Blogs"}, want: domain.SourceEngineeringBlog},
		{labels: []string{"research"}, want: domain.SourceCuratedAI},
		{feed: "Vercel Platform Blog", want: domain.SourcePlatformBlog},
		{feed: "Uber Engineering", want: domain.SourceEngineeringBlog},
		{feed: "Hacker News", want: domain.SourceGeneral},
	}
	for _, tc := range cases {
		tc := tc
		assert.Equal(t, tc.want, inferSourceCategory(tc.labels, tc.feed), "%v %q", tc.labels, tc.feed)
	}
}
