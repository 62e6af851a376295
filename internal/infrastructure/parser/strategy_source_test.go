package parser

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/config"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/scanner"
)

type stubScanner struct {
	name  string
	items []domain.CandidateItem
	err   error
	seen  []scanner.Request
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(_ context.Context, req scanner.Request) ([]domain.CandidateItem, error) {
	s.seen = append(s.seen, req)
	return s.items, s.err
}

func TestStrategySourceAggregatesSites(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)
	feeds := &stubScanner{name: "rss", items: []domain.CandidateItem{
		{ID: "a", Title: "Agents", URL: "https://example.com/a"},
		{ID: "b", Title: "Search", URL: "https://example.com/b", FeedName: "Latent Space"},
	}}
	reg := scanner.NewRegistry()
	reg.Register(feeds)

	src := NewStrategySource(reg, []config.SiteConfig{{
		Name:       "blogs",
		Scanner:    "rss",
		Categories: []config.CategoryConfig{{Name: "Latent Space", URL: "https://www.latent.space/feed"}},
		Options:    map[string]string{"strict": "true"},
	}}, nil)

	items, err := src.FetchCandidates(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "blogs", items[0].FeedName)
	assert.Equal(t, "Latent Space", items[1].FeedName)
	assert.False(t, items[0].IngestedAt.IsZero())

	require.Len(t, feeds.seen, 1)
	assert.Equal(t, since, feeds.seen[0].Since)
	assert.Equal(t, "true", feeds.seen[0].Option("strict", ""))
	assert.Equal(t, []scanner.Category{{Name: "Latent Space", URL: "https://www.latent.space/feed"}}, feeds.seen[0].Categories)
}

func TestStrategySourceIsolatesFailingSites(t *testing.T) {
	t.Parallel()

	reg := scanner.NewRegistry()
	reg.Register(&stubScanner{name: "arxiv", err: errors.New("arxiv returned 503 Service Unavailable")})
	reg.Register(&stubScanner{name: "rss", items: []domain.CandidateItem{{ID: "a", Title: "A title", URL: "https://example.com/a"}}})

	sites := []config.SiteConfig{
		{Name: "papers", Scanner: "arxiv"},
		{Name: "unknown", Scanner: "ieee"},
		{Name: "blogs", Scanner: "rss"},
	}
	items, err := NewStrategySource(reg, sites, nil).FetchCandidates(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = NewStrategySource(reg, sites[:2], nil).FetchCandidates(context.Background(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sites failed")
	assert.Contains(t, err.Error(), "unknown scanner: ieee")
}

func TestStrategySourceWithoutRegistry(t *testing.T) {
	t.Parallel()

	_, err := NewStrategySource(nil, nil, nil).FetchCandidates(context.Background(), time.Now())
	require.Error(t, err)
}
