package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/domain"
)

func selectionFixture() domain.Selection {
	item := func(id, title string, score float64, tags []string) domain.ScoredItem {
		return domain.ScoredItem{
			Item:      domain.CandidateItem{ID: id, Title: title, URL: "https://example.com/" + id, FeedName: "InfoQ", Tags: tags, Score: score / 2},
			Score:     score,
			Reasoning: "because " + id,
		}
	}
	return domain.Selection{Buckets: []domain.Bucket{
		{Name: domain.BucketResearch, Threshold: 7, Items: []domain.ScoredItem{
			item("r1", "Paper one", 9, []string{"retrieval"}),
			item("r2", "Paper two", 8, nil),
		}},
		{Name: domain.BucketNewsletter, Threshold: 5},
		{Name: domain.BucketIndustry, Threshold: 7, Items: []domain.ScoredItem{
			item("i1", "Industry news", 7.5, []string{"agents", "ide"}),
		}},
	}}
}

func TestSelectKnownIDs(t *testing.T) {
	t.Parallel()

	query, args, err := selectKnownIDs([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "SELECT DISTINCT item_id FROM selected_items WHERE item_id IN ($1,$2)", query)
	assert.Equal(t, []any{"a", "b"}, args)
}

func TestInsertRun(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, time.November, 10, 6, 0, 0, 0, time.UTC)
	query, args, err := insertRun("run-1", 3, at)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO curation_runs (run_id,total_items,created_at) VALUES ($1,$2,$3)", query)
	assert.Equal(t, []any{"run-1", 3, at}, args)
}

func TestInsertItems(t *testing.T) {
	t.Parallel()

	query, args, err := insertItems("run-1", selectionFixture())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query, "INSERT INTO selected_items (run_id,item_id,bucket,position,title,url,score,heuristic_score,reasoning,feed_name,tags,published_at) VALUES "), query)
	assert.True(t, strings.HasSuffix(query, "ON CONFLICT (run_id, item_id) DO NOTHING"), query)
	assert.Contains(t, query, "($25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36)")
	require.Len(t, args, 36)

	assert.Equal(t, []any{"run-1", "r1", "research", 0, "Paper one", "https://example.com/r1", 9.0, 4.5, "because r1", "InfoQ", pq.StringArray{"retrieval"}, nil}, args[:12])
	assert.Equal(t, 1, args[15], "position restarts per bucket and counts within it")
	assert.Equal(t, pq.StringArray{}, args[22])
	assert.Equal(t, "industry", args[26])
	assert.Equal(t, 0, args[27])
	assert.Equal(t, 3.75, args[31], "heuristic score of the industry item")
}

func TestInsertItemsPublishedAt(t *testing.T) {
	t.Parallel()

	published := time.Date(2026, time.October, 12, 9, 30, 0, 0, time.UTC)
	ingested := time.Date(2026, time.October, 14, 6, 0, 0, 0, time.UTC)
	sel := domain.Selection{Buckets: []domain.Bucket{{Name: domain.BucketIndustry, Items: []domain.ScoredItem{
		{Item: domain.CandidateItem{ID: "a", Title: "A", URL: "https://example.com/a", PublishedAt: published, IngestedAt: ingested}, Score: 8},
		{Item: domain.CandidateItem{ID: "b", Title: "B", URL: "https://example.com/b", IngestedAt: ingested}, Score: 7},
	}}}}

	_, args, err := insertItems("run-2", sel)
	require.NoError(t, err)
	require.Len(t, args, 24)
	assert.Equal(t, published, args[11])
	assert.Equal(t, ingested, args[23], "ingestion time stands in for a missing publication date")
}

func TestNilDatabaseIsNoop(t *testing.T) {
	t.Parallel()

	repo := NewPostgresRepository(nil)
	require.NoError(t, repo.SaveSelection(context.Background(), "run", selectionFixture()))
	require.NoError(t, repo.EnsureSchema(context.Background()))

	known, err := repo.AlreadySelected(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, known)
}
