package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DigestCurator/internal/domain"
)

var refNow = time.Date(2025, time.November, 20, 12, 0, 0, 0, time.UTC)

func TestHeuristicScoreDecaysAfterFourteenDays(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	item := domain.CandidateItem{
		Title:       "Plain title",
		PublishedAt: refNow.Add(-14 * 24 * time.Hour),
	}

	got := h.Score(item, domain.SourceEngineeringBlog, domain.ContentProductLaunch, []string{"code_review"}, refNow)

	assert.InDelta(t, 10*math.Exp(-1), got, 1e-9)
	assert.InDelta(t, 0.3679, h.Decay(item, refNow), 1e-4)
}

func TestHeuristicScoreUnknownWeightsAreZero(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	item := domain.CandidateItem{Title: "Quiet item"}

	got := h.Score(item, "mystery_blog", "unknown_type", []string{"not_a_tag"}, refNow)
	assert.Zero(t, got)
}

func TestHeuristicScoreBoostGroupsApplyOnce(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	item := domain.CandidateItem{Title: "Announcing pricing for agents and security"}

	got := h.Score(item, domain.SourceGeneral, domain.ContentGeneral, nil, refNow)
	// 0.5 source + 1 content + 3 (launch group, once) + 2 pricing + 2 security
	assert.InDelta(t, 8.5, got, 1e-9)
}

func TestScoreItemStarredBonusSkipsDecay(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	item := domain.CandidateItem{
		Title:          "Plain title",
		SourceCategory: domain.SourceEngineeringBlog,
		ContentType:    domain.ContentProductLaunch,
		Tags:           []string{"code_review"},
		PublishedAt:    refNow.Add(-14 * 24 * time.Hour),
	}
	plain := h.ScoreItem(item, refNow)
	assert.InDelta(t, 10*math.Exp(-1), plain, 1e-9)

	item.Tags = []string{"code_review", "Starred"}
	assert.InDelta(t, plain+StarredBonus, h.ScoreItem(item, refNow), 1e-9)
}

func TestHeuristicDecayFallbacks(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	now := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item domain.CandidateItem
		want float64
	}{
		{
			name: "paper year fallback",
			item: domain.CandidateItem{SourceKind: domain.SourcePaper, Year: "2024"},
			want: math.Exp(-1),
		},
		{
			name: "unparsable year skips decay",
			item: domain.CandidateItem{SourceKind: domain.SourcePaper, Year: "n/a"},
			want: 1,
		},
		{
			name: "missing date skips decay",
			item: domain.CandidateItem{},
			want: 1,
		},
		{
			name: "future date skips decay",
			item: domain.CandidateItem{PublishedAt: now.Add(48 * time.Hour)},
			want: 1,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, h.Decay(tc.item, now), 1e-9)
		})
	}
}

func TestScoreItemDefaultsSourceCategory(t *testing.T) {
	t.Parallel()

	h := NewHeuristicScorer(DefaultWeights())
	paper := domain.CandidateItem{Title: "Quiet paper", SourceKind: domain.SourcePaper, ContentType: domain.ContentGeneral}
	article := domain.CandidateItem{Title: "Quiet post", SourceKind: domain.SourceArticle, ContentType: domain.ContentGeneral}

	assert.InDelta(t, 3.5, h.ScoreItem(paper, refNow), 1e-9)
	assert.InDelta(t, 1.5, h.ScoreItem(article, refNow), 1e-9)
}

func TestParseWeightsOverlaysDefaults(t *testing.T) {
	t.Parallel()

	w, err := ParseWeights([]byte(`
sourceType:
  paper: 4
axis:
  agents: 5
decayDays: 7
`))
	require.NoError(t, err)

	def := DefaultWeights()
	assert.Equal(t, 4.0, w.SourceType[domain.SourceAcademicPaper])
	assert.Equal(t, def.SourceType[domain.SourceCompetitorBlog], w.SourceType[domain.SourceCompetitorBlog])
	assert.Equal(t, 5.0, w.Axis["agents"])
	assert.Equal(t, def.ContentType, w.ContentType)
	assert.Equal(t, def.Boosts, w.Boosts)
	assert.Equal(t, 7.0, w.DecayDays)

	_, err = ParseWeights([]byte("axis: [broken"))
	require.Error(t, err)
}
