package curator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"DigestCurator/internal/domain"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	paper := domain.CandidateItem{ID: "p", Title: "P", URL: "https://example.org/p", SourceKind: domain.SourcePaper}

	cases := []struct {
		name string
		item domain.CandidateItem
		want Category
	}{
		{name: "paper kind", item: paper, want: CategoryResearch},
		{name: "arxiv feed", item: candidate("a", "A", "arXiv cs.AI"), want: CategoryResearch},
		{name: "arxiv url", item: domain.CandidateItem{ID: "b", URL: "https://arxiv.org/abs/2501.1"}, want: CategoryResearch},
		{name: "newsletter", item: candidate("c", "C", "TLDR AI"), want: CategoryNewsletter},
		{name: "community feed", item: candidate("d", "D", "r/vibecoding"), want: CategoryCommunity},
		{name: "community url", item: domain.CandidateItem{ID: "e", FeedName: "HN Front Page", URL: "https://news.ycombinator.com/item?id=1"}, want: CategoryCommunity},
		{name: "product", item: candidate("f", "F", "Changelogs – The GitHub Blog"), want: CategoryProduct},
		{name: "ai insights", item: candidate("g", "G", "Latent Space"), want: CategoryAIInsights},
		{name: "competitive", item: candidate("h", "H", "OpenAI News"), want: CategoryCompetitive},
		{name: "fallback", item: candidate("i", "I", "InfoQ"), want: CategoryIndustry},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Categorize(DefaultRouting(), tc.item))
		})
	}
}

func TestCategorizeCustomRules(t *testing.T) {
	t.Parallel()

	rules := []RoutingRule{{Category: CategoryCompetitive, FeedMarkers: []string{"InfoQ"}}}
	assert.Equal(t, CategoryCompetitive, Categorize(rules, candidate("a", "A", "InfoQ")))
	assert.Equal(t, CategoryIndustry, Categorize(rules, candidate("b", "B", "TLDR")))
}
