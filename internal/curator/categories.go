package curator

import (
	"strings"

	"DigestCurator/internal/domain"
)

// Category selects the rubric an item is rated against.
type Category string

const (
	CategoryResearch    Category = "research"
	CategoryNewsletter  Category = "newsletter"
	CategoryCommunity   Category = "community"
	CategoryProduct     Category = "product"
	CategoryAIInsights  Category = "ai_insights"
	CategoryCompetitive Category = "competitive"
	CategoryIndustry    Category = "industry"
)

// RoutingRule assigns a category when the lowercased feed name or URL
// contains one of the markers. Papers matches any paper-kind item.
type RoutingRule struct {
	Category    Category `yaml:"category"`
	Papers      bool     `yaml:"papers"`
	FeedMarkers []string `yaml:"feedMarkers"`
	URLMarkers  []string `yaml:"urlMarkers"`
}

// DefaultRouting is evaluated in order; unmatched items fall to industry.
func DefaultRouting() []RoutingRule {
	return []RoutingRule{
		{
			Category:    CategoryResearch,
			Papers:      true,
			FeedMarkers: []string{"arxiv", "cs.ai", "cs.ir"},
			URLMarkers:  []string{"arxiv.org/"},
		},
		{
			Category:    CategoryNewsletter,
			FeedMarkers: []string{"tldr", "pragmatic", "byte byte", "pointer", "architecture", "leadership"},
		},
		{
			Category:    CategoryCommunity,
			FeedMarkers: []string{"reddit", "devops", "vibecoding"},
			URLMarkers:  []string{"reddit.com/", "news.ycombinator.com/", "lobste.rs/"},
		},
		{
			Category:    CategoryProduct,
			FeedMarkers: []string{"github", "changelog"},
		},
		{
			Category:    CategoryAIInsights,
			FeedMarkers: []string{"llm watch", "ai daily", "made by agents", "latent space", "a16z"},
		},
		{
			Category:    CategoryCompetitive,
			FeedMarkers: []string{"openai", "anthropic", "cursor", "codeium", "amp news"},
		},
	}
}

// Categorize returns the first matching category for the item.
func Categorize(rules []RoutingRule, item domain.CandidateItem) Category {
	feed := strings.ToLower(item.FeedName)
	link := strings.ToLower(item.URL)
	for _, r := range rules {
		if r.Papers && item.IsPaper() {
			return r.Category
		}
		if markerIn(feed, r.FeedMarkers) || markerIn(link, r.URLMarkers) {
			return r.Category
		}
	}
	return CategoryIndustry
}

func markerIn(s string, markers []string) bool {
	if s == "" {
		return false
	}
	for _, m := range markers {
		if m != "" && strings.Contains(s, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// DefaultRubrics holds the scoring guidance sent with each category.
func DefaultRubrics() map[Category]string {
	return map[Category]string{
		CategoryResearch: `RESEARCH PAPERS (arXiv, academic):
Only include papers with a direct connection to code tooling, agents, context or retrieval.
Relevant topics: code understanding and search, context management for LLMs, agents for software development, information retrieval for code, LLM architectures for coding.
- 9-10: breakthrough on code understanding agents, context management for coding, retrieval for development
- 7-8: strong relevance to agent reasoning over code, LLM context for code, or retrieval in software engineering
- 5-6: LLM architecture work with a clear application to code or tooling
- 0-4: general LLM papers without a code or tooling application`,

		CategoryNewsletter: `DEVELOPER NEWSLETTERS (TLDR, Pragmatic Engineer and similar):
Score high only when the article connects to developer tooling, code agents, context or retrieval.
- 9-10: directly covers code intelligence tools, AI agents for development, developer experience with AI
- 7-8: high-quality signal on development tools, AI adoption or code-related practices
- 5-6: developer content with a clear connection to tooling, AI or code intelligence
- 0-4: generic developer content unrelated to code tooling, agents or context management`,

		CategoryCommunity: `COMMUNITY SIGNALS (Reddit, Hacker News, forums):
Score only discussions with clear relevance to code search, developer tooling, agents or context.
- 9-10: strong signal on code intelligence gaps or developer needs for agents, tooling, context or search
- 7-8: relevant discussion of developer tooling, AI adoption or code management
- 5-6: developer discussion with a clear link to tooling or code intelligence
- 0-4: general developer chatter without a connection to code tools, agents or context`,

		CategoryIndustry: `INDUSTRY AND TECH NEWS (Hacker News, InfoQ and similar):
Score only news with a direct connection to code tooling, agents, context or retrieval.
- 9-10: major innovation directly applicable to code intelligence, agents or developer tooling
- 7-8: strong technical advance relevant to code tooling, agents or context management
- 5-6: tech news with a clear relevance to code tools, retrieval or agents
- 0-4: general tech news without a connection to code tooling, agents or context management`,

		CategoryProduct: `PRODUCT UPDATES AND CHANGELOGS (GitHub, OpenAI, Anthropic and similar):
Must have a direct connection to code intelligence, agents, context or developer tooling.
- 9-10: major feature for code intelligence, developer agents, or context and retrieval in coding
- 7-8: significant update relevant to code tooling, AI for developers or context management
- 5-6: product update with clear developer tooling relevance
- 0-4: generic product update unrelated to code tooling, agents or context`,

		CategoryCompetitive: `COMPETITIVE INTELLIGENCE:
Must concern code intelligence, developer tooling, agents or context management companies.
- 9-10: major funding, acquisition or launch in code intelligence, agents or developer tooling
- 7-8: competitive move relevant to the code intelligence or developer tools market
- 5-6: company news with a clear relevance to code tools or agents
- 0-4: general company news without code, tooling or agent relevance`,

		CategoryAIInsights: `AI INSIGHTS AND ARCHITECTURE:
Score only articles with a direct connection to code or development tooling.
Relevant topics: LLM architectures for code agents, context management for coding, reasoning for software engineering, retrieval for code.
- 9-10: breakthrough in LLM or agent architecture with a clear code tooling application
- 7-8: strong relevance to code agents, context management or reasoning for development
- 5-6: AI insight with a clear connection to code tooling
- 0-4: general AI content without a development application`,
	}
}
