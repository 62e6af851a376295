package bucket

import (
	"net/url"
	"regexp"
	"strings"

	"DigestCurator/internal/domain"
)

// Config carries bucket thresholds and the term lists used by routing.
type Config struct {
	Thresholds         map[domain.BucketName]float64 `yaml:"thresholds"`
	InternalExclusions []string                      `yaml:"internalExclusions"`
	AcademicFeeds      []string                      `yaml:"academicFeeds"`
	AcademicDomains    []string                      `yaml:"academicDomains"`
	CommunityDomains   []string                      `yaml:"communityDomains"`
	Competitors        []string                      `yaml:"competitors"`
}

// DefaultThresholds are the per-bucket minimum scores.
func DefaultThresholds() map[domain.BucketName]float64 {
	return map[domain.BucketName]float64{
		domain.BucketResearch:       7,
		domain.BucketCompetitive:    7,
		domain.BucketIndustry:       7,
		domain.BucketCommunity:      5,
		domain.BucketNewsletter:     5,
		domain.BucketAIInsights:     5,
		domain.BucketProductUpdates: 4,
	}
}

func DefaultConfig() Config {
	return Config{
		Thresholds:         DefaultThresholds(),
		InternalExclusions: []string{"sourcegraph"},
		AcademicFeeds:      []string{"arxiv", "cs.ai", "cs.ir", "cs.se"},
		AcademicDomains:    []string{"arxiv.org", "openreview.net", "aclanthology.org", "dl.acm.org"},
		CommunityDomains:   []string{"reddit.com", "news.ycombinator.com", "lobste.rs"},
		Competitors: []string{
			"cursor", "codeium", "windsurf", "coderabbit", "augment code", "augmentcode",
			"github copilot", "copilot", "tabnine", "cody", "devin", "cognition",
			"greptile", "qodo", "replit", "jetbrains ai",
		},
	}
}

// Route is the routing view of one item.
type Route struct {
	Item    domain.ScoredItem
	Meta    domain.FeedMetadata
	HasMeta bool

	feed  string
	url   string
	words string
}

func newRoute(item domain.ScoredItem, meta domain.FeedMetadata, ok bool) Route {
	ci := item.Item
	return Route{
		Item:    item,
		Meta:    meta,
		HasMeta: ok,
		feed:    strings.ToLower(ci.FeedName),
		url:     strings.ToLower(item.Link()),
		words:   padWords(ci.Title, ci.FeedName, strings.Join(ci.Tags, " ")),
	}
}

// Rule maps a predicate to a bucket. An empty Bucket drops the item.
type Rule struct {
	Name   string
	Bucket domain.BucketName
	Match  func(r Route) bool
}

// Rules builds the ordered routing list; the first matching rule wins.
func Rules(cfg Config) []Rule {
	exclusions := lowerAll(cfg.InternalExclusions)
	academicFeeds := lowerAll(cfg.AcademicFeeds)
	academicDomains := lowerAll(cfg.AcademicDomains)
	domains := lowerAll(cfg.CommunityDomains)
	competitors := lowerAll(cfg.Competitors)

	category := func(c domain.NewsletterCategory) func(Route) bool {
		return func(r Route) bool { return r.HasMeta && r.Meta.NewsletterCategory == c }
	}

	return []Rule{
		{Name: "internal_exclusion", Match: func(r Route) bool {
			text := padWords(r.Item.Item.Title, r.Item.Item.FeedName, r.url)
			return hasWord(text, exclusions)
		}},
		{Name: "research", Bucket: domain.BucketResearch, Match: func(r Route) bool {
			if r.Item.Item.IsPaper() || category(domain.NewsletterArxivResearch)(r) {
				return true
			}
			return containsAny(r.feed, academicFeeds) || hostIn(r.url, academicDomains)
		}},
		{Name: "newsletter", Bucket: domain.BucketNewsletter, Match: category(domain.NewsletterDeveloper)},
		{Name: "community", Bucket: domain.BucketCommunity, Match: func(r Route) bool {
			return category(domain.NewsletterCommunities)(r) || hostIn(r.url, domains)
		}},
		{Name: "ai_insights", Bucket: domain.BucketAIInsights, Match: category(domain.NewsletterAIArticles)},
		{Name: "product_updates", Bucket: domain.BucketProductUpdates, Match: category(domain.NewsletterProductUpdates)},
		{Name: "competitive", Bucket: domain.BucketCompetitive, Match: func(r Route) bool {
			return hasWord(r.words, competitors)
		}},
		{Name: "industry", Bucket: domain.BucketIndustry, Match: func(Route) bool { return true }},
	}
}

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func padWords(parts ...string) string {
	joined := strings.ToLower(strings.Join(parts, " "))
	return " " + strings.Join(strings.Fields(nonWord.ReplaceAllString(joined, " ")), " ") + " "
}

// hasWord matches whole words or phrases against text built by padWords.
func hasWord(text string, terms []string) bool {
	for _, t := range terms {
		w := strings.TrimSpace(padWords(t))
		if w == "" {
			continue
		}
		if strings.Contains(text, " "+w+" ") {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	if s == "" {
		return false
	}
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func hostIn(raw string, domains []string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
