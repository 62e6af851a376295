package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceKind distinguishes the two candidate shapes.
type SourceKind string

const (
	SourcePaper   SourceKind = "paper"
	SourceArticle SourceKind = "article"
)

// ContentType is the primary classification of an item's text.
type ContentType string

const (
	ContentProductLaunch     ContentType = "product_launch"
	ContentFeatureUpdate     ContentType = "feature_update"
	ContentPricingBusiness   ContentType = "pricing_business"
	ContentSecurityIncident  ContentType = "security_incident"
	ContentFundingMnA        ContentType = "funding_mna"
	ContentBenchmarkEval     ContentType = "benchmark_eval"
	ContentThoughtLeadership ContentType = "thought_leadership"
	ContentGeneral           ContentType = "general"
)

// SourceCategory describes the kind of publisher an item came from.
type SourceCategory string

const (
	SourceCompetitorBlog  SourceCategory = "competitor_blog"
	SourceEngineeringBlog SourceCategory = "engineering_blog"
	SourcePlatformBlog    SourceCategory = "platform_blog"
	SourceInfraBlog       SourceCategory = "infra_blog"
	SourceCuratedAI       SourceCategory = "curated_ai"
	SourceGeneral         SourceCategory = "general"
	SourceAcademicPaper   SourceCategory = "paper"
)

// CandidateItem is a single article or paper eligible for curation.
type CandidateItem struct {
	ID    string
	Title string
	URL   string
	// Body is the richest of summary, abstract or snippet.
	Body string
	// Content keeps the raw feed payload; used to recover original links.
	Content        string
	PublishedAt    time.Time
	IngestedAt     time.Time
	Year           string
	FeedName       string
	SourceKind     SourceKind
	SourceCategory SourceCategory
	Tags           []string
	ContentType    ContentType
	Score          float64
	Company        string
}

// Validate checks the invariants every candidate must satisfy.
func (c CandidateItem) Validate() error {
	switch {
	case strings.TrimSpace(c.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidItem)
	case strings.TrimSpace(c.Title) == "":
		return fmt.Errorf("%w: item %s has empty title", ErrInvalidItem, c.ID)
	case strings.TrimSpace(c.URL) == "":
		return fmt.Errorf("%w: item %s has empty url", ErrInvalidItem, c.ID)
	}
	return nil
}

// IsPaper reports whether the item is an academic paper.
func (c CandidateItem) IsPaper() bool {
	return c.SourceKind == SourcePaper
}

// ReferenceDate returns the date used for recency decay: the publication
// date, or January 1st of the paper year. ok is false when neither parses.
func (c CandidateItem) ReferenceDate() (time.Time, bool) {
	if !c.PublishedAt.IsZero() {
		return c.PublishedAt, true
	}
	if c.Year == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(c.Year)+"-01-01")
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// EffectiveDate is the publication date, falling back to ingestion time.
func (c CandidateItem) EffectiveDate() time.Time {
	if !c.PublishedAt.IsZero() {
		return c.PublishedAt
	}
	return c.IngestedAt
}

// ScoredItem is an item with a relevance score and the rater's rationale.
type ScoredItem struct {
	Item      CandidateItem
	Score     float64
	Reasoning string

	// Category is the semantic curation category the item was rated under.
	Category     string
	LLMScore     float64
	TermScore    float64
	MatchedTerms []string
	// OriginalURL is the de-proxied link when the feed URL was a reader redirect.
	OriginalURL string
}

// HeuristicScore is the keyword score assigned before curation.
func (s ScoredItem) HeuristicScore() float64 {
	return s.Item.Score
}

// Link returns the best URL to show readers.
func (s ScoredItem) Link() string {
	if s.OriginalURL != "" {
		return s.OriginalURL
	}
	return s.Item.URL
}
