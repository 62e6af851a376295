package domain

import "time"

// NewsletterCategory is the role a feed plays in the digest.
type NewsletterCategory string

const (
	NewsletterDeveloper      NewsletterCategory = "developer_newsletters"
	NewsletterCompanyBlogs   NewsletterCategory = "tech_company_blogs"
	NewsletterCommunities    NewsletterCategory = "developer_communities"
	NewsletterAIArticles     NewsletterCategory = "ai_articles"
	NewsletterProductUpdates NewsletterCategory = "coding_product_updates"
	NewsletterArxivResearch  NewsletterCategory = "arxiv_research"
	NewsletterGeneralTech    NewsletterCategory = "general_tech_articles"
)

// FeedMetadata is static per-feed configuration consulted while bucketing.
type FeedMetadata struct {
	Name               string             `yaml:"name"`
	ReaderCategory     string             `yaml:"readerCategory"`
	NewsletterCategory NewsletterCategory `yaml:"newsletterCategory"`
	Priority           int                `yaml:"priority"`
}

// BucketName identifies an output group of the digest.
type BucketName string

const (
	BucketResearch       BucketName = "research"
	BucketNewsletter     BucketName = "newsletter"
	BucketCommunity      BucketName = "community"
	BucketAIInsights     BucketName = "ai_insights"
	BucketProductUpdates BucketName = "product_updates"
	BucketCompetitive    BucketName = "competitive"
	BucketIndustry       BucketName = "industry"
)

// BucketOrder is the fixed priority order used for routing and rendering.
var BucketOrder = []BucketName{
	BucketResearch,
	BucketNewsletter,
	BucketCommunity,
	BucketAIInsights,
	BucketProductUpdates,
	BucketCompetitive,
	BucketIndustry,
}

// Bucket is a named ordered list of items with its inclusion threshold.
type Bucket struct {
	Name      BucketName
	Threshold float64
	Items     []ScoredItem
}

// Entry is the view of a bucketed item consumed by renderers.
type Entry struct {
	ID        string
	Title     string
	URL       string
	Score     float64
	Reasoning string
	FeedName  string
	Tags      []string

	// HeuristicScore is the pre-curation keyword score of the item.
	HeuristicScore float64
	PublishedAt    time.Time
}

// Entries projects bucket items into renderer entries.
func (b Bucket) Entries() []Entry {
	out := make([]Entry, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, Entry{
			ID:        it.Item.ID,
			Title:     it.Item.Title,
			URL:       it.Link(),
			Score:     it.Score,
			Reasoning: it.Reasoning,
			FeedName:  it.Item.FeedName,
			Tags:      it.Item.Tags,

			HeuristicScore: it.HeuristicScore(),
			PublishedAt:    it.Item.EffectiveDate(),
		})
	}
	return out
}

// Selection is the final bucketed output of a curation run.
type Selection struct {
	Buckets []Bucket
}

// Bucket returns the bucket with the given name.
func (s Selection) Bucket(name BucketName) (Bucket, bool) {
	for _, b := range s.Buckets {
		if b.Name == name {
			return b, true
		}
	}
	return Bucket{}, false
}

// Items returns the items of a bucket, or nil when absent.
func (s Selection) Items(name BucketName) []ScoredItem {
	b, _ := s.Bucket(name)
	return b.Items
}

// Total counts items across all buckets.
func (s Selection) Total() int {
	n := 0
	for _, b := range s.Buckets {
		n += len(b.Items)
	}
	return n
}

// Empty reports whether no bucket kept any item.
func (s Selection) Empty() bool {
	return s.Total() == 0
}
