package bucket

import (
	"strings"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
)

// FeedEntry binds a feed name (as reported by the reader) to its metadata.
type FeedEntry struct {
	Feed     string              `yaml:"feed"`
	Metadata domain.FeedMetadata `yaml:"metadata"`
}

// Directory resolves feed metadata by exact name, then by substring in
// either direction, in table order.
type Directory struct {
	entries []FeedEntry
	exact   map[string]domain.FeedMetadata
}

var _ ports.FeedDirectory = (*Directory)(nil)

// NewDirectory indexes the given entries; later duplicates are ignored.
func NewDirectory(entries []FeedEntry) *Directory {
	d := &Directory{exact: make(map[string]domain.FeedMetadata, len(entries))}
	for _, e := range entries {
		if e.Feed == "" {
			continue
		}
		if _, ok := d.exact[e.Feed]; ok {
			continue
		}
		d.exact[e.Feed] = e.Metadata
		d.entries = append(d.entries, e)
	}
	return d
}

// Lookup returns metadata for the feed, if known.
func (d *Directory) Lookup(feedName string) (domain.FeedMetadata, bool) {
	if d == nil || feedName == "" {
		return domain.FeedMetadata{}, false
	}
	if meta, ok := d.exact[feedName]; ok {
		return meta, true
	}
	for _, e := range d.entries {
		if strings.Contains(feedName, e.Feed) || strings.Contains(e.Feed, feedName) {
			return e.Metadata, true
		}
	}
	return domain.FeedMetadata{}, false
}

// DefaultFeeds is the built-in feed metadata table.
func DefaultFeeds() []FeedEntry {
	feed := func(key, name, reader string, cat domain.NewsletterCategory, priority int) FeedEntry {
		return FeedEntry{Feed: key, Metadata: domain.FeedMetadata{
			Name: name, ReaderCategory: reader, NewsletterCategory: cat, Priority: priority,
		}}
	}
	return []FeedEntry{
		feed("TLDR", "TLDR", "", domain.NewsletterDeveloper, 3),
		feed("Pragmatic Engineer", "Pragmatic Engineer", "", domain.NewsletterDeveloper, 3),
		feed("Byte Byte Go", "Byte Byte Go", "", domain.NewsletterDeveloper, 3),
		feed("Pointer", "Pointer", "", domain.NewsletterDeveloper, 3),
		feed("Programming Digest", "Programming Digest", "", domain.NewsletterDeveloper, 3),
		feed("Architecture Notes", "Architecture Notes", "", domain.NewsletterDeveloper, 3),
		feed("System Design", "System Design", "", domain.NewsletterDeveloper, 3),
		feed("Leadership in Tech", "Leadership in Tech", "", domain.NewsletterDeveloper, 3),

		feed("Devops", "Devops", "Developer Communities", domain.NewsletterCommunities, 2),
		feed("vibecoding", "vibecoding", "Developer Communities", domain.NewsletterCommunities, 2),
		feed("VibeCodeDevs", "VibeCodeDevs", "Developer Communities", domain.NewsletterCommunities, 2),

		feed("The GitHub Blog", "The GitHub Blog", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 3),
		feed("Changelogs – The GitHub Blog", "Changelogs – The GitHub Blog", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 3),
		feed("OpenAI News", "OpenAI News", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 2),
		feed("Anthropic News", "Anthropic News", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 2),
		feed("Amp News", "Amp News", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 2),
		feed("Codeium Blog Posts", "Codeium Blog Posts", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 2),
		feed("Cursor Changelog RSS Feed", "Cursor Changelog RSS Feed", "Coding Agent Product Updates", domain.NewsletterProductUpdates, 2),

		feed("The AI Daily Brief (Formerly The AI Breakdown): Artificial Intelligence News and Analysis", "The AI Daily Brief", "AI Articles", domain.NewsletterAIArticles, 2),
		feed("Artificial Intelligence News • AI News • AI Blog", "Artificial Intelligence News", "AI Articles", domain.NewsletterAIArticles, 2),
		feed("Made by Agents", "Made by Agents", "AI Articles", domain.NewsletterAIArticles, 2),
		feed("LLM Watch", "LLM Watch", "AI Articles", domain.NewsletterAIArticles, 2),
		feed("Latent Space", "Latent Space", "AI Articles", domain.NewsletterAIArticles, 3),
		feed("a16z Podcast", "a16z Podcast", "AI Articles", domain.NewsletterAIArticles, 2),

		feed("Engineering Blog – Databricks", "Databricks", "Tech Company Blogs", domain.NewsletterCompanyBlogs, 1),
		feed("Stack Overflow Blog", "Stack Overflow", "Tech Articles", domain.NewsletterCompanyBlogs, 1),
	}
}
