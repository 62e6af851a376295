package parser

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/cenkalti/backoff/v4"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"

	"DigestCurator/internal/classifier"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/scanner"
)

const (
	minTitleLength = 10
	maxBodyRunes   = 1200

	optionStrict         = "strict"
	optionLabels         = "labels"
	optionSourceCategory = "sourceCategory"
)

// DefaultExcludeKeywords drop off-topic items at ingest.
var DefaultExcludeKeywords = []string{
	"cryptocurrency", "crypto", "bitcoin", "nft", "web3", "blockchain",
	"gaming", "consumer apps", "video game", "esports",
}

// DefaultIncludeKeywords gate items from strict (high-volume) feeds.
var DefaultIncludeKeywords = []string{
	"code search", "source code retrieval", "semantic search", "rag", "reranker",
	"embeddings", "developer productivity", "ide", "llm agents", "context retrieval",
	"prompting", "chunking", "indexing", "repo maps", "static analysis",
	"symbol graph", "vector search", "agentic", "transformer",
	"code generation", "retrieval augmented", "neural search", "language model",
}

var nonWordExpr = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// RSSScanner reads RSS/Atom feeds listed as site categories.
type RSSScanner struct {
	client        *http.Client
	policy        *bluemonday.Policy
	exclude       []string
	include       []string
	maxRetries    uint64
	retryInterval time.Duration
	logger        *slog.Logger
}

var _ scanner.Scanner = (*RSSScanner)(nil)

// NewRSSScanner builds a scanner with the default keyword lists.
func NewRSSScanner(client *http.Client, logger *slog.Logger) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSScanner{
		client:        client,
		policy:        bluemonday.StrictPolicy(),
		exclude:       DefaultExcludeKeywords,
		include:       DefaultIncludeKeywords,
		maxRetries:    3,
		retryInterval: time.Second,
		logger:        logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

// Scan fetches every feed of the site. A failing feed is logged and skipped;
// the scan fails only when no feed could be read.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.CandidateItem, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.SiteName)
	}

	strict := req.Option(optionStrict, "false") == "true"
	labels := splitList(req.Option(optionLabels, ""))
	override := domain.SourceCategory(req.Option(optionSourceCategory, ""))

	var (
		results []domain.CandidateItem
		errs    []error
		seen    = map[string]struct{}{}
	)
	for _, cat := range req.Categories {
		feed, err := s.fetch(ctx, cat.URL)
		if err != nil {
			s.warn("feed fetch failed", "site", req.SiteName, "feed", cat.Name, "error", err)
			errs = append(errs, fmt.Errorf("feed %s: %w", cat.Name, err))
			continue
		}

		feedName := cat.Name
		if feedName == "" {
			feedName = strings.TrimSpace(feed.Title)
		}
		source := override
		if source == "" {
			source = inferSourceCategory(labels, feedName)
		}

		kept := 0
		for _, entry := range feed.Items {
			item, ok := s.toCandidate(entry, feedName, source, labels)
			if !ok || !s.admit(item, req.Since, strict) {
				continue
			}
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			results = append(results, item)
			kept++
		}
		s.debug("feed scanned", "site", req.SiteName, "feed", feedName, "entries", len(feed.Items), "kept", kept)
	}

	if len(errs) == len(req.Categories) {
		return nil, errors.Join(errs...)
	}
	return results, nil
}

func (s *RSSScanner) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var feed *gofeed.Feed
	op := func() error {
		fp := gofeed.NewParser()
		fp.Client = s.client
		fp.UserAgent = userAgent
		parsed, err := fp.ParseURLWithContext(feedURL, ctx)
		if err != nil {
			if transient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		feed = parsed
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = s.retryInterval
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, s.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return feed, nil
}

func transient(err error) bool {
	var httpErr gofeed.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func (s *RSSScanner) toCandidate(entry *gofeed.Item, feedName string, source domain.SourceCategory, labels []string) (domain.CandidateItem, bool) {
	if entry == nil {
		return domain.CandidateItem{}, false
	}
	title := strings.TrimSpace(html.UnescapeString(entry.Title))
	link := strings.TrimSpace(entry.Link)
	id := strings.TrimSpace(entry.GUID)
	if id == "" {
		id = link
	}
	if id == "" || link == "" || utf8.RuneCountInString(title) < minTitleLength {
		return domain.CandidateItem{}, false
	}

	raw := entry.Content
	if strings.TrimSpace(raw) == "" {
		raw = entry.Description
	}
	body := s.stripTags(entry.Description)
	if body == "" {
		body = s.stripTags(raw)
	}

	item := domain.CandidateItem{
		ID:             id,
		Title:          title,
		URL:            link,
		Body:           truncateRunes(body, maxBodyRunes),
		Content:        raw,
		PublishedAt:    entryDate(entry),
		FeedName:       feedName,
		SourceKind:     domain.SourceArticle,
		SourceCategory: source,
		Tags:           classifier.MergeTags(entry.Categories, labels),
	}
	if !item.PublishedAt.IsZero() {
		item.Year = fmt.Sprint(item.PublishedAt.Year())
	}
	return item, true
}

// admit applies the recency window and the keyword filters.
func (s *RSSScanner) admit(item domain.CandidateItem, since time.Time, strict bool) bool {
	if !since.IsZero() && !item.PublishedAt.IsZero() && item.PublishedAt.Before(since) {
		return false
	}
	text := paddedWords(item.Title + " " + item.Body)
	if containsWord(text, s.exclude) {
		return false
	}
	if strict {
		return containsWord(text, s.include)
	}
	return true
}

func (s *RSSScanner) stripTags(raw string) string {
	if raw == "" {
		return ""
	}
	text := html.UnescapeString(s.policy.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}

func entryDate(entry *gofeed.Item) time.Time {
	switch {
	case entry.PublishedParsed != nil:
		return entry.PublishedParsed.UTC()
	case entry.UpdatedParsed != nil:
		return entry.UpdatedParsed.UTC()
	}
	for _, raw := range []string{entry.Published, entry.Updated} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if parsed, err := dateparse.ParseAny(raw); err == nil {
			return parsed.UTC()
		}
	}
	return time.Time{}
}

// inferSourceCategory maps reader labels, then the feed title, to a
// publisher category.
func inferSourceCategory(labels []string, feedName string) domain.SourceCategory {
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "competitors", "competition":
			return domain.SourceCompetitorBlog
		}
	}
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "engineering", "dev blogs":
			return domain.SourceEngineeringBlog
		}
	}
	for _, l := range labels {
		switch strings.ToLower(l) {
		case "ai", "research":
			return domain.SourceCuratedAI
		}
	}

	name := strings.ToLower(feedName)
	switch {
	case strings.Contains(name, "platform"):
		return domain.SourcePlatformBlog
	case strings.Contains(name, "blog"), strings.Contains(name, "engineering"):
		return domain.SourceEngineeringBlog
	}
	return domain.SourceGeneral
}

func paddedWords(s string) string {
	return " " + strings.Join(strings.Fields(nonWordExpr.ReplaceAllString(strings.ToLower(s), " ")), " ") + " "
}

func containsWord(text string, keywords []string) bool {
	for _, kw := range keywords {
		phrase := strings.TrimSpace(paddedWords(kw))
		if phrase != "" && strings.Contains(text, " "+phrase+" ") {
			return true
		}
	}
	return false
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

func (s *RSSScanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *RSSScanner) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
