package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/scanner"
)

const (
	arxivBaseURL = "https://arxiv.org"
	userAgent    = "DigestCurator/1.0"
)

var (
	dateExpr = regexp.MustCompile(`\d{1,2} [A-Za-z]{3} \d{4}`)
	// subjectExpr pulls codes such as "cs.SE" out of "Software Engineering (cs.SE)".
	subjectExpr = regexp.MustCompile(`\(([a-z-]+(?:\.[A-Za-z-]+)?)\)`)
)

// ArxivScanner crawls category listing pages and extracts papers inside the
// recency window.
type ArxivScanner struct {
	client   *http.Client
	pageSize int
	logger   *slog.Logger
}

var _ scanner.Scanner = (*ArxivScanner)(nil)

// NewArxivScanner wires an HTTP client; pageSize defaults to 200.
func NewArxivScanner(client *http.Client, logger *slog.Logger) *ArxivScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ArxivScanner{client: client, pageSize: 200, logger: logger}
}

// Name identifies the strategy inside the registry.
func (a *ArxivScanner) Name() string {
	return "arxiv"
}

// Scan walks through each category URL and returns papers listed on or after
// req.Since. Listings are newest first, so paging stops at the first older day.
func (a *ArxivScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.CandidateItem, error) {
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("no categories provided for site %s", req.SiteName)
	}

	sinceDay := req.Since.UTC().Truncate(24 * time.Hour)
	results := make([]domain.CandidateItem, 0)
	seen := map[string]struct{}{}

	for _, cat := range req.Categories {
		skip := 0
		for {
			pageURL, err := buildPageURL(cat.URL, skip, a.pageSize)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			doc, err := a.fetchDocument(ctx, pageURL)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", cat.Name, err)
			}

			papers, shouldContinue := a.extractPapers(doc, sinceDay, cat.Name)
			for _, paper := range papers {
				if _, ok := seen[paper.ID]; ok {
					continue
				}
				seen[paper.ID] = struct{}{}
				results = append(results, paper)
			}

			if !shouldContinue {
				break
			}
			skip += a.pageSize
		}
		a.debug("category scanned", "site", req.SiteName, "category", cat.Name, "total", len(results))
	}

	return results, nil
}

func (a *ArxivScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (a *ArxivScanner) extractPapers(doc *goquery.Document, sinceDay time.Time, category string) ([]domain.CandidateItem, bool) {
	var (
		collected    []domain.CandidateItem
		continueScan = true
		processed    int
	)

	doc.Find("dl > dt").EachWithBreak(func(i int, dt *goquery.Selection) bool {
		dd := dt.Next()
		processed++

		paper, err := parseEntry(dt, dd, category)
		if err != nil {
			a.debug("skip entry", "category", category, "error", err)
			return true
		}

		if paper.PublishedAt.IsZero() {
			collected = append(collected, paper)
			return true
		}

		paperDay := paper.PublishedAt.UTC().Truncate(24 * time.Hour)
		if paperDay.Before(sinceDay) {
			continueScan = false
			return false
		}
		collected = append(collected, paper)
		return true
	})

	if processed < a.pageSize {
		continueScan = false
	}

	return collected, continueScan
}

func parseEntry(dt, dd *goquery.Selection, category string) (domain.CandidateItem, error) {
	link := dt.Find("a[href*=\"/abs/\"]").First()
	href, _ := link.Attr("href")

	id := strings.TrimSpace(link.Text())
	if id == "" {
		id = strings.TrimPrefix(href, "/abs/")
	}
	if href == "" {
		return domain.CandidateItem{}, fmt.Errorf("entry %q has no abstract link", id)
	}
	if !strings.HasPrefix(href, "http") {
		href = strings.TrimSuffix(arxivBaseURL, "/") + href
	}

	title := strings.TrimSpace(dd.Find(".list-title").First().Text())
	title = strings.TrimPrefix(title, "Title:")
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.CandidateItem{}, fmt.Errorf("entry %s has no title", id)
	}

	summary := dd.Find("p.mathjax").First().Text()
	summary = strings.TrimPrefix(strings.TrimSpace(summary), "Abstract:")
	summary = strings.TrimSpace(summary)

	dateText := strings.TrimSpace(dd.Find(".list-date").First().Text())
	if dateText == "" {
		dateText = strings.TrimSpace(dd.Find(".list-dateline").First().Text())
	}

	var publishedAt time.Time
	if match := dateExpr.FindString(dateText); match != "" {
		if parsed, err := time.Parse("2 Jan 2006", match); err == nil {
			publishedAt = parsed
		}
	}

	if id == "" {
		id = href
	}

	paper := domain.CandidateItem{
		ID:             id,
		Title:          title,
		URL:            href,
		Body:           summary,
		PublishedAt:    publishedAt,
		FeedName:       "arXiv " + category,
		SourceKind:     domain.SourcePaper,
		SourceCategory: domain.SourceAcademicPaper,
	}
	paper.Tags = subjectTags(dd, category)
	if !publishedAt.IsZero() {
		paper.Year = strconv.Itoa(publishedAt.Year())
	}

	return paper, nil
}

// subjectTags lists the listing category first, then cross-listed subjects.
func subjectTags(dd *goquery.Selection, category string) []string {
	var tags []string
	seen := map[string]struct{}{}
	add := func(tag string) {
		if tag == "" {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	add(category)
	for _, m := range subjectExpr.FindAllStringSubmatch(dd.Find(".list-subjects").First().Text(), -1) {
		add(m[1])
	}
	return tags
}

func buildPageURL(base string, skip, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid category url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("show", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

func (a *ArxivScanner) debug(msg string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(msg, args...)
	}
}
