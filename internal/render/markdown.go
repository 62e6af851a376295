// Package render turns a curated selection into digest text.
package render

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"DigestCurator/internal/domain"
)

const dateLayout = "2006-01-02"

// Period is the date range a digest covers.
type Period struct {
	From time.Time
	To   time.Time
}

// Days is the whole number of days in the period, at least 1.
func (p Period) Days() int {
	d := int(p.To.Sub(p.From).Hours() / 24)
	if d < 1 {
		return 1
	}
	return d
}

var scorePrefix = regexp.MustCompile(`(?i)^score\s*\d+(?:\.\d+)?(?:\s*/\s*\d+)?\s*[:.-]?\s*`)

// Headings are the section titles per bucket.
var Headings = map[domain.BucketName]string{
	domain.BucketResearch:       "Research Papers",
	domain.BucketNewsletter:     "Developer Newsletters",
	domain.BucketCommunity:      "Community Signals",
	domain.BucketAIInsights:     "AI Insights",
	domain.BucketProductUpdates: "Product Updates",
	domain.BucketCompetitive:    "Competitive Intelligence",
	domain.BucketIndustry:       "Industry News",
}

// Markdown renders digests in Telegram-flavoured Markdown.
type Markdown struct{}

// Render formats every non-empty bucket as a section of linked bullets.
func (Markdown) Render(selection domain.Selection, period Period) string {
	if selection.Empty() {
		return EmptyMessage(period)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Research and Industry Updates (%s to %s)*\n",
		period.From.Format(dateLayout), period.To.Format(dateLayout))

	for _, bucket := range selection.Buckets {
		if len(bucket.Items) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s*\n", heading(bucket.Name))
		for _, e := range bucket.Entries() {
			fmt.Fprintf(&b, "- [%s](%s) (%.1f)", escape(e.Title), e.URL, e.Score)
			if comment := Comment(e.Reasoning); comment != "" {
				fmt.Fprintf(&b, ": %s", escape(comment))
			}
			b.WriteByte('\n')
		}
	}

	return b.String()
}

// EmptyMessage is the digest text for a run that kept nothing.
func EmptyMessage(period Period) string {
	return fmt.Sprintf("No high-relevance content found in the last %d days.", period.Days())
}

// Comment strips a leading "Score 8/10:" from rater reasoning.
func Comment(reasoning string) string {
	return strings.TrimSpace(scorePrefix.ReplaceAllString(strings.TrimSpace(reasoning), ""))
}

func heading(name domain.BucketName) string {
	if h, ok := Headings[name]; ok {
		return h
	}
	return string(name)
}

var markdownEscaper = strings.NewReplacer("*", "", "_", " ", "[", "(", "]", ")", "`", "'")

// escape removes characters legacy Telegram Markdown treats as entities.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}
