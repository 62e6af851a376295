package classifier

import (
	"strings"

	"DigestCurator/internal/domain"
)

// Result is the derived classification attached back onto an item.
type Result struct {
	ContentType domain.ContentType
	Tags        []string
}

// Classifier tags raw text with a content type and topic tags.
type Classifier struct {
	tables Tables
}

// New builds a classifier over the given tables.
func New(tables Tables) *Classifier {
	return &Classifier{tables: tables}
}

// NewDefault builds a classifier over DefaultTables.
func NewDefault() *Classifier {
	return New(DefaultTables())
}

// Classify returns the first matching content type and every matching tag.
func (c *Classifier) Classify(title, body string) Result {
	text := " " + strings.ToLower(title+" "+body) + " "

	contentType := domain.ContentGeneral
	for _, rule := range c.tables.ContentTypes {
		if containsAny(text, rule.Keywords) {
			contentType = rule.ContentType
			break
		}
	}
	if contentType == domain.ContentGeneral && containsAny(text, c.tables.Promote) {
		contentType = domain.ContentThoughtLeadership
	}

	var tags []string
	for _, topic := range c.tables.Topics {
		if containsAny(text, topic.Keywords) {
			tags = append(tags, topic.Tag)
		}
	}

	return Result{ContentType: contentType, Tags: tags}
}

// Apply classifies the item and merges the result into it. Existing tags
// (e.g. reader labels) are kept and deduplicated.
func (c *Classifier) Apply(item *domain.CandidateItem) Result {
	res := c.Classify(item.Title, item.Body)
	item.ContentType = res.ContentType
	item.Tags = MergeTags(res.Tags, item.Tags)
	return res
}

// MergeTags unions tag lists keeping the first-seen spelling of each tag.
// Tags are trimmed and compared case-insensitively.
func MergeTags(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			key := strings.ToLower(tag)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
