package curator

import (
	"encoding/json"
	"fmt"
	"strings"

	"DigestCurator/internal/domain"
)

const paperFeedLabel = "Academic Paper"

type promptItem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Summary string   `json:"summary"`
	Source  string   `json:"source"`
	Feed    string   `json:"feed"`
	Tags    []string `json:"tags"`
	URL     string   `json:"url"`
	Note    string   `json:"note,omitempty"`
}

// preparedItem is a candidate with its resolved link, ready to be sent.
type preparedItem struct {
	item        domain.CandidateItem
	originalURL string
	unresolved  bool
}

func prepare(item domain.CandidateItem) preparedItem {
	link, ok := ResolveOriginalURL(item.URL, item.Content)
	return preparedItem{item: item, originalURL: link, unresolved: !ok}
}

func (p preparedItem) promptItem(summaryLimit int) promptItem {
	summary := strings.TrimSpace(p.item.Body)
	if summary == "" {
		summary = plainText(p.item.Content, summaryLimit)
	}
	feed := p.item.FeedName
	if p.item.IsPaper() && feed == "" {
		feed = paperFeedLabel
	}
	tags := p.item.Tags
	if tags == nil {
		tags = []string{}
	}
	out := promptItem{
		ID:      p.item.ID,
		Title:   p.item.Title,
		Summary: summary,
		Source:  string(p.item.SourceKind),
		Feed:    feed,
		Tags:    tags,
		URL:     p.originalURL,
	}
	if p.unresolved {
		out.Note = proxyWarning
	}
	return out
}

func systemPrompt(rubric string) string {
	var b strings.Builder
	b.WriteString("You are a Relevance Judge for a specialized market intelligence newsletter about Code Intelligence and Developer Experience.\n")
	b.WriteString("Strictly filter and score content within its category using the criteria below.\n\n")
	b.WriteString(strings.TrimSpace(rubric))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "IMPORTANT: items whose note reads %q link to a feed reader page readers may not be able to open. Downgrade them by 1-2 points unless they are exceptionally relevant.\n\n", proxyWarning)
	b.WriteString(`Return a JSON object with a "ratings" array:
{
  "ratings": [
    {"id": "string", "score": number, "reasoning": "string (concise justification, mention key relevance)"}
  ]
}
`)
	b.WriteString("Output ONLY valid JSON.")
	return b.String()
}

func userPrompt(batch []preparedItem, summaryLimit int) (string, error) {
	items := make([]promptItem, 0, len(batch))
	for _, p := range batch {
		items = append(items, p.promptItem(summaryLimit))
	}
	payload, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal batch: %w", err)
	}
	return "Items to evaluate:\n" + string(payload), nil
}
