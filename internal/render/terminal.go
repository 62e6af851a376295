package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"DigestCurator/internal/domain"
)

var (
	accentColor = lipgloss.Color("#2DA44E")
	dimColor    = lipgloss.Color("#6E7681")
	linkColor   = lipgloss.Color("#58A6FF")
	scoreColor  = lipgloss.Color("#F778BA")
	titleColor  = lipgloss.Color("#39D353")
	sourceColor = lipgloss.Color("#FFA657")

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0969DA")).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8250DF")).
			Bold(true).
			MarginTop(1)

	itemTitleStyle = lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	scoreStyle     = lipgloss.NewStyle().Foreground(scoreColor).Bold(true)
	sourceStyle    = lipgloss.NewStyle().Foreground(sourceColor)
	linkStyle      = lipgloss.NewStyle().Foreground(linkColor).Underline(true)
	dimStyle       = lipgloss.NewStyle().Foreground(dimColor)
)

// Terminal renders a styled preview of the selection for the CLI.
type Terminal struct{}

// Render lays out each bucket with its threshold and items.
func (Terminal) Render(selection domain.Selection, period Period) string {
	if selection.Empty() {
		return dimStyle.Render(EmptyMessage(period))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("Digest %s to %s  ·  %d items",
		period.From.Format(dateLayout), period.To.Format(dateLayout), selection.Total())))
	b.WriteByte('\n')

	for _, bucket := range selection.Buckets {
		if len(bucket.Items) == 0 {
			continue
		}
		b.WriteString(sectionStyle.Render(fmt.Sprintf("%s (>= %.0f)", heading(bucket.Name), bucket.Threshold)))
		b.WriteByte('\n')
		for _, e := range bucket.Entries() {
			b.WriteString(scoreStyle.Render(fmt.Sprintf("%4.1f", e.Score)))
			b.WriteString("  ")
			b.WriteString(itemTitleStyle.Render(e.Title))
			if e.FeedName != "" {
				b.WriteString("  ")
				b.WriteString(sourceStyle.Render(e.FeedName))
			}
			if e.HeuristicScore > 0 {
				b.WriteString("  ")
				b.WriteString(dimStyle.Render(fmt.Sprintf("kw %.1f", e.HeuristicScore)))
			}
			b.WriteByte('\n')
			b.WriteString("      ")
			b.WriteString(linkStyle.Render(e.URL))
			b.WriteByte('\n')
			if comment := Comment(e.Reasoning); comment != "" {
				b.WriteString("      ")
				b.WriteString(dimStyle.Render(comment))
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}
