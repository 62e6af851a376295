package curator

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	proxyMarker = "inoreader.com/article/"
	proxyHost   = "inoreader.com"

	proxyWarning = "[WARNING: feed reader internal link - original URL could not be extracted]"
)

var (
	sourceURLExpr = regexp.MustCompile(`(?i)(?:read|source|original|article).*?(https?://[^\s<>"']+)`)
	anyURLExpr    = regexp.MustCompile(`https?://[^\s<>"']+`)
)

// IsProxied reports whether the link points at the feed reader's redirect page.
func IsProxied(link string) bool {
	return strings.Contains(link, proxyMarker)
}

// ResolveOriginalURL recovers the publisher URL for a feed-reader redirect
// link by scanning the item content. ok is false when link is proxied and
// nothing better was found; link is then returned unchanged.
func ResolveOriginalURL(link, content string) (resolved string, ok bool) {
	if !IsProxied(link) {
		return link, true
	}
	if content == "" {
		return link, false
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		if href := firstExternalHref(doc); href != "" {
			return href, true
		}
	}

	for _, m := range sourceURLExpr.FindAllStringSubmatch(content, -1) {
		if candidate := trimURL(m[1]); external(candidate) {
			return candidate, true
		}
	}
	for _, m := range anyURLExpr.FindAllString(content, -1) {
		if candidate := trimURL(m); external(candidate) {
			return candidate, true
		}
	}
	return link, false
}

func firstExternalHref(doc *goquery.Document) string {
	if og, exists := doc.Find(`meta[property="og:url"]`).First().Attr("content"); exists && external(og) {
		return og
	}

	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if external(href) {
			found = href
			return false
		}
		return true
	})
	return found
}

func external(link string) bool {
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		return false
	}
	return !strings.Contains(link, proxyHost)
}

func trimURL(s string) string {
	return strings.TrimRight(s, ".,;:)]")
}

// plainText flattens HTML content and truncates it to limit runes.
func plainText(content string, limit int) string {
	text := content
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(content)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit])
}
