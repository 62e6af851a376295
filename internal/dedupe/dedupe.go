// Package dedupe collapses syndicated or duplicate stories by fuzzy title
// similarity, keeping the best-scored representative of each cluster.
package dedupe

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"DigestCurator/internal/domain"
)

// DefaultThreshold is the Jaccard similarity at which two titles are the same story.
const DefaultThreshold = 0.6

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

type cluster struct {
	best  domain.ScoredItem
	words map[string]struct{}
}

// Deduplicator keeps one representative per dedup cluster.
type Deduplicator struct {
	threshold float64
}

// New builds a deduplicator; non-positive thresholds fall back to DefaultThreshold.
func New(threshold float64) *Deduplicator {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Deduplicator{threshold: threshold}
}

// Dedupe collapses items whose normalized titles are at least threshold
// similar to an accepted item. Items are visited in descending score order,
// so each cluster is keyed by its best-scored title; a later duplicate with
// a strictly higher score replaces the representative in its slot but the
// cluster keeps comparing against the title it was founded on. Output is
// sorted by score, descending.
func (d *Deduplicator) Dedupe(items []domain.ScoredItem) []domain.ScoredItem {
	ordered := make([]domain.ScoredItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })

	clusters := make([]cluster, 0, len(ordered))
	for _, item := range ordered {
		words := wordSet(NormalizeTitle(item.Item.Title))

		idx, best := -1, 0.0
		for i := range clusters {
			sim := Jaccard(words, clusters[i].words)
			if sim >= d.threshold && sim > best {
				idx, best = i, sim
			}
		}

		switch {
		case idx < 0:
			clusters = append(clusters, cluster{best: item, words: words})
		case item.Score > clusters[idx].best.Score:
			clusters[idx].best = item
		}
	}

	out := make([]domain.ScoredItem, len(clusters))
	for i, c := range clusters {
		out[i] = c.best
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// NormalizeTitle lowercases, strips non-alphanumerics and collapses whitespace.
func NormalizeTitle(title string) string {
	title = strings.ToLower(norm.NFKC.String(title))
	return strings.Join(strings.Fields(nonAlnum.ReplaceAllString(title, " ")), " ")
}

// Jaccard returns |a∩b| / |a∪b|; two empty sets are not similar.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func wordSet(normalized string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(normalized) {
		set[w] = struct{}{}
	}
	return set
}
