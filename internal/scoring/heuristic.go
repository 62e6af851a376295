package scoring

import (
	"math"
	"strings"
	"time"

	"DigestCurator/internal/domain"
)

const (
	// StarredTag marks items the reader starred; see StarredBonus.
	StarredTag = "starred"
	// StarredBonus is added after decay to starred items.
	StarredBonus = 5.0
)

// HeuristicScorer computes the deterministic weighted-sum relevance estimate.
type HeuristicScorer struct {
	weights Weights
}

// NewHeuristicScorer builds a scorer over the given weights.
func NewHeuristicScorer(w Weights) *HeuristicScorer {
	if w.DecayDays <= 0 {
		w.DecayDays = DefaultWeights().DecayDays
	}
	return &HeuristicScorer{weights: w}
}

// Score sums the source, content-type, tag and keyword-boost weights and
// applies exponential recency decay relative to now. Unknown categories
// and tags weigh zero.
func (h *HeuristicScorer) Score(item domain.CandidateItem, source domain.SourceCategory, contentType domain.ContentType, tags []string, now time.Time) float64 {
	score := h.weights.SourceType[source] + h.weights.ContentType[contentType]
	for _, tag := range tags {
		score += h.weights.Axis[tag]
	}

	text := strings.ToLower(item.Title + " " + item.Body)
	for _, group := range h.weights.Boosts {
		for _, p := range group.Patterns {
			if p != "" && strings.Contains(text, p) {
				score += group.Boost
				break
			}
		}
	}

	return score * h.Decay(item, now)
}

// Decay returns exp(-ageDays/DecayDays), or 1 when the item has no usable
// date or is not in the past.
func (h *HeuristicScorer) Decay(item domain.CandidateItem, now time.Time) float64 {
	published, ok := item.ReferenceDate()
	if !ok {
		return 1
	}
	ageDays := now.Sub(published).Hours() / 24
	if ageDays <= 0 {
		return 1
	}
	return math.Exp(-ageDays / h.weights.DecayDays)
}

// ScoreItem scores the item using its own classification fields and adds
// StarredBonus when the item carries StarredTag.
func (h *HeuristicScorer) ScoreItem(item domain.CandidateItem, now time.Time) float64 {
	source := item.SourceCategory
	if source == "" {
		source = domain.SourceGeneral
		if item.IsPaper() {
			source = domain.SourceAcademicPaper
		}
	}
	score := h.Score(item, source, item.ContentType, item.Tags, now)
	for _, tag := range item.Tags {
		if strings.EqualFold(tag, StarredTag) {
			score += StarredBonus
			break
		}
	}
	return score
}
