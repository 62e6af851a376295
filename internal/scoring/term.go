package scoring

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	// NeutralTermScore is returned when no domain term matches at all.
	NeutralTermScore = 5.0
	noCategory       = "none"
	maxMatchedTerms  = 10
	// inflectionSlack is the number of trailing runes tolerated for a word
	// to count as an inflection of a term word ("agent" -> "agents").
	inflectionSlack   = 3
	minInflectableLen = 4
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_\s]+`)

// TermResult is the keyword-density relevance signal for one item.
type TermResult struct {
	TermScore         float64
	MatchedTerms      []string
	PrimaryCategory   string
	BoostFactor       float64
	CategoriesMatched int
	TotalMatches      int
}

type compiledTerm struct {
	raw    string
	phrase string
	words  []string
}

type compiledCategory struct {
	name   string
	weight float64
	terms  []compiledTerm
}

// TermScorer grades text against weighted domain vocabularies.
type TermScorer struct {
	categories []compiledCategory
}

// NewTermScorer compiles the given categories.
func NewTermScorer(categories []TermCategory) *TermScorer {
	compiled := make([]compiledCategory, 0, len(categories))
	for _, cat := range categories {
		cc := compiledCategory{name: cat.Name, weight: cat.Weight}
		for _, term := range cat.Terms {
			words := strings.Fields(normalizeText(term))
			if len(words) == 0 {
				continue
			}
			cc.terms = append(cc.terms, compiledTerm{raw: term, phrase: strings.Join(words, " "), words: words})
		}
		if len(cc.terms) > 0 {
			compiled = append(compiled, cc)
		}
	}
	return &TermScorer{categories: compiled}
}

// NewDefaultTermScorer compiles DefaultTermCategories.
func NewDefaultTermScorer() *TermScorer {
	return NewTermScorer(DefaultTermCategories())
}

// Score grades title, summary and tags against every category.
func (s *TermScorer) Score(title, summary string, tags []string) TermResult {
	words := strings.Fields(normalizeText(title + " " + summary + " " + strings.Join(tags, " ")))
	padded := " " + strings.Join(words, " ") + " "

	type categoryHit struct {
		name    string
		weight  float64
		score   float64
		matches []string
	}

	var hits []categoryHit
	for _, cat := range s.categories {
		var (
			sum     float64
			matches []string
		)
		for _, term := range cat.terms {
			conf := matchConfidence(term, padded, words)
			if conf > 0 {
				sum += conf
				matches = append(matches, term.raw)
			}
		}
		if len(matches) == 0 {
			continue
		}
		hits = append(hits, categoryHit{
			name:    cat.name,
			weight:  cat.weight,
			score:   math.Min(10, sum/float64(len(cat.terms))*10),
			matches: matches,
		})
	}

	if len(hits) == 0 {
		return TermResult{TermScore: NeutralTermScore, PrimaryCategory: noCategory, BoostFactor: 1.0}
	}

	var (
		totalWeight, weighted float64
		totalMatches          int
		primary               = hits[0]
		matched               []string
	)
	for _, h := range hits {
		totalWeight += h.weight
		weighted += h.score * h.weight
		totalMatches += len(h.matches)
		if h.score > primary.score {
			primary = h
		}
		matched = append(matched, h.matches...)
	}

	average := 0.0
	if totalWeight > 0 {
		average = weighted / totalWeight
	}
	floor := math.Min(10, 3.0+1.5*float64(len(hits))+0.5*float64(totalMatches))

	if len(matched) > maxMatchedTerms {
		matched = matched[:maxMatchedTerms]
	}

	return TermResult{
		TermScore:         clamp(math.Max(floor, average), 0, 10),
		MatchedTerms:      matched,
		PrimaryCategory:   primary.name,
		BoostFactor:       math.Min(1.5, 1.0+0.1*float64(len(hits))),
		CategoriesMatched: len(hits),
		TotalMatches:      totalMatches,
	}
}

// matchConfidence grades how strongly a term occurs in the text.
func matchConfidence(term compiledTerm, padded string, words []string) float64 {
	if strings.Contains(padded, " "+term.phrase+" ") {
		return 1.0
	}

	if len(term.words) == 1 {
		for _, w := range words {
			if wordMatches(w, term.words[0]) {
				return 0.9
			}
		}
		return 0
	}

	if contiguous(words, term.words) {
		return 0.95
	}
	if inOrder(words, term.words) {
		return 0.8
	}
	if allPresent(words, term.words) {
		return 0.6
	}
	return 0
}

func contiguous(words, termWords []string) bool {
	for i := 0; i+len(termWords) <= len(words); i++ {
		ok := true
		for j, tw := range termWords {
			if !wordMatches(words[i+j], tw) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func inOrder(words, termWords []string) bool {
	idx := 0
	for _, tw := range termWords {
		found := false
		for idx < len(words) {
			w := words[idx]
			idx++
			if wordMatches(w, tw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func allPresent(words, termWords []string) bool {
	for _, tw := range termWords {
		found := false
		for _, w := range words {
			if wordMatches(w, tw) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// wordMatches accepts the word itself or a short inflection of it.
func wordMatches(textWord, termWord string) bool {
	if textWord == termWord {
		return true
	}
	if len(termWord) < minInflectableLen || !strings.HasPrefix(textWord, termWord) {
		return false
	}
	return len(textWord)-len(termWord) <= inflectionSlack
}

func normalizeText(text string) string {
	text = strings.ToLower(norm.NFKC.String(text))
	return strings.TrimSpace(nonWord.ReplaceAllString(text, " "))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
