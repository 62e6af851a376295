package scoring

// DefaultMinThreshold is the LLM score needed for the mixed admission path.
const DefaultMinThreshold = 5.0

// HybridResult is the blended score with the term breakdown behind it.
type HybridResult struct {
	FinalScore float64
	Breakdown  TermResult
}

// Hybrid blends an LLM rating (0-10) with the term score of the same text.
func (s *TermScorer) Hybrid(llmScore float64, title, summary string, tags []string) HybridResult {
	term := s.Score(title, summary, tags)
	return HybridResult{FinalScore: Blend(llmScore, term), Breakdown: term}
}

// Blend combines an LLM rating with a precomputed term result: 70/30 mix,
// boosted when terms are confident, floored when terms see relevance the
// rater missed, and penalized when the rater is confident without terms.
func Blend(llmScore float64, term TermResult) float64 {
	llmConfidence := llmScore / 10
	termConfidence := term.TermScore / 10

	final := llmScore*0.7 + term.TermScore*0.3

	if termConfidence > 0.6 {
		final *= term.BoostFactor
	}
	if termConfidence > 0.7 && llmConfidence < 0.4 {
		if final < 5 {
			final = 5
		}
	}
	if termConfidence < 0.3 && llmConfidence > 0.7 {
		final *= 0.9
	}

	return clamp(final, 0, 10)
}

// ShouldInclude is the admission rule: neither signal alone is fully trusted
// unless it is strong.
func ShouldInclude(llmScore, termScore, minThreshold float64) bool {
	switch {
	case llmScore >= 8:
		return true
	case llmScore >= 6 && termScore >= 4:
		return true
	case llmScore >= minThreshold && termScore >= 3:
		return true
	case termScore >= 7:
		return true
	}
	return false
}
