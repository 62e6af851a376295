package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"DigestCurator/internal/domain"
)

// BoostGroup adds Boost once when any of its patterns occurs in the text.
type BoostGroup struct {
	Patterns []string `yaml:"patterns"`
	Boost    float64  `yaml:"boost"`
}

// Weights is the static configuration behind the heuristic score.
type Weights struct {
	SourceType  map[domain.SourceCategory]float64 `yaml:"sourceType"`
	ContentType map[domain.ContentType]float64    `yaml:"contentType"`
	Axis        map[string]float64                `yaml:"axis"`
	Boosts      []BoostGroup                      `yaml:"boosts"`
	// DecayDays is the e-folding time of the recency decay.
	DecayDays float64 `yaml:"decayDays"`
}

// DefaultWeights returns the built-in weight tables.
func DefaultWeights() Weights {
	return Weights{
		SourceType: map[domain.SourceCategory]float64{
			domain.SourceCompetitorBlog:  3,
			domain.SourceEngineeringBlog: 3,
			domain.SourcePlatformBlog:    2,
			domain.SourceInfraBlog:       1.5,
			domain.SourceCuratedAI:       1,
			domain.SourceGeneral:         0.5,
			domain.SourceAcademicPaper:   2.5,
		},
		ContentType: map[domain.ContentType]float64{
			domain.ContentProductLaunch:     4,
			domain.ContentSecurityIncident:  4,
			domain.ContentFeatureUpdate:     3,
			domain.ContentPricingBusiness:   3,
			domain.ContentFundingMnA:        3,
			domain.ContentBenchmarkEval:     2,
			domain.ContentThoughtLeadership: 0.5,
			domain.ContentGeneral:           1,
		},
		Axis: map[string]float64{
			"code_review":    3,
			"context_engine": 3,
			"documentation":  2,
			"agents":         2,
			"governance":     2,
			"retrieval":      1.5,
			"testing":        1.5,
			"vector_db":      1,
			"ide":            1,
			"observability":  1,
		},
		Boosts: []BoostGroup{
			{Boost: 3, Patterns: []string{
				"launch", "announcing", "now ga", "public preview", "beta", "integration", "mcp",
				"agents", "langgraph", "self-hosted", "on-prem", "air-gapped",
			}},
			{Boost: 2, Patterns: []string{
				"context window", "code graph", "multi-repo", "governance", "sdlc", "sast",
				"compliance", "policy", "test coverage",
			}},
			{Boost: 2, Patterns: []string{"pricing", "credits", "seat", "per-user", "enterprise", "unlimited"}},
			{Boost: 2, Patterns: []string{"security", "vulnerability", "cve-", "data exfiltration", "prompt injection"}},
		},
		DecayDays: 14,
	}
}

// LoadWeights reads a YAML weights file and overlays it on DefaultWeights.
// Map entries are merged key by key; a non-empty boosts list replaces the
// default groups.
func LoadWeights(path string) (Weights, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights %s: %w", path, err)
	}
	return ParseWeights(raw)
}

// ParseWeights is LoadWeights over raw YAML.
func ParseWeights(raw []byte) (Weights, error) {
	var override Weights
	if err := yaml.Unmarshal(raw, &override); err != nil {
		return Weights{}, fmt.Errorf("parse weights: %w", err)
	}

	w := DefaultWeights()
	for k, v := range override.SourceType {
		w.SourceType[k] = v
	}
	for k, v := range override.ContentType {
		w.ContentType[k] = v
	}
	for k, v := range override.Axis {
		w.Axis[k] = v
	}
	if len(override.Boosts) > 0 {
		w.Boosts = override.Boosts
	}
	if override.DecayDays > 0 {
		w.DecayDays = override.DecayDays
	}
	return w, nil
}
