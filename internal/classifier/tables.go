package classifier

import "DigestCurator/internal/domain"

// ContentRule maps a content type to the keyword substrings that select it.
type ContentRule struct {
	ContentType domain.ContentType `yaml:"contentType"`
	Keywords    []string           `yaml:"keywords"`
}

// TopicRule maps a topic tag to its keyword substrings.
type TopicRule struct {
	Tag      string   `yaml:"tag"`
	Keywords []string `yaml:"keywords"`
}

// Tables holds the keyword tables used for classification. Order matters:
// ContentTypes is evaluated first-match-wins, Topics is emitted in order.
type Tables struct {
	ContentTypes []ContentRule `yaml:"contentTypes"`
	Topics       []TopicRule   `yaml:"topics"`
	// Promote turns a general item into thought leadership.
	Promote []string `yaml:"promote"`
}

// DefaultTables returns the built-in keyword tables. Short, ambiguous
// keywords are padded with spaces so they only match whole words.
func DefaultTables() Tables {
	return Tables{
		ContentTypes: []ContentRule{
			{ContentType: domain.ContentProductLaunch, Keywords: []string{
				"launch", "introducing", "announcing", "now ga", "public preview", "beta",
				"generally available", "now available", "released",
			}},
			{ContentType: domain.ContentFeatureUpdate, Keywords: []string{
				"new integration", "support for", "now supports", "mcp", "langgraph", "agents",
				"multi-repo", "context window", "code graph", "self-hosted", "update",
			}},
			{ContentType: domain.ContentPricingBusiness, Keywords: []string{
				"pricing", "plans", "credits", "free tier", "enterprise", "seat", "per-user",
				"license", "billing", "usage based",
			}},
			{ContentType: domain.ContentSecurityIncident, Keywords: []string{
				"security", "vulnerability", "cve-", "incident", "breach", "exploit",
				"remote code execution", " rce ", "supply chain", "security advisory",
			}},
			{ContentType: domain.ContentFundingMnA, Keywords: []string{
				"raises", "series a", "series b", "seed round", "acquired", "acquisition", "joins", "merger",
			}},
			{ContentType: domain.ContentBenchmarkEval, Keywords: []string{
				"benchmark", "throughput", "latency", "tokens/sec", "quality evaluation", "win-rate",
				"comparison", "beat", "outperforms",
			}},
			{ContentType: domain.ContentThoughtLeadership, Keywords: []string{
				"future of", "why x matters", "guide to", "best practices", "lessons learned", "deep dive",
			}},
		},
		Topics: []TopicRule{
			{Tag: "code_review", Keywords: []string{" pr ", "pull request", "merge request", "code review", "review agent"}},
			{Tag: "documentation", Keywords: []string{"documentation", "docs", "docstrings", "api reference"}},
			{Tag: "retrieval", Keywords: []string{" rag ", "retrieval", "vector", "embedding", "index", "pinecone", "weaviate", "qdrant"}},
			{Tag: "agents", Keywords: []string{"agent", "agentic", "langgraph", "mcp", "autonomous"}},
			{Tag: "ide", Keywords: []string{" ide ", "vscode", "jetbrains", "editor", "plugin", "extension"}},
			{Tag: "testing", Keywords: []string{"testing", "unit test", "integration test", "test coverage"}},
			{Tag: "observability", Keywords: []string{"observability", "monitoring", "tracing", "metrics"}},
			{Tag: "governance", Keywords: []string{"governance", "compliance", "audit", "policy"}},
		},
		Promote: []string{"how to", "tutorial"},
	}
}
