package scoring

// TermCategory is a weighted domain vocabulary.
type TermCategory struct {
	Name   string   `yaml:"name"`
	Weight float64  `yaml:"weight"`
	Terms  []string `yaml:"terms"`
}

// DefaultTermCategories returns the built-in domain vocabularies.
func DefaultTermCategories() []TermCategory {
	return []TermCategory{
		{Name: "information_retrieval", Weight: 1.5, Terms: []string{
			"semantic search", "semantic code search", "vector search", "embedding",
			"retrieval", "retrieval-augmented", "rag", "dense retrieval", "sparse retrieval",
			"hybrid search", "bm25", "vector database", "embedding model", "similarity search",
			"nearest neighbor", "knn", "approximate nearest neighbor", "ann",
			"full-text search", "information retrieval", "ir system", "search quality",
			"ranking algorithm", "relevance ranking", "information need", "query understanding",
			"passage retrieval", "document retrieval", "reranking", "cross-encoder",
			"milvus", "weaviate", "qdrant", "pinecone", "elasticsearch", "vector store",
			"knowledge base", "knowledge retrieval", "fact retrieval",
		}},
		{Name: "context_management", Weight: 1.5, Terms: []string{
			"context window", "context management", "context length", "long context",
			"context compression", "prompt compression", "context-aware", "context expansion",
			"sliding window", "context windowing", "conversation history", "session management",
			"state management", "context retention", "context overflow", "context limit",
			"token budget", "token limit", "attention window", "context padding",
			"multi-document context", "context synthesis", "information fusion", "context fusion",
			"memory management", "memory augmented", "memory-augmented generation", "mag",
			"working memory", "external memory",
		}},
		{Name: "code_search", Weight: 1.6, Terms: []string{
			"code search", "semantic code search", "codebase search", "code discovery",
			"code navigation", "code understanding", "code comprehension", "code indexing",
			"code analysis", "code intelligence", "code insight", "code search engine",
			"code-to-code search", "cross-repo search", "cross-repository search",
			"code similarity", "code clone detection", "code matching", "code retrieval",
			"api discovery", "library discovery", "dependency discovery", "code reuse",
			"code mining", "source code analysis", "program analysis", "static analysis",
			"codebase understanding", "codebase exploration", "developer assistant",
			"code copilot", "ai coding assistant", "code completion", "code suggestion",
		}},
		{Name: "agentic_systems", Weight: 1.4, Terms: []string{
			"agent", "agentic", "multi-agent", "agent framework", "agent system",
			"tool use", "tool calling", "function calling", "agent action", "agent reasoning",
			"workflow", "workflow orchestration", "orchestration", "autonomous agent",
			"agent planning", "planning algorithm", "decision making", "action selection",
			"observation", "reward", "agent evaluation", "agent benchmark",
			"react framework", "think-act-observe", "agent loop", "execution loop",
			"agent architecture", "agent design", "tool integration", "skill",
			"tool composition", "multi-step reasoning", "chain-of-thought", "reasoning",
			"agent collaboration", "multi-agent system", "agent communication",
			"code agent", "software engineering agent", "ai programmer", "code generator",
			"bug fixer", "code reviewer agent", "refactoring agent",
		}},
		{Name: "enterprise_codebases", Weight: 1.3, Terms: []string{
			"large codebase", "enterprise codebase", "monorepo", "polyrepo",
			"multi-repo", "repository management", "code organization", "code structure",
			"modular code", "component-based", "microservices", "service-oriented",
			"large-scale system", "scalable architecture", "distributed system",
			"codebase scale", "code dependency", "dependency graph", "dependency management",
			"version control", "version control at scale", "git", "git workflow",
			"merge conflict", "code review", "code review process", "pull request",
			"continuous integration", "ci/cd", "build system", "large team collaboration",
			"enterprise architecture", "architectural pattern", "design pattern",
			"cross-team coordination", "knowledge sharing", "code documentation",
		}},
		{Name: "developer_tools", Weight: 1.2, Terms: []string{
			"developer tools", "developer experience", "developer productivity", "devex",
			"ide", "integrated development environment", "code editor", "editor plugin",
			"developer environment", "development environment", "dev environment",
			"debugging", "debugger", "profiler", "performance analysis",
			"testing tool", "test framework", "test automation", "testing automation",
			"linting", "code quality", "static analyzer", "type checker",
			"refactoring tool", "code refactoring", "code transformation",
			"build tool", "package manager", "dependency resolver",
			"documentation tool", "doc generation", "api documentation",
			"developer workflow", "development workflow", "developer adoption",
			"ai coding", "copilot", "code assistant", "intelligent assistance",
		}},
		{Name: "llm_code_architecture", Weight: 1.2, Terms: []string{
			"large language model", "llm", "foundation model", "pre-trained model",
			"code model", "code llm", "specialized code model", "programming language model",
			"model architecture", "transformer", "attention mechanism", "multi-head attention",
			"prompt engineering", "prompt design", "few-shot learning", "in-context learning",
			"fine-tuning", "instruction tuning", "reinforcement learning from feedback", "rlhf",
			"reasoning", "chain-of-thought reasoning", "step-by-step reasoning",
			"knowledge distillation", "model compression", "quantization", "pruning",
			"context length extension", "long context modeling", "efficient attention",
			"retrieval-augmented", "knowledge-augmented", "fact grounding",
			"hallucination detection", "hallucination mitigation", "uncertainty quantification",
		}},
		{Name: "sdlc_processes", Weight: 1.0, Terms: []string{
			"software development", "development lifecycle", "sdlc", "development process",
			"development methodology", "agile", "scrum", "kanban", "ci/cd",
			"requirement analysis", "design phase", "implementation", "testing phase",
			"deployment", "maintenance", "documentation", "knowledge management",
			"issue tracking", "bug tracking", "task management", "project management",
			"code review", "peer review", "code quality assurance", "qa",
			"software engineering", "software quality", "software reliability",
			"software architecture", "architectural decision", "design review",
		}},
		{Name: "security_quality", Weight: 0.9, Terms: []string{
			"code security", "secure coding", "security analysis", "vulnerability detection",
			"static security analysis", "sast", "dynamic analysis", "dast",
			"code quality", "quality metrics", "code smell", "technical debt",
			"maintainability", "readability", "test coverage", "code coverage",
			"performance optimization", "efficiency", "resource efficiency",
			"compliance", "regulatory", "audit", "governance",
		}},
	}
}
