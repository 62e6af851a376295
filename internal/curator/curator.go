package curator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/metrics"
	"DigestCurator/internal/ports"
)

const (
	DefaultBatchSize    = 15
	DefaultConcurrency  = 3
	DefaultSummaryLimit = 500
)

// Config tunes batching of completion requests.
type Config struct {
	BatchSize    int `yaml:"batchSize"`
	Concurrency  int `yaml:"concurrency"`
	SummaryLimit int `yaml:"summaryLimit"`
}

func DefaultConfig() Config {
	return Config{
		BatchSize:    DefaultBatchSize,
		Concurrency:  DefaultConcurrency,
		SummaryLimit: DefaultSummaryLimit,
	}
}

// BatchResult is the outcome of one completion round-trip. Err is set when
// the call or the response parsing failed; Ratings is then empty.
type BatchResult struct {
	Category Category
	Size     int
	Ratings  []domain.ScoredItem
	Err      error
	Duration time.Duration
}

// Option customizes a Curator.
type Option func(*Curator)

// WithRouting replaces the category routing rules.
func WithRouting(rules []RoutingRule) Option {
	return func(c *Curator) {
		if len(rules) > 0 {
			c.routing = rules
		}
	}
}

// WithRubrics overrides rubrics per category; missing ones keep the default.
func WithRubrics(rubrics map[Category]string) Option {
	return func(c *Curator) {
		for k, v := range rubrics {
			if v != "" {
				c.rubrics[k] = v
			}
		}
	}
}

// Curator rates candidates with a text-completion service, one request per
// batch of items sharing a category.
type Curator struct {
	completer ports.Completer
	cfg       Config
	routing   []RoutingRule
	rubrics   map[Category]string
	logger    *slog.Logger
}

// New builds a curator. A nil completer is reported by Curate.
func New(completer ports.Completer, cfg Config, logger *slog.Logger, opts ...Option) *Curator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.SummaryLimit <= 0 {
		cfg.SummaryLimit = DefaultSummaryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Curator{
		completer: completer,
		cfg:       cfg,
		routing:   DefaultRouting(),
		rubrics:   DefaultRubrics(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type batch struct {
	category Category
	items    []preparedItem
}

// Curate rates every item it can and returns them sorted by score, highest
// first. Failed batches are logged and skipped.
func (c *Curator) Curate(ctx context.Context, items []domain.CandidateItem) ([]domain.ScoredItem, error) {
	if c == nil || c.completer == nil {
		return nil, domain.ErrCompleterNotConfigured
	}
	if len(items) == 0 {
		return nil, nil
	}

	batches := c.partition(items)
	c.logger.Info("curating items", "items", len(items), "batches", len(batches))

	results := make([]BatchResult, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.cfg.Concurrency)
	for i, b := range batches {
		i, b := i, b
		g.Go(func() error {
			results[i] = c.runBatch(gctx, b)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("curate: %w", err)
	}

	var out []domain.ScoredItem
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		out = append(out, res.Ratings...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })

	c.logger.Info("curation finished", "rated", len(out), "batches", len(batches), "failed_batches", failed)
	return out, nil
}

// partition groups items by category, preserving input order, and splits
// each group into batches.
func (c *Curator) partition(items []domain.CandidateItem) []batch {
	order := make([]Category, 0, 8)
	groups := make(map[Category][]preparedItem)
	for _, it := range items {
		cat := Categorize(c.routing, it)
		if _, ok := groups[cat]; !ok {
			order = append(order, cat)
		}
		groups[cat] = append(groups[cat], prepare(it))
	}

	var out []batch
	for _, cat := range order {
		group := groups[cat]
		for start := 0; start < len(group); start += c.cfg.BatchSize {
			end := min(start+c.cfg.BatchSize, len(group))
			out = append(out, batch{category: cat, items: group[start:end]})
		}
	}
	return out
}

func (c *Curator) runBatch(ctx context.Context, b batch) BatchResult {
	started := time.Now()
	res := c.rateBatch(ctx, b)
	res.Duration = time.Since(started)

	status := "ok"
	if res.Err != nil {
		status = "failed"
		c.logger.Warn("curation batch failed",
			slog.String("category", string(b.category)),
			slog.Int("items", len(b.items)),
			slog.String("error", res.Err.Error()))
		metrics.RecordError("curate_batch", string(b.category))
	}
	metrics.RecordCuratorBatch(string(b.category), status, res.Duration.Seconds())
	return res
}

func (c *Curator) rateBatch(ctx context.Context, b batch) BatchResult {
	res := BatchResult{Category: b.category, Size: len(b.items)}

	user, err := userPrompt(b.items, c.cfg.SummaryLimit)
	if err != nil {
		res.Err = err
		return res
	}
	system := systemPrompt(c.rubric(b.category))

	response, err := c.completer.Complete(ctx, system, user)
	if err != nil {
		res.Err = fmt.Errorf("complete %s batch: %w", b.category, err)
		return res
	}

	ratings, err := parseRatings(response)
	if err != nil {
		res.Err = err
		return res
	}

	byID := make(map[string]preparedItem, len(b.items))
	for _, p := range b.items {
		byID[p.item.ID] = p
	}
	seen := make(map[string]struct{}, len(ratings))
	for _, r := range ratings {
		id := string(r.ID)
		p, ok := byID[id]
		if !ok {
			c.logger.Debug("dropping rating for unknown id", "category", b.category, "id", id)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		scored := domain.ScoredItem{
			Item:      p.item,
			Score:     clampScore(float64(r.Score)),
			Reasoning: r.Reasoning,
			Category:  string(b.category),
		}
		scored.LLMScore = scored.Score
		if p.originalURL != p.item.URL {
			scored.OriginalURL = p.originalURL
		}
		res.Ratings = append(res.Ratings, scored)
	}
	return res
}

func (c *Curator) rubric(cat Category) string {
	if r, ok := c.rubrics[cat]; ok {
		return r
	}
	return c.rubrics[CategoryIndustry]
}
