package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"DigestCurator/internal/bucket"
	"DigestCurator/internal/classifier"
	"DigestCurator/internal/curator"
	"DigestCurator/internal/dedupe"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/metrics"
	"DigestCurator/internal/ports"
	"DigestCurator/internal/render"
	"DigestCurator/internal/scoring"
)

// DefaultRecencyWindow is used when the pipeline is built without a window.
const DefaultRecencyWindow = 7 * 24 * time.Hour

// DigestRenderer formats a selection for delivery.
type DigestRenderer interface {
	Render(selection domain.Selection, period render.Period) string
}

// Options tunes pipeline behaviour outside the individual components.
type Options struct {
	RecencyWindow time.Duration
	// HybridScoring replaces the rater score with the blended score and
	// drops items failing the admission rule.
	HybridScoring  bool
	MinHybridScore float64
	// DryRun renders the digest without persisting or publishing it.
	DryRun bool
}

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source       ports.ItemSource
	Classifier   *classifier.Classifier
	Heuristic    *scoring.HeuristicScorer
	Terms        *scoring.TermScorer
	Curator      *curator.Curator
	Deduplicator *dedupe.Deduplicator
	Assembler    *bucket.Assembler
	History      ports.SelectionHistory
	Repository   ports.SelectionRepository
	Notifier     ports.Notifier
	Renderer     DigestRenderer
	Logger       *slog.Logger
	Options      Options
}

// RunReport summarizes one pipeline execution.
type RunReport struct {
	RunID     string
	Period    render.Period
	Fetched   int
	Valid     int
	Fresh     int
	Curated   int
	Admitted  int
	Unique    int
	Selection domain.Selection
	Digest    string
}

// Pipeline implements the curation workflow.
type Pipeline struct {
	source       ports.ItemSource
	classifier   *classifier.Classifier
	heuristic    *scoring.HeuristicScorer
	terms        *scoring.TermScorer
	curator      *curator.Curator
	deduplicator *dedupe.Deduplicator
	assembler    *bucket.Assembler
	history      ports.SelectionHistory
	repository   ports.SelectionRepository
	notifier     ports.Notifier
	renderer     DigestRenderer
	logger       *slog.Logger
	opts         Options
}

// NewPipeline constructs the orchestration component. Missing pure
// components fall back to their defaults; missing adapters are skipped.
func NewPipeline(deps PipelineDeps) *Pipeline {
	p := &Pipeline{
		source:       deps.Source,
		classifier:   deps.Classifier,
		heuristic:    deps.Heuristic,
		terms:        deps.Terms,
		curator:      deps.Curator,
		deduplicator: deps.Deduplicator,
		assembler:    deps.Assembler,
		history:      deps.History,
		repository:   deps.Repository,
		notifier:     deps.Notifier,
		renderer:     deps.Renderer,
		logger:       deps.Logger,
		opts:         deps.Options,
	}
	if p.classifier == nil {
		p.classifier = classifier.NewDefault()
	}
	if p.heuristic == nil {
		p.heuristic = scoring.NewHeuristicScorer(scoring.DefaultWeights())
	}
	if p.terms == nil {
		p.terms = scoring.NewDefaultTermScorer()
	}
	if p.deduplicator == nil {
		p.deduplicator = dedupe.New(dedupe.DefaultThreshold)
	}
	if p.assembler == nil {
		p.assembler = bucket.NewAssembler(bucket.NewDirectory(bucket.DefaultFeeds()), bucket.DefaultConfig(), deps.Logger)
	}
	if p.renderer == nil {
		p.renderer = render.Markdown{}
	}
	if p.opts.RecencyWindow <= 0 {
		p.opts.RecencyWindow = DefaultRecencyWindow
	}
	if p.opts.MinHybridScore <= 0 {
		p.opts.MinHybridScore = scoring.DefaultMinThreshold
	}
	return p
}

// Options returns the effective pipeline options.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Run fetches candidates published since now minus the recency window and
// turns them into a persisted, delivered digest. A run that keeps nothing
// returns domain.ErrNoRelevantContent and publishes nothing.
func (p *Pipeline) Run(ctx context.Context, now time.Time) (RunReport, error) {
	started := time.Now()
	report, err := p.run(ctx, now)

	status := "ok"
	switch {
	case errors.Is(err, domain.ErrNoRelevantContent):
		status = "empty"
	case err != nil:
		status = "error"
	}
	metrics.RecordRun(status, time.Since(started).Seconds())

	p.info("run finished",
		"run_id", report.RunID,
		"status", status,
		"fetched", report.Fetched,
		"curated", report.Curated,
		"selected", report.Selection.Total(),
		"duration", time.Since(started))
	return report, err
}

func (p *Pipeline) run(ctx context.Context, now time.Time) (RunReport, error) {
	report := RunReport{
		RunID:  uuid.NewString(),
		Period: render.Period{From: now.Add(-p.opts.RecencyWindow), To: now},
	}

	if p.source == nil {
		return report, errors.New("pipeline has no item source")
	}
	if p.curator == nil {
		return report, domain.ErrCompleterNotConfigured
	}

	candidates, err := p.source.FetchCandidates(ctx, report.Period.From)
	if err != nil {
		metrics.RecordError("fetch", "source")
		return report, fmt.Errorf("fetch candidates: %w", err)
	}
	report.Fetched = len(candidates)
	metrics.RecordStage("fetched", report.Fetched)

	candidates = p.validate(candidates)
	report.Valid = len(candidates)
	metrics.RecordStage("valid", report.Valid)

	candidates, err = p.dropDelivered(ctx, candidates)
	if err != nil {
		metrics.RecordError("history", "repository")
		return report, fmt.Errorf("load selection history: %w", err)
	}
	report.Fresh = len(candidates)
	metrics.RecordStage("fresh", report.Fresh)

	for i := range candidates {
		p.classifier.Apply(&candidates[i])
		candidates[i].Score = p.heuristic.ScoreItem(candidates[i], now)
	}

	scored, err := p.curator.Curate(ctx, candidates)
	if err != nil {
		return report, fmt.Errorf("curate: %w", err)
	}
	report.Curated = len(scored)
	metrics.RecordStage("curated", report.Curated)

	scored = p.applyTerms(scored)
	report.Admitted = len(scored)

	scored = p.deduplicator.Dedupe(scored)
	report.Unique = len(scored)
	metrics.RecordStage("unique", report.Unique)

	report.Selection = p.assembler.Assemble(scored)
	for _, b := range report.Selection.Buckets {
		metrics.SetBucketSize(string(b.Name), len(b.Items))
	}
	metrics.RecordStage("selected", report.Selection.Total())

	if report.Selection.Empty() {
		return report, domain.ErrNoRelevantContent
	}

	if p.repository != nil && !p.opts.DryRun {
		if err := p.repository.SaveSelection(ctx, report.RunID, report.Selection); err != nil {
			metrics.RecordError("persist", "repository")
			return report, fmt.Errorf("persist selection: %w", err)
		}
	}

	report.Digest = p.renderer.Render(report.Selection, report.Period)
	if p.notifier != nil && !p.opts.DryRun {
		if err := p.notifier.PublishDigest(ctx, report.Digest); err != nil {
			metrics.RecordError("notify", "notifier")
			return report, fmt.Errorf("publish digest: %w", err)
		}
	}

	return report, nil
}

func (p *Pipeline) validate(items []domain.CandidateItem) []domain.CandidateItem {
	out := items[:0:0]
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			p.warn("dropping candidate", "error", err)
			continue
		}
		if _, dup := seen[item.ID]; dup {
			p.debug("dropping repeated candidate", "id", item.ID)
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out
}

func (p *Pipeline) dropDelivered(ctx context.Context, items []domain.CandidateItem) ([]domain.CandidateItem, error) {
	if p.history == nil || len(items) == 0 {
		return items, nil
	}

	ids := make([]string, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	delivered, err := p.history.AlreadySelected(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := items[:0:0]
	for _, item := range items {
		if delivered[item.ID] {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// applyTerms attaches the term signal to every rated item. With hybrid
// scoring on, the blended score replaces the rating and the admission rule
// filters the list.
func (p *Pipeline) applyTerms(items []domain.ScoredItem) []domain.ScoredItem {
	out := items[:0:0]
	for _, it := range items {
		term := p.terms.Score(it.Item.Title, it.Item.Body, it.Item.Tags)
		it.TermScore = term.TermScore
		it.MatchedTerms = term.MatchedTerms

		if p.opts.HybridScoring {
			if !scoring.ShouldInclude(it.LLMScore, term.TermScore, p.opts.MinHybridScore) {
				p.debug("hybrid admission rejected", "id", it.Item.ID, "llm", it.LLMScore, "term", term.TermScore)
				continue
			}
			it.Score = scoring.Blend(it.LLMScore, term)
		}
		out = append(out, it)
	}
	if p.opts.HybridScoring {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
