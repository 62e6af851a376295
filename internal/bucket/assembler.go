package bucket

import (
	"log/slog"
	"sort"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
)

// Assembler routes scored items into mutually exclusive buckets and applies
// per-bucket thresholds.
type Assembler struct {
	directory  ports.FeedDirectory
	rules      []Rule
	thresholds map[domain.BucketName]float64
	logger     *slog.Logger
}

// NewAssembler builds an assembler with the rules derived from cfg.
func NewAssembler(directory ports.FeedDirectory, cfg Config, logger *slog.Logger) *Assembler {
	return NewAssemblerWithRules(directory, Rules(cfg), cfg.Thresholds, logger)
}

// NewAssemblerWithRules uses an explicit rule list. Missing thresholds fall
// back to the defaults.
func NewAssemblerWithRules(directory ports.FeedDirectory, rules []Rule, thresholds map[domain.BucketName]float64, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	merged := DefaultThresholds()
	for name, v := range thresholds {
		merged[name] = v
	}
	return &Assembler{directory: directory, rules: rules, thresholds: merged, logger: logger}
}

// Route returns the bucket for an item. ok is false when the item is dropped.
func (a *Assembler) Route(item domain.ScoredItem) (name domain.BucketName, ok bool) {
	var meta domain.FeedMetadata
	var found bool
	if a.directory != nil {
		meta, found = a.directory.Lookup(item.Item.FeedName)
	}
	r := newRoute(item, meta, found)
	for _, rule := range a.rules {
		if rule.Match(r) {
			return rule.Bucket, rule.Bucket != ""
		}
	}
	return "", false
}

// Threshold returns the minimum score for a bucket.
func (a *Assembler) Threshold(name domain.BucketName) float64 {
	return a.thresholds[name]
}

// Assemble produces one bucket per name in domain.BucketOrder. Items within a
// bucket are ordered by score, then by feed priority.
func (a *Assembler) Assemble(items []domain.ScoredItem) domain.Selection {
	routed := make(map[domain.BucketName][]domain.ScoredItem, len(domain.BucketOrder))
	priority := make(map[string]int)
	dropped, below := 0, 0

	for _, it := range items {
		name, ok := a.Route(it)
		if !ok {
			dropped++
			continue
		}
		if it.Score < a.thresholds[name] {
			below++
			continue
		}
		if a.directory != nil {
			if meta, found := a.directory.Lookup(it.Item.FeedName); found {
				priority[it.Item.ID] = meta.Priority
			}
		}
		routed[name] = append(routed[name], it)
	}

	sel := domain.Selection{Buckets: make([]domain.Bucket, 0, len(domain.BucketOrder))}
	for _, name := range domain.BucketOrder {
		list := routed[name]
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Score != list[j].Score {
				return list[i].Score > list[j].Score
			}
			return priority[list[i].Item.ID] > priority[list[j].Item.ID]
		})
		sel.Buckets = append(sel.Buckets, domain.Bucket{
			Name:      name,
			Threshold: a.thresholds[name],
			Items:     list,
		})
	}

	a.logger.Info("selection assembled",
		"input", len(items),
		"selected", sel.Total(),
		"excluded", dropped,
		"below_threshold", below,
	)
	return sel
}
