package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"DigestCurator/internal/config"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
	"DigestCurator/internal/scanner"
)

// StrategySource implements ItemSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ItemSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchCandidates runs every configured site. A failing site is logged and
// skipped; the call fails only when every site failed.
func (s *StrategySource) FetchCandidates(ctx context.Context, since time.Time) ([]domain.CandidateItem, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch candidates", "sites", len(s.sites), "since", since.Format(time.RFC3339))

	var (
		aggregated []domain.CandidateItem
		errs       []error
	)
	for _, site := range s.sites {
		s.debug("process site", "site", site.Name, "scanner", site.Scanner, "categories", len(site.Categories))
		results, err := s.scanSite(ctx, site, since)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.warn("site failed", "site", site.Name, "error", err)
			errs = append(errs, err)
			continue
		}

		for i := range results {
			if results[i].FeedName == "" {
				results[i].FeedName = site.Name
			}
			if results[i].IngestedAt.IsZero() {
				results[i].IngestedAt = time.Now().UTC()
			}
		}
		s.debug("site produced items", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	if len(s.sites) > 0 && len(errs) == len(s.sites) {
		return nil, fmt.Errorf("all sites failed: %w", errors.Join(errs...))
	}

	s.debug("strategy source done", "total_items", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) scanSite(ctx context.Context, site config.SiteConfig, since time.Time) ([]domain.CandidateItem, error) {
	strategy, err := s.registry.Resolve(site.Scanner)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", site.Name, err)
	}

	req := scanner.Request{
		Since:      since,
		SiteName:   site.Name,
		Options:    site.Options,
		Categories: toScannerCategories(site.Categories),
	}

	results, err := strategy.Scan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
	}
	return results, nil
}

func toScannerCategories(cfg []config.CategoryConfig) []scanner.Category {
	categories := make([]scanner.Category, 0, len(cfg))
	for _, cat := range cfg {
		categories = append(categories, scanner.Category{
			Name: cat.Name,
			URL:  cat.URL,
		})
	}
	return categories
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
