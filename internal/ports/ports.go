package ports

import (
	"context"
	"time"

	"DigestCurator/internal/domain"
)

// ItemSource supplies candidate items already limited to the recency window.
type ItemSource interface {
	FetchCandidates(ctx context.Context, since time.Time) ([]domain.CandidateItem, error)
}

// Completer is a text-completion service (OpenAI-compatible or self-hosted).
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// FeedDirectory resolves static feed metadata by feed name.
type FeedDirectory interface {
	Lookup(feedName string) (domain.FeedMetadata, bool)
}

// SelectionRepository stores the outcome of a curation run.
type SelectionRepository interface {
	SaveSelection(ctx context.Context, runID string, selection domain.Selection) error
}

// Notifier streams rendered digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when pipelines execute. Only Stop ends the schedule.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

// SelectionHistory reports items already delivered by earlier runs.
type SelectionHistory interface {
	AlreadySelected(ctx context.Context, ids []string) (map[string]bool, error)
}
