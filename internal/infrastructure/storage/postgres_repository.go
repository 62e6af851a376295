package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"DigestCurator/internal/domain"
	"DigestCurator/internal/ports"
)

const (
	runsTable  = "curation_runs"
	itemsTable = "selected_items"
)

// Schema creates the tables used by PostgresRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS curation_runs (
    run_id      TEXT PRIMARY KEY,
    total_items INTEGER NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS selected_items (
    run_id      TEXT NOT NULL REFERENCES curation_runs(run_id) ON DELETE CASCADE,
    item_id     TEXT NOT NULL,
    bucket      TEXT NOT NULL,
    position    INTEGER NOT NULL,
    title       TEXT NOT NULL,
    url         TEXT NOT NULL,
    score       DOUBLE PRECISION NOT NULL,
    heuristic_score DOUBLE PRECISION NOT NULL DEFAULT 0,
    reasoning   TEXT NOT NULL DEFAULT '',
    feed_name   TEXT NOT NULL DEFAULT '',
    tags        TEXT[] NOT NULL DEFAULT '{}',
    published_at TIMESTAMPTZ,
    PRIMARY KEY (run_id, item_id)
);
CREATE INDEX IF NOT EXISTS selected_items_item_id_idx ON selected_items (item_id);
`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository persists curated selections into Postgres.
type PostgresRepository struct {
	db  *sql.DB
	now func() time.Time
}

var (
	_ ports.SelectionRepository = (*PostgresRepository)(nil)
	_ ports.SelectionHistory    = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// Open connects with the lib/pq driver and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema applies Schema.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// AlreadySelected returns the ids that appeared in an earlier selection.
func (r *PostgresRepository) AlreadySelected(ctx context.Context, ids []string) (map[string]bool, error) {
	if r.db == nil || len(ids) == 0 {
		return map[string]bool{}, nil
	}

	query, args, err := selectKnownIDs(ids)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query selected: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return result, nil
}

// SaveSelection stores the run header and every bucketed item in one
// transaction.
func (r *PostgresRepository) SaveSelection(ctx context.Context, runID string, selection domain.Selection) error {
	if r.db == nil {
		return nil
	}

	runQuery, runArgs, err := insertRun(runID, selection.Total(), r.now().UTC())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, runQuery, runArgs...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if selection.Total() > 0 {
		itemsQuery, itemsArgs, err := insertItems(runID, selection)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, itemsQuery, itemsArgs...); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit selection: %w", err)
	}
	return nil
}

func selectKnownIDs(ids []string) (string, []any, error) {
	query, args, err := psql.Select("DISTINCT item_id").
		From(itemsTable).
		Where(sq.Eq{"item_id": ids}).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build select: %w", err)
	}
	return query, args, nil
}

func insertRun(runID string, total int, at time.Time) (string, []any, error) {
	query, args, err := psql.Insert(runsTable).
		Columns("run_id", "total_items", "created_at").
		Values(runID, total, at).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build run insert: %w", err)
	}
	return query, args, nil
}

func insertItems(runID string, selection domain.Selection) (string, []any, error) {
	builder := psql.Insert(itemsTable).
		Columns("run_id", "item_id", "bucket", "position", "title", "url", "score", "heuristic_score", "reasoning", "feed_name", "tags", "published_at")

	for _, b := range selection.Buckets {
		for pos, e := range b.Entries() {
			tags := e.Tags
			if tags == nil {
				tags = []string{}
			}
			var published any
			if !e.PublishedAt.IsZero() {
				published = e.PublishedAt
			}
			builder = builder.Values(runID, e.ID, string(b.Name), pos, e.Title, e.URL, e.Score, e.HeuristicScore, e.Reasoning, e.FeedName, pq.StringArray(tags), published)
		}
	}

	query, args, err := builder.
		Suffix("ON CONFLICT (run_id, item_id) DO NOTHING").
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build items insert: %w", err)
	}
	return query, args, nil
}
