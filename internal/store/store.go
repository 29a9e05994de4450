// Package store persists emitted nutrition insights to Postgres. It only
// writes: voting and application of insights belong to the downstream
// moderation workflow, not to this service.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nutripick/nutripick/internal/insight"
)

// ErrNotFound is returned when no insight exists for a barcode.
var ErrNotFound = errors.New("insight not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS nutrition_insights (
    id            UUID PRIMARY KEY,
    barcode       TEXT NOT NULL,
    image_id      INTEGER NOT NULL,
    language      TEXT NOT NULL,
    priority      SMALLINT NOT NULL,
    bounding_box  DOUBLE PRECISION[],
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (barcode)
);
CREATE INDEX IF NOT EXISTS nutrition_insights_priority_idx
    ON nutrition_insights (priority, created_at);
`

// Store wraps a pgx connection pool for insight persistence.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to Postgres and pings it.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the insight table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveInsight upserts an insight keyed on barcode. A product has at most
// one nutrition-photo insight; a fresh run for the same product replaces
// the previous selection.
func (s *Store) SaveInsight(ctx context.Context, ins *insight.NutritionInsight) error {
	const q = `
INSERT INTO nutrition_insights (id, barcode, image_id, language, priority, bounding_box)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (barcode) DO UPDATE SET
    image_id = EXCLUDED.image_id,
    language = EXCLUDED.language,
    priority = EXCLUDED.priority,
    bounding_box = EXCLUDED.bounding_box,
    updated_at = now()`

	var box []float64
	if ins.BoundingBox != nil {
		b := ins.BoundingBox
		box = []float64{b.YMin, b.XMin, b.YMax, b.XMax}
	}

	_, err := s.pool.Exec(ctx, q, ins.ID, ins.Barcode, ins.ImageID, ins.Language, ins.Priority, box)
	if err != nil {
		return fmt.Errorf("failed to save insight for %s: %w", ins.Barcode, err)
	}
	return nil
}

// InsightRow is a stored insight together with its persistence timestamps.
type InsightRow struct {
	Insight   insight.NutritionInsight
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetInsight returns the stored insight for a barcode.
func (s *Store) GetInsight(ctx context.Context, barcode string) (*InsightRow, error) {
	const q = `
SELECT id, barcode, image_id, language, priority, bounding_box, created_at, updated_at
FROM nutrition_insights
WHERE barcode = $1`

	row := s.pool.QueryRow(ctx, q, barcode)
	ir, err := scanInsight(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load insight for %s: %w", barcode, err)
	}
	return ir, nil
}

// ListInsights returns stored insights ordered by priority then recency,
// up to limit rows (0 means a default of 100).
func (s *Store) ListInsights(ctx context.Context, limit int) ([]InsightRow, error) {
	if limit <= 0 {
		limit = 100
	}
	const q = `
SELECT id, barcode, image_id, language, priority, bounding_box, created_at, updated_at
FROM nutrition_insights
ORDER BY priority ASC, updated_at DESC
LIMIT $1`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	defer rows.Close()

	var out []InsightRow
	for rows.Next() {
		ir, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan insight: %w", err)
		}
		out = append(out, *ir)
	}
	return out, rows.Err()
}

func scanInsight(row pgx.Row) (*InsightRow, error) {
	var ir InsightRow
	var box []float64
	if err := row.Scan(
		&ir.Insight.ID,
		&ir.Insight.Barcode,
		&ir.Insight.ImageID,
		&ir.Insight.Language,
		&ir.Insight.Priority,
		&box,
		&ir.CreatedAt,
		&ir.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(box) == 4 {
		ir.Insight.BoundingBox = &insight.BoundingBox{
			YMin: box[0], XMin: box[1], YMax: box[2], XMax: box[3],
		}
	}
	return &ir, nil
}
