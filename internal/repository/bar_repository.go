package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/models"
)

const errScanBar = "failed to scan bar: %w"

const barColumns = "bucket_start, symbol, interval, open, high, low, close, volume"

// PostgresBarRepository implements BarRepository for PostgreSQL
type PostgresBarRepository struct {
	db *database.DB
}

// NewPostgresBarRepository creates a new bar repository
func NewPostgresBarRepository(db *database.DB) BarRepository {
	return &PostgresBarRepository{db: db}
}

// Upsert inserts or replaces a single bar
func (r *PostgresBarRepository) Upsert(ctx context.Context, bar *models.Bar) error {
	query := `
		INSERT INTO bars (bucket_start, symbol, interval, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, interval, bucket_start) DO UPDATE SET
			open = EXCLUDED.open, high = EXCLUDED.high, low = EXCLUDED.low,
			close = EXCLUDED.close, volume = EXCLUDED.volume
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		bar.BucketStart, bar.Symbol, bar.Interval,
		bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert bar: %w", err)
	}

	return nil
}

// UpsertBatch inserts or replaces bars in bulk. Resample runs revisit the
// open bucket, so plain COPY would collide on the primary key.
func (r *PostgresBarRepository) UpsertBatch(ctx context.Context, bars []*models.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	for _, bar := range bars {
		if err := r.Upsert(ctx, bar); err != nil {
			return err
		}
	}

	return nil
}

// GetBySymbol retrieves bars for a symbol and interval within a time range
func (r *PostgresBarRepository) GetBySymbol(ctx context.Context, symbol, interval string, start, end time.Time) ([]*models.Bar, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bars
		WHERE symbol = $1 AND interval = $2 AND bucket_start >= $3 AND bucket_start < $4
		ORDER BY bucket_start ASC
	`, barColumns)

	rows, err := r.db.GetPool().Query(ctx, query, symbol, interval, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetLatest retrieves the most recent bars for a symbol and interval,
// returned in ascending time order
func (r *PostgresBarRepository) GetLatest(ctx context.Context, symbol, interval string, limit int) ([]*models.Bar, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT %s
			FROM bars
			WHERE symbol = $1 AND interval = $2
			ORDER BY bucket_start DESC
			LIMIT $3
		) recent
		ORDER BY bucket_start ASC
	`, barColumns, barColumns)

	rows, err := r.db.GetPool().Query(ctx, query, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

func scanBars(rows pgx.Rows) ([]*models.Bar, error) {
	var bars []*models.Bar
	for rows.Next() {
		bar := &models.Bar{}
		err := rows.Scan(
			&bar.BucketStart, &bar.Symbol, &bar.Interval,
			&bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanBar, err)
		}
		bars = append(bars, bar)
	}

	return bars, rows.Err()
}
