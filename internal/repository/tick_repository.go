package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/models"
)

const errScanTick = "failed to scan tick: %w"

// PostgresTickRepository implements TickRepository for PostgreSQL
type PostgresTickRepository struct {
	db *database.DB
}

// NewPostgresTickRepository creates a new tick repository
func NewPostgresTickRepository(db *database.DB) TickRepository {
	return &PostgresTickRepository{db: db}
}

// Insert inserts a single trade tick
func (r *PostgresTickRepository) Insert(ctx context.Context, tick *models.Tick) error {
	query := `
		INSERT INTO ticks (time, symbol, price, qty, trade_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		tick.Time, tick.Symbol, tick.Price, tick.Qty, tick.TradeID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tick: %w", err)
	}

	return nil
}

// InsertBatch inserts ticks in bulk
func (r *PostgresTickRepository) InsertBatch(ctx context.Context, ticks []*models.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"time", "symbol", "price", "qty", "trade_id"}

	copyFromSource := make([][]interface{}, len(ticks))
	for i, t := range ticks {
		copyFromSource[i] = []interface{}{
			t.Time, t.Symbol, t.Price, t.Qty, t.TradeID,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"ticks"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert ticks: %w", err)
	}

	if count != int64(len(ticks)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(ticks))
	}

	return nil
}

// GetBySymbol retrieves ticks for a symbol within a time range
func (r *PostgresTickRepository) GetBySymbol(ctx context.Context, symbol string, start, end time.Time) ([]*models.Tick, error) {
	query := `
		SELECT time, symbol, price, qty, trade_id
		FROM ticks
		WHERE symbol = $1 AND time >= $2 AND time < $3
		ORDER BY time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, symbol, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query ticks: %w", err)
	}
	defer rows.Close()

	var ticks []*models.Tick
	for rows.Next() {
		tick := &models.Tick{}
		err := rows.Scan(&tick.Time, &tick.Symbol, &tick.Price, &tick.Qty, &tick.TradeID)
		if err != nil {
			return nil, fmt.Errorf(errScanTick, err)
		}
		ticks = append(ticks, tick)
	}

	return ticks, rows.Err()
}

// DeleteBefore removes ticks older than the cutoff and returns the row count
func (r *PostgresTickRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	commandTag, err := r.db.GetPool().Exec(ctx, "DELETE FROM ticks WHERE time < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old ticks: %w", err)
	}

	return commandTag.RowsAffected(), nil
}
