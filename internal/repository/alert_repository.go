package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/models"
)

const errScanAlert = "failed to scan alert: %w"

// PostgresAlertRepository implements AlertRepository for PostgreSQL
type PostgresAlertRepository struct {
	db *database.DB
}

// NewPostgresAlertRepository creates a new alert repository
func NewPostgresAlertRepository(db *database.DB) AlertRepository {
	return &PostgresAlertRepository{db: db}
}

// Insert inserts a single triggered alert
func (r *PostgresAlertRepository) Insert(ctx context.Context, alert *models.AlertEvent) error {
	query := `
		INSERT INTO alerts (id, time, pair, rule, observed, threshold)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		alert.ID, alert.Time, alert.Pair, alert.Rule, alert.Observed, alert.Threshold,
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	return nil
}

// InsertBatch inserts alerts in bulk
func (r *PostgresAlertRepository) InsertBatch(ctx context.Context, alerts []*models.AlertEvent) error {
	if len(alerts) == 0 {
		return nil
	}

	// Use COPY for high-performance bulk insert
	columns := []string{"id", "time", "pair", "rule", "observed", "threshold"}

	copyFromSource := make([][]interface{}, len(alerts))
	for i, a := range alerts {
		copyFromSource[i] = []interface{}{
			a.ID, a.Time, a.Pair, a.Rule, a.Observed, a.Threshold,
		}
	}

	count, err := r.db.GetPool().CopyFrom(ctx, pgx.Identifier{"alerts"}, columns, pgx.CopyFromRows(copyFromSource))
	if err != nil {
		return fmt.Errorf("failed to batch insert alerts: %w", err)
	}

	if count != int64(len(alerts)) {
		return fmt.Errorf("inserted %d rows, expected %d", count, len(alerts))
	}

	return nil
}

// GetByPair retrieves alerts for a pair within a time range
func (r *PostgresAlertRepository) GetByPair(ctx context.Context, pair string, start, end time.Time) ([]*models.AlertEvent, error) {
	query := `
		SELECT id, time, pair, rule, observed, threshold
		FROM alerts
		WHERE pair = $1 AND time >= $2 AND time < $3
		ORDER BY time ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, pair, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

// GetRecent retrieves the most recent alerts across all pairs
func (r *PostgresAlertRepository) GetRecent(ctx context.Context, limit int) ([]*models.AlertEvent, error) {
	query := `
		SELECT id, time, pair, rule, observed, threshold
		FROM alerts
		ORDER BY time DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent alerts: %w", err)
	}
	defer rows.Close()

	return scanAlerts(rows)
}

func scanAlerts(rows pgx.Rows) ([]*models.AlertEvent, error) {
	var alerts []*models.AlertEvent
	for rows.Next() {
		alert := &models.AlertEvent{}
		err := rows.Scan(&alert.ID, &alert.Time, &alert.Pair, &alert.Rule, &alert.Observed, &alert.Threshold)
		if err != nil {
			return nil, fmt.Errorf(errScanAlert, err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, rows.Err()
}
