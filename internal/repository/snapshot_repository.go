package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/pairwatch/internal/database"
	"github.com/yourusername/pairwatch/internal/models"
)

const errScanSnapshot = "failed to scan pair snapshot: %w"

const snapshotColumns = "id, time, pair, hedge_ratio, spread, zscore, correlation, adf_statistic, adf_pvalue, r_squared, observations, window"

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Insert inserts a new pair snapshot. NaN metric values are stored as NULL.
func (r *PostgresSnapshotRepository) Insert(ctx context.Context, snapshot *models.PairSnapshot) error {
	query := `
		INSERT INTO pair_snapshots (id, time, pair, hedge_ratio, spread, zscore,
			correlation, adf_statistic, adf_pvalue, r_squared, observations, window)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		snapshot.ID, snapshot.Time, snapshot.Pair,
		nullableFloat(snapshot.HedgeRatio), nullableFloat(snapshot.Spread), nullableFloat(snapshot.ZScore),
		nullableFloat(snapshot.Correlation), nullableFloat(snapshot.ADFStatistic), nullableFloat(snapshot.ADFPValue),
		nullableFloat(snapshot.RSquared), snapshot.Observations, snapshot.Window,
	)
	if err != nil {
		return fmt.Errorf("failed to insert pair snapshot: %w", err)
	}

	return nil
}

// GetByID retrieves a snapshot by ID
func (r *PostgresSnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PairSnapshot, error) {
	query := fmt.Sprintf("SELECT %s FROM pair_snapshots WHERE id = $1", snapshotColumns)

	snapshot, err := scanSnapshot(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pair snapshot: %w", err)
	}

	return snapshot, nil
}

// GetLatestByPair retrieves the most recent snapshot for a pair
func (r *PostgresSnapshotRepository) GetLatestByPair(ctx context.Context, pair string) (*models.PairSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pair_snapshots
		WHERE pair = $1
		ORDER BY time DESC
		LIMIT 1
	`, snapshotColumns)

	snapshot, err := scanSnapshot(r.db.GetPool().QueryRow(ctx, query, pair))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest pair snapshot: %w", err)
	}

	return snapshot, nil
}

// GetByPair retrieves snapshots for a pair within a time range
func (r *PostgresSnapshotRepository) GetByPair(ctx context.Context, pair string, start, end time.Time) ([]*models.PairSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM pair_snapshots
		WHERE pair = $1 AND time >= $2 AND time < $3
		ORDER BY time ASC
	`, snapshotColumns)

	rows, err := r.db.GetPool().Query(ctx, query, pair, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query pair snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.PairSnapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf(errScanSnapshot, err)
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, rows.Err()
}

func scanSnapshot(row pgx.Row) (*models.PairSnapshot, error) {
	snapshot := &models.PairSnapshot{}
	var hedgeRatio, spread, zscore, correlation, adfStat, adfPValue, rSquared *float64

	err := row.Scan(
		&snapshot.ID, &snapshot.Time, &snapshot.Pair,
		&hedgeRatio, &spread, &zscore, &correlation, &adfStat, &adfPValue, &rSquared,
		&snapshot.Observations, &snapshot.Window,
	)
	if err != nil {
		return nil, err
	}

	snapshot.HedgeRatio = floatOrNaN(hedgeRatio)
	snapshot.Spread = floatOrNaN(spread)
	snapshot.ZScore = floatOrNaN(zscore)
	snapshot.Correlation = floatOrNaN(correlation)
	snapshot.ADFStatistic = floatOrNaN(adfStat)
	snapshot.ADFPValue = floatOrNaN(adfPValue)
	snapshot.RSquared = floatOrNaN(rSquared)

	return snapshot, nil
}

// nullableFloat maps NaN to NULL for persistence
func nullableFloat(v float64) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// floatOrNaN maps NULL back to NaN on load
func floatOrNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
