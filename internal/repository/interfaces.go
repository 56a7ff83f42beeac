package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/pairwatch/internal/models"
)

// TickRepository defines the interface for raw trade tick data access
type TickRepository interface {
	Insert(ctx context.Context, tick *models.Tick) error
	InsertBatch(ctx context.Context, ticks []*models.Tick) error
	GetBySymbol(ctx context.Context, symbol string, start, end time.Time) ([]*models.Tick, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// BarRepository defines the interface for OHLCV bar data access
type BarRepository interface {
	Upsert(ctx context.Context, bar *models.Bar) error
	UpsertBatch(ctx context.Context, bars []*models.Bar) error
	GetBySymbol(ctx context.Context, symbol, interval string, start, end time.Time) ([]*models.Bar, error)
	GetLatest(ctx context.Context, symbol, interval string, limit int) ([]*models.Bar, error)
}

// SnapshotRepository defines the interface for pair analytics snapshot access
type SnapshotRepository interface {
	Insert(ctx context.Context, snapshot *models.PairSnapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PairSnapshot, error)
	GetLatestByPair(ctx context.Context, pair string) (*models.PairSnapshot, error)
	GetByPair(ctx context.Context, pair string, start, end time.Time) ([]*models.PairSnapshot, error)
}

// AlertRepository defines the interface for triggered alert access
type AlertRepository interface {
	Insert(ctx context.Context, alert *models.AlertEvent) error
	InsertBatch(ctx context.Context, alerts []*models.AlertEvent) error
	GetByPair(ctx context.Context, pair string, start, end time.Time) ([]*models.AlertEvent, error)
	GetRecent(ctx context.Context, limit int) ([]*models.AlertEvent, error)
}
