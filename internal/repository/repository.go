package repository

import (
	"fmt"

	"github.com/yourusername/pairwatch/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Tick     TickRepository
	Bar      BarRepository
	Snapshot SnapshotRepository
	Alert    AlertRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Tick:     NewPostgresTickRepository(db),
		Bar:      NewPostgresBarRepository(db),
		Snapshot: NewPostgresSnapshotRepository(db),
		Alert:    NewPostgresAlertRepository(db),
	}, nil
}
