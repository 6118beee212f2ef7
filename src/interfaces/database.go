package interfaces

import (
	"context"
	"time"

	"market-dashboard/src/models"
)

// -----------------------------------------------------------------------------
// IDatabase defines the contract for chart snapshot storage.
// -----------------------------------------------------------------------------

type IDatabase interface {

	// Initialize sets up the database schema and tables.
	Initialize() error

	// -----------------------------------------------------------------------------

	// SaveChartSnapshot upserts the latest result for (symbol, period).
	SaveChartSnapshot(ctx context.Context, result models.MChartResult) error

	// -----------------------------------------------------------------------------

	// LoadChartSnapshots returns snapshots fetched after since, newest first.
	LoadChartSnapshots(ctx context.Context, since time.Time) ([]models.MChartResult, error)

	// -----------------------------------------------------------------------------

	// CleanupOldData removes snapshots older than the retention policy.
	CleanupOldData(ctx context.Context) (int64, error)

	// -----------------------------------------------------------------------------

	// Close the database connection
	Close() error
}
