package storage

import (
	"context"
	"database/sql"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	_ "modernc.org/sqlite"
)

// -----------------------------------------------------------------------------

type AsyncSQLiteDB struct {
	Config models.MStorageConfig
	DB     *sql.DB
	Logger *logger.Logger
	Now    func() time.Time
}

// -----------------------------------------------------------------------------

func NewAsyncSQLiteDB(cfg models.MStorageConfig, log *logger.Logger) (*AsyncSQLiteDB, error) {
	if cfg.DBPath == "" {
		return nil, helpers.NewConfigurationError("sqlite storage requires db_path", nil)
	}
	return &AsyncSQLiteDB{
		Config: cfg,
		Logger: log,
		Now:    time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Initialize() error {
	db, err := sql.Open("sqlite", d.Config.DBPath)
	if err != nil {
		return helpers.NewDatabaseError("open sqlite", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping sqlite", err)
	}

	// single writer; avoids SQLITE_BUSY under concurrent saves
	db.SetMaxOpenConns(1)
	d.DB = db

	// PRAGMA optimizations
	if _, err := db.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		d.Logger.Warning("Failed to set WAL mode: %v", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL;"); err != nil {
		d.Logger.Warning("Failed to set synchronous mode: %v", err)
	}

	return d.createTables()
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) createTables() error {
	query := `
		CREATE TABLE IF NOT EXISTS chart_snapshots (
			symbol TEXT NOT NULL,
			period TEXT NOT NULL,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			fetched_at INTEGER NOT NULL,
			payload BLOB NOT NULL,
			PRIMARY KEY (symbol, period)
		);
	`
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create chart_snapshots", err)
	}
	if _, err := d.DB.Exec(`CREATE INDEX IF NOT EXISTS idx_chart_snapshots_fetched ON chart_snapshots (fetched_at)`); err != nil {
		return helpers.NewDatabaseError("create fetched_at index", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) SaveChartSnapshot(ctx context.Context, result models.MChartResult) error {
	row, err := encodeSnapshot(result)
	if err != nil {
		return err
	}

	_, err = d.DB.ExecContext(ctx, `
		INSERT INTO chart_snapshots (symbol, period, source, status, fetched_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, period) DO UPDATE SET
			source = excluded.source,
			status = excluded.status,
			fetched_at = excluded.fetched_at,
			payload = excluded.payload
	`, row.Symbol, row.Period, row.Source, row.Status, row.FetchedAt, row.Payload)
	if err != nil {
		return helpers.NewDatabaseError("save snapshot "+row.Symbol+"/"+row.Period, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) LoadChartSnapshots(ctx context.Context, since time.Time) ([]models.MChartResult, error) {
	rows, err := d.DB.QueryContext(ctx, `
		SELECT payload FROM chart_snapshots
		WHERE fetched_at >= ?
		ORDER BY fetched_at DESC, symbol, period
	`, since.Unix())
	if err != nil {
		return nil, helpers.NewDatabaseError("load snapshots", err)
	}
	defer rows.Close()

	return scanSnapshots(rows, d.Logger)
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) CleanupOldData(ctx context.Context) (int64, error) {
	cutoff := retentionCutoff(d.Now(), d.Config.RetentionDays)

	res, err := d.DB.ExecContext(ctx, "DELETE FROM chart_snapshots WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, helpers.NewDatabaseError("cleanup chart_snapshots", err)
	}
	n, _ := res.RowsAffected()
	d.Logger.Info("Cleanup completed: %d snapshots older than %d days removed", n, d.Config.RetentionDays)
	return n, nil
}

// -----------------------------------------------------------------------------

func (d *AsyncSQLiteDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// -----------------------------------------------------------------------------

// scanSnapshots decodes payload rows, skipping any that fail to decode.
func scanSnapshots(rows *sql.Rows, log *logger.Logger) ([]models.MChartResult, error) {
	var out []models.MChartResult
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, helpers.NewDatabaseError("scan snapshot", err)
		}
		result, err := decodeSnapshot(payload)
		if err != nil {
			log.Warning("Skipping unreadable snapshot: %v", err)
			continue
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, helpers.NewDatabaseError("iterate snapshots", err)
	}
	return out, nil
}
