package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"market-dashboard/src/helpers"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"

	_ "github.com/lib/pq"
)

var unsafeSchemaChars = regexp.MustCompile(`[^a-z0-9_]+`)

// -----------------------------------------------------------------------------

type PostgresDB struct {
	Config models.MStorageConfig
	DB     *sql.DB
	Schema string
	Logger *logger.Logger
	Now    func() time.Time
}

// -----------------------------------------------------------------------------

// NewPostgresDB keeps snapshots in a schema named after the application.
func NewPostgresDB(cfg models.MStorageConfig, appName string, log *logger.Logger) (*PostgresDB, error) {
	if cfg.DBConnectionString == "" {
		return nil, helpers.NewConfigurationError("postgres storage requires db_connection_string", nil)
	}
	return &PostgresDB{
		Config: cfg,
		Schema: SchemaName(appName),
		Logger: log,
		Now:    time.Now,
	}, nil
}

// -----------------------------------------------------------------------------

// SchemaName lower-cases name and replaces anything outside [a-z0-9_].
func SchemaName(name string) string {
	s := unsafeSchemaChars.ReplaceAllString(strings.ToLower(name), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "dashboard"
	}
	return s
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Initialize() error {
	db, err := sql.Open("postgres", d.Config.DBConnectionString)
	if err != nil {
		return helpers.NewDatabaseError("open postgres", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return helpers.NewDatabaseError("ping postgres", err)
	}

	d.DB = db

	if _, err := d.DB.Exec(fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS "%s"`, d.Schema)); err != nil {
		return helpers.NewDatabaseError("create schema "+d.Schema, err)
	}

	if err := d.createTables(); err != nil {
		return err
	}

	d.Logger.Info("PostgresDB initialized successfully (Schema: %s)", d.Schema)
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) table() string {
	return fmt.Sprintf(`"%s"."chart_snapshots"`, d.Schema)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) createTables() error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			symbol TEXT NOT NULL,
			period TEXT NOT NULL,
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			fetched_at BIGINT NOT NULL,
			payload BYTEA NOT NULL,
			PRIMARY KEY (symbol, period)
		);
	`, d.table())
	if _, err := d.DB.Exec(query); err != nil {
		return helpers.NewDatabaseError("create chart_snapshots", err)
	}

	index := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS chart_snapshots_fetched_idx ON %s (fetched_at)`, d.table())
	if _, err := d.DB.Exec(index); err != nil {
		return helpers.NewDatabaseError("create fetched_at index", err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) SaveChartSnapshot(ctx context.Context, result models.MChartResult) error {
	row, err := encodeSnapshot(result)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (symbol, period, source, status, fetched_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (symbol, period) DO UPDATE SET
			source = EXCLUDED.source,
			status = EXCLUDED.status,
			fetched_at = EXCLUDED.fetched_at,
			payload = EXCLUDED.payload
	`, d.table())
	if _, err := d.DB.ExecContext(ctx, query, row.Symbol, row.Period, row.Source, row.Status, row.FetchedAt, row.Payload); err != nil {
		return helpers.NewDatabaseError("save snapshot "+row.Symbol+"/"+row.Period, err)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) LoadChartSnapshots(ctx context.Context, since time.Time) ([]models.MChartResult, error) {
	query := fmt.Sprintf(`
		SELECT payload FROM %s
		WHERE fetched_at >= $1
		ORDER BY fetched_at DESC, symbol, period
	`, d.table())
	rows, err := d.DB.QueryContext(ctx, query, since.Unix())
	if err != nil {
		return nil, helpers.NewDatabaseError("load snapshots", err)
	}
	defer rows.Close()

	return scanSnapshots(rows, d.Logger)
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) CleanupOldData(ctx context.Context) (int64, error) {
	cutoff := retentionCutoff(d.Now(), d.Config.RetentionDays)

	res, err := d.DB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE fetched_at < $1", d.table()), cutoff)
	if err != nil {
		return 0, helpers.NewDatabaseError("cleanup chart_snapshots", err)
	}
	n, _ := res.RowsAffected()
	d.Logger.Info("Cleanup completed: %d snapshots older than %d days removed", n, d.Config.RetentionDays)
	return n, nil
}

// -----------------------------------------------------------------------------

func (d *PostgresDB) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}
