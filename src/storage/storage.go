package storage

import (
	"strings"

	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// NewDatabase builds and initializes the configured snapshot store.
// db_type "none" (or empty) disables persistence and returns a nil store.
func NewDatabase(cfg models.MConfig, log *logger.Logger) (interfaces.IDatabase, error) {
	var db interfaces.IDatabase
	var err error

	switch strings.ToLower(cfg.Storage.DBType) {
	case "", "none":
		log.Info("Snapshot persistence disabled")
		return nil, nil
	case "sqlite":
		db, err = NewAsyncSQLiteDB(cfg.Storage, log)
	case "postgres", "postgresql":
		db, err = NewPostgresDB(cfg.Storage, cfg.Name, log)
	default:
		return nil, helpers.NewConfigurationError("unknown db_type "+cfg.Storage.DBType, nil)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
