package exporter

import (
	"context"

	"mspro-labs/coin-filter/internal/db"
	"mspro-labs/coin-filter/internal/logging"
	"mspro-labs/coin-filter/internal/models"
)

// SQLiteSink stores the export in a SQLite database and appends to its run history.
type SQLiteSink struct {
	path string
}

func NewSQLiteSink(path string) *SQLiteSink {
	return &SQLiteSink{path: path}
}

func (s *SQLiteSink) Path() string {
	return s.path
}

func (s *SQLiteSink) Write(ctx context.Context, run models.Run, coins []models.Coin) error {
	logger := logging.Component("exporter")

	database, err := db.Connect(s.path)
	if err != nil {
		return ioErr("open database", s.path, err)
	}
	defer database.Close()

	count, err := db.SaveExport(ctx, database, run, coins)
	if err != nil {
		return ioErr("save export", s.path, err)
	}

	logger.Info().
		Str("file_path", s.path).
		Str("run_id", run.ID).
		Int64("record_count", count).
		Msg("stored export in database")
	return nil
}
