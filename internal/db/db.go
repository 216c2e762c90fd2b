package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only

	"mspro-labs/coin-filter/internal/models"
)

// Connect opens the SQLite database at dbPath and ensures the schema exists.
func Connect(dbPath string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer, one run at a time.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err = createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure schema: %w", err)
	}

	return db, nil
}

func createSchema(db *sql.DB) error {
	// Latest export, replaced on every run
	coinsTable := `
	CREATE TABLE IF NOT EXISTS coins (
	  position INTEGER PRIMARY KEY,
	  run_id TEXT NOT NULL,
	  name TEXT NOT NULL,
	  price_usd REAL,
	  circulating_supply REAL
	);
	`
	if _, err := db.Exec(coinsTable); err != nil {
		return err
	}

	// One row per export run
	runsTable := `
	CREATE TABLE IF NOT EXISTS export_runs (
	  run_id TEXT PRIMARY KEY,
	  started_at TIMESTAMP NOT NULL,
	  source_url TEXT,
	  criteria TEXT,
	  fetched INTEGER,
	  exported INTEGER,
	  created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_export_runs_started_at ON export_runs(started_at);
	`
	if _, err := db.Exec(runsTable); err != nil {
		return err
	}

	return nil
}

// SaveExport replaces the stored coins with this run's export and records the run.
// It returns the number of coin rows written.
func SaveExport(ctx context.Context, db *sql.DB, run models.Run, coins []models.Coin) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM coins;`); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to clear previous export: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO coins (position, run_id, name, price_usd, circulating_supply)
	VALUES (?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64 = 0
	for i, coin := range coins {
		res, err := stmt.ExecContext(ctx,
			i+1,
			run.ID,
			coin.Name,
			sql.NullFloat64{Float64: coin.Price.Value, Valid: coin.Price.Valid},
			sql.NullFloat64{Float64: coin.CirculatingSupply.Value, Valid: coin.CirculatingSupply.Valid},
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert %s: %w", coin.Name, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO export_runs (run_id, started_at, source_url, criteria, fetched, exported)
	VALUES (?, ?, ?, ?, ?, ?);
	`, run.ID, run.StartedAt.UTC(), run.SourceURL, run.Criteria.String(), run.Fetched, len(coins))
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}

	return totalAffected, nil
}

// --- Run history ---

type ExportRun struct {
	RunID     string
	StartedAt time.Time
	SourceURL string
	Criteria  string
	Fetched   int
	Exported  int
}

// ListExportRuns returns all recorded runs, newest first.
func ListExportRuns(db *sql.DB) ([]ExportRun, error) {
	rows, err := db.Query(`
		SELECT run_id, started_at, source_url, criteria, fetched, exported
		FROM export_runs
		ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []ExportRun
	for rows.Next() {
		var r ExportRun
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.SourceURL, &r.Criteria, &r.Fetched, &r.Exported); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// ClearExportRuns wipes the run history.
func ClearExportRuns(db *sql.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM export_runs")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
