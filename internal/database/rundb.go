package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/precheck/internal/model"
)

// RunDB provides SQLite-based storage for run history. Each completed
// run is stored with its full report plus per-URL score rows, so score
// trends for a site can be queried without loading every report.
//
// Design decision: one database file shared across runs rather than a
// file per run directory. Run directories hold the artifacts; the
// database holds the history.
type RunDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RunDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RunDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RunDB, error) {
	dbPath := filepath.Join(dbDir, "precheck.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RunDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *RunDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RunDB) createTables() error {
	schema := `
	-- Runs store one row per invocation with the full report as JSON
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		output_dir TEXT NOT NULL,
		url_count INTEGER NOT NULL,
		totals TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	-- Site reports store per-URL scores for history queries
	CREATE TABLE IF NOT EXISTS site_reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		url TEXT NOT NULL,
		desktop_score INTEGER,
		mobile_score INTEGER,
		average_score REAL,
		files_generated INTEGER DEFAULT 0,
		errors INTEGER DEFAULT 0,
		console_errors INTEGER DEFAULT 0,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_sites_url ON site_reports(url);
	CREATE INDEX IF NOT EXISTS idx_sites_run ON site_reports(run_id);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a completed run and its per-URL summaries.
// Returns the database ID of the stored run.
func (rdb *RunDB) SaveRun(ctx context.Context, run *model.RunReport) (int64, error) {
	reportJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run report: %w", err)
	}
	totalsJSON, err := json.Marshal(run.Totals())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run totals: %w", err)
	}

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
	INSERT INTO runs (started_at, finished_at, output_dir, url_count, totals, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		run.FinishedAt.UTC().Format("2006-01-02 15:04:05"),
		run.OutputDir,
		len(run.Sites),
		string(totalsJSON),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, site := range run.Sites {
		summary := site.Summary
		if summary == nil {
			summary = model.NewSummary(site)
		}

		_, err := tx.ExecContext(ctx, `
		INSERT INTO site_reports (run_id, url, desktop_score, mobile_score, average_score, files_generated, errors, console_errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			runID,
			site.URL,
			nullableInt(summary.DesktopScore),
			nullableInt(summary.MobileScore),
			nullableFloat(summary.AverageScore),
			summary.FilesGenerated,
			summary.ErrorCount,
			summary.ConsoleErrorCount,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert site report for %s: %w", site.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunMetadata contains summary information about a stored run.
// This is used for displaying run history without loading full reports.
type RunMetadata struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// OutputDir is the directory the run's artifacts were written to.
	OutputDir string

	// URLCount is the number of URLs analyzed.
	URLCount int

	// Totals holds the run-level aggregates.
	Totals model.RunTotals
}

// ListRuns returns metadata for stored runs, newest first.
// A limit of 0 returns all runs.
func (rdb *RunDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, started_at, finished_at, output_dir, url_count, totals
	FROM runs
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []RunMetadata
	for rows.Next() {
		var meta RunMetadata
		var started, finished string
		var totalsJSON sql.NullString

		if err := rows.Scan(&meta.ID, &started, &finished, &meta.OutputDir, &meta.URLCount, &totalsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run metadata: %w", err)
		}

		meta.StartedAt = parseTimestamp(started)
		meta.FinishedAt = parseTimestamp(finished)

		if totalsJSON.Valid && totalsJSON.String != "" {
			if err := json.Unmarshal([]byte(totalsJSON.String), &meta.Totals); err != nil {
				meta.Totals = model.RunTotals{}
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// GetRunByID retrieves the full report of a stored run.
// Returns nil without error when no run with that ID exists.
func (rdb *RunDB) GetRunByID(ctx context.Context, id int64) (*model.RunReport, error) {
	var reportJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, id).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var run model.RunReport
	if err := json.Unmarshal([]byte(reportJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &run, nil
}

// SiteScoreRecord is one historical score entry for a URL.
type SiteScoreRecord struct {
	// RunID is the run this entry belongs to.
	RunID int64

	// URL is the analyzed page.
	URL string

	// DesktopScore and MobileScore are nil when no score was obtained.
	DesktopScore *int
	MobileScore  *int

	// AverageScore is the mean of the available scores.
	AverageScore *float64

	// Timestamp is when the entry was stored.
	Timestamp time.Time
}

// GetSiteHistory retrieves historical scores for a URL, newest first.
func (rdb *RunDB) GetSiteHistory(ctx context.Context, url string) ([]SiteScoreRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT run_id, url, desktop_score, mobile_score, average_score, timestamp
	FROM site_reports
	WHERE url = ?
	ORDER BY timestamp DESC, id DESC
	`, url)
	if err != nil {
		return nil, fmt.Errorf("failed to get site history: %w", err)
	}
	defer rows.Close()

	var results []SiteScoreRecord
	for rows.Next() {
		var rec SiteScoreRecord
		var desktop, mobile sql.NullInt64
		var avg sql.NullFloat64
		var timestamp string

		if err := rows.Scan(&rec.RunID, &rec.URL, &desktop, &mobile, &avg, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan site history: %w", err)
		}

		if desktop.Valid {
			v := int(desktop.Int64)
			rec.DesktopScore = &v
		}
		if mobile.Valid {
			v := int(mobile.Int64)
			rec.MobileScore = &v
		}
		if avg.Valid {
			v := avg.Float64
			rec.AverageScore = &v
		}
		rec.Timestamp = parseTimestamp(timestamp)

		results = append(results, rec)
	}

	return results, rows.Err()
}

// nullableInt converts an optional int to a driver-friendly value.
func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

// nullableFloat converts an optional float to a driver-friendly value.
func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
