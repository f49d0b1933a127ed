package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists estimate history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

var _ Recorder = (*SQLiteRecorder)(nil)

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			source         TEXT,
			reference_year INTEGER,
			species        INTEGER,
			computable     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON report_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS estimates (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      INTEGER,
			timestamp   INTEGER NOT NULL,
			species     TEXT NOT NULL,
			outcome     TEXT NOT NULL,
			year        INTEGER,
			raw_year    REAL,
			slope       REAL,
			intercept   REAL,
			points      INTEGER,
			risk        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_estimates_species ON estimates(species, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *Run) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := r.db.Exec(`INSERT INTO report_runs
		(timestamp, source, reference_year, species, computable)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), run.Source, run.ReferenceYear, run.Species, run.Computable,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *SQLiteRecorder) RecordEstimate(rec *EstimateRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO estimates
		(run_id, timestamp, species, outcome, year, raw_year, slope, intercept, points, risk)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, ts.Unix(), rec.Species, rec.Outcome, rec.Year,
		rec.RawYear, rec.Slope, rec.Intercept, rec.Points, rec.Risk,
	)
	return err
}

// History returns the most recent estimates for species, newest first.
func (r *SQLiteRecorder) History(species string, limit int) ([]EstimateRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, species, outcome, year, raw_year,
		slope, intercept, points, risk
		FROM estimates WHERE species = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		species, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []EstimateRecord
	for rows.Next() {
		var rec EstimateRecord
		var ts int64
		if err := rows.Scan(&rec.RunID, &ts, &rec.Species, &rec.Outcome, &rec.Year,
			&rec.RawYear, &rec.Slope, &rec.Intercept, &rec.Points, &rec.Risk); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
