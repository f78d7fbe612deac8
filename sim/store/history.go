// Package store keeps a sqlite history of experiment outcomes so that runs
// with different seeds or settings can be compared over time.
package store

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/inference-sim/resampling/sim/trace"
)

const (
	// SQL statement for recording one experiment outcome
	insertRunSQL = `
INSERT INTO runs (
	label, seed, population, trials, distance, chiSquared, critical, maxDeviation, converged, skipped
) VALUES (
	?, ?, ?, ?, ?, ?, ?, ?, ?, ?
)
`

	// SQL statement for listing the most recent outcomes
	listRunsSQL = `
SELECT id, createTimestamp, label, seed, population, trials, distance, chiSquared, critical, maxDeviation, converged, skipped
FROM runs
ORDER BY id DESC
LIMIT ?
`

	// SQL statement for creating the history table
	createSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	createTimestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	label TEXT NOT NULL,
	seed INTEGER,
	population INTEGER,
	trials INTEGER,
	distance FLOAT,
	chiSquared FLOAT,
	critical FLOAT,
	maxDeviation FLOAT,
	converged BOOLEAN,
	skipped INTEGER
);
`
)

// RunRecord is one stored experiment outcome (the resampled phase).
type RunRecord struct {
	ID           int64
	CreatedAt    time.Time
	Label        string
	Seed         uint64
	Population   int
	Trials       int
	Distance     float64
	ChiSquared   float64
	Critical     float64
	MaxDeviation float64
	Converged    bool
	Skipped      int
}

// NewRunRecord converts a trace record into a history row.
func NewRunRecord(r trace.ExperimentRecord) RunRecord {
	return RunRecord{
		Label:        r.Label,
		Seed:         r.Seed,
		Population:   r.Population,
		Trials:       r.Trials,
		Distance:     r.Distance,
		ChiSquared:   r.ChiSquared,
		Critical:     r.Critical,
		MaxDeviation: r.MaxDeviation,
		Converged:    r.Converged,
		Skipped:      r.Skipped,
	}
}

// HistoryDB stores the outcome of each experiment run.
//
//go:generate mockgen -source history.go -destination history_mock.go -package store
type HistoryDB interface {
	Add(record RunRecord) error
	List(limit int) ([]RunRecord, error)
	Close() error
}

// historyDB is a sqlite-backed HistoryDB.
type historyDB struct {
	sql        *sql.DB   // Sqlite3 database
	insertStmt *sql.Stmt // Prepared insert statement for a run
}

// NewHistoryDB opens (creating if needed) the history database in dbFile.
func NewHistoryDB(dbFile string) (HistoryDB, error) {
	return newHistoryDB(dbFile)
}

func newHistoryDB(dbFile string) (*historyDB, error) {
	sqlDB, err := sql.Open("sqlite3", dbFile)
	if err != nil {
		return nil, errors.Wrapf(err, "opening history database %s", dbFile)
	}
	db, err := openHistoryDB(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrap(err, dbFile)
	}
	return db, nil
}

// openHistoryDB creates the schema and prepares statements on an open handle.
func openHistoryDB(sqlDB *sql.DB) (*historyDB, error) {
	if _, err := sqlDB.Exec(createSQL); err != nil {
		return nil, errors.Wrap(err, "creating history schema")
	}
	insertStmt, err := sqlDB.Prepare(insertRunSQL)
	if err != nil {
		return nil, errors.Wrap(err, "preparing history insert")
	}
	return &historyDB{sql: sqlDB, insertStmt: insertStmt}, nil
}

// Add stores one run record.
func (db *historyDB) Add(r RunRecord) error {
	// sqlite integers are signed; the seed round-trips through int64 bit-for-bit.
	_, err := db.insertStmt.Exec(r.Label, int64(r.Seed), r.Population, r.Trials,
		r.Distance, r.ChiSquared, r.Critical, r.MaxDeviation, r.Converged, r.Skipped)
	if err != nil {
		return errors.Wrapf(err, "recording %s", r.Label)
	}
	return nil
}

// List returns up to limit records, newest first.
func (db *historyDB) List(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		return nil, errors.Errorf("limit must be positive, got %d", limit)
	}
	rows, err := db.sql.Query(listRunsSQL, limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying history")
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var seed int64
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Label, &seed, &r.Population, &r.Trials,
			&r.Distance, &r.ChiSquared, &r.Critical, &r.MaxDeviation, &r.Converged, &r.Skipped); err != nil {
			return nil, errors.Wrap(err, "scanning history row")
		}
		r.Seed = uint64(seed)
		records = append(records, r)
	}
	return records, errors.Wrap(rows.Err(), "iterating history rows")
}

// Close releases the prepared statement and the database handle.
func (db *historyDB) Close() error {
	if err := db.insertStmt.Close(); err != nil {
		_ = db.sql.Close()
		return err
	}
	return db.sql.Close()
}
