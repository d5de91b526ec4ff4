// Package sqlite implements storage.RunStore using SQLite.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/san-kum/sortviz/internal/algo"
	"github.com/san-kum/sortviz/internal/storage"
)

// Store keeps run records and their step events in SQLite.
type Store struct {
	db *sql.DB
}

var _ storage.RunStore = (*Store)(nil)

// New opens (or creates) a SQLite database at the given path.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			algorithm  TEXT NOT NULL,
			status     TEXT NOT NULL,
			seed       INTEGER NOT NULL DEFAULT 0,
			size       INTEGER NOT NULL DEFAULT 0,
			delay_ms   INTEGER NOT NULL DEFAULT 0,
			target     INTEGER,
			found      INTEGER NOT NULL DEFAULT -1,
			initial    TEXT NOT NULL DEFAULT '[]',
			final      TEXT NOT NULL DEFAULT '[]',
			stats      TEXT NOT NULL DEFAULT '{}',
			metrics    TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT (datetime('now'))
		);

		CREATE TABLE IF NOT EXISTS run_events (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL,
			seq     INTEGER NOT NULL,
			kind    TEXT NOT NULL,
			indices TEXT NOT NULL DEFAULT '[]',
			value   INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY (run_id) REFERENCES runs(id)
		);

		CREATE INDEX IF NOT EXISTS idx_run_events_run_id
			ON run_events(run_id);
	`)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts rec and its trace in one transaction.
func (s *Store) Save(rec *storage.Record, trace storage.Trace) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()[:8]
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	initial, final, stats, metrics, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var target sql.NullInt64
	if rec.Target != nil {
		target = sql.NullInt64{Int64: int64(*rec.Target), Valid: true}
	}
	_, err = tx.Exec(
		`INSERT INTO runs (id, algorithm, status, seed, size, delay_ms, target, found,
		                   initial, final, stats, metrics, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Algorithm, rec.Status, rec.Seed, rec.Size, rec.DelayMs, target, rec.Index,
		initial, final, stats, metrics, rec.Timestamp,
	)
	if err != nil {
		return "", err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO run_events (run_id, seq, kind, indices, value) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, ev := range trace {
		indices, err := json.Marshal(ev.Indices)
		if err != nil {
			return "", err
		}
		if _, err := stmt.Exec(rec.ID, ev.Seq, ev.Kind.String(), string(indices), ev.Value); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

const recordColumns = `id, algorithm, status, seed, size, delay_ms, target, found,
	initial, final, stats, metrics, created_at`

// List returns all runs ordered by creation time (newest first).
func (s *Store) List() ([]storage.Record, error) {
	rows, err := s.db.Query(`SELECT ` + recordColumns + ` FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := make([]storage.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *rec)
	}
	return runs, rows.Err()
}

// Load retrieves a run by ID.
func (s *Store) Load(id string) (*storage.Record, error) {
	row := s.db.QueryRow(`SELECT `+recordColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrRunNotFound, id)
	}
	return rec, err
}

// LoadTrace returns the events of a run in emission order.
func (s *Store) LoadTrace(id string) (storage.Trace, error) {
	if _, err := s.Load(id); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(
		`SELECT seq, kind, indices, value FROM run_events WHERE run_id = ? ORDER BY id ASC`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trace := make(storage.Trace, 0)
	for rows.Next() {
		var (
			ev      algo.Event
			kind    string
			indices string
		)
		if err := rows.Scan(&ev.Seq, &kind, &indices, &ev.Value); err != nil {
			return nil, err
		}
		if ev.Kind, err = algo.ParseEventKind(kind); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(indices), &ev.Indices); err != nil {
			return nil, err
		}
		trace = append(trace, ev)
	}
	return trace, rows.Err()
}

// --- Scan helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*storage.Record, error) {
	rec := &storage.Record{}
	var (
		target                          sql.NullInt64
		initial, final, stats, metrics string
	)
	err := row.Scan(
		&rec.ID, &rec.Algorithm, &rec.Status, &rec.Seed, &rec.Size, &rec.DelayMs,
		&target, &rec.Index, &initial, &final, &stats, &metrics, &rec.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	if target.Valid {
		t := int(target.Int64)
		rec.Target = &t
	}
	for _, f := range []struct {
		raw string
		dst any
	}{
		{initial, &rec.Initial},
		{final, &rec.Final},
		{stats, &rec.Stats},
		{metrics, &rec.Metrics},
	} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decoding run %s: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func encodeRecord(rec *storage.Record) (initial, final, stats, metrics string, err error) {
	out := make([]string, 4)
	for i, v := range []any{nonNil(rec.Initial), nonNil(rec.Final), rec.Stats, rec.Metrics} {
		b, err := json.Marshal(v)
		if err != nil {
			return "", "", "", "", err
		}
		out[i] = string(b)
	}
	if rec.Metrics == nil {
		out[3] = "{}"
	}
	return out[0], out[1], out[2], out[3], nil
}

func nonNil(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
