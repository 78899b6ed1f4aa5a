// Package store persists Φ results and the query log in SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
)

// ErrNotFound is returned by Get for an unknown result id.
var ErrNotFound = errors.New("result not found")

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS phi_results (
	result_id        TEXT PRIMARY KEY,
	substrate        TEXT NOT NULL,
	system_digest    TEXT NOT NULL,
	n_elements       INTEGER NOT NULL,
	method           TEXT NOT NULL,
	phi              REAL NOT NULL,
	mip              TEXT,
	scores_json      TEXT,
	partitions_tried INTEGER NOT NULL,
	elapsed_ns       INTEGER NOT NULL,
	created_at       TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_phi_results_digest ON phi_results(system_digest);

CREATE TABLE IF NOT EXISTS query_log (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	result_id     TEXT,
	system_digest TEXT NOT NULL,
	substrate     TEXT NOT NULL,
	method        TEXT,
	outcome       TEXT NOT NULL,
	reason        TEXT,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (result_id) REFERENCES phi_results(result_id)
);
`

// #endregion schema

// #region store
// Store manages Φ results in SQLite.
type Store struct {
	db *sqlx.DB
}

// Open opens a SQLite database and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for the query log.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// #endregion store

// #region new-record
// NewRecord stamps res with a fresh id and the current time.
func NewRecord(substrate, digest string, n int, res phi.Result) (Record, error) {
	rec := Record{
		ResultID:        uuid.New().String(),
		Substrate:       substrate,
		SystemDigest:    digest,
		NElements:       n,
		Method:          string(res.Method),
		Phi:             res.Phi,
		PartitionsTried: res.PartitionsTried,
		Elapsed:         res.Elapsed,
		CreatedAt:       time.Now().UTC(),
	}
	if res.MIP != nil {
		rec.MIP = res.MIP.String()
	}
	if len(res.Scores) > 0 {
		type score struct {
			Partition string  `json:"partition"`
			Phi       float64 `json:"phi"`
		}
		out := make([]score, len(res.Scores))
		for i, sc := range res.Scores {
			out[i] = score{Partition: sc.Partition.String(), Phi: sc.Phi}
		}
		b, err := json.Marshal(out)
		if err != nil {
			return Record{}, fmt.Errorf("marshal scores: %w", err)
		}
		rec.ScoresJSON = string(b)
	}
	return rec, nil
}

// #endregion new-record

// #region save
// Save inserts rec.
func (s *Store) Save(rec Record) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.NamedExec(
		`INSERT INTO phi_results (result_id, substrate, system_digest, n_elements, method, phi, mip, scores_json, partitions_tried, elapsed_ns, created_at)
		 VALUES (:result_id, :substrate, :system_digest, :n_elements, :method, :phi, :mip, :scores_json, :partitions_tried, :elapsed_ns, :created_at)`,
		toRow(rec),
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// #endregion save

// #region read
const selectColumns = `SELECT result_id, substrate, system_digest, n_elements, method, phi, mip, scores_json, partitions_tried, elapsed_ns, created_at FROM phi_results`

// Get retrieves a result by id.
func (s *Store) Get(id string) (Record, error) {
	var r row
	err := s.db.Get(&r, selectColumns+` WHERE result_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get result %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get result %s: %w", id, err)
	}
	return r.record(), nil
}

// List returns the most recent results, newest first.
func (s *Store) List(limit int) ([]Record, error) {
	return s.list(selectColumns+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// ListByDigest returns every stored result for one system, newest first.
func (s *Store) ListByDigest(digest string) ([]Record, error) {
	return s.list(selectColumns+` WHERE system_digest = ? ORDER BY created_at DESC, rowid DESC`, digest)
}

func (s *Store) list(query string, args ...any) ([]Record, error) {
	var rows []row
	if err := s.db.Select(&rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.record()
	}
	return out, nil
}

// #endregion read

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
