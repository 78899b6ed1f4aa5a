package logging

import (
	"database/sql"
	"fmt"
	"time"
)

// #region log-query
// LogQuery writes an entry to the query_log table.
func LogQuery(db *sql.DB, entry QueryEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := db.Exec(
		`INSERT INTO query_log (result_id, system_digest, substrate, method, outcome, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullIfEmpty(entry.ResultID),
		entry.SystemDigest,
		entry.Substrate,
		nullIfEmpty(entry.Method),
		entry.Outcome,
		nullIfEmpty(entry.Reason),
		entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("log query: %w", err)
	}
	return nil
}

// #endregion log-query

// #region helpers
func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// #endregion helpers
