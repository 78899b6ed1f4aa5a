package logging

import "time"

// #region query-entry
// QueryEntry is a single row in the query_log table.
type QueryEntry struct {
	ResultID     string // empty when the query failed
	SystemDigest string
	Substrate    string // "classical" | "quantum"
	Method       string
	Outcome      string // "ok" | "error"
	Reason       string
	CreatedAt    time.Time
}

// #endregion query-entry

// Outcome values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)
