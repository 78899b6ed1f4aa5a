package store

import "time"

// #region record
// Record is one stored Φ result.
type Record struct {
	ResultID        string
	Substrate       string // "classical" | "quantum"
	SystemDigest    string
	NElements       int
	Method          string
	Phi             float64
	MIP             string // empty when the system has no cut
	ScoresJSON      string
	PartitionsTried int
	Elapsed         time.Duration
	CreatedAt       time.Time
}

// row mirrors the phi_results columns for sqlx scanning.
type row struct {
	ResultID        string  `db:"result_id"`
	Substrate       string  `db:"substrate"`
	SystemDigest    string  `db:"system_digest"`
	NElements       int     `db:"n_elements"`
	Method          string  `db:"method"`
	Phi             float64 `db:"phi"`
	MIP             *string `db:"mip"`
	ScoresJSON      *string `db:"scores_json"`
	PartitionsTried int     `db:"partitions_tried"`
	ElapsedNS       int64   `db:"elapsed_ns"`
	CreatedAt       string  `db:"created_at"`
}

func toRow(rec Record) row {
	return row{
		ResultID:        rec.ResultID,
		Substrate:       rec.Substrate,
		SystemDigest:    rec.SystemDigest,
		NElements:       rec.NElements,
		Method:          rec.Method,
		Phi:             rec.Phi,
		MIP:             nullIfEmpty(rec.MIP),
		ScoresJSON:      nullIfEmpty(rec.ScoresJSON),
		PartitionsTried: rec.PartitionsTried,
		ElapsedNS:       rec.Elapsed.Nanoseconds(),
		CreatedAt:       rec.CreatedAt.Format(time.RFC3339Nano),
	}
}

func (r row) record() Record {
	rec := Record{
		ResultID:        r.ResultID,
		Substrate:       r.Substrate,
		SystemDigest:    r.SystemDigest,
		NElements:       r.NElements,
		Method:          r.Method,
		Phi:             r.Phi,
		PartitionsTried: r.PartitionsTried,
		Elapsed:         time.Duration(r.ElapsedNS),
	}
	if r.MIP != nil {
		rec.MIP = *r.MIP
	}
	if r.ScoresJSON != nil {
		rec.ScoresJSON = *r.ScoresJSON
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.CreatedAt)
	return rec
}

// #endregion record
