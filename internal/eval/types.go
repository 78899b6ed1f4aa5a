package eval

import "time"

// #region eval-config
// EvalConfig holds thresholds for post-query validation.
type EvalConfig struct {
	Tolerance float64       // slack on the entanglement bound
	SlowQuery time.Duration // informational: flag queries slower than this
}

// DefaultEvalConfig returns the thresholds phid runs with.
func DefaultEvalConfig() EvalConfig {
	return EvalConfig{
		Tolerance: 1e-6,
		SlowQuery: 30 * time.Second,
	}
}

// #endregion eval-config

// #region eval-metric
// EvalMetric captures a single validation check result.
type EvalMetric struct {
	Name  string
	Value float64
	Pass  bool
}

// #endregion eval-metric

// #region eval-result
// EvalResult is the output of post-query validation.
type EvalResult struct {
	Passed  bool
	Metrics []EvalMetric
	Reason  string
}

// #endregion eval-result
