// Package eval checks Φ results for internal consistency before they are stored.
package eval

import (
	"fmt"
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
)

// #region eval-harness
// EvalHarness runs lightweight validation on a finished query.
type EvalHarness struct {
	config EvalConfig
}

// NewEvalHarness creates an eval harness with the given configuration.
func NewEvalHarness(config EvalConfig) *EvalHarness {
	return &EvalHarness{config: config}
}

// Run validates res for a system of n elements.
func (h *EvalHarness) Run(res phi.Result, n int) EvalResult {
	var metrics []EvalMetric
	var failReasons []string
	check := func(name string, value float64, pass bool, reason string) {
		metrics = append(metrics, EvalMetric{Name: name, Value: value, Pass: pass})
		if !pass {
			failReasons = append(failReasons, reason)
		}
	}

	// 1. Φ is a finite, non-negative number
	finite := !math.IsNaN(res.Phi) && !math.IsInf(res.Phi, 0) && res.Phi >= 0
	check("phi_range", res.Phi, finite, fmt.Sprintf("Φ %g is not a finite non-negative value", res.Phi))

	// 2. Searched methods report a MIP and the full partition count
	searched := res.Method == phi.Exact || res.Method == phi.Quantum
	if searched && n >= 2 {
		check("mip_present", boolValue(res.MIP != nil), res.MIP != nil, "no MIP for a searched system")
		if res.MIP != nil {
			want := partition.Count(n, res.MIP.Kind)
			check("partitions_tried", float64(res.PartitionsTried), res.PartitionsTried == want,
				fmt.Sprintf("%d partitions tried, want %d", res.PartitionsTried, want))
		}
	}

	// 3. Quantum mutual information across a cut is at most 2·min(|A|,|B|) bits
	if res.Method == phi.Quantum && res.MIP != nil {
		bound := 2 * float64(min(res.MIP.A.Len(), res.MIP.B.Len()))
		check("entanglement_bound", res.Phi, res.Phi <= bound+h.config.Tolerance,
			fmt.Sprintf("Φ %.6f exceeds %g bits across %s", res.Phi, bound, res.MIP))
	}

	// 4. Latency: informational only, does not fail
	slow := h.config.SlowQuery > 0 && res.Elapsed > h.config.SlowQuery
	metrics = append(metrics, EvalMetric{Name: "elapsed_seconds", Value: res.Elapsed.Seconds(), Pass: !slow})

	reason := "all checks passed"
	if len(failReasons) > 0 {
		reason = fmt.Sprintf("eval failed: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("eval failed: %d checks: %s", len(failReasons), failReasons[0])
		}
	}
	return EvalResult{Passed: len(failReasons) == 0, Metrics: metrics, Reason: reason}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// #endregion eval-harness
