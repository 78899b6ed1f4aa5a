package replay

import (
	"context"
	"fmt"
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// #region types
// Querier is anything that answers a Φ query.
type Querier interface {
	Phi(ctx context.Context) (phi.Result, error)
}

// Scenario is one recorded system with its expected outcome.
type Scenario struct {
	ID     string
	Config phi.Config
	Build  func(cfg phi.Config) (Querier, error)
	Expect Expectation
}

// Expectation constrains a Φ result. Nil bounds are not checked; a non-empty
// ErrorKind means the query must fail with that kind.
type Expectation struct {
	Phi       *float64
	Tolerance float64
	Above     *float64
	Below     *float64
	MIP       string
	Method    phi.Method
	ErrorKind phierr.Kind
}

// ReplayResult captures the outcome of one scenario.
type ReplayResult struct {
	ID     string
	Action string // "pass" | "fail"
	Reason string
	Result phi.Result
	Err    error
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	Total  int
	Passed int
	Failed int
	Errors int // scenarios whose query failed, expected or not
}

// #endregion types

// #region replay
// Replay builds and queries each scenario in order and checks it against its expectation.
func Replay(ctx context.Context, scenarios []Scenario) []ReplayResult {
	results := make([]ReplayResult, 0, len(scenarios))
	for _, sc := range scenarios {
		r := ReplayResult{ID: sc.ID}
		q, err := sc.Build(sc.Config)
		if err == nil {
			r.Result, err = q.Phi(ctx)
		}
		r.Err = err
		r.Reason = check(sc.Expect, r.Result, err)
		r.Action = "pass"
		if r.Reason != "" {
			r.Action = "fail"
		}
		results = append(results, r)
	}
	return results
}

func check(want Expectation, got phi.Result, err error) string {
	if want.ErrorKind != "" {
		if err == nil {
			return fmt.Sprintf("expected %s error, got Φ=%.6f", want.ErrorKind, got.Phi)
		}
		if k := phierr.KindOf(err); k != want.ErrorKind {
			return fmt.Sprintf("expected %s error, got %v", want.ErrorKind, err)
		}
		return ""
	}
	if err != nil {
		return fmt.Sprintf("query failed: %v", err)
	}
	if want.Phi != nil && math.Abs(got.Phi-*want.Phi) > want.Tolerance {
		return fmt.Sprintf("Φ=%.9f, want %.9f±%g", got.Phi, *want.Phi, want.Tolerance)
	}
	if want.Above != nil && !(got.Phi > *want.Above) {
		return fmt.Sprintf("Φ=%.9f, want > %g", got.Phi, *want.Above)
	}
	if want.Below != nil && !(got.Phi < *want.Below) {
		return fmt.Sprintf("Φ=%.9f, want < %g", got.Phi, *want.Below)
	}
	if want.Method != "" && got.Method != want.Method {
		return fmt.Sprintf("method %s, want %s", got.Method, want.Method)
	}
	if want.MIP != "" {
		if got.MIP == nil {
			return fmt.Sprintf("no MIP, want %s", want.MIP)
		}
		if s := got.MIP.String(); s != want.MIP {
			return fmt.Sprintf("MIP %s, want %s", s, want.MIP)
		}
	}
	return ""
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult) ReplaySummary {
	s := ReplaySummary{Total: len(results)}
	for _, r := range results {
		switch r.Action {
		case "pass":
			s.Passed++
		case "fail":
			s.Failed++
		}
		if r.Err != nil {
			s.Errors++
		}
	}
	return s
}

// #endregion replay
