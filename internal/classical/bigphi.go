package classical

import (
	"context"
	"time"

	"github.com/danielpatrickdp/phi-engine/internal/distance"
	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region method
// Method returns the evaluation method a query on this system will use.
// Exact is chosen whenever n fits under MaxExactSize; larger systems use the
// configured approximation, and an explicit Exact request fails instead.
func (s *System) Method() (phi.Method, error) {
	if s.n <= s.cfg.MaxExactSize {
		return phi.Exact, nil
	}
	if s.cfg.Approximation == phi.Exact {
		return "", phierr.New(phierr.SystemTooLarge, "%d elements exceeds max_exact_size %d", s.n, s.cfg.MaxExactSize)
	}
	if !s.cfg.Approximation.IsApproximation() {
		return "", phierr.New(phierr.ApproximationUnavailable, "method %q", s.cfg.Approximation)
	}
	return s.cfg.Approximation, nil
}

// #endregion method

// #region phi
// Phi computes big-Φ. Systems with fewer than two elements score 0 with no MIP.
func (s *System) Phi(ctx context.Context) (phi.Result, error) {
	started := time.Now()
	method, err := s.Method()
	if err != nil {
		s.obs.QueryFinished(s.cfg.Approximation, 0, time.Since(started), err)
		return phi.Result{}, err
	}
	res, err := s.phi(ctx, method, started)
	s.obs.QueryFinished(method, res.Phi, time.Since(started), err)
	if err != nil {
		return phi.Result{}, err
	}
	return res, nil
}

func (s *System) phi(ctx context.Context, method phi.Method, started time.Time) (phi.Result, error) {
	if s.n < 2 {
		return phi.Result{Method: method, Elapsed: time.Since(started)}, nil
	}
	if method != phi.Exact {
		v, err := s.approximate(method)
		if err != nil {
			return phi.Result{}, err
		}
		return phi.Result{Phi: v, Method: method, Elapsed: time.Since(started)}, nil
	}

	ctx, cancel := phi.WithBudget(ctx, s.cfg)
	defer cancel()

	ces, err := s.intact().ces(ctx, s.mechanisms(), s.cfg)
	if err != nil {
		return phi.Result{}, err
	}
	parts := partition.OfSize(s.n, s.cfg.CutKind)
	scores, err := phi.Search(ctx, parts, func(p partition.Bipartition) (float64, error) {
		return s.cutScore(ces, p)
	}, phi.SearchOptions{Method: method, Parallel: s.cfg.Parallel, Observer: s.obs, Started: started})
	if err != nil {
		return phi.Result{}, err
	}
	return phi.Finish(scores, nil, method, started), nil
}

// cutScore measures how far the cause-effect structure moves when p is cut:
// each concept contributes its φ times the EMD its cause and effect repertoires
// travel on their original purviews. The score is not monotone in connectivity:
// an added edge can shrink concept φ more than it moves the repertoires.
func (s *System) cutScore(ces CES, p partition.Bipartition) (float64, error) {
	v := s.cut(p)
	total := 0.0
	for _, c := range ces.Concepts {
		dc, err := v.drift(repertoire.Cause, c.Mechanism, c.Cause)
		if err != nil {
			return 0, err
		}
		de, err := v.drift(repertoire.Effect, c.Mechanism, c.Effect)
		if err != nil {
			return 0, err
		}
		total += c.Phi * (dc + de)
	}
	return total, nil
}

func (v *view) drift(dir repertoire.Direction, mech subset.Set, m Mice) (float64, error) {
	r, err := v.repertoire(dir, mech, m.Purview)
	if err != nil {
		return 0, err
	}
	return distance.EMDGreedy(m.Repertoire.Dist, r.Dist)
}

// #endregion phi
