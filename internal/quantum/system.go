package quantum

import (
	"context"
	"time"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
)

// #region system
// System is a density matrix prepared for a Φ query.
type System struct {
	rho Density
	cfg phi.Config
	obs phi.Observer
}

// Option customizes a System.
type Option func(*System)

// WithObserver routes engine events to o.
func WithObserver(o phi.Observer) Option {
	return func(s *System) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewSystem checks the qubit budget. Systems above cfg.MaxQubits are refused unless cfg.AllowLarge.
func NewSystem(rho Density, cfg phi.Config, opts ...Option) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rho.n > cfg.MaxQubits && !cfg.AllowLarge {
		return nil, phierr.New(phierr.SystemTooLarge, "%d qubits exceeds max_qubits %d", rho.n, cfg.MaxQubits)
	}
	s := &System{rho: rho, cfg: cfg, obs: phi.NopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Density returns the underlying state.
func (s *System) Density() Density { return s.rho }

// #endregion system

// #region phi
// Phi returns the minimum quantum mutual information over bidirectional
// bipartitions of the qubits. Ties prefer the more balanced cut, then enumeration order.
func (s *System) Phi(ctx context.Context) (phi.Result, error) {
	started := time.Now()
	res, err := s.phi(ctx, started)
	s.obs.QueryFinished(phi.Quantum, res.Phi, time.Since(started), err)
	if err != nil {
		return phi.Result{}, err
	}
	return res, nil
}

func (s *System) phi(ctx context.Context, started time.Time) (phi.Result, error) {
	if s.rho.n < 2 {
		return phi.Result{Method: phi.Quantum, Elapsed: time.Since(started)}, nil
	}
	ctx, cancel := phi.WithBudget(ctx, s.cfg)
	defer cancel()

	whole, err := VonNeumann(s.rho)
	if err != nil {
		return phi.Result{}, err
	}
	parts := partition.OfSize(s.rho.n, partition.Bidirectional)
	scores, err := phi.Search(ctx, parts, func(p partition.Bipartition) (float64, error) {
		return mutualInformation(s.rho, p.A, whole)
	}, phi.SearchOptions{Method: phi.Quantum, Parallel: s.cfg.Parallel, Observer: s.obs, Started: started})
	if err != nil {
		return phi.Result{}, err
	}
	return phi.Finish(scores, moreBalanced, phi.Quantum, started), nil
}

func moreBalanced(a, b phi.PartitionScore) bool {
	return a.Partition.Imbalance() < b.Partition.Imbalance()
}

// #endregion phi
