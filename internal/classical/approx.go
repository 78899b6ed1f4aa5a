package classical

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region dispatch
func (s *System) approximate(m phi.Method) (float64, error) {
	switch m {
	case phi.Tau:
		return s.Tau(), nil
	case phi.Geometric:
		return s.Geometric(), nil
	case phi.Spectral:
		return s.Spectral()
	case phi.MeanField:
		return s.MeanField(), nil
	}
	return 0, phierr.New(phierr.ApproximationUnavailable, "method %q", m)
}

// #endregion dispatch

// #region tau
// Tau returns the fraction of element pairs connected in both directions.
// A fully connected system scores exactly 1.
func (s *System) Tau() float64 {
	if s.n < 2 {
		return 0
	}
	both := 0
	for i := 0; i < s.n; i++ {
		for j := i + 1; j < s.n; j++ {
			if s.conn[i][j] && s.conn[j][i] {
				both++
			}
		}
	}
	return float64(both) / float64(s.n*(s.n-1)/2)
}

// #endregion tau

// #region influence
// influence returns W where W[i][j] is the mean change in node j's activation
// when node i flips, over all states, for existing edges i→j.
func (s *System) influence() [][]float64 {
	w := make([][]float64, s.n)
	size := 1 << uint(s.n)
	for i := range w {
		w[i] = make([]float64, s.n)
		bit := subset.Of(i)
		for j := 0; j < s.n; j++ {
			if !s.conn[i][j] {
				continue
			}
			sum := 0.0
			for st := 0; st < size; st++ {
				x := subset.Set(st)
				if x.Has(i) {
					continue
				}
				sum += math.Abs(s.tpm.Prob(x|bit, j) - s.tpm.Prob(x, j))
			}
			w[i][j] = sum / float64(size/2)
		}
	}
	return w
}

// #endregion influence

// #region geometric
// Geometric returns the mean over nodes of sqrt(in-weight · out-weight) of the influence matrix.
func (s *System) Geometric() float64 {
	if s.n < 2 {
		return 0
	}
	w := s.influence()
	total := 0.0
	for i := 0; i < s.n; i++ {
		in, out := 0.0, 0.0
		for j := 0; j < s.n; j++ {
			in += w[j][i]
			out += w[i][j]
		}
		if in > 0 && out > 0 {
			total += math.Sqrt(in * out)
		}
	}
	return total / float64(s.n)
}

// #endregion geometric

// #region spectral
// Spectral returns the spread between the largest and smallest eigenvalue
// magnitudes of the symmetrized influence matrix.
func (s *System) Spectral() (float64, error) {
	if s.n < 2 {
		return 0, nil
	}
	w := s.influence()
	sym := mat.NewSymDense(s.n, nil)
	for i := 0; i < s.n; i++ {
		for j := i; j < s.n; j++ {
			sym.SetSym(i, j, (w[i][j]+w[j][i])/2)
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, false); !ok {
		return 0, phierr.New(phierr.SingularMatrix, "eigendecomposition of %d×%d influence matrix did not converge", s.n, s.n)
	}
	vals := eig.Values(nil)
	for i := range vals {
		vals[i] = math.Abs(vals[i])
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	return math.Max(vals[0]-vals[len(vals)-1], 0), nil
}

// #endregion spectral

// #region mean-field
// MeanField returns n·κ·m·(1−m), with m the mean predicted activation from the
// current state and κ the fraction of possible edges present.
func (s *System) MeanField() float64 {
	if s.n < 2 {
		return 0
	}
	m := 0.0
	for j := 0; j < s.n; j++ {
		m += s.tpm.Prob(s.state, j)
	}
	m /= float64(s.n)
	edges := 0
	for i := range s.conn {
		for _, on := range s.conn[i] {
			if on {
				edges++
			}
		}
	}
	kappa := float64(edges) / float64(s.n*s.n)
	return float64(s.n) * kappa * m * (1 - m)
}

// #endregion mean-field
