package quantum

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

const eigenFloor = 1e-12

// #region eigen
// Eigenvalues returns the eigenvalues of d in ascending order. The Hermitian
// matrix X+iY is embedded as the real symmetric [[X,−Y],[Y,X]], whose spectrum
// is that of d with every value doubled.
func (d Density) Eigenvalues() ([]float64, error) {
	n := d.dim
	emb := mat.NewSymDense(2*n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			h := d.m[i*n+j]
			x, y := real(h), imag(h)
			emb.SetSym(i, j, x)
			emb.SetSym(n+i, n+j, x)
			emb.SetSym(i, n+j, -y)
			emb.SetSym(j, n+i, y)
		}
	}
	var eig mat.EigenSym
	if ok := eig.Factorize(emb, false); !ok {
		return nil, phierr.New(phierr.NumericalInstability, "eigendecomposition of %d×%d matrix did not converge", n, n)
	}
	all := eig.Values(nil)
	vals := make([]float64, n)
	for k := range vals {
		vals[k] = all[2*k]
	}
	return vals, nil
}

// #endregion eigen

// #region entropy
// VonNeumann returns S(ρ) = −Σ λ log2 λ in bits; eigenvalues below 1e-12 count as 0.
func VonNeumann(d Density) (float64, error) {
	vals, err := d.Eigenvalues()
	if err != nil {
		return 0, err
	}
	return entropy(vals, d.n), nil
}

func entropy(vals []float64, n int) float64 {
	s := 0.0
	for _, l := range vals {
		if l > eigenFloor {
			s -= l * math.Log2(l)
		}
	}
	return math.Min(math.Max(s, 0), float64(n))
}

// reducedEntropy is VonNeumann for a partial trace, rejecting a reduced matrix
// that is not positive semidefinite.
func reducedEntropy(r Density, part subset.Set) (float64, error) {
	vals, err := r.Eigenvalues()
	if err != nil {
		return 0, err
	}
	if vals[0] < -Tolerance {
		return 0, phierr.New(phierr.NumericalInstability, "reduced matrix over %s has eigenvalue %.3e", part, vals[0])
	}
	return entropy(vals, r.n), nil
}

// IsPure reports whether S(ρ) vanishes within tolerance.
func IsPure(d Density) (bool, error) {
	s, err := VonNeumann(d)
	if err != nil {
		return false, err
	}
	return s <= Tolerance, nil
}

// MutualInformation returns I(A:B) = S(ρ_A) + S(ρ_B) − S(ρ) for the cut of d into a and its complement.
func MutualInformation(d Density, a subset.Set) (float64, error) {
	whole, err := VonNeumann(d)
	if err != nil {
		return 0, err
	}
	return mutualInformation(d, a, whole)
}

func mutualInformation(d Density, a subset.Set, whole float64) (float64, error) {
	b := subset.Full(d.n).Minus(a)
	if a.Empty() || b.Empty() {
		return 0, phierr.New(phierr.InvalidPartition, "part %s leaves an empty side of %d qubits", a, d.n)
	}
	ra, err := d.PartialTrace(a)
	if err != nil {
		return 0, err
	}
	rb, err := d.PartialTrace(b)
	if err != nil {
		return 0, err
	}
	sa, err := reducedEntropy(ra, a)
	if err != nil {
		return 0, err
	}
	sb, err := reducedEntropy(rb, b)
	if err != nil {
		return 0, err
	}
	mi := sa + sb - whole
	if mi < eigenFloor {
		mi = 0
	}
	return mi, nil
}

// #endregion entropy
