// Package distance implements the metrics used to compare repertoires:
// earth mover's distance over the binary hypercube, L1, KL, JS and mutual information.
// All results are in bits where a logarithm is involved.
package distance

import (
	"math"
	"math/bits"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
)

const (
	clamp   = repertoire.Clamp
	massTol = repertoire.SumTolerance
)

// #region shape
func sameShape(p, q []float64) error {
	if len(p) != len(q) {
		return phierr.New(phierr.DimensionMismatch, "lengths %d and %d differ", len(p), len(q))
	}
	return nil
}

func cubeDim(size int) (int, error) {
	if size == 0 || size&(size-1) != 0 {
		return 0, phierr.New(phierr.DimensionMismatch, "length %d is not a power of two", size)
	}
	return bits.TrailingZeros(uint(size)), nil
}

// #endregion shape

// #region l1
// L1 returns ½Σ|p−q|, the total variation distance.
func L1(p, q []float64) (float64, error) {
	if err := sameShape(p, q); err != nil {
		return 0, err
	}
	d := 0.0
	for i := range p {
		d += math.Abs(p[i] - q[i])
	}
	return d / 2, nil
}

// #endregion l1

// #region kl
// KL returns the Kullback-Leibler divergence D(p‖q), +Inf when q lacks support p has.
func KL(p, q []float64) (float64, error) {
	if err := sameShape(p, q); err != nil {
		return 0, err
	}
	d := 0.0
	for i := range p {
		if p[i] <= clamp {
			continue
		}
		if q[i] <= clamp {
			return math.Inf(1), nil
		}
		d += p[i] * math.Log2(p[i]/q[i])
	}
	return math.Max(d, 0), nil
}

// #endregion kl

// #region js
// JS returns the Jensen-Shannon divergence, bounded in [0,1] and exactly symmetric.
func JS(p, q []float64) (float64, error) {
	if err := sameShape(p, q); err != nil {
		return 0, err
	}
	m := make([]float64, len(p))
	for i := range p {
		m[i] = 0.5 * (p[i] + q[i])
	}
	a, _ := KL(p, m)
	b, _ := KL(q, m)
	return math.Min(math.Max(0.5*(a+b), 0), 1), nil
}

// #endregion js

// #region mutual-information
// MutualInformation returns I(X;Y) from a row-major joint[x*len(my)+y] and its marginals.
func MutualInformation(joint, mx, my []float64) (float64, error) {
	if len(joint) != len(mx)*len(my) {
		return 0, phierr.New(phierr.DimensionMismatch, "joint has %d entries, marginals imply %d×%d", len(joint), len(mx), len(my))
	}
	mi := 0.0
	for x := range mx {
		for y := range my {
			pxy := joint[x*len(my)+y]
			if pxy <= clamp {
				continue
			}
			denom := mx[x] * my[y]
			if denom <= clamp*clamp {
				return 0, phierr.New(phierr.NumericalInstability, "joint mass %g at (%d,%d) with zero marginal", pxy, x, y)
			}
			mi += pxy * math.Log2(pxy/denom)
		}
	}
	return math.Max(mi, 0), nil
}

// #endregion mutual-information

// #region hamming
// Hamming returns the number of differing bits between two configuration indices.
func Hamming(a, b int) int {
	return bits.OnesCount(uint(a ^ b))
}

// #endregion hamming

// #region effective-information
// EffectiveInformation returns log2|states| − H(r), how far r is from uniform.
func EffectiveInformation(r repertoire.Repertoire) float64 {
	return math.Log2(float64(len(r.Dist))) - repertoire.Entropy(r)
}

// #endregion effective-information
