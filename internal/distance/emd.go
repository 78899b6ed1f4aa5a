package distance

import (
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
)

// #region emd
// EMDGreedy returns the transport cost between p and q on the binary hypercube,
// where moving mass between configurations i and j costs Hamming(i, j) per unit.
// Mass moves greedily along the cheapest remaining pair, ties going to the smaller
// source then the smaller destination. The argument order is canonicalized so
// EMDGreedy(p, q) == EMDGreedy(q, p) bit for bit.
func EMDGreedy(p, q []float64) (float64, error) {
	if err := sameShape(p, q); err != nil {
		return 0, err
	}
	dim, err := cubeDim(len(p))
	if err != nil {
		return 0, err
	}
	sp, sq := 0.0, 0.0
	for i := range p {
		if p[i] < -clamp || q[i] < -clamp {
			return 0, phierr.New(phierr.EMDError, "negative mass at %d", i)
		}
		sp += p[i]
		sq += q[i]
	}
	if math.Abs(sp-sq) > massTol {
		return 0, phierr.New(phierr.EMDError, "total supply %.12f differs from demand %.12f", sp, sq)
	}

	if lexLess(q, p) {
		p, q = q, p
	}
	supply := clampCopy(p)
	demand := clampCopy(q)

	cost := 0.0
	n := len(p)
	for d := 0; d <= dim; d++ {
		for i := 0; i < n; i++ {
			if supply[i] == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				if demand[j] == 0 || Hamming(i, j) != d {
					continue
				}
				m := math.Min(supply[i], demand[j])
				cost += m * float64(d)
				supply[i] = settle(supply[i] - m)
				demand[j] = settle(demand[j] - m)
				if supply[i] == 0 {
					break
				}
			}
		}
	}
	return cost, nil
}

// EMD compares two repertoires over the same purview.
func EMD(a, b repertoire.Repertoire) (float64, error) {
	if a.Purview != b.Purview {
		return 0, phierr.New(phierr.Incompatible, "purviews %s and %s differ", a.Purview, b.Purview)
	}
	return EMDGreedy(a.Dist, b.Dist)
}

// #endregion emd

// #region helpers
func clampCopy(v []float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = settle(x)
	}
	return out
}

func settle(x float64) float64 {
	if x < clamp {
		return 0
	}
	return x
}

func lexLess(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// #endregion helpers
