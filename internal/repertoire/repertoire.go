package repertoire

import (
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region construct
// Uniform returns the flat distribution over the purview's configurations.
func Uniform(purview subset.Set, dir Direction) Repertoire {
	size := 1 << uint(purview.Len())
	d := make([]float64, size)
	p := 1 / float64(size)
	for i := range d {
		d[i] = p
	}
	return Repertoire{Purview: purview, Direction: dir, Dist: d}
}

// New wraps dist as a repertoire after checking shape and mass.
func New(purview subset.Set, dir Direction, dist []float64) (Repertoire, error) {
	r := Repertoire{Purview: purview, Direction: dir, Dist: dist}
	if err := Validate(r); err != nil {
		return Repertoire{}, err
	}
	return r, nil
}

// #endregion construct

// #region validate
// Validate checks shape, non-negativity and unit mass.
func Validate(r Repertoire) error {
	if len(r.Dist) != r.Size() {
		return phierr.New(phierr.DimensionMismatch, "purview %s needs %d entries, got %d", r.Purview, r.Size(), len(r.Dist))
	}
	sum := 0.0
	for i, p := range r.Dist {
		if p < -Clamp || math.IsNaN(p) {
			return phierr.New(phierr.NumericalInstability, "entry %d is %g", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > SumTolerance {
		return phierr.New(phierr.NumericalInstability, "mass %.12f outside 1±%g", sum, SumTolerance)
	}
	return nil
}

// #endregion validate

// #region normalize
// Normalize divides by total mass after clamping tiny entries to 0.
func Normalize(r Repertoire) (Repertoire, error) {
	out := r.Clone()
	sum := 0.0
	for i, p := range out.Dist {
		if p < Clamp {
			out.Dist[i] = 0
			continue
		}
		sum += p
	}
	if sum < Clamp {
		return Repertoire{}, phierr.New(phierr.ZeroMass, "total mass %g below %g", sum, Clamp)
	}
	for i := range out.Dist {
		out.Dist[i] /= sum
	}
	return out, nil
}

// #endregion normalize

// #region marginalize
// Marginalize sums out every purview element not in keep. The result must carry unit mass.
func Marginalize(r Repertoire, keep subset.Set) (Repertoire, error) {
	if !keep.SubsetOf(r.Purview) {
		return Repertoire{}, phierr.New(phierr.Incompatible, "cannot keep %s from purview %s", keep, r.Purview)
	}
	if len(r.Dist) != r.Size() {
		return Repertoire{}, phierr.New(phierr.DimensionMismatch, "purview %s needs %d entries, got %d", r.Purview, r.Size(), len(r.Dist))
	}
	out := Repertoire{Purview: keep, Direction: r.Direction, Dist: make([]float64, 1<<uint(keep.Len()))}
	for idx, p := range r.Dist {
		cfg := r.Purview.Spread(uint32(idx))
		out.Dist[keep.Gather(cfg)] += p
	}
	if err := Validate(out); err != nil {
		return Repertoire{}, err
	}
	return out, nil
}

// #endregion marginalize

// #region product
// Product returns the independent joint of a and b over the union of their purviews.
// The result must carry unit mass.
func Product(a, b Repertoire) (Repertoire, error) {
	if a.Purview.Overlaps(b.Purview) {
		return Repertoire{}, phierr.New(phierr.Incompatible, "purviews %s and %s overlap", a.Purview, b.Purview)
	}
	if a.Direction != b.Direction {
		return Repertoire{}, phierr.New(phierr.Incompatible, "cannot combine %s with %s repertoire", a.Direction, b.Direction)
	}
	for _, r := range []Repertoire{a, b} {
		if len(r.Dist) != r.Size() {
			return Repertoire{}, phierr.New(phierr.DimensionMismatch, "purview %s needs %d entries, got %d", r.Purview, r.Size(), len(r.Dist))
		}
	}
	union := a.Purview.Union(b.Purview)
	out := Repertoire{Purview: union, Direction: a.Direction, Dist: make([]float64, 1<<uint(union.Len()))}
	for idx := range out.Dist {
		cfg := union.Spread(uint32(idx))
		p := a.Dist[a.Purview.Gather(cfg)] * b.Dist[b.Purview.Gather(cfg)]
		if p < Clamp {
			p = 0
		}
		out.Dist[idx] = p
	}
	if err := Validate(out); err != nil {
		return Repertoire{}, err
	}
	return out, nil
}

// #endregion product

// #region entropy
// Entropy returns the Shannon entropy in bits, with 0·log 0 = 0.
func Entropy(r Repertoire) float64 {
	h := 0.0
	for _, p := range r.Dist {
		if p > Clamp {
			h -= p * math.Log2(p)
		}
	}
	return h
}

// #endregion entropy
