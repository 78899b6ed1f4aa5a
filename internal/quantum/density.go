// Package quantum computes integrated information directly on density matrices.
// Qubit 0 is the most significant bit of a basis index. No binary state or
// transition matrix is ever read off a density matrix here.
package quantum

import (
	"math"
	"math/bits"
	"math/cmplx"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// Tolerance bounds Hermiticity, trace and eigenvalue sign checks.
const Tolerance = 1e-9

// #region density
// Density is a 2^n × 2^n Hermitian, positive semidefinite, trace-one matrix stored row-major.
type Density struct {
	n   int
	dim int
	m   []complex128
}

// Qubits returns n.
func (d Density) Qubits() int { return d.n }

// Dim returns 2^n.
func (d Density) Dim() int { return d.dim }

// At returns entry (i, j).
func (d Density) At(i, j int) complex128 { return d.m[i*d.dim+j] }

// Matrix returns a row-major copy as nested slices.
func (d Density) Matrix() [][]complex128 {
	out := make([][]complex128, d.dim)
	for i := range out {
		out[i] = append([]complex128(nil), d.m[i*d.dim:(i+1)*d.dim]...)
	}
	return out
}

// Trace returns the real part of the trace.
func (d Density) Trace() float64 {
	t := 0.0
	for i := 0; i < d.dim; i++ {
		t += real(d.m[i*d.dim+i])
	}
	return t
}

// #endregion density

// #region construct
// NewDensity validates rows as a density matrix.
func NewDensity(rows [][]complex128) (Density, error) {
	dim := len(rows)
	flat := make([]complex128, 0, dim*dim)
	for i, row := range rows {
		if len(row) != dim {
			return Density{}, phierr.New(phierr.DimensionMismatch, "row %d has %d columns, matrix is %d×%d", i, len(row), dim, dim)
		}
		flat = append(flat, row...)
	}
	return fromFlat(dim, flat)
}

// NewDensityParts builds a density matrix from separate real and imaginary parts.
func NewDensityParts(re, im [][]float64) (Density, error) {
	if im != nil && len(im) != len(re) {
		return Density{}, phierr.New(phierr.DimensionMismatch, "real part has %d rows, imaginary part %d", len(re), len(im))
	}
	rows := make([][]complex128, len(re))
	for i := range re {
		rows[i] = make([]complex128, len(re[i]))
		if im != nil && len(im[i]) != len(re[i]) {
			return Density{}, phierr.New(phierr.DimensionMismatch, "row %d: real part has %d columns, imaginary part %d", i, len(re[i]), len(im[i]))
		}
		for j := range re[i] {
			var y float64
			if im != nil {
				y = im[i][j]
			}
			rows[i][j] = complex(re[i][j], y)
		}
	}
	return NewDensity(rows)
}

func fromFlat(dim int, flat []complex128) (Density, error) {
	if dim < 2 || dim&(dim-1) != 0 {
		return Density{}, phierr.New(phierr.DimensionMismatch, "dimension %d is not a power of two ≥ 2", dim)
	}
	n := 0
	for 1<<uint(n) < dim {
		n++
	}
	if n > subset.MaxElements {
		return Density{}, phierr.New(phierr.SystemTooLarge, "%d qubits", n)
	}
	d := Density{n: n, dim: dim, m: flat}
	if err := d.validate(); err != nil {
		return Density{}, err
	}
	return d, nil
}

func (d Density) validate() error {
	if err := d.checkHermitian(); err != nil {
		return err
	}
	if tr := d.Trace(); math.Abs(tr-1) > Tolerance {
		return phierr.New(phierr.NumericalInstability, "trace %.12f, want 1", tr)
	}
	vals, err := d.Eigenvalues()
	if err != nil {
		return err
	}
	if vals[0] < -Tolerance {
		return phierr.New(phierr.NumericalInstability, "eigenvalue %.3e is negative", vals[0])
	}
	return nil
}

func (d Density) checkHermitian() error {
	for i := 0; i < d.dim; i++ {
		for j := i; j < d.dim; j++ {
			a, b := d.m[i*d.dim+j], d.m[j*d.dim+i]
			if e := cmplx.Abs(a - cmplx.Conj(b)); e > Tolerance {
				return phierr.New(phierr.NumericalInstability, "asymmetry %.3e at (%d,%d)", e, i, j)
			}
		}
	}
	return nil
}

// #endregion construct

// #region builders
// Pure returns |ψ⟩⟨ψ| for the normalized amplitude vector ψ.
func Pure(amplitudes []complex128) (Density, error) {
	norm := 0.0
	for _, a := range amplitudes {
		norm += real(a)*real(a) + imag(a)*imag(a)
	}
	if norm < 1e-24 {
		return Density{}, phierr.New(phierr.ZeroMass, "state vector has norm %g", math.Sqrt(norm))
	}
	scale := complex(1/math.Sqrt(norm), 0)
	dim := len(amplitudes)
	flat := make([]complex128, dim*dim)
	for i, a := range amplitudes {
		for j, b := range amplitudes {
			flat[i*dim+j] = a * scale * cmplx.Conj(b*scale)
		}
	}
	return fromFlat(dim, flat)
}

// Basis returns |k⟩⟨k| on n qubits.
func Basis(n, k int) (Density, error) {
	dim := 1 << uint(n)
	if k < 0 || k >= dim {
		return Density{}, phierr.New(phierr.InvalidState, "basis index %d outside [0,%d)", k, dim)
	}
	amps := make([]complex128, dim)
	amps[k] = 1
	return Pure(amps)
}

// Bell returns the maximally entangled two-qubit state (|00⟩+|11⟩)/√2.
func Bell() Density {
	d, _ := Pure([]complex128{1, 0, 0, 1})
	return d
}

// MaximallyMixed returns I/2^n.
func MaximallyMixed(n int) (Density, error) {
	dim := 1 << uint(n)
	flat := make([]complex128, dim*dim)
	for i := 0; i < dim; i++ {
		flat[i*dim+i] = complex(1/float64(dim), 0)
	}
	return fromFlat(dim, flat)
}

// Mix returns Σ w_k ρ_k. Weights must be non-negative and sum to 1.
func Mix(weights []float64, states ...Density) (Density, error) {
	if len(weights) != len(states) || len(states) == 0 {
		return Density{}, phierr.New(phierr.DimensionMismatch, "%d weights for %d states", len(weights), len(states))
	}
	dim := states[0].dim
	flat := make([]complex128, dim*dim)
	total := 0.0
	for k, st := range states {
		if st.dim != dim {
			return Density{}, phierr.New(phierr.DimensionMismatch, "state %d has dimension %d, want %d", k, st.dim, dim)
		}
		w := weights[k]
		if w < 0 {
			return Density{}, phierr.New(phierr.InvalidState, "weight %d is %g", k, w)
		}
		total += w
		for i, v := range st.m {
			flat[i] += complex(w, 0) * v
		}
	}
	if math.Abs(total-1) > Tolerance {
		return Density{}, phierr.New(phierr.InvalidState, "weights sum to %.12f", total)
	}
	return fromFlat(dim, flat)
}

// Tensor returns a ⊗ b; a's qubits come first.
func Tensor(a, b Density) (Density, error) {
	dim := a.dim * b.dim
	flat := make([]complex128, dim*dim)
	for i1 := 0; i1 < a.dim; i1++ {
		for j1 := 0; j1 < a.dim; j1++ {
			av := a.m[i1*a.dim+j1]
			if av == 0 {
				continue
			}
			for i2 := 0; i2 < b.dim; i2++ {
				for j2 := 0; j2 < b.dim; j2++ {
					flat[(i1*b.dim+i2)*dim+j1*b.dim+j2] = av * b.m[i2*b.dim+j2]
				}
			}
		}
	}
	return fromFlat(dim, flat)
}

// #endregion builders

// #region partial-trace
// bitOf returns the position of qubit q within an n-qubit basis index.
func bitOf(n, q int) uint { return uint(n - 1 - q) }

// PartialTrace traces out every qubit not in keep. Kept qubits retain their
// relative order in the reduced matrix.
func (d Density) PartialTrace(keep subset.Set) (Density, error) {
	full := subset.Full(d.n)
	if keep.Empty() || !keep.SubsetOf(full) {
		return Density{}, phierr.New(phierr.InvalidPartition, "cannot keep %s of %d qubits", keep, d.n)
	}
	kept := keep.Elements()
	traced := full.Minus(keep).Elements()
	rdim := 1 << uint(len(kept))
	tdim := 1 << uint(len(traced))

	compose := func(r, t int) int {
		idx := 0
		for i, q := range kept {
			if r&(1<<bitOf(len(kept), i)) != 0 {
				idx |= 1 << bitOf(d.n, q)
			}
		}
		for i, q := range traced {
			if t&(1<<bitOf(len(traced), i)) != 0 {
				idx |= 1 << bitOf(d.n, q)
			}
		}
		return idx
	}

	flat := make([]complex128, rdim*rdim)
	for r := 0; r < rdim; r++ {
		for c := 0; c < rdim; c++ {
			var sum complex128
			for t := 0; t < tdim; t++ {
				sum += d.m[compose(r, t)*d.dim+compose(c, t)]
			}
			flat[r*rdim+c] = sum
		}
	}
	out := Density{n: len(kept), dim: rdim, m: flat}
	if err := out.checkHermitian(); err != nil {
		return Density{}, err
	}
	if tr := out.Trace(); math.Abs(tr-1) > Tolerance {
		return Density{}, phierr.New(phierr.NumericalInstability, "reduced trace %.12f over %s", tr, keep)
	}
	return out, nil
}

// #endregion partial-trace

// #region channels
// Dephase damps every coherence ρ_ij by lambda^h, h the number of qubits on which
// i and j differ: independent phase damping of each qubit. lambda must lie in [0,1].
func Dephase(d Density, lambda float64) (Density, error) {
	if lambda < 0 || lambda > 1 || math.IsNaN(lambda) {
		return Density{}, phierr.New(phierr.InvalidState, "damping factor %g outside [0,1]", lambda)
	}
	flat := make([]complex128, len(d.m))
	for i := 0; i < d.dim; i++ {
		for j := 0; j < d.dim; j++ {
			h := bits.OnesCount(uint(i ^ j))
			flat[i*d.dim+j] = d.m[i*d.dim+j] * complex(math.Pow(lambda, float64(h)), 0)
		}
	}
	return fromFlat(d.dim, flat)
}

// Populations returns the diagonal of d.
func (d Density) Populations() []float64 {
	out := make([]float64, d.dim)
	for i := range out {
		out[i] = real(d.m[i*d.dim+i])
	}
	return out
}

// #endregion channels
