package distance

import (
	"errors"
	"math"
	"testing"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// #region l1-tests
func TestL1(t *testing.T) {
	d, err := L1([]float64{1, 0}, []float64{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(d, 1) {
		t.Fatalf("expected 1, got %f", d)
	}
}

func TestL1_ShapeMismatch(t *testing.T) {
	_, err := L1([]float64{1}, []float64{0.5, 0.5})
	if !errors.Is(err, phierr.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

// #endregion l1-tests

// #region kl-js-tests
func TestKL_InfiniteOnMissingSupport(t *testing.T) {
	d, _ := KL([]float64{0.5, 0.5}, []float64{1, 0})
	if !math.IsInf(d, 1) {
		t.Fatalf("expected +Inf, got %f", d)
	}
}

func TestKL_Value(t *testing.T) {
	d, _ := KL([]float64{1, 0}, []float64{0.5, 0.5})
	if !approx(d, 1) {
		t.Fatalf("expected 1 bit, got %f", d)
	}
}

func TestJS_SymmetricAndBounded(t *testing.T) {
	p := []float64{0.7, 0.1, 0.15, 0.05}
	q := []float64{0.05, 0.45, 0.2, 0.3}
	a, _ := JS(p, q)
	b, _ := JS(q, p)
	if a != b {
		t.Fatalf("JS not exactly symmetric: %v vs %v", a, b)
	}
	if a <= 0 || a > 1 {
		t.Fatalf("JS out of range: %f", a)
	}
	disjoint, _ := JS([]float64{1, 0}, []float64{0, 1})
	if !approx(disjoint, 1) {
		t.Fatalf("disjoint supports should give 1, got %f", disjoint)
	}
}

// #endregion kl-js-tests

// #region mi-tests
func TestMutualInformation(t *testing.T) {
	// perfectly correlated bits
	mi, err := MutualInformation([]float64{0.5, 0, 0, 0.5}, []float64{0.5, 0.5}, []float64{0.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !approx(mi, 1) {
		t.Fatalf("expected 1 bit, got %f", mi)
	}

	indep, _ := MutualInformation([]float64{0.25, 0.25, 0.25, 0.25}, []float64{0.5, 0.5}, []float64{0.5, 0.5})
	if !approx(indep, 0) {
		t.Fatalf("expected 0, got %f", indep)
	}
}

func TestMutualInformation_Shape(t *testing.T) {
	_, err := MutualInformation([]float64{1, 0, 0}, []float64{0.5, 0.5}, []float64{0.5, 0.5})
	if !errors.Is(err, phierr.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

// #endregion mi-tests

// #region emd-tests
func TestEMDGreedy_Identity(t *testing.T) {
	p := []float64{0.1, 0.2, 0.3, 0.4}
	d, err := EMDGreedy(p, p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 0 {
		t.Fatalf("expected 0, got %f", d)
	}
}

func TestEMDGreedy_OppositeCorners(t *testing.T) {
	// 00 -> 11 costs 2 bits per unit
	d, _ := EMDGreedy([]float64{1, 0, 0, 0}, []float64{0, 0, 0, 1})
	if !approx(d, 2) {
		t.Fatalf("expected 2, got %f", d)
	}
}

func TestEMDGreedy_Symmetric(t *testing.T) {
	p := []float64{0.4, 0.1, 0.1, 0.4, 0, 0, 0, 0}
	q := []float64{0, 0.25, 0.25, 0, 0.2, 0.1, 0.1, 0.1}
	a, _ := EMDGreedy(p, q)
	b, _ := EMDGreedy(q, p)
	if a != b {
		t.Fatalf("EMD not exactly symmetric: %v vs %v", a, b)
	}
	l1, _ := L1(p, q)
	if a < l1-1e-12 {
		t.Fatalf("EMD %f below its L1 lower bound %f", a, l1)
	}
}

func TestEMDGreedy_MassMismatch(t *testing.T) {
	_, err := EMDGreedy([]float64{1, 0}, []float64{0.5, 0})
	if !errors.Is(err, phierr.ErrEMD) {
		t.Fatalf("expected emd error, got %v", err)
	}
}

func TestEMDGreedy_NotCube(t *testing.T) {
	_, err := EMDGreedy([]float64{0.5, 0.25, 0.25}, []float64{0.5, 0.25, 0.25})
	if !errors.Is(err, phierr.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

func TestEMD_PurviewMismatch(t *testing.T) {
	a := repertoire.Uniform(subset.Of(0), repertoire.Effect)
	b := repertoire.Uniform(subset.Of(1), repertoire.Effect)
	if _, err := EMD(a, b); !errors.Is(err, phierr.ErrIncompatible) {
		t.Fatalf("expected incompatible, got %v", err)
	}
}

// #endregion emd-tests

func TestHamming(t *testing.T) {
	if Hamming(0b101, 0b010) != 3 || Hamming(7, 7) != 0 {
		t.Fatal("unexpected hamming distance")
	}
}

func TestEffectiveInformation(t *testing.T) {
	r := repertoire.Repertoire{Purview: subset.Of(0, 1), Direction: repertoire.Effect, Dist: []float64{0, 0, 0, 1}}
	if ei := EffectiveInformation(r); !approx(ei, 2) {
		t.Fatalf("expected 2 bits, got %f", ei)
	}
	if ei := EffectiveInformation(repertoire.Uniform(subset.Of(0, 1), repertoire.Effect)); !approx(ei, 0) {
		t.Fatalf("expected 0 for uniform, got %f", ei)
	}
}
