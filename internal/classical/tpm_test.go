package classical

import (
	"errors"
	"math"
	"testing"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

func TestNewTPM(t *testing.T) {
	tpm, err := NewTPM([][]float64{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpm.N() != 2 {
		t.Fatalf("expected 2 nodes, got %d", tpm.N())
	}
	if tpm.Prob(subset.Of(0), 1) != 1 || tpm.Prob(subset.Of(0), 0) != 0 {
		t.Fatal("unexpected probabilities")
	}
	rows := tpm.Rows()
	rows[0][0] = 0.9
	if tpm.Prob(0, 0) != 0 {
		t.Fatal("Rows must return a copy")
	}
}

func TestNewTPM_Invalid(t *testing.T) {
	if _, err := NewTPM([][]float64{{0}, {1}, {0}}); !errors.Is(err, phierr.ErrInvalidTPM) {
		t.Fatalf("expected invalid tpm for 3 rows, got %v", err)
	}
	if _, err := NewTPM([][]float64{{0, 1}, {1.5, 0}, {0, 0}, {1, 1}}); !errors.Is(err, phierr.ErrInvalidTPM) {
		t.Fatalf("expected invalid tpm for out-of-range entry, got %v", err)
	}
	if _, err := NewTPM([][]float64{{0}, {1, 0}}); !errors.Is(err, phierr.ErrInvalidTPM) {
		t.Fatalf("expected invalid tpm for ragged rows, got %v", err)
	}
}

func TestNewTPMFromStateByState(t *testing.T) {
	// state 0 -> uniform over next states; state 1 -> always next state 1
	tpm, err := NewTPMFromStateByState([][]float64{
		{0.5, 0.5},
		{0, 1},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpm.Prob(0, 0) != 0.5 || tpm.Prob(1, 0) != 1 {
		t.Fatalf("unexpected marginals %v", tpm.Rows())
	}

	_, err = NewTPMFromStateByState([][]float64{{0.5, 0.4}, {0, 1}})
	if !errors.Is(err, phierr.ErrInvalidTPM) {
		t.Fatalf("expected invalid tpm for row sum 0.9, got %v", err)
	}
}

func TestNewTPMFromTensor(t *testing.T) {
	// two nodes that swap: next = (x1, x0)
	n := 2
	flat := make([]float64, 16)
	for past := 0; past < 4; past++ {
		future := (past>>1)&1 | (past&1)<<1
		flat[past+future<<uint(n)] = 1
	}
	tpm, err := NewTPMFromTensor(n, flat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpm.Prob(subset.Of(0), 1) != 1 || tpm.Prob(subset.Of(0), 0) != 0 {
		t.Fatalf("unexpected swap marginals %v", tpm.Rows())
	}
	if _, err := NewTPMFromTensor(2, flat[:8]); !errors.Is(err, phierr.ErrDimensionMismatch) {
		t.Fatalf("expected dimension mismatch, got %v", err)
	}
}

func TestTPMFromFunc_RejectsBadProbability(t *testing.T) {
	_, err := TPMFromFunc(2, func(subset.Set, int) float64 { return math.NaN() })
	if !errors.Is(err, phierr.ErrInvalidTPM) {
		t.Fatalf("expected invalid tpm, got %v", err)
	}
}

func TestDigest_ChangesWithContents(t *testing.T) {
	a := majorityTPM(t, 3)
	b := rotationTPM(t, 3)
	if a.Digest() == b.Digest() {
		t.Fatal("different matrices share a digest")
	}
	if a.Digest() != majorityTPM(t, 3).Digest() {
		t.Fatal("digest not deterministic")
	}
}
