package partition

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

func TestBipartitions_Counts(t *testing.T) {
	if got := len(OfSize(5, Bidirectional)); got != 15 {
		t.Fatalf("bidirectional: expected 15, got %d", got)
	}
	if got := len(OfSize(5, Unidirectional)); got != 30 {
		t.Fatalf("unidirectional: expected 30, got %d", got)
	}
	for n := 2; n <= 8; n++ {
		if len(OfSize(n, Bidirectional)) != Count(n, Bidirectional) {
			t.Fatalf("n=%d bidirectional count mismatch", n)
		}
		if len(OfSize(n, Unidirectional)) != Count(n, Unidirectional) {
			t.Fatalf("n=%d unidirectional count mismatch", n)
		}
	}
}

func TestBipartitions_TrivialSets(t *testing.T) {
	if OfSize(1, Bidirectional) != nil || OfSize(0, Unidirectional) != nil {
		t.Fatal("sets smaller than 2 have no bipartitions")
	}
}

func TestBipartitions_CanonicalOrder(t *testing.T) {
	parts := OfSize(3, Bidirectional)
	want := []subset.Set{subset.Of(0), subset.Of(0, 1), subset.Of(0, 2)}
	for i, p := range parts {
		if p.A != want[i] {
			t.Fatalf("partition %d: expected A=%s, got %s", i, want[i], p.A)
		}
		if err := p.Validate(subset.Full(3)); err != nil {
			t.Fatalf("partition %d invalid: %v", i, err)
		}
	}
}

func TestBipartitions_UnidirectionalPairs(t *testing.T) {
	parts := OfSize(2, Unidirectional)
	if len(parts) != 2 {
		t.Fatalf("expected 2, got %d", len(parts))
	}
	if parts[0].A != subset.Of(0) || parts[1].A != subset.Of(1) {
		t.Fatalf("unexpected order: %v", parts)
	}
}

func TestBipartitions_SparseSet(t *testing.T) {
	s := subset.Of(2, 5, 7)
	for _, p := range Bipartitions(s, Bidirectional) {
		if !p.A.Has(2) {
			t.Fatalf("canonical part must hold smallest element: %s", p)
		}
		if err := p.Validate(s); err != nil {
			t.Fatal(err)
		}
	}
}

func TestSevers(t *testing.T) {
	uni := Bipartition{A: subset.Of(0), B: subset.Of(1, 2), Kind: Unidirectional}
	if !uni.Severs(0, 1) || uni.Severs(1, 0) || uni.Severs(1, 2) {
		t.Fatal("unidirectional cut should sever only A→B edges")
	}
	bi := Bipartition{A: subset.Of(0), B: subset.Of(1, 2), Kind: Bidirectional}
	if !bi.Severs(0, 1) || !bi.Severs(2, 0) || bi.Severs(1, 2) {
		t.Fatal("bidirectional cut should sever both directions across parts")
	}
}

func TestCuts(t *testing.T) {
	conn := [][]bool{
		{false, true, true},
		{true, false, false},
		{false, false, false},
	}
	p := Bipartition{A: subset.Of(0), B: subset.Of(1, 2), Kind: Bidirectional}
	if got := p.Cuts(conn); got != 3 {
		t.Fatalf("expected 3 severed edges, got %d", got)
	}
}

func TestValidate_Errors(t *testing.T) {
	p := Bipartition{A: subset.Of(0), B: 0}
	if err := p.Validate(subset.Of(0)); !errors.Is(err, phierr.ErrInvalidPartition) {
		t.Fatalf("expected invalid partition, got %v", err)
	}
}

func TestKPartitions(t *testing.T) {
	// Stirling numbers of the second kind: S(4,2)=7, S(4,3)=6
	parts, err := KPartitions(subset.Full(4), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parts) != 7 {
		t.Fatalf("expected 7, got %d", len(parts))
	}
	three, _ := KPartitions(subset.Full(4), 3)
	if len(three) != 6 {
		t.Fatalf("expected 6, got %d", len(three))
	}
	for _, blocks := range three {
		var union subset.Set
		for _, b := range blocks {
			if b.Empty() || union.Overlaps(b) {
				t.Fatalf("bad blocks %v", blocks)
			}
			union |= b
		}
		if union != subset.Full(4) {
			t.Fatalf("blocks %v do not cover", blocks)
		}
	}
	if _, err := KPartitions(subset.Full(2), 3); !errors.Is(err, phierr.ErrInvalidPartition) {
		t.Fatalf("expected invalid partition, got %v", err)
	}
}

func TestParseCutKind(t *testing.T) {
	k, err := ParseCutKind("bidirectional")
	if err != nil || k != Bidirectional {
		t.Fatalf("unexpected: %v %v", k, err)
	}
	if _, err := ParseCutKind("sideways"); !errors.Is(err, phierr.ErrConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}
