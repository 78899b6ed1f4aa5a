// Package partition enumerates bipartitions and k-partitions of element sets.
package partition

import (
	"fmt"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region types
// CutKind selects how a bipartition severs causal influence.
type CutKind int

const (
	// Unidirectional cuts sever only A→B; (A,B) and (B,A) are distinct.
	Unidirectional CutKind = iota
	// Bidirectional cuts sever both directions; (A,B) ≡ (B,A).
	Bidirectional
)

func (k CutKind) String() string {
	if k == Bidirectional {
		return "bidirectional"
	}
	return "unidirectional"
}

// ParseCutKind maps a config string to a CutKind.
func ParseCutKind(s string) (CutKind, error) {
	switch s {
	case "unidirectional", "":
		return Unidirectional, nil
	case "bidirectional":
		return Bidirectional, nil
	}
	return 0, phierr.New(phierr.ConfigError, "unknown cut kind %q", s)
}

// Bipartition splits a set into two non-empty disjoint parts.
type Bipartition struct {
	A    subset.Set
	B    subset.Set
	Kind CutKind
}

func (p Bipartition) String() string {
	sep := "||"
	if p.Kind == Unidirectional {
		sep = "=>"
	}
	return fmt.Sprintf("%s %s %s", p.A, sep, p.B)
}

// Imbalance returns ||A|−|B||.
func (p Bipartition) Imbalance() int {
	d := p.A.Len() - p.B.Len()
	if d < 0 {
		return -d
	}
	return d
}

// #endregion types

// #region bipartitions
// Count returns how many bipartitions of a k-element set the kind enumerates.
func Count(k int, kind CutKind) int {
	if k < 2 {
		return 0
	}
	if kind == Bidirectional {
		return 1<<uint(k-1) - 1
	}
	return 1<<uint(k) - 2
}

// Bipartitions enumerates the bipartitions of s. The canonical part holds the
// smallest element of s and masks ascend lexicographically over the remaining
// elements; unidirectional enumeration emits (A,B) then (B,A) for each.
func Bipartitions(s subset.Set, kind CutKind) []Bipartition {
	elems := s.Elements()
	k := len(elems)
	if k < 2 {
		return nil
	}
	out := make([]Bipartition, 0, Count(k, kind))
	last := uint32(1)<<uint(k) - 1
	for mask := uint32(1); mask < last; mask += 2 {
		a := s.Spread(mask)
		b := s.Minus(a)
		out = append(out, Bipartition{A: a, B: b, Kind: kind})
		if kind == Unidirectional {
			out = append(out, Bipartition{A: b, B: a, Kind: kind})
		}
	}
	return out
}

// OfSize enumerates bipartitions of {0..n-1}.
func OfSize(n int, kind CutKind) []Bipartition {
	return Bipartitions(subset.Full(n), kind)
}

// #endregion bipartitions

// #region cuts
// Severs reports whether the cut removes the edge from element i to element j.
func (p Bipartition) Severs(i, j int) bool {
	if p.A.Has(i) && p.B.Has(j) {
		return true
	}
	return p.Kind == Bidirectional && p.B.Has(i) && p.A.Has(j)
}

// Cuts counts the existing edges of conn that the partition severs.
func (p Bipartition) Cuts(conn [][]bool) int {
	n := 0
	for i := range conn {
		for j := range conn[i] {
			if conn[i][j] && p.Severs(i, j) {
				n++
			}
		}
	}
	return n
}

// Validate checks that A and B are non-empty, disjoint and cover s.
func (p Bipartition) Validate(s subset.Set) error {
	if p.A.Empty() || p.B.Empty() {
		return phierr.New(phierr.InvalidPartition, "%s has an empty part", p)
	}
	if p.A.Overlaps(p.B) {
		return phierr.New(phierr.InvalidPartition, "%s parts overlap", p)
	}
	if p.A.Union(p.B) != s {
		return phierr.New(phierr.InvalidPartition, "%s does not cover %s", p, s)
	}
	return nil
}

// #endregion cuts

// #region k-partitions
// KPartitions enumerates every partition of s into exactly k non-empty blocks.
// Blocks are ordered by their smallest element.
func KPartitions(s subset.Set, k int) ([][]subset.Set, error) {
	elems := s.Elements()
	if k < 1 || k > len(elems) {
		return nil, phierr.New(phierr.InvalidPartition, "cannot split %d elements into %d blocks", len(elems), k)
	}
	var out [][]subset.Set
	labels := make([]int, len(elems))
	var walk func(i, used int)
	walk = func(i, used int) {
		if len(elems)-i < k-used {
			return
		}
		if i == len(elems) {
			if used != k {
				return
			}
			blocks := make([]subset.Set, k)
			for idx, l := range labels {
				blocks[l] |= subset.Of(elems[idx])
			}
			out = append(out, blocks)
			return
		}
		for l := 0; l < used && l < k; l++ {
			labels[i] = l
			walk(i+1, used)
		}
		if used < k {
			labels[i] = used
			walk(i+1, used+1)
		}
	}
	walk(0, 0)
	return out, nil
}

// #endregion k-partitions
