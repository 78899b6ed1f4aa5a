package subset

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxElements is the largest element index a Set can hold plus one.
const MaxElements = 32

// #region set
// Set is a subset of element indices {0..31}, bit k set means element k is a member.
type Set uint32

// Full returns the set {0..n-1}.
func Full(n int) Set {
	if n <= 0 {
		return 0
	}
	if n >= MaxElements {
		return ^Set(0)
	}
	return Set(1)<<uint(n) - 1
}

// Of builds a set from element indices.
func Of(elems ...int) Set {
	var s Set
	for _, e := range elems {
		s |= 1 << uint(e)
	}
	return s
}

// Has reports whether element e is in the set.
func (s Set) Has(e int) bool {
	return e >= 0 && e < MaxElements && s&(1<<uint(e)) != 0
}

// Len returns the number of elements.
func (s Set) Len() int {
	return bits.OnesCount32(uint32(s))
}

// Empty reports whether the set has no elements.
func (s Set) Empty() bool {
	return s == 0
}

// Elements returns the members in ascending order.
func (s Set) Elements() []int {
	out := make([]int, 0, s.Len())
	for v := uint32(s); v != 0; v &= v - 1 {
		out = append(out, bits.TrailingZeros32(v))
	}
	return out
}

// Union returns s ∪ o.
func (s Set) Union(o Set) Set { return s | o }

// Intersect returns s ∩ o.
func (s Set) Intersect(o Set) Set { return s & o }

// Minus returns s \ o.
func (s Set) Minus(o Set) Set { return s &^ o }

// SubsetOf reports whether every member of s is in o.
func (s Set) SubsetOf(o Set) bool { return s&^o == 0 }

// Overlaps reports whether s and o share an element.
func (s Set) Overlaps(o Set) bool { return s&o != 0 }

// Position returns the rank of e among the members of s, or -1.
func (s Set) Position(e int) int {
	if !s.Has(e) {
		return -1
	}
	return bits.OnesCount32(uint32(s) & (1<<uint(e) - 1))
}

// String renders the set as "{0,2,3}".
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, e := range s.Elements() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(e))
	}
	b.WriteByte('}')
	return b.String()
}

// #endregion set

// #region enumeration
// Subsets returns every non-empty subset of s in ascending mask order.
func (s Set) Subsets() []Set {
	out := make([]Set, 0, 1<<uint(s.Len()))
	for sub := Set(0); ; {
		sub = (sub - s) & s
		if sub == 0 {
			break
		}
		out = append(out, sub)
	}
	return out
}

// Spread scatters the low bits of compact onto the members of s in ascending order.
func (s Set) Spread(compact uint32) Set {
	var out Set
	for i, e := range s.Elements() {
		if compact&(1<<uint(i)) != 0 {
			out |= 1 << uint(e)
		}
	}
	return out
}

// Gather packs the bits of x that fall on members of s into the low bits, ascending.
func (s Set) Gather(x Set) uint32 {
	var out uint32
	for i, e := range s.Elements() {
		if x.Has(e) {
			out |= 1 << uint(i)
		}
	}
	return out
}

// #endregion enumeration
