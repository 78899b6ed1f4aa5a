package repertoire

import "github.com/danielpatrickdp/phi-engine/internal/subset"

// #region constants
const (
	// Clamp is the magnitude below which probabilities are treated as 0.
	Clamp = 1e-12
	// SumTolerance bounds how far a distribution's mass may drift from 1.
	SumTolerance = 1e-9
)

// #endregion constants

// #region direction
// Direction tags a repertoire as describing causes (past) or effects (future).
type Direction int

const (
	Cause Direction = iota
	Effect
)

func (d Direction) String() string {
	if d == Cause {
		return "cause"
	}
	return "effect"
}

// #endregion direction

// #region repertoire
// Repertoire is a distribution over the configurations of a purview.
// Bit k of a configuration index is the state of the k-th purview element in ascending order.
// The empty purview carries the scalar distribution [1].
type Repertoire struct {
	Purview   subset.Set
	Direction Direction
	Dist      []float64
}

// Size returns the number of configurations, 2^|purview|.
func (r Repertoire) Size() int {
	return 1 << uint(r.Purview.Len())
}

// Clone returns a deep copy.
func (r Repertoire) Clone() Repertoire {
	d := make([]float64, len(r.Dist))
	copy(d, r.Dist)
	return Repertoire{Purview: r.Purview, Direction: r.Direction, Dist: d}
}

// #endregion repertoire
