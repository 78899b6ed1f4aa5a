// Package substrate adapts physical systems to the Φ engine. A substrate owns
// its own dynamics and hands the engine a classical or quantum system to query.
package substrate

// #region kind
// Kind names the physics of a substrate.
type Kind int

const (
	Quantum Kind = iota
	Biological
	Hybrid
)

func (k Kind) String() string {
	switch k {
	case Quantum:
		return "quantum"
	case Biological:
		return "biological"
	case Hybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}

// #endregion kind

// #region interface
// Substrate is anything whose state can be read, driven and advanced in time.
type Substrate interface {
	Kind() Kind
	StateVector() []float64
	NumUnits() int
	Evolve(dt float64) error
	SetInput(input []float64) error
}

// #endregion interface
