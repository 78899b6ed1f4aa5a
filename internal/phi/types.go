package phi

import (
	"time"

	"github.com/danielpatrickdp/phi-engine/internal/partition"
)

// #region method
// Method names how a Φ value was obtained.
type Method string

const (
	Exact     Method = "exact"
	Geometric Method = "geometric"
	Spectral  Method = "spectral"
	MeanField Method = "mean_field"
	Tau       Method = "tau"
	Quantum   Method = "quantum"
)

// IsApproximation reports whether m is one of the classical fallbacks.
func (m Method) IsApproximation() bool {
	switch m {
	case Geometric, Spectral, MeanField, Tau:
		return true
	}
	return false
}

// #endregion method

// #region result
// PartitionScore is the information lost by cutting along one partition.
type PartitionScore struct {
	Partition partition.Bipartition
	Phi       float64
}

// Result is the outcome of one Φ query, shared by the classical and quantum paths.
// Phi == 0 with a nil MIP signals a system with nothing to partition.
type Result struct {
	Phi             float64
	MIP             *partition.Bipartition
	Scores          []PartitionScore
	Method          Method
	PartitionsTried int
	Elapsed         time.Duration
}

// #endregion result

// #region observer
// Observer receives engine events. Implementations must be safe for concurrent use.
type Observer interface {
	PartitionEvaluated(method Method)
	QueryFinished(method Method, phi float64, elapsed time.Duration, err error)
	CacheLookup(hit bool)
}

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) PartitionEvaluated(Method) {}

func (NopObserver) QueryFinished(Method, float64, time.Duration, error) {}

func (NopObserver) CacheLookup(bool) {}

// #endregion observer
