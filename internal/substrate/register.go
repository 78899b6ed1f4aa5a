package substrate

import (
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/quantum"
)

// Register is a qubit register under pure dephasing at rate Gamma per unit time.
type Register struct {
	rho   quantum.Density
	gamma float64
}

// NewRegister wraps rho; gamma must be non-negative.
func NewRegister(rho quantum.Density, gamma float64) (*Register, error) {
	if gamma < 0 || math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return nil, phierr.New(phierr.InvalidState, "dephasing rate %g", gamma)
	}
	return &Register{rho: rho, gamma: gamma}, nil
}

// Kind reports Quantum.
func (r *Register) Kind() Kind { return Quantum }

// NumUnits returns the qubit count.
func (r *Register) NumUnits() int { return r.rho.Qubits() }

// Density returns the current state.
func (r *Register) Density() quantum.Density { return r.rho }

// StateVector returns the computational-basis populations.
func (r *Register) StateVector() []float64 { return r.rho.Populations() }

// SetInput prepares the pure state with the given real amplitudes.
func (r *Register) SetInput(input []float64) error {
	if len(input) != r.rho.Dim() {
		return phierr.New(phierr.DimensionMismatch, "input has %d amplitudes, register dimension is %d", len(input), r.rho.Dim())
	}
	amps := make([]complex128, len(input))
	for i, v := range input {
		amps[i] = complex(v, 0)
	}
	rho, err := quantum.Pure(amps)
	if err != nil {
		return err
	}
	r.rho = rho
	return nil
}

// Evolve damps each qubit's coherences by exp(−Gamma·dt).
func (r *Register) Evolve(dt float64) error {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return phierr.New(phierr.InvalidState, "time step %g must be non-negative and finite", dt)
	}
	rho, err := quantum.Dephase(r.rho, math.Exp(-r.gamma*dt))
	if err != nil {
		return err
	}
	r.rho = rho
	return nil
}

// System builds a quantum system from the current state.
func (r *Register) System(cfg phi.Config, opts ...quantum.Option) (*quantum.System, error) {
	return quantum.NewSystem(r.rho, cfg, opts...)
}
