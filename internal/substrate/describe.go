package substrate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/danielpatrickdp/phi-engine/internal/classical"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/quantum"
)

// TPM layouts accepted by ClassicalDescription.
const (
	StateByNode  = "state_by_node"
	StateByState = "state_by_state"
)

// #region classical-description
// ClassicalDescription is the wire form of a classical system: either a gate
// network in Nodes or an explicit TPM. Missing connectivity means fully connected.
type ClassicalDescription struct {
	Nodes        []Node      `json:"nodes,omitempty"`
	Noise        float64     `json:"noise,omitempty"`
	TPM          [][]float64 `json:"tpm,omitempty"`
	TPMFormat    string      `json:"tpm_format,omitempty"`
	Connectivity [][]int     `json:"connectivity,omitempty"`
	State        []int       `json:"state"`
}

// Build validates d and returns the corresponding system.
func (d ClassicalDescription) Build(cfg phi.Config, opts ...classical.Option) (*classical.System, error) {
	if len(d.Nodes) > 0 {
		if d.TPM != nil {
			return nil, phierr.New(phierr.InvalidTPM, "give either nodes or tpm, not both")
		}
		nw, err := NewNetwork(d.Nodes, d.Noise)
		if err != nil {
			return nil, err
		}
		if d.State != nil {
			in := make([]float64, len(d.State))
			for i, v := range d.State {
				in[i] = float64(v)
			}
			if err := nw.SetInput(in); err != nil {
				return nil, err
			}
		}
		return nw.System(cfg, opts...)
	}

	var (
		tpm classical.TPM
		err error
	)
	switch d.TPMFormat {
	case "", StateByNode:
		tpm, err = classical.NewTPM(d.TPM)
	case StateByState:
		tpm, err = classical.NewTPMFromStateByState(d.TPM)
	default:
		return nil, phierr.New(phierr.InvalidTPM, "unknown tpm_format %q", d.TPMFormat)
	}
	if err != nil {
		return nil, err
	}
	conn := classical.FullConnectivity(tpm.N())
	if d.Connectivity != nil {
		conn = make([][]bool, len(d.Connectivity))
		for i, row := range d.Connectivity {
			conn[i] = make([]bool, len(row))
			for j, v := range row {
				if v != 0 && v != 1 {
					return nil, phierr.New(phierr.InvalidConnectivity, "entry (%d,%d) is %d, want 0 or 1", i, j, v)
				}
				conn[i][j] = v == 1
			}
		}
	}
	return classical.NewSystem(d.State, tpm, conn, cfg, opts...)
}

// Digest identifies the described system.
func (d ClassicalDescription) Digest() string { return digest(d) }

// #endregion classical-description

// #region quantum-description
// QuantumDescription is the wire form of a density matrix as real and imaginary parts.
type QuantumDescription struct {
	Real [][]float64 `json:"real"`
	Imag [][]float64 `json:"imag,omitempty"`
}

// Density validates d as a density matrix.
func (d QuantumDescription) Density() (quantum.Density, error) {
	return quantum.NewDensityParts(d.Real, d.Imag)
}

// Build validates d and returns the corresponding system.
func (d QuantumDescription) Build(cfg phi.Config, opts ...quantum.Option) (*quantum.System, error) {
	rho, err := d.Density()
	if err != nil {
		return nil, err
	}
	return quantum.NewSystem(rho, cfg, opts...)
}

// Digest identifies the described system.
func (d QuantumDescription) Digest() string { return digest(d) }

// #endregion quantum-description

func digest(v any) string {
	b, _ := json.Marshal(v)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
