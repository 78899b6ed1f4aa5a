package substrate

import (
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/classical"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region gates
// Gate is the update rule of one node.
type Gate string

const (
	Majority Gate = "majority"
	And      Gate = "and"
	Or       Gate = "or"
	Xor      Gate = "xor"
	Copy     Gate = "copy"
	Not      Gate = "not"
)

func (g Gate) apply(on, total int) bool {
	switch g {
	case Majority:
		return 2*on > total
	case And:
		return on == total
	case Or:
		return on > 0
	case Xor:
		return on%2 == 1
	case Copy:
		return on == 1
	case Not:
		return on == 0
	}
	return false
}

func (g Gate) check(inputs int) error {
	switch g {
	case Copy, Not:
		if inputs != 1 {
			return phierr.New(phierr.InvalidConnectivity, "%s gate takes exactly 1 input, got %d", g, inputs)
		}
	case Majority, And, Or, Xor:
		if inputs < 1 {
			return phierr.New(phierr.InvalidConnectivity, "%s gate needs at least 1 input", g)
		}
	default:
		return phierr.New(phierr.InvalidTPM, "unknown gate %q", string(g))
	}
	return nil
}

// #endregion gates

// #region network
// Node is one unit of a Network: a gate reading the listed nodes.
type Node struct {
	Gate   Gate  `json:"gate" yaml:"gate"`
	Inputs []int `json:"inputs" yaml:"inputs"`
}

// Network is a synchronous boolean network. Each node takes its gate's output
// with probability 1−Noise and the opposite value with probability Noise.
type Network struct {
	nodes []Node
	noise float64
	state []int
}

// NewNetwork validates nodes and starts every node off.
func NewNetwork(nodes []Node, noise float64) (*Network, error) {
	n := len(nodes)
	if n < 1 || n > classical.MaxNodes {
		return nil, phierr.New(phierr.InvalidTPM, "network size %d outside [1,%d]", n, classical.MaxNodes)
	}
	if noise < 0 || noise > 0.5 || math.IsNaN(noise) {
		return nil, phierr.New(phierr.InvalidTPM, "noise %g outside [0,0.5]", noise)
	}
	for j, nd := range nodes {
		if err := nd.Gate.check(len(nd.Inputs)); err != nil {
			return nil, err
		}
		seen := subset.Set(0)
		for _, i := range nd.Inputs {
			if i < 0 || i >= n {
				return nil, phierr.New(phierr.InvalidConnectivity, "node %d reads missing node %d", j, i)
			}
			if seen.Has(i) {
				return nil, phierr.New(phierr.InvalidConnectivity, "node %d reads node %d twice", j, i)
			}
			seen |= subset.Of(i)
		}
	}
	cp := make([]Node, n)
	for j, nd := range nodes {
		cp[j] = Node{Gate: nd.Gate, Inputs: append([]int(nil), nd.Inputs...)}
	}
	return &Network{nodes: cp, noise: noise, state: make([]int, n)}, nil
}

// Kind reports Biological.
func (nw *Network) Kind() Kind { return Biological }

// NumUnits returns the node count.
func (nw *Network) NumUnits() int { return len(nw.nodes) }

// StateVector returns the current state as 0/1 values.
func (nw *Network) StateVector() []float64 {
	out := make([]float64, len(nw.state))
	for i, v := range nw.state {
		out[i] = float64(v)
	}
	return out
}

// SetInput clamps the network state; values ≥ 0.5 switch a node on.
func (nw *Network) SetInput(input []float64) error {
	if len(input) != len(nw.nodes) {
		return phierr.New(phierr.DimensionMismatch, "input has %d values for %d nodes", len(input), len(nw.nodes))
	}
	for i, v := range input {
		if math.IsNaN(v) {
			return phierr.New(phierr.InvalidState, "input %d is NaN", i)
		}
		nw.state[i] = 0
		if v >= 0.5 {
			nw.state[i] = 1
		}
	}
	return nil
}

// Evolve advances round(dt) synchronous steps, at least one. Each step takes
// the most probable next state.
func (nw *Network) Evolve(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return phierr.New(phierr.InvalidState, "time step %g must be positive and finite", dt)
	}
	steps := max(1, int(math.Round(dt)))
	for range steps {
		cur := nw.stateSet()
		next := make([]int, len(nw.nodes))
		for j := range nw.nodes {
			if nw.on(cur, j) >= 0.5 {
				next[j] = 1
			}
		}
		nw.state = next
	}
	return nil
}

func (nw *Network) stateSet() subset.Set {
	var s subset.Set
	for i, v := range nw.state {
		if v == 1 {
			s |= subset.Of(i)
		}
	}
	return s
}

// on returns Pr(node j on | s).
func (nw *Network) on(s subset.Set, j int) float64 {
	nd := nw.nodes[j]
	count := 0
	for _, i := range nd.Inputs {
		if s.Has(i) {
			count++
		}
	}
	if nd.Gate.apply(count, len(nd.Inputs)) {
		return 1 - nw.noise
	}
	return nw.noise
}

// #endregion network

// #region export
// TPM tabulates the network's state-by-node transition matrix.
func (nw *Network) TPM() (classical.TPM, error) {
	return classical.TPMFromFunc(len(nw.nodes), nw.on)
}

// Connectivity returns cm[i][j] = node j reads node i.
func (nw *Network) Connectivity() [][]bool {
	cm := classical.EmptyConnectivity(len(nw.nodes))
	for j, nd := range nw.nodes {
		for _, i := range nd.Inputs {
			cm[i][j] = true
		}
	}
	return cm
}

// System builds a classical system at the current state.
func (nw *Network) System(cfg phi.Config, opts ...classical.Option) (*classical.System, error) {
	tpm, err := nw.TPM()
	if err != nil {
		return nil, err
	}
	return classical.NewSystem(append([]int(nil), nw.state...), tpm, nw.Connectivity(), cfg, opts...)
}

// #endregion export
