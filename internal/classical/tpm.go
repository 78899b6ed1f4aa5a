package classical

import (
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// MaxNodes bounds the size of a TPM the engine will materialize.
const MaxNodes = 20

const probTol = 1e-9

// #region tpm
// TPM holds state-by-node transition probabilities: Prob(s, j) is the chance
// node j is on at t+1 given the whole system is in state s at t. Bit k of s is node k.
type TPM struct {
	n int
	p []float64
}

// N returns the number of nodes.
func (t TPM) N() int { return t.n }

// Prob returns Pr(node j = 1 at t+1 | state s at t).
func (t TPM) Prob(s subset.Set, j int) float64 {
	return t.p[int(s)*t.n+j]
}

// Rows returns a state-by-node copy of the matrix.
func (t TPM) Rows() [][]float64 {
	rows := make([][]float64, 1<<uint(t.n))
	for s := range rows {
		rows[s] = append([]float64(nil), t.p[s*t.n:(s+1)*t.n]...)
	}
	return rows
}

func (t TPM) digest(h []byte) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(t.n))
	h = append(h, buf...)
	for _, v := range t.p {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		h = append(h, buf...)
	}
	return h
}

// Digest returns a SHA-256 over the matrix contents.
func (t TPM) Digest() [32]byte {
	return sha256.Sum256(t.digest(nil))
}

// #endregion tpm

// #region constructors
func nodesFor(states int) (int, error) {
	if states < 2 || states&(states-1) != 0 {
		return 0, phierr.New(phierr.InvalidTPM, "%d rows is not a power of two ≥ 2", states)
	}
	n := 0
	for 1<<uint(n) < states {
		n++
	}
	if n > MaxNodes {
		return 0, phierr.New(phierr.SystemTooLarge, "%d nodes exceeds %d", n, MaxNodes)
	}
	return n, nil
}

func checkProb(v float64, row, col int) error {
	if math.IsNaN(v) || v < -probTol || v > 1+probTol {
		return phierr.New(phierr.InvalidTPM, "entry (%d,%d) = %g outside [0,1]", row, col, v)
	}
	return nil
}

func clampProb(v float64) float64 {
	return math.Min(math.Max(v, 0), 1)
}

// NewTPM builds a TPM from 2^n state-by-node rows of n probabilities each.
func NewTPM(rows [][]float64) (TPM, error) {
	n, err := nodesFor(len(rows))
	if err != nil {
		return TPM{}, err
	}
	p := make([]float64, 0, len(rows)*n)
	for s, row := range rows {
		if len(row) != n {
			return TPM{}, phierr.New(phierr.InvalidTPM, "row %d has %d columns, want %d", s, len(row), n)
		}
		for j, v := range row {
			if err := checkProb(v, s, j); err != nil {
				return TPM{}, err
			}
			p = append(p, clampProb(v))
		}
	}
	return TPM{n: n, p: p}, nil
}

// NewTPMFromStateByState builds a TPM from a 2^n × 2^n matrix whose row s is the
// distribution over next states. Rows must sum to 1; node marginals are kept.
func NewTPMFromStateByState(rows [][]float64) (TPM, error) {
	n, err := nodesFor(len(rows))
	if err != nil {
		return TPM{}, err
	}
	size := len(rows)
	p := make([]float64, size*n)
	for s, row := range rows {
		if len(row) != size {
			return TPM{}, phierr.New(phierr.InvalidTPM, "row %d has %d columns, want %d", s, len(row), size)
		}
		sum := 0.0
		for next, v := range row {
			if err := checkProb(v, s, next); err != nil {
				return TPM{}, err
			}
			sum += v
			for j := 0; j < n; j++ {
				if next&(1<<uint(j)) != 0 {
					p[s*n+j] += v
				}
			}
		}
		if math.Abs(sum-1) > probTol {
			return TPM{}, phierr.New(phierr.InvalidTPM, "row %d sums to %.12f", s, sum)
		}
		for j := 0; j < n; j++ {
			p[s*n+j] = clampProb(p[s*n+j])
		}
	}
	return TPM{n: n, p: p}, nil
}

// NewTPMFromTensor builds a TPM from the flat 2n-axis tensor where entry
// past + future<<n is Pr(future | past). Each past slice must sum to 1.
func NewTPMFromTensor(n int, flat []float64) (TPM, error) {
	if n < 1 || n > MaxNodes {
		return TPM{}, phierr.New(phierr.InvalidTPM, "node count %d outside [1,%d]", n, MaxNodes)
	}
	size := 1 << uint(n)
	if len(flat) != size*size {
		return TPM{}, phierr.New(phierr.DimensionMismatch, "tensor has %d entries, want %d", len(flat), size*size)
	}
	rows := make([][]float64, size)
	for past := range rows {
		rows[past] = make([]float64, size)
		for future := 0; future < size; future++ {
			rows[past][future] = flat[past+future<<uint(n)]
		}
	}
	return NewTPMFromStateByState(rows)
}

// TPMFromFunc tabulates f(s, j) = Pr(node j on | state s) for every state.
func TPMFromFunc(n int, f func(s subset.Set, j int) float64) (TPM, error) {
	if n < 1 || n > MaxNodes {
		return TPM{}, phierr.New(phierr.InvalidTPM, "node count %d outside [1,%d]", n, MaxNodes)
	}
	size := 1 << uint(n)
	p := make([]float64, size*n)
	for s := 0; s < size; s++ {
		for j := 0; j < n; j++ {
			v := f(subset.Set(s), j)
			if err := checkProb(v, s, j); err != nil {
				return TPM{}, err
			}
			p[s*n+j] = clampProb(v)
		}
	}
	return TPM{n: n, p: p}, nil
}

// #endregion constructors

// #region connectivity
// FullConnectivity returns an n×n all-true matrix, self-loops included.
func FullConnectivity(n int) [][]bool {
	c := make([][]bool, n)
	for i := range c {
		c[i] = make([]bool, n)
		for j := range c[i] {
			c[i][j] = true
		}
	}
	return c
}

// EmptyConnectivity returns an n×n all-false matrix.
func EmptyConnectivity(n int) [][]bool {
	c := make([][]bool, n)
	for i := range c {
		c[i] = make([]bool, n)
	}
	return c
}

// #endregion connectivity
