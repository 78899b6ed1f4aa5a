package classical

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/danielpatrickdp/phi-engine/internal/cache"
	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region system
// System bundles a TPM, the current binary state, the connectivity matrix and the
// query configuration. It owns the repertoire cache. Mutate only through the setters.
type System struct {
	n      int
	state  subset.Set
	tpm    TPM
	conn   [][]bool
	inputs []subset.Set
	cfg    phi.Config
	obs    phi.Observer
	cache  *cache.Repertoires
}

// Option customizes a System.
type Option func(*System)

// WithObserver routes engine events to o.
func WithObserver(o phi.Observer) Option {
	return func(s *System) {
		if o != nil {
			s.obs = o
		}
	}
}

// NewSystem validates its inputs and returns a System ready for queries.
func NewSystem(state []int, tpm TPM, conn [][]bool, cfg phi.Config, opts ...Option) (*System, error) {
	s := &System{tpm: tpm, n: tpm.N(), obs: phi.NopObserver{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.n < 1 {
		return nil, phierr.New(phierr.InvalidTPM, "tpm has no nodes")
	}
	if err := s.SetState(state); err != nil {
		return nil, err
	}
	if err := s.SetConnectivity(conn); err != nil {
		return nil, err
	}
	if err := s.SetConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// N returns the number of elements.
func (s *System) N() int { return s.n }

// State returns the current state as a 0/1 slice.
func (s *System) State() []int {
	out := make([]int, s.n)
	for i := range out {
		if s.state.Has(i) {
			out[i] = 1
		}
	}
	return out
}

// StateSet returns the current state as a set of active elements.
func (s *System) StateSet() subset.Set { return s.state }

// TPM returns the transition matrix.
func (s *System) TPM() TPM { return s.tpm }

// Config returns the active configuration.
func (s *System) Config() phi.Config { return s.cfg }

// Connectivity returns a copy of the connectivity matrix.
func (s *System) Connectivity() [][]bool {
	out := make([][]bool, s.n)
	for i := range out {
		out[i] = append([]bool(nil), s.conn[i]...)
	}
	return out
}

// #endregion system

// #region setters
// SetState replaces the current state.
func (s *System) SetState(state []int) error {
	if len(state) != s.n {
		return phierr.New(phierr.InvalidState, "state has %d entries, system has %d elements", len(state), s.n)
	}
	var set subset.Set
	for i, v := range state {
		switch v {
		case 0:
		case 1:
			set |= subset.Of(i)
		default:
			return phierr.New(phierr.InvalidState, "element %d has value %d", i, v)
		}
	}
	s.state = set
	return nil
}

// SetTPM replaces the transition matrix. The node count must not change.
func (s *System) SetTPM(tpm TPM) error {
	if tpm.N() != s.n {
		return phierr.New(phierr.DimensionMismatch, "tpm has %d nodes, system has %d", tpm.N(), s.n)
	}
	s.tpm = tpm
	return nil
}

// SetConnectivity replaces the connectivity matrix; conn[i][j] means i influences j.
func (s *System) SetConnectivity(conn [][]bool) error {
	if len(conn) != s.n {
		return phierr.New(phierr.InvalidConnectivity, "%d rows, want %d", len(conn), s.n)
	}
	inputs := make([]subset.Set, s.n)
	copied := make([][]bool, s.n)
	for i, row := range conn {
		if len(row) != s.n {
			return phierr.New(phierr.InvalidConnectivity, "row %d has %d columns, want %d", i, len(row), s.n)
		}
		copied[i] = append([]bool(nil), row...)
		for j, on := range row {
			if on {
				inputs[j] |= subset.Of(i)
			}
		}
	}
	s.conn = copied
	s.inputs = inputs
	return nil
}

// SetConfig validates cfg and resizes the repertoire cache.
func (s *System) SetConfig(cfg phi.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	c, err := cache.New(cfg.CacheSize, s.obs)
	if err != nil {
		return fmt.Errorf("repertoire cache: %w", err)
	}
	s.cfg = cfg
	s.cache = c
	return nil
}

// #endregion setters

// #region view
// view is the system as seen through a connectivity pattern, intact or cut.
type view struct {
	sys    *System
	inputs []subset.Set
	digest [32]byte
}

func (s *System) intact() *view {
	return s.newView(s.inputs)
}

// cut returns the view with every edge severed by p removed.
func (s *System) cut(p partition.Bipartition) *view {
	inputs := make([]subset.Set, s.n)
	for j := range inputs {
		for _, i := range s.inputs[j].Elements() {
			if !p.Severs(i, j) {
				inputs[j] |= subset.Of(i)
			}
		}
	}
	return s.newView(inputs)
}

func (s *System) newView(inputs []subset.Set) *view {
	h := s.tpm.digest(make([]byte, 0, 8*(len(s.tpm.p)+len(inputs)+1)))
	buf := make([]byte, 4)
	for _, in := range inputs {
		binary.LittleEndian.PutUint32(buf, uint32(in))
		h = append(h, buf...)
	}
	return &view{sys: s, inputs: inputs, digest: sha256.Sum256(h)}
}

// #endregion view
