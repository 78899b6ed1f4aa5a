package classical

import (
	"context"
	"errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region ces
// CES is the cause-effect structure: the irreducible concepts in ascending mechanism order.
type CES struct {
	Concepts []Concept
	SumPhi   float64
}

// mechanisms lists candidate mechanisms in ascending mask order, honoring the size cap.
func (s *System) mechanisms() []subset.Set {
	all := subset.Full(s.n).Subsets()
	if s.cfg.MaxMechanismSize <= 0 {
		return all
	}
	out := all[:0]
	for _, m := range all {
		if m.Len() <= s.cfg.MaxMechanismSize {
			out = append(out, m)
		}
	}
	return out
}

func (v *view) ces(ctx context.Context, mechs []subset.Set, cfg phi.Config) (CES, error) {
	concepts := make([]Concept, len(mechs))
	if cfg.Parallel && len(mechs) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, m := range mechs {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				c, err := v.concept(m)
				if err != nil {
					return err
				}
				concepts[i] = c
				return nil
			})
		}
		err := g.Wait()
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			return CES{}, contextErr(err)
		}
	} else {
		for i, m := range mechs {
			if err := ctx.Err(); err != nil {
				return CES{}, contextErr(err)
			}
			c, err := v.concept(m)
			if err != nil {
				return CES{}, err
			}
			concepts[i] = c
		}
	}

	out := CES{}
	for _, c := range concepts {
		if c.Phi > 0 && c.Phi >= cfg.MinConceptPhi {
			out.Concepts = append(out.Concepts, c)
			out.SumPhi += c.Phi
		}
	}
	return out, nil
}

// CauseEffectStructure computes every irreducible concept of the intact system.
func (s *System) CauseEffectStructure(ctx context.Context) (CES, error) {
	ctx, cancel := phi.WithBudget(ctx, s.cfg)
	defer cancel()
	return s.intact().ces(ctx, s.mechanisms(), s.cfg)
}

func contextErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return phierr.New(phierr.Timeout, "%v while identifying concepts", err)
	}
	return err
}

// #endregion ces

// #region queries
// Significant returns the concepts with φ at or above threshold.
func (c CES) Significant(threshold float64) []Concept {
	var out []Concept
	for _, con := range c.Concepts {
		if con.Phi >= threshold {
			out = append(out, con)
		}
	}
	return out
}

// BySize returns the concepts whose mechanism has k elements.
func (c CES) BySize(k int) []Concept {
	var out []Concept
	for _, con := range c.Concepts {
		if con.Mechanism.Len() == k {
			out = append(out, con)
		}
	}
	return out
}

// Containing returns the concepts whose mechanism includes element e.
func (c CES) Containing(e int) []Concept {
	var out []Concept
	for _, con := range c.Concepts {
		if con.Mechanism.Has(e) {
			out = append(out, con)
		}
	}
	return out
}

// Max returns the concept with the largest φ, the first on ties.
func (c CES) Max() (Concept, bool) {
	if len(c.Concepts) == 0 {
		return Concept{}, false
	}
	best := c.Concepts[0]
	for _, con := range c.Concepts[1:] {
		if con.Phi > best.Phi {
			best = con
		}
	}
	return best, true
}

// Core returns the k concepts with the largest φ, stable on ties.
func (c CES) Core(k int) []Concept {
	out := append([]Concept(nil), c.Concepts...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Phi > out[j].Phi })
	if k < len(out) {
		out = out[:k]
	}
	return out
}

// CompareStructures returns the Jaccard distance between the mechanism sets of a and b.
func CompareStructures(a, b CES) float64 {
	ma := make(map[subset.Set]bool, len(a.Concepts))
	for _, c := range a.Concepts {
		ma[c.Mechanism] = true
	}
	union := len(ma)
	shared := 0
	for _, c := range b.Concepts {
		if ma[c.Mechanism] {
			shared++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return 1 - float64(shared)/float64(union)
}

// #endregion queries

// #region qualia
// QualiaSpace summarizes the φ distribution of a cause-effect structure.
type QualiaSpace struct {
	NConcepts        int
	MeanPhi          float64
	StdPhi           float64
	MaxPhi           float64
	MinPhi           float64
	SizeDistribution map[int]int
}

// Qualia summarizes c. The standard deviation is the population one.
func (c CES) Qualia() QualiaSpace {
	q := QualiaSpace{NConcepts: len(c.Concepts), SizeDistribution: map[int]int{}}
	if len(c.Concepts) == 0 {
		return q
	}
	vals := make([]float64, len(c.Concepts))
	for i, con := range c.Concepts {
		vals[i] = con.Phi
		q.SizeDistribution[con.Mechanism.Len()]++
	}
	q.MeanPhi, q.StdPhi = stat.PopMeanStdDev(vals, nil)
	q.MaxPhi = floats.Max(vals)
	q.MinPhi = floats.Min(vals)
	return q
}

// QualiaSpace computes the cause-effect structure and summarizes it.
func (s *System) QualiaSpace(ctx context.Context) (QualiaSpace, error) {
	c, err := s.CauseEffectStructure(ctx)
	if err != nil {
		return QualiaSpace{}, err
	}
	return c.Qualia(), nil
}

// #endregion qualia
