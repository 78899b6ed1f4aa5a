package classical

import (
	"github.com/danielpatrickdp/phi-engine/internal/cache"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region activation
// activation returns Pr(node j on at t+1) with the inputs of j that lie in fixed
// clamped to their bits in x and every other element averaged uniformly.
func (v *view) activation(j int, fixed, x subset.Set) float64 {
	fixed = fixed.Intersect(v.inputs[j])
	free := subset.Full(v.sys.n).Minus(fixed)
	base := x.Intersect(fixed)
	count := 1 << uint(free.Len())
	sum := 0.0
	for c := 0; c < count; c++ {
		sum += v.sys.tpm.Prob(base|free.Spread(uint32(c)), j)
	}
	return sum / float64(count)
}

// #endregion activation

// #region effect
// effect returns Pr(z_P | s_M): each purview node independently, with the
// mechanism clamped to the current state and everything else noised.
func (v *view) effect(mech, purview subset.Set) repertoire.Repertoire {
	elems := purview.Elements()
	q := make([]float64, len(elems))
	for k, j := range elems {
		q[k] = v.activation(j, mech, v.sys.state)
	}
	dist := make([]float64, 1<<uint(len(elems)))
	for idx := range dist {
		p := 1.0
		for k := range elems {
			if idx&(1<<uint(k)) != 0 {
				p *= q[k]
			} else {
				p *= 1 - q[k]
			}
		}
		if p < repertoire.Clamp {
			p = 0
		}
		dist[idx] = p
	}
	return repertoire.Repertoire{Purview: purview, Direction: repertoire.Effect, Dist: dist}
}

// #endregion effect

// #region cause
// cause returns Pr(z_P | s_M) by Bayes with a uniform prior on z_P: the
// likelihood of each mechanism node's current state given the purview, normalized.
func (v *view) cause(mech, purview subset.Set) (repertoire.Repertoire, error) {
	elems := mech.Elements()
	dist := make([]float64, 1<<uint(purview.Len()))
	for idx := range dist {
		z := purview.Spread(uint32(idx))
		p := 1.0
		for _, i := range elems {
			a := v.activation(i, purview, z)
			if v.sys.state.Has(i) {
				p *= a
			} else {
				p *= 1 - a
			}
		}
		dist[idx] = p
	}
	return repertoire.Normalize(repertoire.Repertoire{Purview: purview, Direction: repertoire.Cause, Dist: dist})
}

// #endregion cause

// #region cached
// repertoire returns the cached cause or effect repertoire of mech over purview.
func (v *view) repertoire(dir repertoire.Direction, mech, purview subset.Set) (repertoire.Repertoire, error) {
	key := cache.Key{
		Mechanism: mech,
		Purview:   purview,
		Direction: dir,
		State:     uint32(v.sys.state.Intersect(mech)),
		Digest:    v.digest,
	}
	return v.sys.cache.Get(key, func() (repertoire.Repertoire, error) {
		if dir == repertoire.Effect {
			return v.effect(mech, purview), nil
		}
		return v.cause(mech, purview)
	})
}

// CauseRepertoire returns Pr(purview at t−1 | mechanism state at t) on the intact system.
func (s *System) CauseRepertoire(mech, purview subset.Set) (repertoire.Repertoire, error) {
	if err := s.checkSets(mech, purview); err != nil {
		return repertoire.Repertoire{}, err
	}
	return s.intact().repertoire(repertoire.Cause, mech, purview)
}

// EffectRepertoire returns Pr(purview at t+1 | mechanism state at t) on the intact system.
func (s *System) EffectRepertoire(mech, purview subset.Set) (repertoire.Repertoire, error) {
	if err := s.checkSets(mech, purview); err != nil {
		return repertoire.Repertoire{}, err
	}
	return s.intact().repertoire(repertoire.Effect, mech, purview)
}

// #endregion cached
