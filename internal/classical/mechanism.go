package classical

import (
	"errors"
	"math"

	"github.com/danielpatrickdp/phi-engine/internal/distance"
	"github.com/danielpatrickdp/phi-engine/internal/partition"
	"github.com/danielpatrickdp/phi-engine/internal/phi"
	"github.com/danielpatrickdp/phi-engine/internal/phierr"
	"github.com/danielpatrickdp/phi-engine/internal/repertoire"
	"github.com/danielpatrickdp/phi-engine/internal/subset"
)

// #region types
// MechanismCut splits a mechanism and its purview into two independent halves.
type MechanismCut struct {
	MechanismA subset.Set
	PurviewA   subset.Set
	MechanismB subset.Set
	PurviewB   subset.Set
}

// Mice is the maximally irreducible cause or effect of a mechanism.
type Mice struct {
	Direction  repertoire.Direction
	Purview    subset.Set
	Repertoire repertoire.Repertoire
	Phi        float64
	MIP        *MechanismCut
}

// Concept ties a mechanism to its MICE in both directions.
type Concept struct {
	Mechanism subset.Set
	Cause     Mice
	Effect    Mice
	Phi       float64
}

// Reducible reports whether the concept carries no integrated information.
func (c Concept) Reducible() bool { return c.Phi <= 0 }

// #endregion types

// #region small-phi
// smallPhi returns the irreducibility of mech over purview in one direction: the
// EMD between the intact repertoire and the closest partitioned one. A cause
// repertoire with zero mass (the mechanism state is unreachable) scores 0.
func (v *view) smallPhi(dir repertoire.Direction, mech, purview subset.Set) (float64, *MechanismCut, repertoire.Repertoire, error) {
	whole, err := v.repertoire(dir, mech, purview)
	if errors.Is(err, phierr.ErrZeroMass) {
		return 0, nil, repertoire.Repertoire{Purview: purview, Direction: dir}, nil
	}
	if err != nil {
		return 0, nil, repertoire.Repertoire{}, err
	}

	mechElems := mech.Elements()
	purvElems := purview.Elements()
	k := len(mechElems) + len(purvElems)
	split := func(part subset.Set) (subset.Set, subset.Set) {
		var m, p subset.Set
		for _, idx := range part.Elements() {
			if idx < len(mechElems) {
				m |= subset.Of(mechElems[idx])
			} else {
				p |= subset.Of(purvElems[idx-len(mechElems)])
			}
		}
		return m, p
	}

	best := math.Inf(1)
	var mip *MechanismCut
	for _, bp := range partition.OfSize(k, partition.Bidirectional) {
		mA, pA := split(bp.A)
		mB, pB := split(bp.B)
		ra, err := v.repertoire(dir, mA, pA)
		if err != nil {
			return 0, nil, repertoire.Repertoire{}, err
		}
		rb, err := v.repertoire(dir, mB, pB)
		if err != nil {
			return 0, nil, repertoire.Repertoire{}, err
		}
		joined, err := repertoire.Product(ra, rb)
		if err != nil {
			return 0, nil, repertoire.Repertoire{}, err
		}
		d, err := distance.EMDGreedy(whole.Dist, joined.Dist)
		if err != nil {
			return 0, nil, repertoire.Repertoire{}, err
		}
		if d < best-phi.TieTolerance {
			best = d
			mip = &MechanismCut{MechanismA: mA, PurviewA: pA, MechanismB: mB, PurviewB: pB}
			if best <= phi.TieTolerance {
				break
			}
		}
	}
	if mip == nil {
		return 0, nil, whole, nil
	}
	if best < phi.TieTolerance {
		best = 0
	}
	return best, mip, whole, nil
}

// SmallPhi returns φ of mech over purview in one direction on the intact system.
func (s *System) SmallPhi(dir repertoire.Direction, mech, purview subset.Set) (float64, error) {
	if err := s.checkSets(mech, purview); err != nil {
		return 0, err
	}
	if mech.Empty() || purview.Empty() {
		return 0, nil
	}
	v, _, _, err := s.intact().smallPhi(dir, mech, purview)
	return v, err
}

// #endregion small-phi

// #region mice
// reach returns the elements a mechanism can constrain in the given direction.
func (v *view) reach(dir repertoire.Direction, mech subset.Set) subset.Set {
	var out subset.Set
	if dir == repertoire.Effect {
		for j, in := range v.inputs {
			if in.Overlaps(mech) {
				out |= subset.Of(j)
			}
		}
		return out
	}
	for _, i := range mech.Elements() {
		out |= v.inputs[i]
	}
	return out
}

// mice picks the purview maximizing φ. Ties go to the larger purview, then the smaller mask.
func (v *view) mice(dir repertoire.Direction, mech subset.Set) (Mice, error) {
	best := Mice{Direction: dir, Repertoire: repertoire.Repertoire{Direction: dir, Dist: []float64{1}}}
	found := false
	for _, purview := range v.reach(dir, mech).Subsets() {
		val, cut, rep, err := v.smallPhi(dir, mech, purview)
		if err != nil {
			return Mice{}, err
		}
		better := !found ||
			val > best.Phi+phi.TieTolerance ||
			(math.Abs(val-best.Phi) <= phi.TieTolerance && purview.Len() > best.Purview.Len())
		if better {
			best = Mice{Direction: dir, Purview: purview, Repertoire: rep, Phi: val, MIP: cut}
			found = true
		}
	}
	return best, nil
}

// MICE returns the maximally irreducible cause or effect of mech.
func (s *System) MICE(dir repertoire.Direction, mech subset.Set) (Mice, error) {
	if err := s.checkSets(mech, 0); err != nil {
		return Mice{}, err
	}
	return s.intact().mice(dir, mech)
}

// #endregion mice

// #region concept
func (v *view) concept(mech subset.Set) (Concept, error) {
	c, err := v.mice(repertoire.Cause, mech)
	if err != nil {
		return Concept{}, err
	}
	e, err := v.mice(repertoire.Effect, mech)
	if err != nil {
		return Concept{}, err
	}
	return Concept{Mechanism: mech, Cause: c, Effect: e, Phi: math.Min(c.Phi, e.Phi)}, nil
}

// Concept evaluates mech on the intact system. The result may be reducible.
func (s *System) Concept(mech subset.Set) (Concept, error) {
	if mech.Empty() {
		return Concept{}, phierr.New(phierr.InvalidState, "empty mechanism")
	}
	if err := s.checkSets(mech, 0); err != nil {
		return Concept{}, err
	}
	return s.intact().concept(mech)
}

func (s *System) checkSets(sets ...subset.Set) error {
	full := subset.Full(s.n)
	for _, set := range sets {
		if !set.SubsetOf(full) {
			return phierr.New(phierr.InvalidState, "elements %s outside system of %d", set, s.n)
		}
	}
	return nil
}

// #endregion concept
