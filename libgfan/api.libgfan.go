package libgfan

import (
	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
	"github.com/2x3systems/gfan/libgfan/polytope"
)

// ConeStatus is where a cone is in its reverse-search lifecycle.
type ConeStatus int32

const (
	ConeStatus_Unvisited      ConeStatus = 0
	ConeStatus_FacetsComputed ConeStatus = 1
	ConeStatus_Exploring      ConeStatus = 2
	ConeStatus_Closed         ConeStatus = 3
	ConeStatus_Spilled        ConeStatus = 4
)

func (s ConeStatus) String() string {
	switch s {
	case ConeStatus_Unvisited:
		return "unvisited"
	case ConeStatus_FacetsComputed:
		return "facets-computed"
	case ConeStatus_Exploring:
		return "exploring"
	case ConeStatus_Closed:
		return "closed"
	case ConeStatus_Spilled:
		return "spilled"
	}
	return "unknown"
}

// Space is the part of the search state shared read-only by every cone of one enumeration.
type Space struct {
	Ring       *poly.Ring
	NumVars    int
	RootOrder  *poly.Order    // seed order; its symbolic weight vector lies inside the root cone
	Lineality  []gfan.Vector  // basis of the homogeneity space, shared by every cone
	Heuristic  gfan.Heuristic // canonical parent tie-break
	CheckFlips bool
}

// NewSpace validates I against opts and returns the space its fan lives in.
// The lineality space is filled in by NewSeedCone.
func NewSpace(I *poly.Ideal, opts gfan.EnumOpts) (*Space, error) {
	if I == nil || len(I.Gens) == 0 {
		return nil, gfan.ErrEmptyIdeal
	}
	if !opts.Heuristic.IsValid() {
		return nil, errors.Wrapf(gfan.ErrBadParam, "heuristic code %d", opts.Heuristic)
	}
	if hom := I.IsHomogeneous(); hom != opts.HomogeneousHint {
		return nil, errors.Wrapf(gfan.ErrHomogeneityHint, "hint is %v but ideal homogeneity is %v", opts.HomogeneousHint, hom)
	}

	n := I.Ring.NumVars()
	return &Space{
		Ring:       I.Ring,
		NumVars:    n,
		RootOrder:  poly.DegRevLex(n),
		Heuristic:  opts.Heuristic,
		CheckFlips: !opts.SkipFlipCheck,
	}, nil
}

// NewSeedCone computes the root cone of I: its reduced basis under the root order, the shared
// lineality space, and the root's facets.
func (S *Space) NewSeedCone(I *poly.Ideal) (*Cone, error) {
	B := poly.ReducedBasis(I, S.RootOrder)

	var diffs []gfan.Vector
	for _, g := range B.Polys {
		exps := g.Exponents()
		for _, e := range exps[1:] {
			diffs = append(diffs, exps[0].Sub(e))
		}
	}
	S.Lineality = polytope.Kernel(diffs, S.NumVars)

	C := &Cone{
		id:          0,
		predID:      -1,
		basis:       B,
		parentFacet: -1,
	}
	if err := C.ComputeFacets(S); err != nil {
		return nil, err
	}
	return C, nil
}

// canonicalNormal returns v modulo the lineality space.
func (S *Space) canonicalNormal(v gfan.Vector) gfan.Vector {
	if len(S.Lineality) == 0 {
		return v.Normalize()
	}
	return polytope.Project(v, S.Lineality)
}

// compareParent is the total order on incoming facets used to pick a cone's canonical parent.
func (S *Space) compareParent(f, g *Facet) int {
	var c int
	switch S.Heuristic {
	case gfan.Heuristic_DepthFirst:
		c = g.canonicalNormal.Compare(f.canonicalNormal)
	case gfan.Heuristic_SteepestEdge:
		c = S.RootOrder.Compare(f.canonicalNormal, g.canonicalNormal)
	default:
		c = f.canonicalNormal.Compare(g.canonicalNormal)
	}
	if c == 0 {
		c = f.normal.Compare(g.normal)
	}
	return c
}
