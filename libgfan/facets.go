package libgfan

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/polytope"
)

// Inequalities returns a - b for the lead exponent a and every other exponent b of each basis element.
// The cone of C is {w >= 0 : u·w >= 0 for each returned u}.
func (C *Cone) Inequalities() []gfan.Vector {
	o := C.basis.Ctx.Order
	var ineqs []gfan.Vector
	for _, g := range C.basis.Polys {
		lead := g.LeadExp(o)
		for _, t := range g.Terms() {
			if t.Exp.Equal(lead) {
				continue
			}
			ineqs = append(ineqs, lead.Sub(t.Exp))
		}
	}
	return ineqs
}

// ComputeFacets derives C's rays, irredundant facets, and their ridges, then picks C's canonical parent facet.
func (C *Cone) ComputeFacets(S *Space) error {
	desc, err := polytope.Describe(C.Inequalities(), S.NumVars)
	if err != nil {
		var geomErr *gfan.GeometryError
		if errors.As(err, &geomErr) {
			geomErr.ConeID = C.id
		}
		return err
	}

	C.rays = desc.Rays
	C.interiorPoint = desc.InteriorPoint
	C.facets = make([]Facet, len(desc.Facets))
	C.parentFacet = -1

	for i, df := range desc.Facets {
		F := &C.facets[i]
		F.normal = df.Normal
		F.canonicalNormal = S.canonicalNormal(df.Normal)
		F.interiorPoint = df.InteriorPoint
		F.codim = 1
		F.numRays = int(df.Incidence.GetCardinality())
		F.ownerConeID = C.id
		F.flippable = df.InteriorPoint.IsPositive()
		F.incoming = S.RootOrder.Sign(df.Normal) < 0

		for _, r := range desc.Ridges(i) {
			F.ridges = append(F.ridges, r.InteriorPoint)
		}
		sort.Slice(F.ridges, func(a, b int) bool {
			return F.ridges[a].Compare(F.ridges[b]) < 0
		})

		if !F.incoming {
			continue
		}
		if !F.flippable {
			return errors.Wrapf(gfan.ErrCanonicalParent, "cone %d: incoming facet %v lies on the orthant boundary", C.id, F.normal)
		}
		if C.parentFacet < 0 || S.compareParent(F, &C.facets[C.parentFacet]) < 0 {
			C.parentFacet = i
		}
	}

	if C.IsRoot() != (C.parentFacet < 0) {
		if C.IsRoot() {
			return errors.Wrapf(gfan.ErrCanonicalParent, "root cone has incoming facet %v", C.facets[C.parentFacet].normal)
		}
		return errors.Wrapf(gfan.ErrCanonicalParent, "cone from %d has no incoming facet", C.predID)
	}

	C.status = ConeStatus_FacetsComputed
	return nil
}
