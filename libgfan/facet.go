package libgfan

import (
	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// Facet is a wall of its owning cone.
// Only ComputeFacets and Flip write to a Facet; everything else goes through the accessors.
type Facet struct {
	normal          gfan.Vector   // primitive inner normal
	canonicalNormal gfan.Vector   // normal modulo the lineality space
	interiorPoint   gfan.Vector   // relative interior point
	ridges          []gfan.Vector // interior points of the codim-2 faces, sorted
	codim           int
	numRays         int
	ownerConeID     int
	flippable       bool
	incoming        bool
	flipBasis       *poly.Basis // set once the facet has been flipped
}

func (F *Facet) Normal() gfan.Vector          { return F.normal }
func (F *Facet) CanonicalNormal() gfan.Vector { return F.canonicalNormal }
func (F *Facet) InteriorPoint() gfan.Vector   { return F.interiorPoint }
func (F *Facet) Ridges() []gfan.Vector        { return F.ridges }
func (F *Facet) Codim() int                   { return F.codim }
func (F *Facet) NumRays() int                 { return F.numRays }
func (F *Facet) OwnerConeID() int             { return F.ownerConeID }

// IsFlippable returns true if the far side of this wall meets the positive orthant.
func (F *Facet) IsFlippable() bool { return F.flippable }

// IsIncoming returns true if this wall faces the root cone.
func (F *Facet) IsIncoming() bool { return F.incoming }

// FlipBasis returns the cached basis on the far side, or nil if the facet has not been flipped.
func (F *Facet) FlipBasis() *poly.Basis { return F.flipBasis }

// SameWall returns true if f and g are the same wall seen from the two cones it separates.
func SameWall(f, g *Facet) bool {
	if !f.normal.Neg().Normalize().Equal(g.normal.Normalize()) {
		return false
	}
	if !f.interiorPoint.Equal(g.interiorPoint) {
		return false
	}
	if len(f.ridges) != len(g.ridges) {
		return false
	}
	for i, r := range f.ridges {
		if !r.Equal(g.ridges[i]) {
			return false
		}
	}
	return true
}
