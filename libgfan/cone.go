package libgfan

import (
	"fmt"
	"io"
	"strings"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// Cone is a maximal cone of the Gröbner fan together with its reduced basis.
type Cone struct {
	id            int
	predID        int
	basis         *poly.Basis
	interiorPoint gfan.Vector
	rays          []gfan.Vector
	facets        []Facet
	parentFacet   int // index into facets, -1 for the root
	status        ConeStatus
}

// NewConeFromFlip builds the neighbour of C across facet fi and computes its facets.
// The returned cone has no ID until SetID is called.
func (S *Space) NewConeFromFlip(C *Cone, fi int) (*Cone, error) {
	B, err := S.Flip(C, fi)
	if err != nil {
		return nil, err
	}
	N := &Cone{
		id:          -1,
		predID:      C.id,
		basis:       B,
		parentFacet: -1,
	}
	if err = N.ComputeFacets(S); err != nil {
		return nil, err
	}
	return N, nil
}

func (C *Cone) ID() int                    { return C.id }
func (C *Cone) PredID() int                { return C.predID }
func (C *Cone) Basis() *poly.Basis         { return C.basis }
func (C *Cone) InteriorPoint() gfan.Vector { return C.interiorPoint }
func (C *Cone) Rays() []gfan.Vector        { return C.rays }
func (C *Cone) Status() ConeStatus         { return C.status }
func (C *Cone) NumFacets() int             { return len(C.facets) }
func (C *Cone) IsRoot() bool               { return C.predID < 0 }

// Facet returns the i-th facet of C.
func (C *Cone) Facet(i int) *Facet {
	return &C.facets[i]
}

// ParentFacet returns the facet leading to C's canonical parent, or nil for the root.
func (C *Cone) ParentFacet() *Facet {
	if C.parentFacet < 0 {
		return nil
	}
	return &C.facets[C.parentFacet]
}

// SetID assigns C's id, stamping it on each facet.
func (C *Cone) SetID(id int) {
	C.id = id
	for i := range C.facets {
		C.facets[i].ownerConeID = id
	}
}

func (C *Cone) SetStatus(status ConeStatus) {
	C.status = status
}

// IsChildOf returns true if C's canonical parent is P, reached across P's facet fi.
func (C *Cone) IsChildOf(P *Cone, fi int) bool {
	parent := C.ParentFacet()
	if parent == nil {
		return false
	}
	return SameWall(parent, &P.facets[fi])
}

// ExploreFacets returns the indices of the facets reverse search flips across from C.
func (C *Cone) ExploreFacets() []int {
	var out []int
	for i := range C.facets {
		if F := &C.facets[i]; F.flippable && !F.incoming {
			out = append(out, i)
		}
	}
	return out
}

func (C *Cone) FacetNormals() []gfan.Vector {
	normals := make([]gfan.Vector, len(C.facets))
	for i := range C.facets {
		normals[i] = C.facets[i].normal
	}
	return normals
}

func (C *Cone) Generators() []string {
	return C.basis.Strings()
}

// ReleaseFlips drops the cached flip results once C has been explored.
func (C *Cone) ReleaseFlips() {
	for i := range C.facets {
		C.facets[i].flipBasis = nil
	}
}

func (C *Cone) WriteAsString(out io.Writer, opts gfan.PrintOpts) {
	b := strings.Builder{}
	fmt.Fprintf(&b, "%d,%d,%v", C.id, C.predID, C.interiorPoint)
	if opts.Context {
		fmt.Fprintf(&b, ",%v", C.basis.Ctx.Order)
	}
	if opts.Basis {
		b.WriteString(",{")
		b.WriteString(strings.Join(C.Generators(), ", "))
		b.WriteString("}")
	}
	if opts.Rays {
		b.WriteString(",rays:")
		for _, r := range C.rays {
			b.WriteString(r.String())
		}
	}
	if opts.Facets {
		b.WriteString(",facets:")
		for i := range C.facets {
			F := &C.facets[i]
			b.WriteString(F.normal.String())
			switch {
			case i == C.parentFacet:
				b.WriteByte('^')
			case F.incoming:
				b.WriteByte('<')
			case F.flippable:
				b.WriteByte('*')
			}
		}
	}
	io.WriteString(out, b.String())
}
