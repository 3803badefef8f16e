package polytope

import (
	"github.com/2x3systems/gfan/gfan"
	"github.com/RoaringBitmap/roaring/v2"
)

// Description is the double description of a full-dimensional cone in the non-negative orthant.
type Description struct {
	Dim           int
	Rays          []gfan.Vector
	InteriorPoint gfan.Vector // sum of all rays
	Facets        []Facet
}

// Facet is a codimension-one face of a Description.
type Facet struct {
	Normal        gfan.Vector     // primitive inner normal
	Incidence     *roaring.Bitmap // indices into Description.Rays lying on this facet
	InteriorPoint gfan.Vector     // sum of incident rays
	Orthant       bool            // normal is a coordinate direction
	Source        int             // index of the defining inequality, or -1 for an orthant wall
}

// Ridge is a codimension-two face, named by the facet adjacent across it.
type Ridge struct {
	Neighbor      int
	Normal        gfan.Vector
	Incidence     *roaring.Bitmap
	InteriorPoint gfan.Vector
}

// Describe computes the rays and facets of {w >= 0 : a·w >= 0 for each a in ineqs}.
// If the cone is not full-dimensional, a *gfan.GeometryError is returned with ConeID set to -1.
func Describe(ineqs []gfan.Vector, n int) (*Description, error) {
	rays := ExtremeRays(ineqs, n)
	if rank := Rank(rays, n); rank < n {
		return nil, &gfan.GeometryError{ConeID: -1, Rank: rank, Dim: n}
	}

	desc := &Description{
		Dim:           n,
		Rays:          rays,
		InteriorPoint: sumOf(rays, nil, n),
	}

	type candidate struct {
		normal gfan.Vector
		source int
	}
	cands := make([]candidate, 0, n+len(ineqs))
	for i := 0; i < n; i++ {
		cands = append(cands, candidate{gfan.UnitVector(n, i), -1})
	}
	for i, a := range ineqs {
		cands = append(cands, candidate{a.Normalize(), i})
	}

	var seen []gfan.Vector
	for _, c := range cands {
		if c.normal.IsZero() || containsVector(seen, c.normal) {
			continue
		}
		seen = append(seen, c.normal)

		inc := roaring.New()
		var onFacet []gfan.Vector
		for ri, r := range rays {
			if c.normal.Dot(r) == 0 {
				inc.Add(uint32(ri))
				onFacet = append(onFacet, r)
			}
		}
		if Rank(onFacet, n) != n-1 {
			continue
		}
		desc.Facets = append(desc.Facets, Facet{
			Normal:        c.normal,
			Incidence:     inc,
			InteriorPoint: sumOf(rays, inc, n),
			Orthant:       isCoordinate(c.normal),
			Source:        c.source,
		})
	}
	return desc, nil
}

// Ridges returns the codimension-two faces of facet fi.
func (desc *Description) Ridges(fi int) []Ridge {
	F := desc.Facets[fi]
	var ridges []Ridge
	for j, other := range desc.Facets {
		if j == fi {
			continue
		}
		inter := roaring.And(F.Incidence, other.Incidence)
		if Rank(desc.raysOf(inter), desc.Dim) != desc.Dim-2 {
			continue
		}
		ridges = append(ridges, Ridge{
			Neighbor:      j,
			Normal:        other.Normal,
			Incidence:     inter,
			InteriorPoint: sumOf(desc.Rays, inter, desc.Dim),
		})
	}
	return ridges
}

// Contains returns true if w lies in the closed cone.
func (desc *Description) Contains(w gfan.Vector) bool {
	if !w.IsNonNegative() {
		return false
	}
	for _, f := range desc.Facets {
		if f.Normal.Dot(w) < 0 {
			return false
		}
	}
	return true
}

// ContainsInterior returns true if w lies strictly inside the cone.
func (desc *Description) ContainsInterior(w gfan.Vector) bool {
	for _, f := range desc.Facets {
		if f.Normal.Dot(w) <= 0 {
			return false
		}
	}
	return w.IsNonNegative()
}

func (desc *Description) raysOf(inc *roaring.Bitmap) []gfan.Vector {
	out := make([]gfan.Vector, 0, inc.GetCardinality())
	for _, ri := range inc.ToArray() {
		out = append(out, desc.Rays[ri])
	}
	return out
}

// sumOf sums the rays selected by inc, or all rays if inc is nil.
func sumOf(rays []gfan.Vector, inc *roaring.Bitmap, n int) gfan.Vector {
	sum := gfan.NewVector(n)
	for ri, r := range rays {
		if inc == nil || inc.Contains(uint32(ri)) {
			sum = sum.Add(r)
		}
	}
	return sum
}

func isCoordinate(v gfan.Vector) bool {
	nonzero := 0
	for _, vi := range v {
		if vi < 0 {
			return false
		}
		if vi != 0 {
			nonzero++
		}
	}
	return nonzero == 1
}
