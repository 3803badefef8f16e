package polytope

import (
	"sort"

	"github.com/2x3systems/gfan/gfan"
)

// ExtremeRays returns the primitive extreme rays of {w >= 0 : a·w >= 0 for each a in ineqs} in R^n,
// sorted lexicographically.
//
// This is the double description method seeded with the orthant: each inequality in turn cuts the
// current ray set, keeping rays on its non-negative side and combining each (positive, negative) pair
// into a candidate on the hyperplane.  A candidate survives only if its tight constraints have rank n-1.
func ExtremeRays(ineqs []gfan.Vector, n int) []gfan.Vector {
	constraints := make([]gfan.Vector, 0, n+len(ineqs))
	rays := make([]gfan.Vector, 0, n)
	for i := 0; i < n; i++ {
		constraints = append(constraints, gfan.UnitVector(n, i))
		rays = append(rays, gfan.UnitVector(n, i))
	}

	for _, a := range ineqs {
		a = a.Normalize()
		if a.IsZero() {
			continue
		}
		constraints = append(constraints, a)

		var pos, neg []gfan.Vector
		next := make([]gfan.Vector, 0, len(rays))
		for _, r := range rays {
			d := a.Dot(r)
			switch {
			case d > 0:
				pos = append(pos, r)
				next = append(next, r)
			case d < 0:
				neg = append(neg, r)
			default:
				next = append(next, r)
			}
		}
		if len(neg) == 0 {
			continue
		}

		for _, p := range pos {
			ap := a.Dot(p)
			for _, q := range neg {
				aq := a.Dot(q)
				r := q.Scale(ap).Add(p.Scale(-aq)).Normalize()
				if containsVector(next, r) {
					continue
				}
				if isExtreme(r, constraints, n) {
					next = append(next, r)
				}
			}
		}
		rays = next
	}

	sort.Slice(rays, func(i, j int) bool {
		return rays[i].Compare(rays[j]) < 0
	})
	return rays
}

func isExtreme(r gfan.Vector, constraints []gfan.Vector, n int) bool {
	var tight []gfan.Vector
	for _, c := range constraints {
		if c.Dot(r) == 0 {
			tight = append(tight, c)
		}
	}
	return Rank(tight, n) == n-1
}

func containsVector(vecs []gfan.Vector, v gfan.Vector) bool {
	for _, vi := range vecs {
		if vi.Equal(v) {
			return true
		}
	}
	return false
}
