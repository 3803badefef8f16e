package libgfan

import (
	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// Flip returns the reduced basis of the cone across facet fi of C, computing and caching it on first use.
// Flipping a facet that is not flippable is a programming error and panics.
//
// With p the facet's interior point and v its inner normal, the new order is (p, -v, lex).
// The reduced basis H of in_p(G) under the new order is lifted to I by h -> h - NF(h, G), with the
// normal form taken under (p, old order), and the lifts are interreduced.
func (S *Space) Flip(C *Cone, fi int) (*poly.Basis, error) {
	F := &C.facets[fi]
	if !F.flippable {
		panic(errors.Wrapf(gfan.ErrNotFlippable, "cone %d, facet normal %v", C.id, F.normal))
	}
	if F.flipBasis != nil {
		return F.flipBasis, nil
	}

	G := C.basis
	p := F.interiorPoint
	newOrder := poly.Lex(S.NumVars).Refine(F.normal.Neg()).Refine(p)
	wallOrder := G.Ctx.Order.Refine(p)

	H := poly.GroebnerBasis(G.InitialForms(p), newOrder)
	lifted := make([]*poly.Poly, len(H))
	for i, h := range H {
		lifted[i] = h.Sub(poly.Reduce(h, G.Polys, wallOrder))
	}

	B := poly.NewBasis(poly.Context{
		Ring:  G.Ctx.Ring,
		Order: newOrder,
	}, poly.Interreduce(lifted, newOrder))

	if S.CheckFlips {
		if err := verifyFlip(C, F, B); err != nil {
			return nil, err
		}
	}

	F.flipBasis = B
	return B, nil
}

// verifyFlip checks that B is a reduced basis of the same ideal as C's, and differs from it.
func verifyFlip(C *Cone, F *Facet, B *poly.Basis) error {
	fail := func(reason string) error {
		return &gfan.FlipError{
			ConeID: C.id,
			Normal: F.normal,
			Reason: reason,
		}
	}
	if B.Len() == 0 {
		return fail("empty basis")
	}
	if !B.IsReduced() {
		return fail("result is not reduced")
	}
	for _, g := range C.basis.Polys {
		if !B.Contains(g) {
			return fail("old generator does not reduce to zero")
		}
	}
	if B.Equal(C.basis) {
		return fail("basis did not change across the wall")
	}
	return nil
}
