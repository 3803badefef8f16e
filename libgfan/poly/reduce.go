package poly

import (
	"math/big"
	"sort"

	"github.com/2x3systems/gfan/gfan"
)

// Reduce returns the normal form of f modulo G under o: no term of the result
// is divisible by the lead term of any element of G.
func Reduce(f *Poly, G []*Poly, o *Order) *Poly {
	leads := make([]Term, len(G))
	for i, g := range G {
		leads[i] = g.LeadTerm(o)
	}

	P := f
	var rem []Term
	for !P.IsZero() {
		lt := P.LeadTerm(o)
		divided := false
		for i, g := range G {
			if !leads[i].Exp.Divides(lt.Exp) {
				continue
			}
			q := new(big.Rat).Quo(lt.Coef, leads[i].Coef)
			P = P.Sub(g.MulTerm(q, lt.Exp.Sub(leads[i].Exp)))
			divided = true
			break
		}
		if !divided {
			rem = append(rem, lt)
			P = P.withoutTerm(lt.Exp)
		}
	}
	return NewPoly(rem...)
}

// SPoly returns the S-polynomial of f and g under o.
func SPoly(f, g *Poly, o *Order) *Poly {
	lf, lg := f.LeadTerm(o), g.LeadTerm(o)
	lcm := lcmExp(lf.Exp, lg.Exp)
	a := f.MulTerm(new(big.Rat).Inv(lf.Coef), lcm.Sub(lf.Exp))
	b := g.MulTerm(new(big.Rat).Inv(lg.Coef), lcm.Sub(lg.Exp))
	return a.Sub(b)
}

func lcmExp(a, b gfan.Vector) gfan.Vector {
	out := make(gfan.Vector, len(a))
	for i := range a {
		out[i] = max(a[i], b[i])
	}
	return out
}

func coprime(a, b gfan.Vector) bool {
	for i := range a {
		if a[i] != 0 && b[i] != 0 {
			return false
		}
	}
	return true
}

type critPair struct {
	i, j int
	lcm  gfan.Vector
}

// GroebnerBasis returns the reduced Gröbner basis of the ideal generated by gens under o (Buchberger).
func GroebnerBasis(gens []*Poly, o *Order) []*Poly {
	G := make([]*Poly, 0, len(gens))
	for _, g := range gens {
		if !g.IsZero() {
			G = append(G, g.Monic(o))
		}
	}
	if len(G) == 0 {
		return nil
	}

	var pairs []critPair
	addPairs := func(j int) {
		lj := G[j].LeadExp(o)
		for i := 0; i < j; i++ {
			li := G[i].LeadExp(o)
			if coprime(li, lj) {
				continue
			}
			pairs = append(pairs, critPair{i, j, lcmExp(li, lj)})
		}
	}
	for j := range G {
		addPairs(j)
	}

	for len(pairs) > 0 {

		// select the pair with the smallest lcm (normal selection strategy)
		best := 0
		for k := 1; k < len(pairs); k++ {
			if o.Compare(pairs[k].lcm, pairs[best].lcm) < 0 {
				best = k
			}
		}
		pr := pairs[best]
		pairs = append(pairs[:best], pairs[best+1:]...)

		S := SPoly(G[pr.i], G[pr.j], o)
		r := Reduce(S, G, o)
		if r.IsZero() {
			continue
		}
		G = append(G, r.Monic(o))
		addPairs(len(G) - 1)
	}

	return Interreduce(G, o)
}

// Interreduce turns a Gröbner basis into the reduced Gröbner basis: minimal, fully reduced, and monic.
// The result is sorted by descending lead term under o.
func Interreduce(G []*Poly, o *Order) []*Poly {
	basis := make([]*Poly, 0, len(G))
	for _, g := range G {
		if !g.IsZero() {
			basis = append(basis, g)
		}
	}
	sort.SliceStable(basis, func(i, j int) bool {
		return o.Compare(basis[i].LeadExp(o), basis[j].LeadExp(o)) < 0
	})

	// Drop elements whose lead is divisible by a smaller lead
	minimal := basis[:0]
	for _, g := range basis {
		lg := g.LeadExp(o)
		redundant := false
		for _, h := range minimal {
			if h.LeadExp(o).Divides(lg) {
				redundant = true
				break
			}
		}
		if !redundant {
			minimal = append(minimal, g)
		}
	}

	reduced := make([]*Poly, len(minimal))
	others := make([]*Poly, 0, len(minimal))
	for i, g := range minimal {
		others = others[:0]
		others = append(others, minimal[:i]...)
		others = append(others, minimal[i+1:]...)
		reduced[i] = Reduce(g, others, o).Monic(o)
	}

	sort.SliceStable(reduced, func(i, j int) bool {
		return o.Compare(reduced[i].LeadExp(o), reduced[j].LeadExp(o)) > 0
	})
	return reduced
}
