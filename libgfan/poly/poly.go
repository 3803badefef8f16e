package poly

import (
	"math/big"
	"sort"
	"strings"

	"github.com/2x3systems/gfan/gfan"
)

var oneRat = big.NewRat(1, 1)

// Term is a rational coefficient times a monomial.
type Term struct {
	Coef *big.Rat
	Exp  gfan.Vector
}

// Poly is a polynomial with rational coefficients.
//
// Terms are kept in descending lexicographic order of exponent with no zero coefficients,
// so two equal polynomials always have identical term lists.
// A Poly is immutable once constructed.
type Poly struct {
	terms []Term
}

// NewPoly returns the sum of the given terms.
func NewPoly(terms ...Term) *Poly {
	P := &Poly{
		terms: make([]Term, 0, len(terms)),
	}
	for _, t := range terms {
		if t.Coef == nil || t.Coef.Sign() == 0 {
			continue
		}
		P.terms = append(P.terms, Term{
			Coef: new(big.Rat).Set(t.Coef),
			Exp:  t.Exp.Clone(),
		})
	}
	sort.Slice(P.terms, func(i, j int) bool {
		return P.terms[i].Exp.Compare(P.terms[j].Exp) > 0
	})

	// merge like terms
	merged := P.terms[:0]
	for _, t := range P.terms {
		if n := len(merged); n > 0 && merged[n-1].Exp.Equal(t.Exp) {
			merged[n-1].Coef.Add(merged[n-1].Coef, t.Coef)
			continue
		}
		merged = append(merged, t)
	}
	P.terms = merged[:0]
	for _, t := range merged {
		if t.Coef.Sign() != 0 {
			P.terms = append(P.terms, t)
		}
	}
	return P
}

// Monomial returns c * x^exp.
func Monomial(c *big.Rat, exp gfan.Vector) *Poly {
	return NewPoly(Term{Coef: c, Exp: exp})
}

func (P *Poly) IsZero() bool {
	return P == nil || len(P.terms) == 0
}

// Len returns the number of terms.
func (P *Poly) Len() int {
	return len(P.terms)
}

// Terms returns the terms of P. The caller must not modify them.
func (P *Poly) Terms() []Term {
	return P.terms
}

// NumVars returns the number of variables P is defined over (0 for the zero polynomial).
func (P *Poly) NumVars() int {
	if P.IsZero() {
		return 0
	}
	return len(P.terms[0].Exp)
}

// Exponents returns the exponent of every term.
func (P *Poly) Exponents() []gfan.Vector {
	exps := make([]gfan.Vector, len(P.terms))
	for i, t := range P.terms {
		exps[i] = t.Exp
	}
	return exps
}

// Coef returns the coefficient of x^exp in P.
func (P *Poly) Coef(exp gfan.Vector) *big.Rat {
	for _, t := range P.terms {
		if t.Exp.Equal(exp) {
			return new(big.Rat).Set(t.Coef)
		}
	}
	return new(big.Rat)
}

// LeadTerm returns the term of P that is largest under o.
func (P *Poly) LeadTerm(o *Order) Term {
	lead := 0
	for i := 1; i < len(P.terms); i++ {
		if o.Compare(P.terms[i].Exp, P.terms[lead].Exp) > 0 {
			lead = i
		}
	}
	return P.terms[lead]
}

// LeadExp returns the exponent of the lead term of P under o.
func (P *Poly) LeadExp(o *Order) gfan.Vector {
	return P.LeadTerm(o).Exp
}

func (P *Poly) combine(Q *Poly, sign int) *Poly {
	out := &Poly{
		terms: make([]Term, 0, len(P.terms)+len(Q.terms)),
	}
	i, j := 0, 0
	for i < len(P.terms) || j < len(Q.terms) {
		cmp := 0
		switch {
		case i == len(P.terms):
			cmp = -1
		case j == len(Q.terms):
			cmp = 1
		default:
			cmp = P.terms[i].Exp.Compare(Q.terms[j].Exp)
		}

		switch {
		case cmp > 0:
			out.terms = append(out.terms, P.terms[i])
			i++
		case cmp < 0:
			c := new(big.Rat).Set(Q.terms[j].Coef)
			if sign < 0 {
				c.Neg(c)
			}
			out.terms = append(out.terms, Term{Coef: c, Exp: Q.terms[j].Exp})
			j++
		default:
			c := new(big.Rat)
			if sign < 0 {
				c.Sub(P.terms[i].Coef, Q.terms[j].Coef)
			} else {
				c.Add(P.terms[i].Coef, Q.terms[j].Coef)
			}
			if c.Sign() != 0 {
				out.terms = append(out.terms, Term{Coef: c, Exp: P.terms[i].Exp})
			}
			i++
			j++
		}
	}
	return out
}

func (P *Poly) Add(Q *Poly) *Poly {
	return P.combine(Q, 1)
}

func (P *Poly) Sub(Q *Poly) *Poly {
	return P.combine(Q, -1)
}

// MulTerm returns c * x^exp * P.
func (P *Poly) MulTerm(c *big.Rat, exp gfan.Vector) *Poly {
	out := &Poly{
		terms: make([]Term, 0, len(P.terms)),
	}
	if c.Sign() == 0 {
		return out
	}
	for _, t := range P.terms {
		out.terms = append(out.terms, Term{
			Coef: new(big.Rat).Mul(c, t.Coef),
			Exp:  t.Exp.Add(exp),
		})
	}
	return out
}

func (P *Poly) Scale(c *big.Rat) *Poly {
	return P.MulTerm(c, gfan.NewVector(P.NumVars()))
}

// Monic scales P so its lead term under o has coefficient 1.
func (P *Poly) Monic(o *Order) *Poly {
	if P.IsZero() {
		return P
	}
	lc := P.LeadTerm(o).Coef
	if lc.Cmp(oneRat) == 0 {
		return P
	}
	return P.Scale(new(big.Rat).Inv(lc))
}

// withoutTerm returns P less its term with the given exponent.
func (P *Poly) withoutTerm(exp gfan.Vector) *Poly {
	out := &Poly{
		terms: make([]Term, 0, len(P.terms)),
	}
	for _, t := range P.terms {
		if !t.Exp.Equal(exp) {
			out.terms = append(out.terms, t)
		}
	}
	return out
}

// InitialForm returns the sum of the terms of P of maximal w-weight.
func (P *Poly) InitialForm(w gfan.Vector) *Poly {
	out := &Poly{}
	if P.IsZero() {
		return out
	}
	maxWt := w.Dot(P.terms[0].Exp)
	for _, t := range P.terms[1:] {
		if wt := w.Dot(t.Exp); wt > maxWt {
			maxWt = wt
		}
	}
	for _, t := range P.terms {
		if w.Dot(t.Exp) == maxWt {
			out.terms = append(out.terms, t)
		}
	}
	return out
}

// IsHomogeneous returns true if every term of P has the same total degree.
func (P *Poly) IsHomogeneous() bool {
	return P.IsWeightHomogeneous(nil)
}

// IsWeightHomogeneous returns true if every term of P has the same w-weight (total degree if w is nil).
func (P *Poly) IsWeightHomogeneous(w gfan.Vector) bool {
	if P.IsZero() {
		return true
	}
	weight := func(exp gfan.Vector) int64 {
		if w == nil {
			sum := int64(0)
			for _, ei := range exp {
				sum += ei
			}
			return sum
		}
		return w.Dot(exp)
	}
	wt := weight(P.terms[0].Exp)
	for _, t := range P.terms[1:] {
		if weight(t.Exp) != wt {
			return false
		}
	}
	return true
}

func (P *Poly) Equal(Q *Poly) bool {
	if len(P.terms) != len(Q.terms) {
		return false
	}
	for i, t := range P.terms {
		if !t.Exp.Equal(Q.terms[i].Exp) || t.Coef.Cmp(Q.terms[i].Coef) != 0 {
			return false
		}
	}
	return true
}

// String prints P with the given variable names, most significant term (under o) first.
// If o is nil, terms are printed in lexicographic order.
func (P *Poly) String(vars []string, o *Order) string {
	if P.IsZero() {
		return "0"
	}
	terms := append([]Term(nil), P.terms...)
	if o != nil {
		sort.SliceStable(terms, func(i, j int) bool {
			return o.Compare(terms[i].Exp, terms[j].Exp) > 0
		})
	}

	b := strings.Builder{}
	for i, t := range terms {
		c := new(big.Rat).Set(t.Coef)
		if c.Sign() < 0 {
			if i == 0 {
				b.WriteString("-")
			} else {
				b.WriteString(" - ")
			}
			c.Neg(c)
		} else if i > 0 {
			b.WriteString(" + ")
		}
		isConst := t.Exp.IsZero()
		isOne := c.Cmp(oneRat) == 0
		if !isOne || isConst {
			b.WriteString(c.RatString())
			if !isConst {
				b.WriteByte('*')
			}
		}
		first := true
		for vi, e := range t.Exp {
			if e == 0 {
				continue
			}
			if !first {
				b.WriteByte('*')
			}
			first = false
			b.WriteString(varName(vars, vi))
			if e > 1 {
				b.WriteByte('^')
				b.WriteString(big.NewInt(e).String())
			}
		}
	}
	return b.String()
}

func varName(vars []string, i int) string {
	if i < len(vars) {
		return vars[i]
	}
	return "x" + big.NewInt(int64(i+1)).String()
}
