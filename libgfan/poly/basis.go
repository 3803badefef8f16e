package poly

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/2x3systems/gfan/gfan"
)

// Ring is a polynomial ring over the rationals in named variables.
type Ring struct {
	Vars []string
}

func NewRing(vars ...string) *Ring {
	return &Ring{
		Vars: append([]string(nil), vars...),
	}
}

func (R *Ring) NumVars() int {
	return len(R.Vars)
}

func (R *Ring) Equal(other *Ring) bool {
	if len(R.Vars) != len(other.Vars) {
		return false
	}
	for i, v := range R.Vars {
		if v != other.Vars[i] {
			return false
		}
	}
	return true
}

// Ideal is a generating set of polynomials in a fixed ring.
type Ideal struct {
	Ring *Ring
	Gens []*Poly
}

// NewIdeal checks gens against R and returns the ideal they generate.
func NewIdeal(R *Ring, gens ...*Poly) (*Ideal, error) {
	I := &Ideal{
		Ring: R,
	}
	for i, g := range gens {
		if g.IsZero() {
			continue
		}
		if g.NumVars() != R.NumVars() {
			return nil, errors.Wrapf(gfan.ErrRingMismatch, "generator %d has %d variables, ring has %d", i+1, g.NumVars(), R.NumVars())
		}
		for _, t := range g.Terms() {
			if !t.Exp.IsNonNegative() {
				return nil, errors.Wrapf(gfan.ErrRingMismatch, "generator %d has a negative exponent", i+1)
			}
		}
		I.Gens = append(I.Gens, g)
	}
	if len(I.Gens) == 0 {
		return nil, gfan.ErrEmptyIdeal
	}
	return I, nil
}

// IsHomogeneous returns true if every generator is homogeneous in the standard grading.
func (I *Ideal) IsHomogeneous() bool {
	for _, g := range I.Gens {
		if !g.IsHomogeneous() {
			return false
		}
	}
	return true
}

func (I *Ideal) String() string {
	strs := make([]string, len(I.Gens))
	for i, g := range I.Gens {
		strs[i] = g.String(I.Ring.Vars, nil)
	}
	return strings.Join(strs, ", ")
}

// Context is the ring and monomial order a basis is computed in.
type Context struct {
	Ring  *Ring
	Order *Order
}

func (ctx Context) NumVars() int {
	return ctx.Ring.NumVars()
}

// Basis is a reduced Gröbner basis together with the context it is reduced in.
type Basis struct {
	Ctx   Context
	Polys []*Poly
}

// ReducedBasis computes the reduced Gröbner basis of I under o.
func ReducedBasis(I *Ideal, o *Order) *Basis {
	return &Basis{
		Ctx: Context{
			Ring:  I.Ring,
			Order: o,
		},
		Polys: GroebnerBasis(I.Gens, o),
	}
}

// NewBasis wraps polys that the caller asserts form a reduced Gröbner basis in ctx.
func NewBasis(ctx Context, polys []*Poly) *Basis {
	return &Basis{
		Ctx:   ctx,
		Polys: polys,
	}
}

func (B *Basis) Len() int {
	return len(B.Polys)
}

func (B *Basis) NumVars() int {
	return B.Ctx.NumVars()
}

// Leads returns the lead exponent of each element.
func (B *Basis) Leads() []gfan.Vector {
	leads := make([]gfan.Vector, len(B.Polys))
	for i, g := range B.Polys {
		leads[i] = g.LeadExp(B.Ctx.Order)
	}
	return leads
}

// Reduce returns the normal form of f modulo B.
func (B *Basis) Reduce(f *Poly) *Poly {
	return Reduce(f, B.Polys, B.Ctx.Order)
}

// Contains returns true if f reduces to zero modulo B.
func (B *Basis) Contains(f *Poly) bool {
	return B.Reduce(f).IsZero()
}

// InitialForms returns in_w(g) for each element g.
func (B *Basis) InitialForms(w gfan.Vector) []*Poly {
	forms := make([]*Poly, len(B.Polys))
	for i, g := range B.Polys {
		forms[i] = g.InitialForm(w)
	}
	return forms
}

// IsReduced returns true if every element is monic and no term of any element is divisible by another element's lead.
func (B *Basis) IsReduced() bool {
	o := B.Ctx.Order
	leads := B.Leads()
	for i, g := range B.Polys {
		if g.IsZero() {
			return false
		}
		if g.LeadTerm(o).Coef.Cmp(oneRat) != 0 {
			return false
		}
		for _, t := range g.Terms() {
			for j, lj := range leads {
				if j != i && lj.Divides(t.Exp) {
					return false
				}
			}
		}
	}
	return true
}

// Equal returns true if B and other are the same marked basis: the same polynomials with the same
// lead terms, regardless of element order. Bases with equal polynomials but different leads belong
// to different cones.
func (B *Basis) Equal(other *Basis) bool {
	if len(B.Polys) != len(other.Polys) {
		return false
	}
	a := B.markedKeys()
	b := other.markedKeys()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Key returns a canonical string identifying B as a marked basis.
func (B *Basis) Key() string {
	return strings.Join(B.markedKeys(), ";")
}

// markedKeys returns each element in storage order followed by its lead exponent, sorted.
func (B *Basis) markedKeys() []string {
	keys := make([]string, len(B.Polys))
	for i, g := range B.Polys {
		keys[i] = g.String(nil, nil) + "@" + g.LeadExp(B.Ctx.Order).String()
	}
	sort.Strings(keys)
	return keys
}

// Strings prints each element with its lead term first.
func (B *Basis) Strings() []string {
	strs := make([]string, len(B.Polys))
	for i, g := range B.Polys {
		strs[i] = g.String(B.Ctx.Ring.Vars, B.Ctx.Order)
	}
	return strs
}
