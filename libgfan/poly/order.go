package poly

import (
	"strings"

	"github.com/2x3systems/gfan/gfan"
)

// Order is a monomial order: exponents are compared by each weight row in turn,
// and ties are broken lexicographically (x1 > x2 > ... > xn).
type Order struct {
	Weights []gfan.Vector
}

// Lex returns the lexicographic order.
func Lex(numVars int) *Order {
	return &Order{}
}

// DegRevLex returns the degree reverse lexicographic order on numVars variables.
func DegRevLex(numVars int) *Order {
	o := &Order{
		Weights: make([]gfan.Vector, 0, numVars),
	}
	ones := gfan.NewVector(numVars)
	for i := range ones {
		ones[i] = 1
	}
	o.Weights = append(o.Weights, ones)
	for i := numVars - 1; i > 0; i-- {
		o.Weights = append(o.Weights, gfan.UnitVector(numVars, i).Neg())
	}
	return o
}

// WeightOrder returns the order that compares by w first and falls back to tie (or lex if tie is nil).
func WeightOrder(w gfan.Vector, tie *Order) *Order {
	return tie.Refine(w)
}

// Refine returns a new order that compares by w before consulting o.
func (o *Order) Refine(w gfan.Vector) *Order {
	ro := &Order{}
	if o != nil {
		ro.Weights = make([]gfan.Vector, 0, len(o.Weights)+1)
	}
	ro.Weights = append(ro.Weights, w.Clone())
	if o != nil {
		for _, wi := range o.Weights {
			ro.Weights = append(ro.Weights, wi.Clone())
		}
	}
	return ro
}

// Compare returns -1, 0, or +1 as exponent a is smaller, equal, or larger than b.
func (o *Order) Compare(a, b gfan.Vector) int {
	if o != nil {
		for _, w := range o.Weights {
			da, db := w.Dot(a), w.Dot(b)
			if da < db {
				return -1
			} else if da > db {
				return 1
			}
		}
	}
	return a.Compare(b)
}

// Sign returns the sign of the exponent difference v under this order.
// Since every weight row is linear, Sign(a-b) == Compare(a, b).
func (o *Order) Sign(v gfan.Vector) int {
	if o != nil {
		for _, w := range o.Weights {
			d := w.Dot(v)
			if d < 0 {
				return -1
			} else if d > 0 {
				return 1
			}
		}
	}
	for _, vi := range v {
		if vi < 0 {
			return -1
		} else if vi > 0 {
			return 1
		}
	}
	return 0
}

// IsTermOrder returns true if every variable compares greater than 1, i.e. o is a well-ordering.
func (o *Order) IsTermOrder(numVars int) bool {
	for i := 0; i < numVars; i++ {
		if o.Sign(gfan.UnitVector(numVars, i)) <= 0 {
			return false
		}
	}
	return true
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	co := &Order{
		Weights: make([]gfan.Vector, len(o.Weights)),
	}
	for i, w := range o.Weights {
		co.Weights[i] = w.Clone()
	}
	return co
}

func (o *Order) Equal(other *Order) bool {
	if len(o.Weights) != len(other.Weights) {
		return false
	}
	for i, w := range o.Weights {
		if !w.Equal(other.Weights[i]) {
			return false
		}
	}
	return true
}

func (o *Order) String() string {
	b := strings.Builder{}
	b.WriteString("[")
	for i, w := range o.Weights {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w.String())
	}
	if len(o.Weights) > 0 {
		b.WriteByte(' ')
	}
	b.WriteString("lex]")
	return b.String()
}
