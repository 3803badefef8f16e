package gfan

import (
	"strconv"
	"strings"
)

// Vector is an integer weight or exponent vector with one entry per ring variable.
type Vector []int64

// NewVector returns a zero vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// UnitVector returns the i-th (zero-based) standard basis vector of length n.
func UnitVector(n, i int) Vector {
	v := make(Vector, n)
	v[i] = 1
	return v
}

func (v Vector) Clone() Vector {
	if v == nil {
		return nil
	}
	return append(Vector(nil), v...)
}

func (v Vector) Dot(w Vector) int64 {
	sum := int64(0)
	for i, vi := range v {
		sum += vi * w[i]
	}
	return sum
}

func (v Vector) Add(w Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] + w[i]
	}
	return out
}

func (v Vector) Sub(w Vector) Vector {
	out := make(Vector, len(v))
	for i := range v {
		out[i] = v[i] - w[i]
	}
	return out
}

func (v Vector) Neg() Vector {
	out := make(Vector, len(v))
	for i, vi := range v {
		out[i] = -vi
	}
	return out
}

func (v Vector) Scale(k int64) Vector {
	out := make(Vector, len(v))
	for i, vi := range v {
		out[i] = k * vi
	}
	return out
}

func (v Vector) IsZero() bool {
	for _, vi := range v {
		if vi != 0 {
			return false
		}
	}
	return true
}

// IsPositive returns true if every entry is strictly positive.
func (v Vector) IsPositive() bool {
	for _, vi := range v {
		if vi <= 0 {
			return false
		}
	}
	return len(v) > 0
}

func (v Vector) IsNonNegative() bool {
	for _, vi := range v {
		if vi < 0 {
			return false
		}
	}
	return true
}

// Divides returns true if the monomial with exponent v divides the monomial with exponent w.
func (v Vector) Divides(w Vector) bool {
	for i, vi := range v {
		if vi > w[i] {
			return false
		}
	}
	return true
}

func (v Vector) Equal(w Vector) bool {
	if len(v) != len(w) {
		return false
	}
	for i, vi := range v {
		if vi != w[i] {
			return false
		}
	}
	return true
}

// Compare orders vectors lexicographically, returning -1, 0, or +1.
func (v Vector) Compare(w Vector) int {
	for i, vi := range v {
		if i >= len(w) {
			return 1
		}
		if vi < w[i] {
			return -1
		}
		if vi > w[i] {
			return 1
		}
	}
	if len(v) < len(w) {
		return -1
	}
	return 0
}

// Normalize divides v by the gcd of its entries, keeping the sign of each entry.
// The zero vector normalizes to itself.
func (v Vector) Normalize() Vector {
	g := int64(0)
	for _, vi := range v {
		g = Gcd(g, vi)
	}
	out := v.Clone()
	if g > 1 {
		for i := range out {
			out[i] /= g
		}
	}
	return out
}

// IsParallel returns true if one of v, w is a non-negative rational multiple of the other.
func (v Vector) IsParallel(w Vector) bool {
	if v.IsZero() || w.IsZero() {
		return v.IsZero() && w.IsZero()
	}
	return v.Normalize().Equal(w.Normalize())
}

func (v Vector) String() string {
	b := strings.Builder{}
	b.Grow(4 * len(v))
	b.WriteByte('(')
	for i, vi := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(vi, 10))
	}
	b.WriteByte(')')
	return b.String()
}

// Gcd returns the non-negative greatest common divisor of a and b.
func Gcd(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// VectorComparator orders Vectors lexicographically for use in ordered containers.
func VectorComparator(a, b interface{}) int {
	return a.(Vector).Compare(b.(Vector))
}
