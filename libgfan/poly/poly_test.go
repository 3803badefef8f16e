package poly

import (
	"math/big"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2x3systems/gfan/gfan"
)

func TestParseIdeal(t *testing.T) {
	I, err := ParseIdeal("x^2 - y, y^2 - x", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, I.Ring.Vars)
	require.Len(t, I.Gens, 2)
	require.Equal(t, "x^2 - y", I.Gens[0].String(I.Ring.Vars, Lex(2)))
	require.False(t, I.IsHomogeneous())

	I, err = ParseIdeal("3/2*x*y^2 - 1/3 + z", []string{"x", "y", "z"})
	require.NoError(t, err)
	require.Zero(t, big.NewRat(3, 2).Cmp(I.Gens[0].Coef(gfan.Vector{1, 2, 0})))
	require.Zero(t, big.NewRat(-1, 3).Cmp(I.Gens[0].Coef(gfan.Vector{0, 0, 0})))

	_, err = ParseIdeal("x^2 - w", []string{"x", "y"})
	require.ErrorIs(t, err, gfan.ErrRingMismatch)

	_, err = ParseIdeal("x +* y", nil)
	require.ErrorIs(t, err, gfan.ErrInput)

	_, err = ParseIdeal("x - x", nil)
	require.ErrorIs(t, err, gfan.ErrEmptyIdeal)
}

func TestOrders(t *testing.T) {
	drl := DegRevLex(3)
	require.True(t, drl.IsTermOrder(3))
	require.True(t, Lex(3).IsTermOrder(3))

	// x*z < y^2 under degrevlex
	require.Equal(t, -1, drl.Compare(gfan.Vector{1, 0, 1}, gfan.Vector{0, 2, 0}))
	require.Equal(t, 1, Lex(3).Compare(gfan.Vector{1, 0, 1}, gfan.Vector{0, 2, 0}))
	require.Equal(t, drl.Compare(gfan.Vector{2, 1, 0}, gfan.Vector{0, 0, 3}), drl.Sign(gfan.Vector{2, 1, -3}))

	wo := WeightOrder(gfan.Vector{1, -1, 0}, Lex(3))
	require.False(t, wo.IsTermOrder(3))
	require.Equal(t, 1, wo.Compare(gfan.Vector{1, 0, 0}, gfan.Vector{0, 1, 0}))
}

func TestGroebnerBasis(t *testing.T) {
	I := MustParseIdeal("x^2 - y, y^2 - x")

	lex := ReducedBasis(I, Lex(2))
	require.Equal(t, []string{"x - y^2", "y^4 - y"}, lex.Strings())
	require.True(t, lex.IsReduced())

	drl := ReducedBasis(I, DegRevLex(2))
	require.Equal(t, []string{"x^2 - y", "y^2 - x"}, drl.Strings())
	require.False(t, lex.Equal(drl))

	// every generator lies in both bases' ideal
	for _, g := range I.Gens {
		require.True(t, lex.Contains(g))
		require.True(t, drl.Contains(g))
	}

	x3 := Monomial(big.NewRat(1, 1), gfan.Vector{3, 0})
	require.Equal(t, "y^3", lex.Reduce(x3).String(I.Ring.Vars, nil))
}

func TestBasisEqualMarked(t *testing.T) {
	I := MustParseIdeal("x*y - 1, x^2 - y")
	A := ReducedBasis(I, Lex(2))
	require.Equal(t, []string{"x - y^2", "y^3 - 1"}, sortedStrings(A))

	// same polynomials and same leads under a different order
	B := NewBasis(Context{Ring: I.Ring, Order: WeightOrder(gfan.Vector{3, 1}, DegRevLex(2))}, []*Poly{A.Polys[1], A.Polys[0]})
	require.True(t, A.Equal(B))
	require.Equal(t, A.Key(), B.Key())

	// same polynomials, but y^2 leads x - y^2
	C := NewBasis(Context{Ring: I.Ring, Order: DegRevLex(2)}, A.Polys)
	require.False(t, A.Equal(C))
	require.NotEqual(t, A.Key(), C.Key())
}

func sortedStrings(B *Basis) []string {
	strs := B.Strings()
	sort.Strings(strs)
	return strs
}

func TestInitialForm(t *testing.T) {
	I := MustParseIdeal("x^4 + x^3*y^2 + x^2*y^3 + y^4")
	f := I.Gens[0]
	in := f.InitialForm(gfan.Vector{2, 1})
	require.Equal(t, "x^4 + x^3*y^2", in.String(I.Ring.Vars, Lex(2)))
	require.True(t, in.IsWeightHomogeneous(gfan.Vector{2, 1}))
	require.False(t, f.IsHomogeneous())
}

func TestArithmetic(t *testing.T) {
	I := MustParseIdeal("x + y, x - y")
	f, g := I.Gens[0], I.Gens[1]
	require.Equal(t, "2*x", f.Add(g).String(I.Ring.Vars, nil))
	require.Equal(t, "2*y", f.Sub(g).String(I.Ring.Vars, nil))
	require.True(t, f.Sub(f).IsZero())
	require.Equal(t, "-x^2 - x*y", f.MulTerm(big.NewRat(-1, 1), gfan.Vector{1, 0}).String(I.Ring.Vars, nil))
	require.Equal(t, "x - y", g.Monic(Lex(2)).String(I.Ring.Vars, nil))
}
