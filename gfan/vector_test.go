package gfan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorArith(t *testing.T) {
	v := Vector{2, -4, 6}
	w := Vector{1, 1, 0}

	require.Equal(t, int64(-2), v.Dot(w))
	require.Equal(t, Vector{3, -3, 6}, v.Add(w))
	require.Equal(t, Vector{1, -5, 6}, v.Sub(w))
	require.Equal(t, Vector{-2, 4, -6}, v.Neg())
	require.Equal(t, Vector{6, -12, 18}, v.Scale(3))
	require.Equal(t, Vector{1, -2, 3}, v.Normalize())
	require.Equal(t, Vector{2, -4, 6}, v, "Normalize must not modify its receiver")
	require.Equal(t, "(2,-4,6)", v.String())

	require.True(t, NewVector(3).IsZero())
	require.True(t, NewVector(3).Normalize().IsZero())
	require.Equal(t, Vector{0, 1, 0}, UnitVector(3, 1))
	require.False(t, Vector{}.IsPositive())
	require.True(t, Vector{1, 2}.IsPositive())
	require.False(t, Vector{1, 0}.IsPositive())
	require.True(t, Vector{1, 0}.IsNonNegative())
}

func TestVectorCompare(t *testing.T) {
	require.Equal(t, -1, Vector{1, 2}.Compare(Vector{1, 3}))
	require.Equal(t, 1, Vector{2, 0}.Compare(Vector{1, 3}))
	require.Equal(t, 0, Vector{1, 3}.Compare(Vector{1, 3}))
	require.Equal(t, -1, Vector{1}.Compare(Vector{1, 0}))
	require.Equal(t, 1, VectorComparator(Vector{0, 1}, Vector{0, 0}))

	require.True(t, Vector{2, 4}.IsParallel(Vector{1, 2}))
	require.False(t, Vector{2, 4}.IsParallel(Vector{-1, -2}))
	require.False(t, Vector{0, 0}.IsParallel(Vector{1, 2}))
	require.True(t, Vector{0, 0}.IsParallel(Vector{0, 0}))

	require.True(t, Vector{1, 0, 2}.Divides(Vector{1, 1, 2}))
	require.False(t, Vector{1, 0, 3}.Divides(Vector{1, 1, 2}))
	require.Equal(t, int64(6), Gcd(-12, 18))
	require.Equal(t, int64(5), Gcd(0, -5))
}

func TestConeStreamErr(t *testing.T) {
	stream := NewConeStream(0)
	go stream.CloseWithError(ErrResourceExhausted)
	count, err := stream.PullAll()
	require.Zero(t, count)
	require.Equal(t, ErrResourceExhausted, err)
}
