package libgfan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan/poly"
)

func seedCone(t *testing.T, src string, opts gfan.EnumOpts) (*Space, *Cone) {
	t.Helper()
	I := poly.MustParseIdeal(src)
	S, err := NewSpace(I, opts)
	require.NoError(t, err)
	C, err := S.NewSeedCone(I)
	require.NoError(t, err)
	return S, C
}

func TestSeedCone(t *testing.T) {
	_, C := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})

	require.True(t, C.IsRoot())
	require.Equal(t, 0, C.ID())
	require.Equal(t, -1, C.PredID())
	require.Equal(t, ConeStatus_FacetsComputed, C.Status())
	require.Equal(t, []string{"x^2 - y", "y^2 - x"}, C.Generators())
	require.Equal(t, []gfan.Vector{{1, 2}, {2, 1}}, C.Rays())
	require.Equal(t, gfan.Vector{3, 3}, C.InteriorPoint())
	require.Equal(t, []gfan.Vector{{2, -1}, {-1, 2}}, C.FacetNormals())
	require.Nil(t, C.ParentFacet())
	require.Equal(t, []int{0, 1}, C.ExploreFacets())

	for i := 0; i < C.NumFacets(); i++ {
		F := C.Facet(i)
		require.True(t, F.IsFlippable())
		require.False(t, F.IsIncoming())
		require.Equal(t, 1, F.Codim())
		require.Equal(t, 1, F.NumRays())
		require.Equal(t, []gfan.Vector{{0, 0}}, F.Ridges())
	}
}

func TestFlip(t *testing.T) {
	S, C := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})

	B, err := S.Flip(C, 0)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"y - x^2", "x^4 - x"}, B.Strings())
	require.True(t, B.IsReduced())

	again, err := S.Flip(C, 0)
	require.NoError(t, err)
	require.True(t, B == again)
	require.True(t, C.Facet(0).FlipBasis() == B)

	N, err := S.NewConeFromFlip(C, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"x - y^2", "y^4 - y"}, N.Generators())
	require.Equal(t, []gfan.Vector{{1, 0}, {2, 1}}, N.Rays())
	require.False(t, N.IsRoot())
	require.Equal(t, 0, N.PredID())
	require.True(t, N.IsChildOf(C, 1))
	require.False(t, N.IsChildOf(C, 0))
	require.Empty(t, N.ExploreFacets())

	parent := N.ParentFacet()
	require.NotNil(t, parent)
	require.True(t, parent.IsIncoming())
	require.Equal(t, gfan.Vector{2, 1}, parent.InteriorPoint())
	require.True(t, SameWall(parent, C.Facet(1)))

	// the far side of the wall lies strictly inside the neighbour
	require.True(t, N.InteriorPoint().IsPositive())
	for i := 0; i < N.NumFacets(); i++ {
		require.Positive(t, N.Facet(i).Normal().Dot(N.InteriorPoint()))
	}

	N.SetID(7)
	require.Equal(t, 7, N.Facet(0).OwnerConeID())
}

func TestFlipNotFlippable(t *testing.T) {
	S, C := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})
	N, err := S.NewConeFromFlip(C, 0)
	require.NoError(t, err)

	for i := 0; i < N.NumFacets(); i++ {
		if !N.Facet(i).IsFlippable() {
			defer func() {
				err, _ := recover().(error)
				require.True(t, errors.Is(err, gfan.ErrNotFlippable), "recovered %v", err)
			}()
			S.Flip(N, i)
			t.Fatal("flip of a non-flippable facet returned")
		}
	}
	t.Fatal("expected an orthant facet")
}

func TestFlipRoundTrip(t *testing.T) {
	S, C := seedCone(t, "x^4 + x^3*y^2 + x^2*y^3 + y^4", gfan.EnumOpts{})
	require.Equal(t, []gfan.Vector{{1, 1}, {2, 1}}, C.Rays())

	for _, fi := range C.ExploreFacets() {
		N, err := S.NewConeFromFlip(C, fi)
		require.NoError(t, err)
		require.True(t, N.IsChildOf(C, fi))

		// flipping back across the parent wall recovers the original basis
		back, err := S.Flip(N, N.parentFacet)
		require.NoError(t, err)
		require.True(t, back.Equal(C.Basis()))
	}
}

func TestVerifyFlip(t *testing.T) {
	_, C := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})

	err := verifyFlip(C, C.Facet(0), C.Basis())
	require.Error(t, err)
	require.True(t, errors.Is(err, gfan.ErrFlipInconsistency))

	var flipErr *gfan.FlipError
	require.True(t, errors.As(err, &flipErr))
	require.Equal(t, gfan.Vector{2, -1}, flipErr.Normal)
}

func TestVerifyFlipSamePolys(t *testing.T) {
	S, C := seedCone(t, "x^4 + x^3*y^2 + x^2*y^3 + y^4", gfan.EnumOpts{})
	require.Equal(t, []string{"x^3*y^2 + x^2*y^3 + x^4 + y^4"}, C.Generators())

	for _, fi := range C.ExploreFacets() {
		B, err := S.Flip(C, fi)
		require.NoError(t, err)

		// one generator on both sides of the wall; only its lead term moves
		require.Equal(t, 1, B.Len())
		require.True(t, B.Polys[0].Equal(C.Basis().Polys[0]))
		require.NotEqual(t, C.Basis().Leads(), B.Leads())
		require.False(t, B.Equal(C.Basis()))
		require.NotEqual(t, C.Basis().Key(), B.Key())
		require.NoError(t, verifyFlip(C, C.Facet(fi), B))
	}
}

func TestHomogeneous(t *testing.T) {
	I := poly.MustParseIdeal("x^2 - y*z")

	_, err := NewSpace(I, gfan.EnumOpts{})
	require.True(t, errors.Is(err, gfan.ErrHomogeneityHint))

	_, err = NewSpace(poly.MustParseIdeal("x^2 - y"), gfan.EnumOpts{HomogeneousHint: true})
	require.True(t, errors.Is(err, gfan.ErrHomogeneityHint))

	S, C := seedCone(t, "x^2 - y*z", gfan.EnumOpts{HomogeneousHint: true})
	require.Len(t, S.Lineality, 2)
	for _, v := range S.Lineality {
		require.Zero(t, v.Dot(gfan.Vector{2, -1, -1}))
	}
	require.Zero(t, gfan.Vector{1, 1, 1}.Dot(S.canonicalNormal(gfan.Vector{1, 0, 0})))

	require.Equal(t, 3, C.NumFacets())
	require.Equal(t, []int{2}, C.ExploreFacets())

	N, err := S.NewConeFromFlip(C, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"y*z - x^2"}, N.Generators())
	require.Equal(t, 4, N.NumFacets())
	require.True(t, N.IsChildOf(C, 2))
	require.Empty(t, N.ExploreFacets())
}

func TestBadParams(t *testing.T) {
	I := poly.MustParseIdeal("x^2 - y")
	_, err := NewSpace(I, gfan.EnumOpts{Heuristic: 9})
	require.True(t, errors.Is(err, gfan.ErrBadParam))

	_, err = NewSpace(nil, gfan.EnumOpts{})
	require.True(t, errors.Is(err, gfan.ErrEmptyIdeal))
}

func TestParentHeuristics(t *testing.T) {
	S, _ := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})
	f := &Facet{normal: gfan.Vector{-1, 2}, canonicalNormal: gfan.Vector{-1, 2}}
	g := &Facet{normal: gfan.Vector{-2, 1}, canonicalNormal: gfan.Vector{-2, 1}}

	S.Heuristic = gfan.Heuristic_BreadthFirst
	require.Equal(t, 1, S.compareParent(f, g))
	S.Heuristic = gfan.Heuristic_DepthFirst
	require.Equal(t, -1, S.compareParent(f, g))
	S.Heuristic = gfan.Heuristic_SteepestEdge
	require.Equal(t, 1, S.compareParent(f, g))
	require.Zero(t, S.compareParent(f, f))
}

func requireSameCone(t *testing.T, want, got *Cone) {
	t.Helper()
	require.Equal(t, want.ID(), got.ID())
	require.Equal(t, want.PredID(), got.PredID())
	require.Equal(t, want.Status(), got.Status())
	require.Equal(t, want.parentFacet, got.parentFacet)
	require.True(t, want.Basis().Ctx.Ring.Equal(got.Basis().Ctx.Ring))
	require.True(t, want.Basis().Ctx.Order.Equal(got.Basis().Ctx.Order))
	require.True(t, want.Basis().Equal(got.Basis()))
	require.Equal(t, want.Generators(), got.Generators())
	require.Equal(t, want.InteriorPoint(), got.InteriorPoint())
	require.Equal(t, want.Rays(), got.Rays())
	require.Equal(t, want.NumFacets(), got.NumFacets())
	for i := 0; i < want.NumFacets(); i++ {
		wf, gf := want.Facet(i), got.Facet(i)
		require.Equal(t, wf.Normal(), gf.Normal())
		require.Equal(t, wf.CanonicalNormal(), gf.CanonicalNormal())
		require.Equal(t, wf.InteriorPoint(), gf.InteriorPoint())
		require.Equal(t, wf.Ridges(), gf.Ridges())
		require.Equal(t, wf.NumRays(), gf.NumRays())
		require.Equal(t, wf.OwnerConeID(), gf.OwnerConeID())
		require.Equal(t, wf.IsFlippable(), gf.IsFlippable())
		require.Equal(t, wf.IsIncoming(), gf.IsIncoming())
		require.Nil(t, gf.FlipBasis())
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	S, C := seedCone(t, "3/2*x^2 - y + 1/7, y^2 - x", gfan.EnumOpts{})
	N, err := S.NewConeFromFlip(C, C.ExploreFacets()[0])
	require.NoError(t, err)
	N.SetID(5)
	N.SetStatus(ConeStatus_Spilled)

	for _, comp := range []gfan.Compression{gfan.Compression_None, gfan.Compression_LZ4, gfan.Compression_ZSTD} {
		for _, cone := range []*Cone{C, N} {
			prefix := []byte{0xAA}
			rec, err := cone.MarshalOut(prefix, comp)
			require.NoError(t, err)
			require.Equal(t, byte(0xAA), rec[0])

			got, err := UnmarshalCone(rec[1:])
			require.NoError(t, err)
			requireSameCone(t, cone, got)
		}
	}
}

func TestCheckpointCorrupt(t *testing.T) {
	_, C := seedCone(t, "x^2 - y, y^2 - x", gfan.EnumOpts{})
	rec, err := C.MarshalOut(nil, gfan.Compression_None)
	require.NoError(t, err)

	_, err = UnmarshalCone(rec[:4])
	require.True(t, errors.Is(err, gfan.ErrBadCheckpoint))

	_, err = UnmarshalCone(rec[:len(rec)-3])
	require.True(t, errors.Is(err, gfan.ErrBadCheckpoint))

	bad := append([]byte(nil), rec...)
	bad[recordHeaderSize] = 99 // version
	_, err = UnmarshalCone(bad)
	require.True(t, errors.Is(err, gfan.ErrBadCheckpoint))

	_, err = C.MarshalOut(nil, gfan.Compression(7))
	require.True(t, errors.Is(err, gfan.ErrBadParam))
}
