package catalog_test

import (
	"errors"
	"path"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2x3systems/gfan/gfan"
	"github.com/2x3systems/gfan/libgfan"
	"github.com/2x3systems/gfan/libgfan/catalog"
	"github.com/2x3systems/gfan/libgfan/poly"
)

// buildCones returns the three cones of {x^2 - y, y^2 - x} with ids 0, 1, 2.
func buildCones(t *testing.T) []*libgfan.Cone {
	I := poly.MustParseIdeal("x^2 - y, y^2 - x")
	S, err := libgfan.NewSpace(I, gfan.EnumOpts{})
	require.NoError(t, err)
	root, err := S.NewSeedCone(I)
	require.NoError(t, err)

	cones := []*libgfan.Cone{root}
	for _, fi := range root.ExploreFacets() {
		N, err := S.NewConeFromFlip(root, fi)
		require.NoError(t, err)
		N.SetID(len(cones))
		cones = append(cones, N)
	}
	require.Len(t, cones, 3)
	return cones
}

func byID(C *libgfan.Cone) int64 {
	return int64(C.ID())
}

func byNegID(C *libgfan.Cone) int64 {
	return -int64(C.ID())
}

func TestPending(t *testing.T) {
	cones := buildCones(t)

	for _, comp := range []gfan.Compression{gfan.Compression_None, gfan.Compression_LZ4, gfan.Compression_ZSTD} {
		cat, err := catalog.Open(catalog.Opts{
			Compression: comp,
		})
		require.NoError(t, err)

		require.NoError(t, cat.PutPending(cones, byNegID))
		require.Equal(t, 3, cat.NumPending())

		popped, err := cat.PopPending(2)
		require.NoError(t, err)
		require.Len(t, popped, 2)
		require.Equal(t, 2, popped[0].ID())
		require.Equal(t, 1, popped[1].ID())
		require.Equal(t, cones[2].Generators(), popped[0].Generators())
		require.Equal(t, 1, cat.NumPending())

		popped, err = cat.PopPending(10)
		require.NoError(t, err)
		require.Len(t, popped, 1)
		require.Equal(t, 0, popped[0].ID())
		require.True(t, popped[0].IsRoot())

		popped, err = cat.PopPending(10)
		require.NoError(t, err)
		require.Empty(t, popped)
		require.Zero(t, cat.NumPending())

		require.NoError(t, cat.Close())
	}
}

func TestPendingNegativePriority(t *testing.T) {
	cones := buildCones(t)
	cat, err := catalog.Open(catalog.Opts{})
	require.NoError(t, err)
	defer cat.Close()

	require.NoError(t, cat.PutPending(cones[1:], byNegID))
	require.NoError(t, cat.PutPending(cones[:1], byID))

	popped, err := cat.PopPending(3)
	require.NoError(t, err)
	require.Len(t, popped, 3)
	require.Equal(t, []int{2, 1, 0}, []int{popped[0].ID(), popped[1].ID(), popped[2].ID()})
}

func TestClosedPersists(t *testing.T) {
	cones := buildCones(t)
	opts := catalog.Opts{
		DbPathName:  path.Join(t.TempDir(), "TestClosedPersists"),
		Compression: gfan.Compression_ZSTD,
	}

	cat, err := catalog.Open(opts)
	require.NoError(t, err)
	for _, C := range cones {
		require.NoError(t, cat.PutClosed(C))
	}
	require.NoError(t, cat.PutClosed(cones[1]))
	require.Equal(t, 3, cat.NumClosed())
	require.NoError(t, cat.Close())

	_, err = cat.GetClosed(0)
	require.True(t, errors.Is(err, gfan.ErrStoreClosed))

	cat, err = catalog.Open(opts)
	require.NoError(t, err)
	defer cat.Close()
	require.Equal(t, 3, cat.NumClosed())

	C, err := cat.GetClosed(2)
	require.NoError(t, err)
	require.Equal(t, cones[2].Generators(), C.Generators())
	require.Equal(t, cones[2].InteriorPoint(), C.InteriorPoint())
	require.Equal(t, cones[2].FacetNormals(), C.FacetNormals())

	var ids []int
	require.NoError(t, cat.ForEachClosed(func(C *libgfan.Cone) error {
		ids = append(ids, C.ID())
		return nil
	}))
	require.Equal(t, []int{0, 1, 2}, ids)

	_, err = cat.GetClosed(9)
	require.Error(t, err)
}

func TestReadOnlyNeedsPath(t *testing.T) {
	_, err := catalog.Open(catalog.Opts{
		ReadOnly: true,
	})
	require.True(t, errors.Is(err, gfan.ErrBadParam))
}

func TestTempDir(t *testing.T) {
	cat, err := catalog.Open(catalog.Opts{
		TempDir: true,
	})
	require.NoError(t, err)

	dir := cat.Dir()
	require.DirExists(t, dir)
	require.True(t, cat.IsEmpty())

	cones := buildCones(t)
	require.NoError(t, cat.PutClosed(cones[0]))
	require.False(t, cat.IsEmpty())

	require.NoError(t, cat.Close())
	require.NoDirExists(t, dir)

	mem, err := catalog.Open(catalog.Opts{})
	require.NoError(t, err)
	defer mem.Close()
	require.Empty(t, mem.Dir())
}

func TestKeySet(t *testing.T) {
	set := catalog.KeySet{}
	defer set.Close()

	for _, C := range buildCones(t) {
		added, err := set.TryAdd([]byte(C.Basis().Key()))
		require.NoError(t, err)
		require.True(t, added)

		added, err = set.TryAdd([]byte(C.Basis().Key()))
		require.NoError(t, err)
		require.False(t, added)
	}
	require.Equal(t, 3, set.Len())

	set.Close()
	require.Zero(t, set.Len())
	added, err := set.TryAdd([]byte("x"))
	require.NoError(t, err)
	require.True(t, added)
}
