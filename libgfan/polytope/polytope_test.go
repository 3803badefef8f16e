package polytope

import (
	"errors"
	"testing"

	"github.com/2x3systems/gfan/gfan"
	"github.com/stretchr/testify/require"
)

func TestRankAndKernel(t *testing.T) {
	require.Equal(t, 0, Rank(nil, 3))
	require.Equal(t, 1, Rank([]gfan.Vector{{1, 2, 3}, {2, 4, 6}}, 3))
	require.Equal(t, 2, Rank([]gfan.Vector{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}}, 3))

	ker := Kernel([]gfan.Vector{{2, -1, -1}}, 3)
	require.Equal(t, []gfan.Vector{{1, 2, 0}, {1, 0, 2}}, ker)
	for _, k := range ker {
		require.Zero(t, k.Dot(gfan.Vector{2, -1, -1}))
	}

	require.Empty(t, Kernel([]gfan.Vector{{1, 0}, {0, 1}}, 2))
}

func TestProject(t *testing.T) {
	require.Equal(t, gfan.Vector{2, -1, -1}, Project(gfan.Vector{1, 0, 0}, []gfan.Vector{{1, 1, 1}}))
	require.Equal(t, gfan.Vector{1, -2, 1}, Project(gfan.Vector{2, -4, 2}, []gfan.Vector{{1, 1, 1}}))
	require.True(t, Project(gfan.Vector{3, 3, 3}, []gfan.Vector{{1, 1, 1}}).IsZero())
	require.Equal(t, gfan.Vector{1, 2}, Project(gfan.Vector{3, 6}, nil))
}

func TestDescribePlane(t *testing.T) {
	// cone of {x^2 - y, y^2 - x} under degrevlex
	desc, err := Describe([]gfan.Vector{{2, -1}, {-1, 2}}, 2)
	require.NoError(t, err)
	require.Equal(t, []gfan.Vector{{1, 2}, {2, 1}}, desc.Rays)
	require.Equal(t, gfan.Vector{3, 3}, desc.InteriorPoint)
	require.True(t, desc.ContainsInterior(desc.InteriorPoint))

	require.Len(t, desc.Facets, 2)
	f0, f1 := desc.Facets[0], desc.Facets[1]
	require.Equal(t, gfan.Vector{2, -1}, f0.Normal)
	require.Equal(t, gfan.Vector{1, 2}, f0.InteriorPoint)
	require.Equal(t, 0, f0.Source)
	require.False(t, f0.Orthant)
	require.Equal(t, gfan.Vector{-1, 2}, f1.Normal)
	require.Equal(t, gfan.Vector{2, 1}, f1.InteriorPoint)

	ridges := desc.Ridges(0)
	require.Len(t, ridges, 1)
	require.Equal(t, 1, ridges[0].Neighbor)
	require.True(t, ridges[0].InteriorPoint.IsZero())
}

func TestDescribeOrthantWalls(t *testing.T) {
	// cone of x^2 - y*z with lead x^2
	desc, err := Describe([]gfan.Vector{{2, -1, -1}}, 3)
	require.NoError(t, err)
	require.Equal(t, []gfan.Vector{{1, 0, 0}, {1, 0, 2}, {1, 2, 0}}, desc.Rays)

	require.Len(t, desc.Facets, 3)
	require.Equal(t, gfan.Vector{0, 1, 0}, desc.Facets[0].Normal)
	require.True(t, desc.Facets[0].Orthant)
	require.Equal(t, -1, desc.Facets[0].Source)
	require.Equal(t, gfan.Vector{2, 0, 2}, desc.Facets[0].InteriorPoint)
	require.Equal(t, gfan.Vector{0, 0, 1}, desc.Facets[1].Normal)
	require.Equal(t, gfan.Vector{2, -1, -1}, desc.Facets[2].Normal)
	require.Equal(t, gfan.Vector{2, 2, 2}, desc.Facets[2].InteriorPoint)
	require.Equal(t, uint64(2), desc.Facets[2].Incidence.GetCardinality())

	ridges := desc.Ridges(0)
	require.Len(t, ridges, 2)
	require.Equal(t, gfan.Vector{1, 0, 0}, ridges[0].InteriorPoint)
	require.Equal(t, gfan.Vector{1, 0, 2}, ridges[1].InteriorPoint)

	require.True(t, desc.Contains(gfan.Vector{1, 2, 0}))
	require.False(t, desc.ContainsInterior(gfan.Vector{1, 2, 0}))
	require.False(t, desc.Contains(gfan.Vector{1, 2, 1}))
}

func TestDescribeDegenerate(t *testing.T) {
	_, err := Describe([]gfan.Vector{{1, -1}, {-1, 1}}, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, gfan.ErrGeometryDegenerate))

	var geomErr *gfan.GeometryError
	require.True(t, errors.As(err, &geomErr))
	require.Equal(t, 1, geomErr.Rank)
	require.Equal(t, 2, geomErr.Dim)
}

func TestExtremeRaysRedundant(t *testing.T) {
	// (2,-1) is implied by (1,-1), and (2,-2) repeats it
	rays := ExtremeRays([]gfan.Vector{{1, -1}, {2, -1}, {2, -2}}, 2)
	require.Equal(t, []gfan.Vector{{1, 0}, {1, 1}}, rays)
}
