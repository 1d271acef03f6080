package geometry_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AerialWorks/gazetteer/internal/geometry"
)

func square(t *testing.T, minX, minY, maxX, maxY float64) *geometry.Polygon {
	t.Helper()
	polygon, err := geometry.NewPolygon([]orb.Point{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	})
	require.NoError(t, err)
	return polygon
}

func TestNewPolygon(t *testing.T) {
	t.Run("fewer than three points fails", func(t *testing.T) {
		polygon, err := geometry.NewPolygon([]orb.Point{{0, 0}, {1, 0}})
		require.Nil(t, polygon)
		require.ErrorIs(t, err, geometry.ErrTooFewPoints)
	})

	t.Run("open ring is closed automatically", func(t *testing.T) {
		polygon, err := geometry.NewPolygon([]orb.Point{{0, 0}, {1, 0}, {0, 1}})
		require.NoError(t, err)
		assert.InEpsilon(t, 0.5, polygon.Area(), 1e-9)
	})

	t.Run("already closed ring keeps its area", func(t *testing.T) {
		polygon, err := geometry.NewPolygon([]orb.Point{{0, 0}, {1, 0}, {0, 1}, {0, 0}})
		require.NoError(t, err)
		assert.InEpsilon(t, 0.5, polygon.Area(), 1e-9)
	})
}

func TestPolygon_Area(t *testing.T) {
	unit := square(t, 0, 0, 1, 1)
	assert.InEpsilon(t, 1.0, unit.Area(), 1e-9)

	big := square(t, 0, 0, 4, 4)
	assert.InEpsilon(t, 16.0, big.Area(), 1e-9)
}

func TestPolygon_Covers(t *testing.T) {
	unit := square(t, 0, 0, 1, 1)

	t.Run("interior point", func(t *testing.T) {
		assert.True(t, unit.Covers(orb.Point{0.5, 0.5}))
	})

	t.Run("exterior point", func(t *testing.T) {
		assert.False(t, unit.Covers(orb.Point{2, 2}))
		assert.False(t, unit.Covers(orb.Point{200, 200}))
	})

	t.Run("point on edge", func(t *testing.T) {
		assert.True(t, unit.Covers(orb.Point{0.5, 0}))
		assert.True(t, unit.Covers(orb.Point{1, 0.25}))
	})

	t.Run("point on vertex", func(t *testing.T) {
		assert.True(t, unit.Covers(orb.Point{0, 0}))
		assert.True(t, unit.Covers(orb.Point{1, 1}))
	})

	t.Run("degenerate zero-area ring still matches its line", func(t *testing.T) {
		degenerate, err := geometry.NewPolygon([]orb.Point{{0, 0}, {1, 1}, {2, 2}})
		require.NoError(t, err)
		assert.True(t, degenerate.Covers(orb.Point{1, 1}))
		assert.True(t, degenerate.Covers(orb.Point{0.5, 0.5}))
		assert.False(t, degenerate.Covers(orb.Point{1.5, 0.2}))
	})
}

func TestPolygon_IntersectionArea(t *testing.T) {
	t.Run("half overlap", func(t *testing.T) {
		a := square(t, 0, 0, 2, 2)
		b := square(t, 0, 0, 1, 2)
		assert.InEpsilon(t, 2.0, a.IntersectionArea(b), 1e-9)
		assert.InEpsilon(t, 2.0, b.IntersectionArea(a), 1e-9)
	})

	t.Run("disjoint", func(t *testing.T) {
		a := square(t, 0, 0, 1, 1)
		b := square(t, 5, 5, 6, 6)
		assert.Zero(t, a.IntersectionArea(b))
	})

	t.Run("identical", func(t *testing.T) {
		a := square(t, 0, 0, 3, 3)
		b := square(t, 0, 0, 3, 3)
		assert.InEpsilon(t, 9.0, a.IntersectionArea(b), 1e-9)
	})

	t.Run("partial corner overlap", func(t *testing.T) {
		a := square(t, 0, 0, 2, 2)
		b := square(t, 1, 1, 3, 3)
		assert.InEpsilon(t, 1.0, a.IntersectionArea(b), 1e-9)
	})
}

func TestPolygon_Intersects(t *testing.T) {
	t.Run("overlapping squares", func(t *testing.T) {
		a := square(t, 0, 0, 2, 2)
		b := square(t, 1, 1, 3, 3)
		assert.True(t, a.Intersects(b))
	})

	t.Run("disjoint squares", func(t *testing.T) {
		a := square(t, 0, 0, 1, 1)
		b := square(t, 5, 0, 6, 1)
		assert.False(t, a.Intersects(b))
	})

	t.Run("edge-adjacent squares share only a boundary", func(t *testing.T) {
		a := square(t, 0, 0, 1, 1)
		b := square(t, 1, 0, 2, 1)
		assert.True(t, a.Intersects(b))
		assert.Zero(t, a.IntersectionArea(b))
	})
}
