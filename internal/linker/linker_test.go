package linker_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AerialWorks/gazetteer/internal/geometry"
	"github.com/AerialWorks/gazetteer/internal/linker"
	"github.com/AerialWorks/gazetteer/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rect(t *testing.T, minX, minY, maxX, maxY float64) *geometry.Polygon {
	t.Helper()
	polygon, err := geometry.NewPolygon([]orb.Point{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	})
	require.NoError(t, err)
	return polygon
}

func TestLink_MajorityOverlap(t *testing.T) {
	t.Run("exactly half of the finer area qualifies", func(t *testing.T) {
		forest := models.NewForest()
		district := models.NewRegion("District", models.LevelDistrict, rect(t, 0, 0, 1, 2))
		town := models.NewRegion("Town", models.LevelTown, rect(t, 0, 0, 2, 2))
		forest.Add(district)
		forest.Add(town)

		stats := linker.Link(forest, testLogger())

		assert.Equal(t, 1, stats.LinkedTowns)
		assert.Zero(t, stats.UnlinkedTowns)
		assert.Same(t, district, forest.Parent(town))
	})

	t.Run("just under half does not qualify", func(t *testing.T) {
		forest := models.NewForest()
		forest.Add(models.NewRegion("District", models.LevelDistrict, rect(t, 0, 0, 0.999, 2)))
		town := models.NewRegion("Town", models.LevelTown, rect(t, 0, 0, 2, 2))
		forest.Add(town)

		stats := linker.Link(forest, testLogger())

		assert.Zero(t, stats.LinkedTowns)
		assert.Equal(t, 1, stats.UnlinkedTowns)
		assert.False(t, town.Linked())
	})

	t.Run("first qualifying candidate wins", func(t *testing.T) {
		forest := models.NewForest()
		first := models.NewRegion("First", models.LevelDistrict, rect(t, 0, 0, 10, 10))
		second := models.NewRegion("Second", models.LevelDistrict, rect(t, 0, 0, 10, 10))
		town := models.NewRegion("Town", models.LevelTown, rect(t, 1, 1, 2, 2))
		forest.Add(first)
		forest.Add(second)
		forest.Add(town)

		linker.Link(forest, testLogger())

		require.True(t, town.Linked())
		assert.Same(t, first, forest.Parent(town))
		assert.Empty(t, forest.Children(second))
	})

	t.Run("edge contact without shared area does not link", func(t *testing.T) {
		forest := models.NewForest()
		forest.Add(models.NewRegion("District", models.LevelDistrict, rect(t, 2, 0, 4, 2)))
		town := models.NewRegion("Town", models.LevelTown, rect(t, 0, 0, 2, 2))
		forest.Add(town)

		stats := linker.Link(forest, testLogger())

		assert.Zero(t, stats.LinkedTowns)
		assert.False(t, town.Linked())
	})
}

func TestLink_ThreeTiers(t *testing.T) {
	forest := models.NewForest()
	district := models.NewRegion("District", models.LevelDistrict, rect(t, 0, 0, 4, 4))
	town := models.NewRegion("Town", models.LevelTown, rect(t, 0, 0, 2, 2))
	village := models.NewRegion("Village", models.LevelVillage, rect(t, 0, 0, 1, 1))
	forest.Add(district)
	forest.Add(town)
	forest.Add(village)

	stats := linker.Link(forest, testLogger())

	assert.Equal(t, 1, stats.LinkedTowns)
	assert.Equal(t, 1, stats.LinkedVillages)

	// Villages attach to towns, never directly to the district.
	assert.Same(t, town, forest.Parent(village))
	assert.Same(t, district, forest.Parent(town))
}

func TestLink_DegenerateBoundaryNeverLinks(t *testing.T) {
	forest := models.NewForest()
	district := models.NewRegion("District", models.LevelDistrict, rect(t, 0, 0, 4, 4))
	forest.Add(district)

	// A collinear ring has zero area; a majority-overlap threshold derived
	// from it would be zero and accept any touching district.
	collinear, err := geometry.NewPolygon([]orb.Point{{1, 1}, {2, 2}, {3, 3}})
	require.NoError(t, err)
	town := models.NewRegion("Sliver Town", models.LevelTown, collinear)
	forest.Add(town)

	stats := linker.Link(forest, testLogger())

	assert.Zero(t, stats.LinkedTowns)
	assert.Equal(t, 1, stats.UnlinkedTowns)
	assert.False(t, town.Linked())
	assert.Empty(t, forest.Children(district))
}

func TestLink_BoundarylessRegions(t *testing.T) {
	t.Run("finer region without a boundary stays unlinked", func(t *testing.T) {
		forest := models.NewForest()
		forest.Add(models.NewRegion("District", models.LevelDistrict, rect(t, 0, 0, 4, 4)))
		town := models.NewRegion("Town", models.LevelTown, nil)
		forest.Add(town)

		stats := linker.Link(forest, testLogger())

		assert.Equal(t, 1, stats.UnlinkedTowns)
		assert.False(t, town.Linked())
	})

	t.Run("coarser region without a boundary is never a candidate", func(t *testing.T) {
		forest := models.NewForest()
		forest.Add(models.NewRegion("District", models.LevelDistrict, nil))
		town := models.NewRegion("Town", models.LevelTown, rect(t, 0, 0, 2, 2))
		forest.Add(town)

		stats := linker.Link(forest, testLogger())

		assert.Equal(t, 1, stats.UnlinkedTowns)
		assert.False(t, town.Linked())
	})
}

func TestLink_EmptyForest(t *testing.T) {
	stats := linker.Link(models.NewForest(), testLogger())
	assert.Zero(t, stats.LinkedTowns)
	assert.Zero(t, stats.LinkedVillages)
	assert.Zero(t, stats.UnlinkedTowns)
	assert.Zero(t, stats.UnlinkedVillages)
}
