// Package resolver maps coordinates to the most specific known region path.
package resolver

import (
	"github.com/AerialWorks/gazetteer/internal/models"
	"github.com/paulmach/orb"
)

// Resolver answers point-in-region queries against a built forest. It only
// reads the forest, so one resolver may serve any number of goroutines once
// parsing and linking are complete.
type Resolver struct {
	forest *models.Forest
}

// New creates a resolver over the forest. The forest must not be mutated
// afterwards.
func New(forest *models.Forest) *Resolver {
	return &Resolver{forest: forest}
}

// Resolve returns the match for one coordinate using tiered fallback: all
// villages first, towns only when no village matched, districts only when
// neither did. Within a tier the first covering region wins in parsing
// order; overlapping boundaries at the same level are a data-quality issue
// this deliberately does not arbitrate. Regions without a boundary are never
// candidates.
//
// A coordinate outside every known boundary yields an empty result; that is
// a normal classification outcome, not an error.
func (r *Resolver) Resolve(coords models.Coordinates) models.MatchResult {
	point := coords.Point()

	if village := r.matchTier(models.LevelVillage, point); village != nil {
		town := r.forest.Parent(village)
		return models.MatchResult{
			Village:  village,
			Town:     town,
			District: r.forest.Parent(town),
		}
	}

	if town := r.matchTier(models.LevelTown, point); town != nil {
		return models.MatchResult{
			Town:     town,
			District: r.forest.Parent(town),
		}
	}

	if district := r.matchTier(models.LevelDistrict, point); district != nil {
		return models.MatchResult{District: district}
	}

	return models.MatchResult{}
}

// matchTier scans one level bucket for the first region covering the point.
func (r *Resolver) matchTier(level models.Level, point orb.Point) *models.Region {
	for _, region := range r.forest.Regions(level) {
		if !region.HasBoundary() {
			continue
		}
		if region.Boundary.Covers(point) {
			return region
		}
	}
	return nil
}
