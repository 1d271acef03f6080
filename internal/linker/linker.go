// Package linker establishes parent/child edges between the flat level
// buckets produced by standard-mode parsing. Nested-mode forests arrive
// already linked and must not pass through here a second time.
package linker

import (
	"log/slog"

	"github.com/AerialWorks/gazetteer/internal/models"
)

// overlapRatio is the share of the finer region's own area that must be
// covered by a coarser candidate before a link is made. Majority overlap
// rather than strict containment tolerates the misalignment between
// independently digitized boundary layers.
const overlapRatio = 0.5

// Stats aggregates the linking outcome. Shortfalls are not errors; a finer
// region that clears no candidate simply stays unlinked and is reported here
// as a count, never per instance.
type Stats struct {
	LinkedTowns      int
	UnlinkedTowns    int
	LinkedVillages   int
	UnlinkedVillages int
}

// Link connects towns to districts and then villages to towns using the
// majority-overlap rule. The forest must contain all regions of both levels
// before the call; it is mutated in place and should be treated as immutable
// afterwards.
//
// The overlap rule is a heuristic, not a containment proof: when districts
// themselves overlap heavily, a town can attach to the wrong one. That is a
// property of the input data, not something resolved here.
func Link(forest *models.Forest, log *slog.Logger) Stats {
	var stats Stats

	stats.LinkedTowns, stats.UnlinkedTowns = linkLevel(forest, models.LevelTown)
	stats.LinkedVillages, stats.UnlinkedVillages = linkLevel(forest, models.LevelVillage)

	log.Info("Region hierarchy linked",
		"linked_towns", stats.LinkedTowns,
		"unlinked_towns", stats.UnlinkedTowns,
		"linked_villages", stats.LinkedVillages,
		"unlinked_villages", stats.UnlinkedVillages,
	)

	return stats
}

// linkLevel links every region at the finer level to the first coarser
// candidate whose overlap clears the threshold. Iteration order is insertion
// order from parsing; the first qualifying candidate wins with no further
// tie-break. Regions without a boundary on either side are never linked.
func linkLevel(forest *models.Forest, finer models.Level) (linked, unlinked int) {
	coarser, ok := finer.Coarser()
	if !ok {
		return 0, 0
	}

	finerRegions := forest.Regions(finer)
	coarserRegions := forest.Regions(coarser)

	for childIdx, child := range finerRegions {
		if !child.HasBoundary() {
			unlinked++
			continue
		}

		// A degenerate zero-area ring would collapse the threshold to zero
		// and link to anything it touches; it stays unlinked instead.
		area := child.Boundary.Area()
		if area == 0 {
			unlinked++
			continue
		}

		threshold := area * overlapRatio
		found := false
		for parentIdx, parent := range coarserRegions {
			if !parent.HasBoundary() || !child.Boundary.Intersects(parent.Boundary) {
				continue
			}
			if child.Boundary.IntersectionArea(parent.Boundary) >= threshold {
				if err := forest.Link(finer, childIdx, parentIdx); err == nil {
					found = true
				}
				break
			}
		}

		if found {
			linked++
		} else {
			unlinked++
		}
	}

	return linked, unlinked
}
