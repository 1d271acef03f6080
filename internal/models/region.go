package models

import (
	"fmt"

	"github.com/AerialWorks/gazetteer/internal/geometry"
)

// Level is the tier of an administrative region. The numeric values match the
// LineStyle widths used by standard-mode boundary files, so a parsed width is
// a Level directly.
type Level int

// Administrative levels, finest to coarsest.
const (
	LevelVillage  Level = 1
	LevelTown     Level = 2
	LevelDistrict Level = 3
)

// Valid reports whether the level is one of the three known tiers.
func (l Level) Valid() bool {
	return l >= LevelVillage && l <= LevelDistrict
}

// Coarser returns the next coarser level and whether one exists.
func (l Level) Coarser() (Level, bool) {
	if l >= LevelDistrict {
		return 0, false
	}
	return l + 1, true
}

func (l Level) String() string {
	switch l {
	case LevelVillage:
		return "village"
	case LevelTown:
		return "town"
	case LevelDistrict:
		return "district"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// unlinked marks a region without a parent.
const unlinked = -1

// Region is one named administrative unit. Its boundary is nil when the
// source document lacked enough coordinate data; such a region is still valid
// for naming but invisible to geometric matching.
//
// The parent is a weak back-reference stored as an index into the forest's
// next-coarser bucket, never a pointer, so the forest owns the whole tree
// top-down and parallel readers share it without aliasing concerns.
type Region struct {
	Name     string
	Level    Level
	Boundary *geometry.Polygon

	parent   int
	children []int
}

// NewRegion creates an unlinked region. The boundary may be nil.
func NewRegion(name string, level Level, boundary *geometry.Polygon) *Region {
	return &Region{
		Name:     name,
		Level:    level,
		Boundary: boundary,
		parent:   unlinked,
	}
}

// HasBoundary reports whether the region carries a usable polygon.
func (r *Region) HasBoundary() bool {
	return r.Boundary != nil
}

// Linked reports whether the region has a parent.
func (r *Region) Linked() bool {
	return r.parent != unlinked
}

func (r *Region) String() string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Level)
}

// Forest holds every parsed region bucketed by level. It is built once per
// run, mutated only by parsing and linking, and read-only afterwards; point
// queries may then run concurrently without synchronization.
type Forest struct {
	buckets map[Level][]*Region
}

// NewForest returns an empty forest with all three level buckets present.
func NewForest() *Forest {
	return &Forest{
		buckets: map[Level][]*Region{
			LevelVillage:  {},
			LevelTown:     {},
			LevelDistrict: {},
		},
	}
}

// Add appends the region to its level bucket and returns its index there.
func (f *Forest) Add(r *Region) int {
	f.buckets[r.Level] = append(f.buckets[r.Level], r)
	return len(f.buckets[r.Level]) - 1
}

// Regions returns the ordered bucket for one level. Callers must not mutate
// the returned slice.
func (f *Forest) Regions(level Level) []*Region {
	return f.buckets[level]
}

// Empty reports whether no region was parsed at any level.
func (f *Forest) Empty() bool {
	return len(f.buckets[LevelVillage]) == 0 &&
		len(f.buckets[LevelTown]) == 0 &&
		len(f.buckets[LevelDistrict]) == 0
}

// Link records childIdx (at the given level) as a child of parentIdx at the
// next coarser level. It fails when the ordinal invariant would break: the
// parent must be exactly one level coarser and the child must not already
// have a parent.
func (f *Forest) Link(childLevel Level, childIdx, parentIdx int) error {
	parentLevel, ok := childLevel.Coarser()
	if !ok {
		return fmt.Errorf("cannot link %s: no coarser level exists", childLevel)
	}

	children := f.buckets[childLevel]
	parents := f.buckets[parentLevel]
	if childIdx < 0 || childIdx >= len(children) {
		return fmt.Errorf("child index %d out of range for %s", childIdx, childLevel)
	}
	if parentIdx < 0 || parentIdx >= len(parents) {
		return fmt.Errorf("parent index %d out of range for %s", parentIdx, parentLevel)
	}
	if children[childIdx].Linked() {
		return fmt.Errorf("region %q already has a parent", children[childIdx].Name)
	}

	children[childIdx].parent = parentIdx
	parents[parentIdx].children = append(parents[parentIdx].children, childIdx)

	return nil
}

// Parent returns the linked parent region, or nil when the region is
// unlinked.
func (f *Forest) Parent(r *Region) *Region {
	if r == nil || !r.Linked() {
		return nil
	}
	parentLevel, ok := r.Level.Coarser()
	if !ok {
		return nil
	}
	return f.buckets[parentLevel][r.parent]
}

// Children returns the regions one level finer that link to r, in insertion
// order.
func (f *Forest) Children(r *Region) []*Region {
	if r == nil || len(r.children) == 0 {
		return nil
	}
	bucket := f.buckets[r.Level-1]
	out := make([]*Region, 0, len(r.children))
	for _, idx := range r.children {
		out = append(out, bucket[idx])
	}
	return out
}

// MatchResult is the outcome of resolving one coordinate: up to three region
// references ordered finest to coarsest. A finer entry may be present with a
// coarser one missing when the ancestry link was never established.
type MatchResult struct {
	Village  *Region
	Town     *Region
	District *Region
}

// Empty reports whether nothing matched at any tier.
func (m MatchResult) Empty() bool {
	return m.Village == nil && m.Town == nil && m.District == nil
}

// PathParts returns the directory path for the match, coarsest first. The
// path only descends while the chain from the district down is unbroken: a
// village whose town or district link is missing cannot be placed under a
// named district and contributes no path.
func (m MatchResult) PathParts() []string {
	if m.District == nil {
		return nil
	}
	parts := []string{m.District.Name}
	if m.Town == nil {
		return parts
	}
	parts = append(parts, m.Town.Name)
	if m.Village == nil {
		return parts
	}
	return append(parts, m.Village.Name)
}
