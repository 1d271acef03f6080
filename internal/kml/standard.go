package kml

import (
	"strconv"

	"github.com/AerialWorks/gazetteer/internal/geometry"
	"github.com/AerialWorks/gazetteer/internal/models"
)

// parseStandard buckets every Placemark by the width of its LineStyle. The
// width is the direct level selector; elements with a missing name, a missing
// width, or a width outside {1,2,3} are discarded rather than defaulted.
// Hierarchy is not encoded structurally in this mode, so no parent links are
// made here.
func (p *Parser) parseStandard(root *node, forest *models.Forest) {
	discarded := 0
	p.eachPlacemark(root, func(pm *node) {
		name := pm.childText(nameTags...)
		if name == "" {
			discarded++
			return
		}

		level, ok := placemarkLevel(pm)
		if !ok {
			discarded++
			return
		}

		forest.Add(models.NewRegion(name, level, placemarkBoundary(pm)))
	})

	if discarded > 0 {
		p.log.Debug("Discarded placemarks without a usable name or level", "count", discarded)
	}
}

// eachPlacemark calls fn for every Placemark element in the tree, in document
// order. Placemarks nested inside folders are included; order beyond the
// document order is not significant because all elements are bucketed before
// linking.
func (p *Parser) eachPlacemark(n *node, fn func(*node)) {
	if n.local() == "Placemark" {
		fn(n)
		return
	}
	for i := range n.Children {
		p.eachPlacemark(&n.Children[i], fn)
	}
}

// placemarkLevel reads the Style/LineStyle/width chain and converts it into
// a region level. Returns false for absent or out-of-range widths.
func placemarkLevel(pm *node) (models.Level, bool) {
	style := directChild(pm, "Style")
	if style == nil {
		return 0, false
	}
	lineStyle := directChild(style, "LineStyle")
	if lineStyle == nil {
		return 0, false
	}
	width := directChild(lineStyle, "width")
	if width == nil {
		return 0, false
	}

	value, err := strconv.Atoi(width.text())
	if err != nil {
		return 0, false
	}

	level := models.Level(value)
	if !level.Valid() {
		return 0, false
	}
	return level, true
}

// placemarkBoundary builds the polygon from the first coordinates element
// found under the placemark. Fewer than three valid pairs leave the region
// boundary-less; it stays in the forest for naming but is invisible to
// geometric matching.
func placemarkBoundary(pm *node) *geometry.Polygon {
	coords := pm.findDescendant("coordinates")
	if coords == nil || coords.text() == "" {
		return nil
	}

	points := parseCoordinates(coords.text())
	polygon, err := geometry.NewPolygon(points)
	if err != nil {
		return nil
	}
	return polygon
}

// directChild returns the first direct child with the given local name.
func directChild(n *node, name string) *node {
	for i := range n.Children {
		if n.Children[i].local() == name {
			return &n.Children[i]
		}
	}
	return nil
}
