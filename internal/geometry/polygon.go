package geometry

import (
	"errors"
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ErrTooFewPoints is returned when a polygon is constructed from fewer than
// three coordinate pairs.
var ErrTooFewPoints = errors.New("polygon requires at least 3 points")

// onEdgeEpsilon bounds the cross-product test that decides whether a point
// lies on a polygon edge. Boundaries digitized from raster sources place
// points exactly on edges, so the tolerance must be tight but non-zero.
const onEdgeEpsilon = 1e-9

// Polygon is a single closed ring of (longitude, latitude) pairs in decimal
// degrees. It is immutable after construction and safe for concurrent reads.
type Polygon struct {
	ring  orb.Ring
	bound orb.Bound
}

// NewPolygon builds a polygon from an ordered ring of points. The ring is
// closed automatically when the input does not repeat the first point.
// Returns ErrTooFewPoints for inputs with fewer than three points.
func NewPolygon(points []orb.Point) (*Polygon, error) {
	const minRingPoints = 3
	if len(points) < minRingPoints {
		return nil, ErrTooFewPoints
	}

	ring := make(orb.Ring, len(points), len(points)+1)
	copy(ring, points)
	if !ring.Closed() {
		ring = append(ring, ring[0])
	}

	return &Polygon{
		ring:  ring,
		bound: ring.Bound(),
	}, nil
}

// Area returns the absolute planar area of the polygon in square degrees.
func (p *Polygon) Area() float64 {
	return math.Abs(planar.Area(p.ring))
}

// Bound returns the bounding box of the polygon.
func (p *Polygon) Bound() orb.Bound {
	return p.bound
}

// Covers reports whether the point is inside the polygon or on its boundary.
// The explicit edge test keeps boundary points matchable and also catches
// degenerate zero-area rings that the even-odd interior test rejects.
func (p *Polygon) Covers(pt orb.Point) bool {
	if !p.bound.Contains(pt) {
		return p.onEdge(pt)
	}
	return planar.RingContains(p.ring, pt) || p.onEdge(pt)
}

// onEdge reports whether pt lies on one of the ring segments.
func (p *Polygon) onEdge(pt orb.Point) bool {
	for i := 0; i < len(p.ring)-1; i++ {
		if pointOnSegment(pt, p.ring[i], p.ring[i+1]) {
			return true
		}
	}
	return false
}

// Intersects reports whether the two polygons share any area or boundary.
func (p *Polygon) Intersects(q *Polygon) bool {
	if !p.bound.Intersects(q.bound) {
		return false
	}
	if p.IntersectionArea(q) > 0 {
		return true
	}
	// Zero shared area still counts when one ring touches or sits inside
	// the other, e.g. a degenerate sliver along a common edge.
	for _, v := range q.ring {
		if p.Covers(v) {
			return true
		}
	}
	for _, v := range p.ring {
		if q.Covers(v) {
			return true
		}
	}
	return false
}

// IntersectionArea returns the planar area shared by the two polygons.
func (p *Polygon) IntersectionArea(q *Polygon) float64 {
	if !p.bound.Intersects(q.bound) {
		return 0
	}

	clipped := p.clipShape().Construct(polyclip.INTERSECTION, q.clipShape())

	// Contours keep their orientation through the clip, so holes carry the
	// opposite sign and the signed sum stays correct.
	var total float64
	for _, contour := range clipped {
		total += signedContourArea(contour)
	}

	return math.Abs(total)
}

// clipShape converts the ring into the clipping library's representation.
func (p *Polygon) clipShape() polyclip.Polygon {
	contour := make(polyclip.Contour, 0, len(p.ring)-1)
	for i := 0; i < len(p.ring)-1; i++ {
		contour = append(contour, polyclip.Point{X: p.ring[i][0], Y: p.ring[i][1]})
	}
	return polyclip.Polygon{contour}
}

// signedContourArea is the shoelace formula over one contour.
func signedContourArea(c polyclip.Contour) float64 {
	var sum float64
	n := len(c)
	for i := range c {
		j := (i + 1) % n
		sum += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	const half = 2
	return sum / half
}

// pointOnSegment reports whether pt lies on the segment [a, b].
func pointOnSegment(pt, a, b orb.Point) bool {
	cross := (b[0]-a[0])*(pt[1]-a[1]) - (b[1]-a[1])*(pt[0]-a[0])
	if math.Abs(cross) > onEdgeEpsilon {
		return false
	}

	return pt[0] >= math.Min(a[0], b[0])-onEdgeEpsilon &&
		pt[0] <= math.Max(a[0], b[0])+onEdgeEpsilon &&
		pt[1] >= math.Min(a[1], b[1])-onEdgeEpsilon &&
		pt[1] <= math.Max(a[1], b[1])+onEdgeEpsilon
}
