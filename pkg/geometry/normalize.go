package geometry

import (
	"sort"

	sf "github.com/peterstace/simplefeatures/geom"
)

// SimplifyTolerance is the fixed vertex reduction tolerance, in ground
// units, applied during normalization.
const SimplifyTolerance = 0.002

// lessXY orders points by x, breaking ties by y.
func lessXY(a, b sf.XY) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

// canonicalRing rotates the ring to start at its lexicographically least
// vertex and rewinds it to the requested orientation.
func canonicalRing(xys []sf.XY, clockwise bool) []sf.XY {
	n := len(xys)
	if n == 0 {
		return xys
	}
	least := 0
	for i := 1; i < n; i++ {
		if lessXY(xys[i], xys[least]) {
			least = i
		}
	}
	out := make([]sf.XY, 0, n)
	out = append(out, xys[least:]...)
	out = append(out, xys[:least]...)

	ccw := signedArea(out) > 0
	if ccw == clockwise {
		// Reverse the tail so the start vertex stays first.
		for i, j := 1, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Canonical rewrites a polygon into its canonical representative form:
// every ring starts at its lexicographically least vertex, the exterior
// ring winds counter-clockwise, holes wind clockwise, and holes are
// ordered by their start vertex. Logically identical polygons become
// vertex-for-vertex equal after canonicalization.
func Canonical(p sf.Polygon) sf.Polygon {
	if p.IsEmpty() {
		return p
	}
	exterior := canonicalRing(ringVertices(p.ExteriorRing()), false)
	rings := make([]sf.LineString, 0, 1+p.NumInteriorRings())
	rings = append(rings, closeRing(exterior))

	holes := make([][]sf.XY, 0, p.NumInteriorRings())
	for i := 0; i < p.NumInteriorRings(); i++ {
		holes = append(holes, canonicalRing(ringVertices(p.InteriorRingN(i)), true))
	}
	sort.Slice(holes, func(i, j int) bool {
		return lessXY(holes[i][0], holes[j][0])
	})
	for _, hole := range holes {
		rings = append(rings, closeRing(hole))
	}
	return sf.NewPolygon(rings)
}

// NormalizePolygon simplifies the polygon with topology-preserving vertex
// reduction at SimplifyTolerance and returns its canonical form.
// Normalizing an already normalized polygon is idempotent up to floating
// point tolerance.
func NormalizePolygon(p sf.Polygon) (sf.Polygon, error) {
	simplified, err := p.AsGeometry().Simplify(SimplifyTolerance)
	if err != nil {
		return sf.Polygon{}, err
	}
	if simplified.Type() != sf.TypePolygon {
		return sf.Polygon{}, &UnknownGeometryError{Type: simplified.Type()}
	}
	return Canonical(simplified.MustAsPolygon()), nil
}

// NormalizeString parses a textual polygon representation and normalizes
// the result.
func NormalizeString(s string) (sf.Polygon, error) {
	pts, err := ParsePolygonString(s)
	if err != nil {
		return sf.Polygon{}, err
	}
	p, err := PolygonFromPoints(pts)
	if err != nil {
		return sf.Polygon{}, err
	}
	return NormalizePolygon(p)
}

// NormalizeFlat builds a polygon from a flat coordinate sequence and
// normalizes the result.
func NormalizeFlat(coords []float64) (sf.Polygon, error) {
	p, err := PolygonFromPoints(PointsFromFlat(coords))
	if err != nil {
		return sf.Polygon{}, err
	}
	return NormalizePolygon(p)
}
