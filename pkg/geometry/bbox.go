package geometry

import (
	"log/slog"

	sf "github.com/peterstace/simplefeatures/geom"
)

// Bbox returns the axis-aligned bounding rectangle of a simple polygon as
// a canonical polygon. Every vertex of the source polygon lies within or
// on the returned rectangle.
func Bbox(p sf.Polygon) sf.Polygon {
	xys := ringVertices(p.ExteriorRing())
	if len(xys) == 0 {
		return sf.Polygon{}
	}
	minX, minY := xys[0].X, xys[0].Y
	maxX, maxY := minX, minY
	for _, xy := range xys[1:] {
		if xy.X < minX {
			minX = xy.X
		}
		if xy.X > maxX {
			maxX = xy.X
		}
		if xy.Y < minY {
			minY = xy.Y
		}
		if xy.Y > maxY {
			maxY = xy.Y
		}
	}
	// Counter-clockwise from the least vertex, already canonical.
	ring := []sf.XY{
		{X: minX, Y: minY},
		{X: maxX, Y: minY},
		{X: maxX, Y: maxY},
		{X: minX, Y: maxY},
	}
	return sf.NewPolygon([]sf.LineString{closeRing(ring)})
}

// Bboxes returns one bounding box per constituent simple polygon: a single
// box for a Polygon, one per part for a MultiPolygon.
//
// Unknown geometry kinds are non-fatal here: they produce an empty result
// with a diagnostic. Bounding box derivation is best-effort support for an
// otherwise successful run, so callers must handle the empty case.
func Bboxes(g sf.Geometry) []sf.Polygon {
	var boxes []sf.Polygon
	switch g.Type() {
	case sf.TypePolygon:
		boxes = append(boxes, Bbox(g.MustAsPolygon()))
	case sf.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		for i := 0; i < mp.NumPolygons(); i++ {
			boxes = append(boxes, Bbox(mp.PolygonN(i)))
		}
	default:
		slog.Warn("bounding box: unknown geometry type", "type", g.Type())
	}
	return boxes
}
