package geometry

import (
	sf "github.com/peterstace/simplefeatures/geom"
)

// Extent returns the minimum and maximum coordinates over all polygon
// parts of the geometry. ok is false for empty input or kinds other than
// Polygon and MultiPolygon.
func Extent(g sf.Geometry) (min, max sf.XY, ok bool) {
	for _, part := range polygonParts(g) {
		for _, xy := range ringVertices(part.ExteriorRing()) {
			if !ok {
				min, max = xy, xy
				ok = true
				continue
			}
			if xy.X < min.X {
				min.X = xy.X
			}
			if xy.X > max.X {
				max.X = xy.X
			}
			if xy.Y < min.Y {
				min.Y = xy.Y
			}
			if xy.Y > max.Y {
				max.Y = xy.Y
			}
		}
	}
	return min, max, ok
}
