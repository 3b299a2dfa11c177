// Package geometry prepares polygon annotations for alignment with raster
// imagery: parsing and canonicalization of polygons, bounding box
// derivation, decomposition and merging of multi-part geometries, and
// ground-space footprints for raster tile windows.
//
// Geometry values are represented with the simplefeatures geom package.
// All coordinates within a single pipeline run are assumed to share one
// coordinate reference system; mixing reference systems is a contract
// violation and is not checked here.
package geometry

import (
	sf "github.com/peterstace/simplefeatures/geom"
)

// ringVertices returns the ring's vertices without the closing duplicate.
func ringVertices(ring sf.LineString) []sf.XY {
	seq := ring.Coordinates()
	n := seq.Length()
	if n == 0 {
		return nil
	}
	xys := make([]sf.XY, 0, n)
	for i := 0; i < n; i++ {
		xys = append(xys, seq.GetXY(i))
	}
	if len(xys) > 1 && xys[0] == xys[len(xys)-1] {
		xys = xys[:len(xys)-1]
	}
	return xys
}

// signedArea computes the shoelace area of an open ring.
// Positive means counter-clockwise winding.
func signedArea(xys []sf.XY) float64 {
	var sum float64
	n := len(xys)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += xys[i].X*xys[j].Y - xys[j].X*xys[i].Y
	}
	return sum / 2
}

// closeRing builds a closed LineString from open ring vertices.
func closeRing(xys []sf.XY) sf.LineString {
	flat := make([]float64, 0, 2*(len(xys)+1))
	for _, xy := range xys {
		flat = append(flat, xy.X, xy.Y)
	}
	if len(xys) > 0 {
		flat = append(flat, xys[0].X, xys[0].Y)
	}
	return sf.NewLineString(sf.NewSequence(flat, sf.DimXY))
}

// PolygonFromPoints builds a polygon whose exterior ring is the given
// vertex sequence. The ring is closed automatically if the first and last
// vertices differ.
func PolygonFromPoints(pts []sf.XY) (sf.Polygon, error) {
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return sf.Polygon{}, &ParseError{Reason: "polygon requires at least 3 distinct vertices"}
	}
	return sf.NewPolygon([]sf.LineString{closeRing(pts)}), nil
}
