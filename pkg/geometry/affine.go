package geometry

import (
	sf "github.com/peterstace/simplefeatures/geom"
)

// Affine maps pixel coordinates (col, row) to ground coordinates (x, y):
//
//	x = A*col + B*row + C
//	y = D*col + E*row + F
//
// The coefficient order matches the conventional georeferencing transform
// of a north-up raster, where A and E are the pixel scales and C and F the
// origin. The transform is read-only to this package; it is owned by the
// raster dataset it was read from.
type Affine struct {
	A, B, C, D, E, F float64
}

// Apply maps a pixel coordinate to ground space.
func (t Affine) Apply(col, row float64) (x, y float64) {
	return t.A*col + t.B*row + t.C, t.D*col + t.E*row + t.F
}

// Window describes a pixel-space rectangle within a raster dataset.
type Window struct {
	ColOff, RowOff int
	Width, Height  int
}

// NewWindow builds a window from a column/row offset and extent.
func NewWindow(colOff, rowOff, width, height int) Window {
	return Window{ColOff: colOff, RowOff: rowOff, Width: width, Height: height}
}

// windowTransform shifts the transform origin to the window offset, so
// that pixel (0,0) of the window maps to the window's ground position.
func (t Affine) windowTransform(w Window) Affine {
	col, row := float64(w.ColOff), float64(w.RowOff)
	shifted := t
	shifted.C = t.C + t.A*col + t.B*row
	shifted.F = t.F + t.D*col + t.E*row
	return shifted
}

// TileFootprint returns the ground-space rectangle covering the given
// window of a raster with the given transform. The corners are mapped in
// the order (0,0), (w,0), (w,h), (0,h) and the ring is closed back to the
// first corner.
//
// No simplification or canonicalization is applied: downstream
// intersection tests depend on the footprint matching the raster's true
// georeferenced extent exactly, within floating precision.
func TileFootprint(t Affine, w Window) sf.Polygon {
	tile := t.windowTransform(w)
	width, height := float64(w.Width), float64(w.Height)

	flat := make([]float64, 0, 10)
	for _, corner := range [][2]float64{
		{0, 0},
		{width, 0},
		{width, height},
		{0, height},
		{0, 0},
	} {
		x, y := tile.Apply(corner[0], corner[1])
		flat = append(flat, x, y)
	}
	ring := sf.NewLineString(sf.NewSequence(flat, sf.DimXY))
	return sf.NewPolygon([]sf.LineString{ring})
}
