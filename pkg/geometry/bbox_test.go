package geometry

import (
	"testing"

	sf "github.com/peterstace/simplefeatures/geom"
)

// TestBboxContainment tests that every source vertex lies within or on
// the bounding box
func TestBboxContainment(t *testing.T) {
	tests := []struct {
		name string
		ring []sf.XY
	}{
		{
			name: "axis aligned square",
			ring: []sf.XY{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}},
		},
		{
			name: "irregular polygon",
			ring: []sf.XY{{X: -3, Y: 1}, {X: 4, Y: -2}, {X: 5, Y: 6}, {X: 0, Y: 3.5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustPolygon(t, tt.ring)
			box := Bbox(p)
			min, max, ok := Extent(box.AsGeometry())
			if !ok {
				t.Fatal("Expected non-empty box extent")
			}
			for _, xy := range tt.ring {
				if xy.X < min.X || xy.X > max.X || xy.Y < min.Y || xy.Y > max.Y {
					t.Errorf("vertex %v outside box [%v, %v]", xy, min, max)
				}
			}
		})
	}
}

// TestBboxes tests per-part box derivation
func TestBboxes(t *testing.T) {
	square := mustPolygon(t, []sf.XY{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}})
	far := mustPolygon(t, []sf.XY{{X: 10, Y: 10}, {X: 12, Y: 10}, {X: 12, Y: 12}, {X: 10, Y: 12}})
	multi := sf.NewMultiPolygon([]sf.Polygon{square, far})

	tests := []struct {
		name     string
		geom     sf.Geometry
		expected int
	}{
		{name: "polygon", geom: square.AsGeometry(), expected: 1},
		{name: "multipolygon", geom: multi.AsGeometry(), expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			boxes := Bboxes(tt.geom)
			if len(boxes) != tt.expected {
				t.Fatalf("Expected %d boxes, got %d", tt.expected, len(boxes))
			}
		})
	}
}

// TestBboxesUnknownKind tests the non-fatal diagnostic path
func TestBboxesUnknownKind(t *testing.T) {
	line := sf.NewLineString(sf.NewSequence([]float64{0, 0, 1, 1}, sf.DimXY))
	boxes := Bboxes(line.AsGeometry())
	if len(boxes) != 0 {
		t.Errorf("Expected empty result for unknown kind, got %d boxes", len(boxes))
	}
}

// TestBboxCanonical tests that derived boxes are already canonical
func TestBboxCanonical(t *testing.T) {
	p := mustPolygon(t, []sf.XY{{X: 1, Y: 3}, {X: 5, Y: 1}, {X: 6, Y: 7}, {X: 2, Y: 8}})
	box := Bbox(p)
	if !sf.ExactEquals(box.AsGeometry(), Canonical(box).AsGeometry()) {
		t.Errorf("Expected canonical box, got %s", box.AsGeometry().AsText())
	}
}
