package dataset

import (
	"math"
	"testing"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/Oasiss999/FTCNN/pkg/geometry"
)

func squareRecord(t *testing.T, x, y, side float64, attrs map[string]any) *Record {
	t.Helper()
	p, err := geometry.PolygonFromPoints([]sf.XY{
		{X: x, Y: y},
		{X: x + side, Y: y},
		{X: x + side, Y: y + side},
		{X: x, Y: y + side},
	})
	if err != nil {
		t.Fatalf("building square: %v", err)
	}
	rec := NewRecord(p.AsGeometry())
	for k, v := range attrs {
		rec.Attrs.Set(k, v)
	}
	return rec
}

// TestGroupByOrder tests group-of-first-encounter ordering
func TestGroupByOrder(t *testing.T) {
	c := NewCollection("EPSG:32633")
	c.Append(squareRecord(t, 0, 0, 1, map[string]any{"region": "b"}))
	c.Append(squareRecord(t, 5, 0, 1, map[string]any{"region": "a"}))
	c.Append(squareRecord(t, 10, 0, 1, map[string]any{"region": "b"}))

	groups := c.GroupBy("region")
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Key != "b" || groups[1].Key != "a" {
		t.Errorf("Expected first-encounter order [b a], got [%v %v]",
			groups[0].Key, groups[1].Key)
	}
	if len(groups[0].Records) != 2 || len(groups[1].Records) != 1 {
		t.Errorf("Expected member counts [2 1], got [%d %d]",
			len(groups[0].Records), len(groups[1].Records))
	}
}

// TestFlattenSinglePart tests the single-part union path
func TestFlattenSinglePart(t *testing.T) {
	c := NewCollection("EPSG:32633")
	c.Append(squareRecord(t, 0, 0, 2, map[string]any{"label": "first"}))
	c.Append(squareRecord(t, 1, 1, 2, map[string]any{"label": "second"}))

	out, err := Flatten(c, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", out.Len())
	}

	row := out.Records[0]
	// Single-part unions take the first member's attributes.
	if v, _ := row.Attrs.Get("label"); v != "first" {
		t.Errorf("Expected template label %q, got %v", "first", v)
	}
	if math.Abs(row.Geometry.Area()-7) > 1e-9 {
		t.Errorf("Expected merged area 7, got %f", row.Geometry.Area())
	}
	if !row.Attrs.Has(FieldBbox) {
		t.Error("Expected bbox attribute on output row")
	}
	if out.CRS != c.CRS {
		t.Errorf("Expected CRS %q, got %q", c.CRS, out.CRS)
	}
}

// TestFlattenMultiPart tests positional attribute correspondence and the
// part-times-box row shape for disjoint members
func TestFlattenMultiPart(t *testing.T) {
	c := NewCollection("EPSG:32633")
	c.Append(squareRecord(t, 0, 0, 1, map[string]any{"label": "west"}))
	c.Append(squareRecord(t, 10, 0, 1, map[string]any{"label": "east"}))

	out, err := Flatten(c, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Two parts, each paired with both of the union's bounding boxes.
	if out.Len() != 4 {
		t.Fatalf("Expected 4 rows, got %d", out.Len())
	}

	labelCounts := make(map[string]int)
	boxes := make(map[string]struct{})
	for _, row := range out.Records {
		v, _ := row.Attrs.Get("label")
		labelCounts[v.(string)]++

		if row.Geometry.Type() != sf.TypePolygon {
			t.Errorf("Expected simple polygon rows, got %s", row.Geometry.Type())
		}
		if math.Abs(row.Geometry.Area()-1) > 1e-9 {
			t.Errorf("Expected single-part area 1, got %f", row.Geometry.Area())
		}
		box, ok := row.Attrs.Get(FieldBbox)
		if !ok {
			t.Fatal("Expected bbox attribute")
		}
		boxPoly, ok := box.(sf.Polygon)
		if !ok {
			t.Fatalf("Expected polygon bbox, got %T", box)
		}
		boxes[boxPoly.AsGeometry().AsText()] = struct{}{}
	}
	if labelCounts["west"] != 2 || labelCounts["east"] != 2 {
		t.Errorf("Expected each member template on 2 rows, got %v", labelCounts)
	}
	if len(boxes) != 2 {
		t.Errorf("Expected 2 distinct union-derived boxes, got %d", len(boxes))
	}
}

// TestFlattenGrouped tests that grouping isolates unions per key
func TestFlattenGrouped(t *testing.T) {
	c := NewCollection("EPSG:32633")
	// Overlapping pair in group a, lone square in group b.
	c.Append(squareRecord(t, 0, 0, 2, map[string]any{"region": "a"}))
	c.Append(squareRecord(t, 1, 1, 2, map[string]any{"region": "a"}))
	c.Append(squareRecord(t, 50, 50, 2, map[string]any{"region": "b"}))

	out, err := Flatten(c, "region")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 2 {
		t.Fatalf("Expected 2 rows, got %d", out.Len())
	}
	if v, _ := out.Records[0].Attrs.Get("region"); v != "a" {
		t.Errorf("Expected group a first, got %v", v)
	}
	if v, _ := out.Records[1].Attrs.Get("region"); v != "b" {
		t.Errorf("Expected group b second, got %v", v)
	}
}
