package dataset

import (
	"log/slog"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/Oasiss999/FTCNN/pkg/geometry"
)

// Flatten converts grouped, possibly multi-part geometries into one simple
// polygon per row with derived bounding box attributes.
//
// Records are partitioned by the groupBy attribute (empty means one group
// for the whole collection) and each group's member geometries are
// unioned. Bounding boxes are derived from the whole union, one per
// simple part, and every part is paired with every derived box: a k-part
// union emits k*k rows, each carrying one simple part as its geometry and
// one box under the "bbox" attribute. A single-part union emits one row.
//
// Attribute templates are positional: part i of a multi-part union takes
// the attributes of the group's i-th member, which is only a faithful
// correspondence when parts arise from already-separate input geometries.
// When a union produces more parts than the group has members, the
// template index clamps to the last member. A single-part union always
// takes the first member's attributes.
//
// The output collection shares the input's coordinate reference
// identifier.
func Flatten(src *Collection, groupBy string) (*Collection, error) {
	out := NewCollection(src.CRS)

	for _, group := range src.GroupBy(groupBy) {
		if len(group.Records) == 0 {
			continue
		}
		union, err := unionAll(group.Records)
		if err != nil {
			return nil, err
		}

		switch union.Type() {
		case sf.TypeMultiPolygon:
			parts, err := geometry.GeomPolygons(union, false)
			if err != nil {
				return nil, err
			}
			boxes := geometry.Bboxes(union)
			for i, part := range parts {
				member := i
				if member >= len(group.Records) {
					member = len(group.Records) - 1
				}
				for _, box := range boxes {
					emitPart(out, group.Records[member], part, box)
				}
			}

		case sf.TypePolygon:
			poly := geometry.Canonical(union.MustAsPolygon())
			emitPart(out, group.Records[0], poly, geometry.Bbox(poly))

		default:
			slog.Warn("flatten: skipping group with non-polygonal union",
				"key", group.Key, "type", union.Type())
		}
	}
	return out, nil
}

// emitPart appends one output row: the template record's attributes plus
// the given bounding box, with the geometry column replaced by the part.
func emitPart(out *Collection, template *Record, part, box sf.Polygon) {
	attrs := template.Attrs.Clone()
	attrs.Set(FieldBbox, box)
	out.Append(&Record{Attrs: attrs, Geometry: part.AsGeometry()})
}
