package geometry

import (
	sf "github.com/peterstace/simplefeatures/geom"
)

// polygonParts lists the simple polygon parts of a Polygon or
// MultiPolygon result.
func polygonParts(g sf.Geometry) []sf.Polygon {
	switch g.Type() {
	case sf.TypePolygon:
		return []sf.Polygon{g.MustAsPolygon()}
	case sf.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		parts := make([]sf.Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			parts = append(parts, mp.PolygonN(i))
		}
		return parts
	default:
		return nil
	}
}

// GeomPolygons extracts the simple polygons of a Polygon or MultiPolygon.
//
// With flatten false, a MultiPolygon decomposes into its constituent
// polygons, each canonicalized; a Polygon yields a single-element list.
//
// With flatten true, parts that overlap or touch are merged into connected
// shapes using a greedy first-match scan: each candidate part is unioned
// against accumulated shapes in order, and the first genuine merge replaces
// that accumulated shape and ends the scan for the candidate. Depending on
// input order, a candidate bridging two accumulated shapes can leave them
// unmerged. That under-merge is a documented limitation of this strategy,
// not corrected here.
func GeomPolygons(g sf.Geometry, flatten bool) ([]sf.Polygon, error) {
	switch g.Type() {
	case sf.TypePolygon:
		return []sf.Polygon{Canonical(g.MustAsPolygon())}, nil

	case sf.TypeMultiPolygon:
		mp := g.MustAsMultiPolygon()
		parts := make([]sf.Polygon, 0, mp.NumPolygons())
		for i := 0; i < mp.NumPolygons(); i++ {
			parts = append(parts, Canonical(mp.PolygonN(i)))
		}
		if !flatten {
			return parts, nil
		}
		return mergeParts(parts)

	default:
		return nil, &UnknownGeometryError{Type: g.Type()}
	}
}

// mergeParts folds overlapping or touching parts into connected shapes.
func mergeParts(parts []sf.Polygon) ([]sf.Polygon, error) {
	var flattened []sf.Polygon
	for _, part := range parts {
		if len(flattened) == 0 {
			flattened = append(flattened, part)
			continue
		}
		found := false
		for i, flat := range flattened {
			union, err := sf.Union(flat.AsGeometry(), part.AsGeometry())
			if err != nil {
				return nil, err
			}
			for _, merged := range polygonParts(union) {
				// A union part equal to either input means no merge
				// happened between these two shapes.
				same, err := equalsEither(merged, flat, part)
				if err != nil {
					return nil, err
				}
				if same {
					continue
				}
				flattened[i] = merged
				found = true
				break
			}
			if found {
				break
			}
		}
		if !found {
			flattened = append(flattened, part)
		}
	}
	return flattened, nil
}

func equalsEither(p, a, b sf.Polygon) (bool, error) {
	eq, err := sf.Equals(p.AsGeometry(), a.AsGeometry())
	if err != nil || eq {
		return eq, err
	}
	return sf.Equals(p.AsGeometry(), b.AsGeometry())
}
