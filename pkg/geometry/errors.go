package geometry

import (
	"fmt"

	sf "github.com/peterstace/simplefeatures/geom"
)

// ParseError indicates malformed textual or numeric coordinate input.
type ParseError struct {
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("parse polygon: %s (token %q)", e.Reason, e.Token)
	}
	return fmt.Sprintf("parse polygon: %s", e.Reason)
}

// UnknownGeometryError indicates a geometry kind outside Polygon and
// MultiPolygon.
type UnknownGeometryError struct {
	Type sf.GeometryType
}

func (e *UnknownGeometryError) Error() string {
	return fmt.Sprintf("unknown geometry type: %s", e.Type)
}
