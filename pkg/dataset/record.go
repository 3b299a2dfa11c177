// Package dataset models tabular vector annotation collections and the
// pipelines that prepare them for raster tile alignment: grouped
// flattening into one simple polygon per row, image metadata mapping, and
// the vector-to-raster spatial join.
package dataset

import (
	sf "github.com/peterstace/simplefeatures/geom"
)

// Standard attribute names produced by the pipelines.
const (
	FieldFilename = "filename"
	FieldPath     = "path"
	FieldWidth    = "width"
	FieldHeight   = "height"
	FieldBbox     = "bbox"
)

// Record is one annotation row: a geometry plus an open attribute mapping.
type Record struct {
	Attrs    *Attrs
	Geometry sf.Geometry
}

// NewRecord builds a record with an empty attribute mapping.
func NewRecord(g sf.Geometry) *Record {
	return &Record{Attrs: NewAttrs(), Geometry: g}
}

// Collection is an ordered set of records sharing one coordinate
// reference identifier.
type Collection struct {
	CRS     string
	Records []*Record
}

// NewCollection returns an empty collection tagged with the given
// coordinate reference identifier.
func NewCollection(crs string) *Collection {
	return &Collection{CRS: crs}
}

// Append adds a record to the collection.
func (c *Collection) Append(r *Record) {
	c.Records = append(c.Records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int {
	return len(c.Records)
}

// Group is one partition of a collection under a grouping key.
type Group struct {
	Key     any
	Records []*Record
}

// GroupBy partitions records by the value of the named attribute. Groups
// appear in the order their key is first encountered and members keep
// their insertion order. An empty key name places the whole collection in
// a single group. Records missing the attribute group under a nil key.
func (c *Collection) GroupBy(key string) []Group {
	if key == "" {
		return []Group{{Records: c.Records}}
	}
	var groups []Group
	index := make(map[any]int)
	for _, rec := range c.Records {
		v, _ := rec.Attrs.Get(key)
		i, ok := index[v]
		if !ok {
			i = len(groups)
			index[v] = i
			groups = append(groups, Group{Key: v})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// unionAll folds the geometries of the given records into their union.
func unionAll(records []*Record) (sf.Geometry, error) {
	var union sf.Geometry
	first := true
	for _, rec := range records {
		if first {
			union = rec.Geometry
			first = false
			continue
		}
		merged, err := sf.Union(union, rec.Geometry)
		if err != nil {
			return sf.Geometry{}, err
		}
		union = merged
	}
	return union, nil
}
