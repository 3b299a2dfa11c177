package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/Oasiss999/FTCNN/pkg/dataset"
	"github.com/Oasiss999/FTCNN/pkg/geometry"
)

// readCollection loads annotation records from a CSV file whose
// geometryColumn holds textual polygon coordinates. Geometries are
// normalized on ingest; other columns become string attributes in header
// order.
func readCollection(path, geometryColumn, crs string) (*dataset.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", path, err)
	}
	geomIdx := -1
	for i, name := range header {
		if name == geometryColumn {
			geomIdx = i
			break
		}
	}
	if geomIdx < 0 {
		return nil, fmt.Errorf("%s: missing geometry column %q", path, geometryColumn)
	}

	out := dataset.NewCollection(crs)
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		poly, err := geometry.NormalizeString(row[geomIdx])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rec := dataset.NewRecord(poly.AsGeometry())
		for i, name := range header {
			if i == geomIdx || i >= len(row) {
				continue
			}
			rec.Attrs.Set(name, row[i])
		}
		out.Append(rec)
	}
	return out, nil
}

// writeCollection writes records to CSV with geometries and bounding
// boxes rendered as WKT. The header is the union of attribute keys in
// first-seen order plus a trailing geometry column.
func writeCollection(c *dataset.Collection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var header []string
	seen := make(map[string]struct{})
	for _, rec := range c.Records {
		for _, k := range rec.Attrs.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			header = append(header, k)
		}
	}
	header = append(header, "geometry")

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rec := range c.Records {
		row := make([]string, 0, len(header))
		for _, k := range header[:len(header)-1] {
			v, _ := rec.Attrs.Get(k)
			row = append(row, attrString(v))
		}
		row = append(row, rec.Geometry.AsText())
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func attrString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case sf.Polygon:
		return v.AsGeometry().AsText()
	case sf.Geometry:
		return v.AsText()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
