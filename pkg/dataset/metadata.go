package dataset

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Registered so image.DecodeConfig can probe the dimensions of
	// non-GeoTIFF imagery referenced by annotation records.
	_ "image/jpeg"
	_ "image/png"
)

// ParseFilenameFunc derives the expected image filename for a record.
type ParseFilenameFunc func(*Record) string

// Field names one preserved attribute in a metadata mapping. From is the
// attribute name in the source row; Name is the column it is stored under
// in the output. Renames are applied before the merge into the output row.
type Field struct {
	Name string
	From string
}

// PreserveFields builds pass-through field specs that keep their names.
func PreserveFields(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		fields = append(fields, Field{Name: name, From: name})
	}
	return fields
}

// RenamedField builds a field spec storing the source attribute from
// under name.
func RenamedField(name, from string) Field {
	return Field{Name: name, From: from}
}

// MapMetadata joins image metadata onto annotation records. For each
// record the filename is derived via parseFilename and resolved under
// imagesDir; records whose image is missing are dropped, and duplicate
// paths are emitted once. GeoTIFF dimensions are read through the raster
// opener, other formats through image.DecodeConfig.
//
// Each output row carries filename, path, width, height and the record's
// bounding box attribute, followed by the preserved fields. Requesting a
// preserve field absent from the source row fails with a
// *FieldMissingError.
func MapMetadata(src *Collection, imagesDir string, opener RasterOpener, parseFilename ParseFilenameFunc, preserve []Field) (*Collection, error) {
	imagesDir, err := filepath.Abs(imagesDir)
	if err != nil {
		return nil, err
	}

	out := NewCollection(src.CRS)
	seen := make(map[string]struct{})

	for _, rec := range src.Records {
		filename := parseFilename(rec)
		path := filepath.Join(imagesDir, filename)

		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}

		width, height, err := imageSize(path, opener)
		if err != nil {
			return nil, err
		}

		attrs := NewAttrs()
		attrs.Set(FieldFilename, filename)
		attrs.Set(FieldPath, path)
		attrs.Set(FieldWidth, width)
		attrs.Set(FieldHeight, height)
		bbox, _ := rec.Attrs.Get(FieldBbox)
		attrs.Set(FieldBbox, bbox)

		for _, field := range preserve {
			v, ok := rec.Attrs.Get(field.From)
			if !ok {
				return nil, &FieldMissingError{Field: field.From}
			}
			attrs.Set(field.Name, v)
		}

		out.Append(&Record{Attrs: attrs, Geometry: rec.Geometry})
	}
	return out, nil
}

// imageSize probes an image's pixel dimensions without decoding pixels.
func imageSize(path string, opener RasterOpener) (width, height int, err error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		ds, err := opener.Open(path)
		if err != nil {
			return 0, 0, err
		}
		defer ds.Close()
		return ds.Width(), ds.Height(), nil
	default:
		f, err := os.Open(path)
		if err != nil {
			return 0, 0, err
		}
		defer f.Close()
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return 0, 0, fmt.Errorf("decoding %s: %w", path, err)
		}
		return cfg.Width, cfg.Height, nil
	}
}
