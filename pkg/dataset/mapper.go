package dataset

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/dhconnelly/rtreego"
	sf "github.com/peterstace/simplefeatures/geom"

	"github.com/Oasiss999/FTCNN/internal/fsio"
	"github.com/Oasiss999/FTCNN/pkg/geometry"
)

// RasterDataset is the narrow view of a raster file the mapper needs:
// pixel dimensions and the georeferencing transform. The mapper never
// reads pixel data.
type RasterDataset interface {
	Width() int
	Height() int
	Transform() geometry.Affine
	Close() error
}

// RasterOpener opens a raster dataset by path for metadata access.
type RasterOpener interface {
	Open(path string) (RasterDataset, error)
}

// OpenerFunc adapts a function to the RasterOpener interface.
type OpenerFunc func(path string) (RasterDataset, error)

func (f OpenerFunc) Open(path string) (RasterDataset, error) { return f(path) }

// MapOptions controls raster enumeration and parallel mapping behavior.
type MapOptions struct {
	// Suffix filters enumerated raster files by file name suffix.
	Suffix string

	// Recurse enables walking the whole directory tree under the image
	// directory instead of only its immediate entries.
	Recurse bool

	// Parallel enables mapping tiles across a worker pool.
	Parallel bool

	// Workers is the number of pool workers. If 0, runtime.NumCPU().
	Workers int

	// SkipErrors causes per-file failures (unreadable rasters) to be
	// skipped and collected instead of stopping the run.
	SkipErrors bool

	// Progress is an optional callback invoked after each tile is
	// processed, with (done, total) counts.
	Progress func(done, total int)

	// ErrorLog is an optional writer for per-file error details.
	ErrorLog io.Writer
}

// DefaultMapOptions returns mapping options with sensible defaults.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Suffix:     ".tif",
		Recurse:    true,
		Parallel:   true,
		Workers:    runtime.NumCPU(),
		SkipErrors: true,
	}
}

// recordEntry adapts a record to the rtreego.Spatial interface.
type recordEntry struct {
	rec  *Record
	rect rtreego.Rect
}

func (e *recordEntry) Bounds() rtreego.Rect { return e.rect }

// boundsRect converts a geometry's extent to an R-tree rectangle.
// Degenerate extents are widened minimally; rtreego requires positive
// side lengths.
func boundsRect(g sf.Geometry) (rtreego.Rect, bool) {
	min, max, ok := geometry.Extent(g)
	if !ok {
		return rtreego.Rect{}, false
	}
	lengths := []float64{max.X - min.X, max.Y - min.Y}
	for i := range lengths {
		if lengths[i] <= 0 {
			lengths[i] = 1e-9
		}
	}
	rect, err := rtreego.NewRect(rtreego.Point{min.X, min.Y}, lengths)
	if err != nil {
		return rtreego.Rect{}, false
	}
	return rect, true
}

// compareStem reports whether the truncated stem appears as a substring
// of any of the names. This is a cheap candidate pre-filter, not an exact
// join: it can admit false positives, which the authoritative spatial
// intersection test downstream then rejects.
func compareStem(stem string, names []string) bool {
	for _, name := range names {
		prefix := stem
		if len(name) < len(prefix) {
			prefix = prefix[:len(name)]
		}
		if strings.Contains(name, prefix) {
			return true
		}
	}
	return false
}

// MapToRasters joins a vector annotation collection onto the raster tiles
// beneath imgDir, producing one output row per (tile, intersecting
// geometry) pair with the clipped intersection geometry, plus exactly one
// empty-geometry row for every tile with no intersections. Residual
// multi-part geometries are exploded into one row per simple part and
// exact duplicate rows removed.
//
// Candidate raster files are pre-filtered by comparing their stems
// against the distinct filename stems present in the collection. Each
// surviving raster is opened for metadata only and closed after its
// footprint is extracted. A raster that cannot be opened is a per-file
// failure, skipped under MapOptions.SkipErrors rather than aborting the
// run; collected errors are returned alongside the output. With
// SkipErrors disabled any per-file failure aborts the run and the
// returned collection is nil.
func MapToRasters(src *Collection, imgDir string, opener RasterOpener, opts MapOptions) (*Collection, []error) {
	imgDir, err := filepath.Abs(imgDir)
	if err != nil {
		return nil, []error{err}
	}

	paths, err := fsio.CollectWithSuffix(opts.Suffix, imgDir, opts.Recurse)
	if err != nil {
		return nil, []error{err}
	}

	stems := distinctStems(src)
	candidates := paths[:0:0]
	for _, path := range paths {
		if compareStem(fsio.Stem(path), stems) {
			candidates = append(candidates, path)
		}
	}

	tree := rtreego.NewTree(2, 25, 50)
	for _, rec := range src.Records {
		if rect, ok := boundsRect(rec.Geometry); ok {
			tree.Insert(&recordEntry{rec: rec, rect: rect})
		}
	}

	rowsPerTile, errs := mapTiles(candidates, src, opener, tree, opts)
	if rowsPerTile == nil {
		// A failure with SkipErrors disabled aborts the run.
		return nil, errs
	}

	out := NewCollection(src.CRS)
	for _, rows := range rowsPerTile {
		for _, row := range explode(rows) {
			out.Append(row)
		}
	}
	out.Records = dedupe(out.Records)
	return out, errs
}

// distinctStems collects the unique filename stems referenced by the
// collection's records.
func distinctStems(src *Collection) []string {
	var stems []string
	seen := make(map[string]struct{})
	for _, rec := range src.Records {
		v, ok := rec.Attrs.Get(FieldFilename)
		if !ok {
			continue
		}
		name, ok := v.(string)
		if !ok {
			continue
		}
		stem := fsio.Stem(name)
		if _, dup := seen[stem]; dup {
			continue
		}
		seen[stem] = struct{}{}
		stems = append(stems, stem)
	}
	return stems
}

// mapTiles runs the per-tile mapping, in a worker pool when requested.
// Results keep tile enumeration order regardless of scheduling.
func mapTiles(paths []string, src *Collection, opener RasterOpener, tree *rtreego.Rtree, opts MapOptions) ([][]*Record, []error) {
	total := len(paths)
	rowsPerTile := make([][]*Record, total)
	if total == 0 {
		return rowsPerTile, nil
	}
	var errs []error

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if !opts.Parallel {
		workers = 1
	}
	if workers > total {
		workers = total
	}

	type tileResult struct {
		index int
		rows  []*Record
		err   error
	}

	jobs := make(chan int, total)
	results := make(chan tileResult, total)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				rows, err := mapTile(paths[index], src, opener, tree)
				results <- tileResult{index: index, rows: rows, err: err}
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	failed := false
	for result := range results {
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
		if result.err != nil {
			err := fmt.Errorf("%s: %w", paths[result.index], result.err)
			if opts.ErrorLog != nil {
				fmt.Fprintf(opts.ErrorLog, "error mapping %s: %v\n", paths[result.index], result.err)
			}
			errs = append(errs, err)
			if !opts.SkipErrors {
				failed = true
			}
			continue
		}
		rowsPerTile[result.index] = result.rows
	}

	if failed {
		return nil, errs
	}
	return rowsPerTile, errs
}

// mapTile opens one raster for metadata, builds its footprint and emits
// a row per intersecting record with the clipped geometry. Tiles with no
// intersections contribute one empty-geometry row so every surviving
// raster appears in the output.
func mapTile(path string, src *Collection, opener RasterOpener, tree *rtreego.Rtree) ([]*Record, error) {
	ds, err := opener.Open(path)
	if err != nil {
		return nil, err
	}
	width, height := ds.Width(), ds.Height()
	transform := ds.Transform()
	if err := ds.Close(); err != nil {
		return nil, err
	}

	footprint := geometry.TileFootprint(transform, geometry.NewWindow(0, 0, width, height))
	footprintG := footprint.AsGeometry()

	baseAttrs := func() *Attrs {
		attrs := NewAttrs()
		attrs.Set(FieldFilename, filepath.Base(path))
		attrs.Set(FieldPath, path)
		attrs.Set(FieldWidth, width)
		attrs.Set(FieldHeight, height)
		return attrs
	}

	// R-tree candidates first, then the authoritative intersection test
	// in record order.
	inCandidates := make(map[*Record]struct{})
	if rect, ok := boundsRect(footprintG); ok {
		for _, hit := range tree.SearchIntersect(rect) {
			inCandidates[hit.(*recordEntry).rec] = struct{}{}
		}
	}

	var rows []*Record
	for _, rec := range src.Records {
		if _, ok := inCandidates[rec]; !ok {
			continue
		}
		if !sf.Intersects(rec.Geometry, footprintG) {
			continue
		}
		clipped, err := sf.Intersection(rec.Geometry, footprintG)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &Record{Attrs: baseAttrs(), Geometry: clipped})
	}

	if len(rows) == 0 {
		rows = append(rows, &Record{Attrs: baseAttrs(), Geometry: sf.Polygon{}.AsGeometry()})
	}
	return rows, nil
}

// explode splits residual multi-part geometries into one row per part.
func explode(rows []*Record) []*Record {
	out := make([]*Record, 0, len(rows))
	for _, row := range rows {
		switch row.Geometry.Type() {
		case sf.TypeMultiPolygon:
			mp := row.Geometry.MustAsMultiPolygon()
			for i := 0; i < mp.NumPolygons(); i++ {
				out = append(out, &Record{Attrs: row.Attrs.Clone(), Geometry: mp.PolygonN(i).AsGeometry()})
			}
		case sf.TypeMultiLineString:
			mls := row.Geometry.MustAsMultiLineString()
			for i := 0; i < mls.NumLineStrings(); i++ {
				out = append(out, &Record{Attrs: row.Attrs.Clone(), Geometry: mls.LineStringN(i).AsGeometry()})
			}
		case sf.TypeMultiPoint:
			mp := row.Geometry.MustAsMultiPoint()
			for i := 0; i < mp.NumPoints(); i++ {
				out = append(out, &Record{Attrs: row.Attrs.Clone(), Geometry: mp.PointN(i).AsGeometry()})
			}
		case sf.TypeGeometryCollection:
			gc := row.Geometry.MustAsGeometryCollection()
			for i := 0; i < gc.NumGeometries(); i++ {
				out = append(out, &Record{Attrs: row.Attrs.Clone(), Geometry: gc.GeometryN(i)})
			}
		default:
			out = append(out, row)
		}
	}
	return out
}

// dedupe removes exact duplicate rows, keeping first occurrences.
func dedupe(rows []*Record) []*Record {
	seen := make(map[string]struct{}, len(rows))
	out := rows[:0:0]
	for _, row := range rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func rowKey(r *Record) string {
	var b strings.Builder
	for _, k := range r.Attrs.Keys() {
		v, _ := r.Attrs.Get(k)
		fmt.Fprintf(&b, "%s=%v;", k, v)
	}
	b.WriteString(r.Geometry.AsText())
	return b.String()
}
