// Package geotiff reads GeoTIFF metadata: pixel dimensions and the
// georeferencing transform. Only the image file directory is parsed;
// pixel data is never touched, and the file is closed before Open
// returns.
package geotiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Oasiss999/FTCNN/pkg/geometry"
)

// TIFF header constants.
const (
	littleEndian       = 0x4949 // "II"
	bigEndian          = 0x4D4D // "MM"
	tiffIdentifier     = 42
	bigTiffIdentifier  = 43
	bigTiffBytesize    = 8
	classicIFDEntryLen = 12
	bigIFDEntryLen     = 20
)

// Tags this reader cares about.
const (
	tagImageWidth          = 256
	tagImageLength         = 257
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
)

// TIFF field types.
const (
	typeShort  = 3
	typeLong   = 4
	typeDouble = 12
	typeLong8  = 16
)

// Dataset holds the georeferencing metadata of one raster file.
type Dataset struct {
	path      string
	width     int
	height    int
	transform geometry.Affine
}

func (d *Dataset) Path() string               { return d.path }
func (d *Dataset) Width() int                 { return d.width }
func (d *Dataset) Height() int                { return d.height }
func (d *Dataset) Transform() geometry.Affine { return d.transform }

// Close is a no-op: the underlying file is closed during Open once the
// metadata has been read.
func (d *Dataset) Close() error { return nil }

// Open reads the dataset metadata from a GeoTIFF file. Failures are
// reported as *OpenError wrapping the cause.
func Open(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := read(f)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	ds.path = path
	return ds, nil
}

// header holds byte order, format variant and first IFD offset.
type header struct {
	byteOrder binary.ByteOrder
	isBigTIFF bool
	ifdOffset uint64
}

// entry is one IFD entry with its raw value bytes resolved.
type entry struct {
	fieldType uint16
	count     uint64
	value     []byte
}

func read(r io.ReadSeeker) (*Dataset, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	tags, err := readIFD(r, h)
	if err != nil {
		return nil, err
	}

	width, ok := tagUint(tags, h.byteOrder, tagImageWidth)
	if !ok {
		return nil, errors.New("missing or invalid tag: ImageWidth")
	}
	height, ok := tagUint(tags, h.byteOrder, tagImageLength)
	if !ok {
		return nil, errors.New("missing or invalid tag: ImageLength")
	}

	transform, err := readTransform(tags, h.byteOrder)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		width:     int(width),
		height:    int(height),
		transform: transform,
	}, nil
}

// readHeader parses byte order, TIFF variant and the first IFD offset.
func readHeader(r io.Reader) (header, error) {
	var h header

	var orderBytes uint16
	if err := binary.Read(r, binary.BigEndian, &orderBytes); err != nil {
		return h, err
	}
	switch orderBytes {
	case littleEndian:
		h.byteOrder = binary.LittleEndian
	case bigEndian:
		h.byteOrder = binary.BigEndian
	default:
		return h, errors.New("invalid byte order")
	}

	var identifier uint16
	if err := binary.Read(r, h.byteOrder, &identifier); err != nil {
		return h, err
	}
	switch identifier {
	case tiffIdentifier:
		var offset32 uint32
		if err := binary.Read(r, h.byteOrder, &offset32); err != nil {
			return h, err
		}
		h.ifdOffset = uint64(offset32)
	case bigTiffIdentifier:
		h.isBigTIFF = true
		var bytesize, reserved uint16
		if err := binary.Read(r, h.byteOrder, &bytesize); err != nil {
			return h, err
		}
		if bytesize != bigTiffBytesize {
			return h, errors.New("invalid BigTIFF bytesize")
		}
		if err := binary.Read(r, h.byteOrder, &reserved); err != nil {
			return h, err
		}
		if err := binary.Read(r, h.byteOrder, &h.ifdOffset); err != nil {
			return h, err
		}
	default:
		return h, fmt.Errorf("invalid tiff identifier: %d", identifier)
	}
	return h, nil
}

// readIFD reads the first image file directory. Subsequent IFDs hold
// overviews and are not needed for georeferencing.
func readIFD(r io.ReadSeeker, h header) (map[uint16]entry, error) {
	if h.ifdOffset == 0 {
		return nil, errors.New("file contains no IFDs")
	}
	if _, err := r.Seek(int64(h.ifdOffset), io.SeekStart); err != nil {
		return nil, err
	}

	var numEntries uint64
	if h.isBigTIFF {
		if err := binary.Read(r, h.byteOrder, &numEntries); err != nil {
			return nil, err
		}
	} else {
		var n16 uint16
		if err := binary.Read(r, h.byteOrder, &n16); err != nil {
			return nil, err
		}
		numEntries = uint64(n16)
	}

	entryLen := classicIFDEntryLen
	if h.isBigTIFF {
		entryLen = bigIFDEntryLen
	}
	raw := make([]byte, int(numEntries)*entryLen)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}

	tags := make(map[uint16]entry, numEntries)
	for i := uint64(0); i < numEntries; i++ {
		buf := raw[int(i)*entryLen : int(i+1)*entryLen]
		tag := h.byteOrder.Uint16(buf[0:2])
		e := entry{fieldType: h.byteOrder.Uint16(buf[2:4])}

		var inline []byte
		if h.isBigTIFF {
			e.count = h.byteOrder.Uint64(buf[4:12])
			inline = buf[12:20]
		} else {
			e.count = uint64(h.byteOrder.Uint32(buf[4:8]))
			inline = buf[8:12]
		}

		size := fieldSize(e.fieldType) * int(e.count)
		if size <= 0 {
			continue
		}
		if size <= len(inline) {
			e.value = append([]byte(nil), inline[:size]...)
		} else {
			var offset uint64
			if h.isBigTIFF {
				offset = h.byteOrder.Uint64(inline)
			} else {
				offset = uint64(h.byteOrder.Uint32(inline))
			}
			if _, err := r.Seek(int64(offset), io.SeekStart); err != nil {
				return nil, err
			}
			value := make([]byte, size)
			if _, err := io.ReadFull(r, value); err != nil {
				return nil, err
			}
			e.value = value
		}
		tags[tag] = e
	}
	return tags, nil
}

// doubles decodes a DOUBLE tag's values.
func (e entry) doubles(order binary.ByteOrder) ([]float64, bool) {
	if e.fieldType != typeDouble || len(e.value) < 8*int(e.count) {
		return nil, false
	}
	out := make([]float64, e.count)
	for i := range out {
		bits := order.Uint64(e.value[i*8 : i*8+8])
		out[i] = math.Float64frombits(bits)
	}
	return out, true
}

func fieldSize(fieldType uint16) int {
	switch fieldType {
	case typeShort:
		return 2
	case typeLong:
		return 4
	case typeDouble, typeLong8:
		return 8
	default:
		return 0
	}
}

// tagUint reads a SHORT, LONG or LONG8 tag as an unsigned integer.
func tagUint(tags map[uint16]entry, order binary.ByteOrder, tag uint16) (uint64, bool) {
	e, ok := tags[tag]
	if !ok || e.count == 0 {
		return 0, false
	}
	switch e.fieldType {
	case typeShort:
		if len(e.value) < 2 {
			return 0, false
		}
		return uint64(order.Uint16(e.value[:2])), true
	case typeLong:
		if len(e.value) < 4 {
			return 0, false
		}
		return uint64(order.Uint32(e.value[:4])), true
	case typeLong8:
		if len(e.value) < 8 {
			return 0, false
		}
		return order.Uint64(e.value[:8]), true
	default:
		return 0, false
	}
}

// readTransform derives the pixel-to-ground affine transform from either
// the ModelTransformation matrix or the ModelPixelScale plus
// ModelTiepoint pair.
func readTransform(tags map[uint16]entry, order binary.ByteOrder) (geometry.Affine, error) {
	if e, ok := tags[tagModelTransformation]; ok {
		m, ok := e.doubles(order)
		if !ok || len(m) < 16 {
			return geometry.Affine{}, errors.New("invalid ModelTransformation tag")
		}
		// Row-major 4x4 matrix; the planar coefficients are in the
		// first two rows.
		return geometry.Affine{
			A: m[0], B: m[1], C: m[3],
			D: m[4], E: m[5], F: m[7],
		}, nil
	}

	scaleTag, ok := tags[tagModelPixelScale]
	if !ok {
		return geometry.Affine{}, errors.New("missing tag: ModelPixelScale")
	}
	scale, ok := scaleTag.doubles(order)
	if !ok || len(scale) < 2 {
		return geometry.Affine{}, errors.New("invalid ModelPixelScale tag")
	}
	tieTag, ok := tags[tagModelTiepoint]
	if !ok {
		return geometry.Affine{}, errors.New("missing tag: ModelTiepoint")
	}
	tie, ok := tieTag.doubles(order)
	if !ok || len(tie) < 6 {
		return geometry.Affine{}, errors.New("invalid ModelTiepoint tag")
	}

	sx, sy := scale[0], scale[1]
	if sy < 0 {
		sy = -sy
	}
	// Tiepoint (i, j) in pixel space anchors (x, y) in ground space;
	// north-up rasters have a negative y scale.
	i, j := tie[0], tie[1]
	x, y := tie[3], tie[4]
	return geometry.Affine{
		A: sx, B: 0, C: x - i*sx,
		D: 0, E: -sy, F: y + j*sy,
	}, nil
}
