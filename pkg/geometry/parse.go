package geometry

import (
	"strconv"
	"strings"

	sf "github.com/peterstace/simplefeatures/geom"
)

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// ParsePolygonString extracts coordinate pairs from a textual polygon
// representation such as "POLYGON ((x1 y1 0, x2 y2 0, ...))".
//
// Leading and trailing characters that are not part of a numeric token are
// stripped by scanning inward from both ends until a digit is found at each
// boundary. The remainder is split on ", " into point tokens; each token
// has a trailing " 0" z-ordinate marker and any parentheses removed, then
// is split on whitespace into exactly two floating point values.
func ParsePolygonString(s string) ([]sf.XY, error) {
	size := len(s)
	start, end := 0, size-1
	for start < end && start < size && end >= 0 &&
		!(isDigit(s[start]) && isDigit(s[end])) {
		if !isDigit(s[start]) {
			start++
		}
		if !isDigit(s[end]) {
			end--
		}
	}
	if start < size && end >= 0 {
		s = s[start : end+1]
	}

	tokens := strings.Split(s, ", ")
	parsed := make([]sf.XY, 0, len(tokens))
	for _, token := range tokens {
		cleaned := strings.TrimSuffix(token, " 0")
		cleaned = strings.ReplaceAll(cleaned, "(", "")
		cleaned = strings.ReplaceAll(cleaned, ")", "")
		fields := strings.Fields(cleaned)
		if len(fields) != 2 {
			return nil, &ParseError{Token: token, Reason: "expected two coordinate values"}
		}
		x, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, &ParseError{Token: token, Reason: "invalid x coordinate"}
		}
		y, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, &ParseError{Token: token, Reason: "invalid y coordinate"}
		}
		parsed = append(parsed, sf.XY{X: x, Y: y})
	}
	return parsed, nil
}

// PointsFromFlat pairs a flat coordinate sequence [x0,y0,x1,y1,...] into
// points. An odd-length sequence silently drops the final lone value;
// callers are expected to supply even-length input.
func PointsFromFlat(coords []float64) []sf.XY {
	pts := make([]sf.XY, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, sf.XY{X: coords[i], Y: coords[i+1]})
	}
	return pts
}
