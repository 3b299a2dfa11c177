package geometry

import (
	"errors"
	"testing"

	sf "github.com/peterstace/simplefeatures/geom"
)

// TestParsePolygonString tests textual coordinate extraction
func TestParsePolygonString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []sf.XY
	}{
		{
			name:  "bare pairs",
			input: "1 2, 3 4, 5 6",
			expected: []sf.XY{
				{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6},
			},
		},
		{
			name:  "wkt wrapper stripped",
			input: "POLYGON ((1 2, 3 4, 5 6))",
			expected: []sf.XY{
				{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6},
			},
		},
		{
			name:  "zero z ordinate removed",
			input: "(1.5 2.5 0, 3.25 4.25 0, 5 6 0)",
			expected: []sf.XY{
				{X: 1.5, Y: 2.5}, {X: 3.25, Y: 4.25}, {X: 5, Y: 6},
			},
		},
		{
			name:  "inner parentheses per point",
			input: "(1 2), (3 4), (5 6)",
			expected: []sf.XY{
				{X: 1, Y: 2}, {X: 3, Y: 4}, {X: 5, Y: 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts, err := ParsePolygonString(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(pts) != len(tt.expected) {
				t.Fatalf("Expected %d points, got %d", len(tt.expected), len(pts))
			}
			for i, want := range tt.expected {
				if pts[i] != want {
					t.Errorf("point %d: Expected %v, got %v", i, want, pts[i])
				}
			}
		})
	}
}

// TestParsePolygonStringErrors tests malformed input handling
func TestParsePolygonStringErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "three fields", input: "1 2 3, 4 5 6"},
		{name: "single field", input: "1, 2"},
		{name: "non numeric", input: "1 2, 3 x4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolygonString(tt.input)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Errorf("Expected *ParseError, got %T", err)
			}
		})
	}
}

// TestPointsFromFlat tests flat coordinate pairing
func TestPointsFromFlat(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []sf.XY
	}{
		{
			name:     "even length",
			input:    []float64{0, 0, 2, 0, 2, 2},
			expected: []sf.XY{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}},
		},
		{
			name:     "odd length truncates final value",
			input:    []float64{0, 0, 2, 0, 2, 2, 9},
			expected: []sf.XY{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}},
		},
		{
			name:     "empty",
			input:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pts := PointsFromFlat(tt.input)
			if len(pts) != len(tt.expected) {
				t.Fatalf("Expected %d points, got %d", len(tt.expected), len(pts))
			}
			for i, want := range tt.expected {
				if pts[i] != want {
					t.Errorf("point %d: Expected %v, got %v", i, want, pts[i])
				}
			}
		})
	}
}
