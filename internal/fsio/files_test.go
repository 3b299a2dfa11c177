package fsio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCollectWithSuffix(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.tif", "b.txt", "c.tif"}
	for _, name := range files {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("creating subdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "d.tif"), nil, 0o644); err != nil {
		t.Fatalf("writing d.tif: %v", err)
	}

	tests := []struct {
		name     string
		suffix   string
		recurse  bool
		expected []string
	}{
		{
			name:    "flat",
			suffix:  ".tif",
			recurse: false,
			expected: []string{
				filepath.Join(dir, "a.tif"),
				filepath.Join(dir, "c.tif"),
			},
		},
		{
			name:    "recursive",
			suffix:  ".tif",
			recurse: true,
			expected: []string{
				filepath.Join(dir, "a.tif"),
				filepath.Join(dir, "c.tif"),
				filepath.Join(sub, "d.tif"),
			},
		},
		{
			name:     "no matches",
			suffix:   ".png",
			recurse:  true,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := CollectWithSuffix(tt.suffix, dir, tt.recurse)
			if err != nil {
				t.Fatalf("CollectWithSuffix failed: %v", err)
			}
			if len(paths) != len(tt.expected) {
				t.Fatalf("Expected %d paths, got %d", len(tt.expected), len(paths))
			}
			for i, path := range paths {
				if path != tt.expected[i] {
					t.Errorf("Expected %s, got %s", tt.expected[i], path)
				}
			}
		})
	}
}

func TestCollectWithSuffixMissingDir(t *testing.T) {
	if _, err := CollectWithSuffix(".tif", filepath.Join(t.TempDir(), "absent"), false); err == nil {
		t.Error("Expected error for missing directory")
	}
}

func TestStem(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{path: "/data/tiles/area1_tile_0.tif", expected: "area1_tile_0"},
		{path: "area1.tif", expected: "area1"},
		{path: "noext", expected: "noext"},
		{path: "archive.tar.gz", expected: "archive.tar"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Stem(tt.path); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}
