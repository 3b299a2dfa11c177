// Package fsio enumerates files on disk for the preprocessing pipelines.
package fsio

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// CollectWithSuffix returns the paths under root whose name ends with
// suffix, in lexical order. With recurse false only root's immediate
// entries are considered; otherwise the whole tree is walked.
func CollectWithSuffix(suffix, root string, recurse bool) ([]string, error) {
	var paths []string

	if !recurse {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if strings.HasSuffix(entry.Name(), suffix) {
				paths = append(paths, filepath.Join(root, entry.Name()))
			}
		}
		return paths, nil
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), suffix) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
