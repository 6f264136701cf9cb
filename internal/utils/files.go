package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FindCatalogFiles recursively finds all .yaml and .yml files in the
// specified directory, sorted by path.
func FindCatalogFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip directories
		if d.IsDir() {
			return nil
		}

		switch filepath.Ext(path) {
		case ".yaml", ".yml":
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// ExpandCatalogPaths replaces every directory in paths with the catalog
// files it contains. Plain files are kept as given, in order.
func ExpandCatalogPaths(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := FindCatalogFiles(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}
