package scan

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Walk returns every file under root in sorted path order. Symlinked
// directories are not descended into; a symlink that resolves to a regular
// file is included like the file itself.
func Walk(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		switch {
		case d.Type().IsRegular():
			files = append(files, path)
		case d.Type()&fs.ModeSymlink != 0:
			info, statErr := os.Stat(path)
			if statErr == nil && info.Mode().IsRegular() {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
