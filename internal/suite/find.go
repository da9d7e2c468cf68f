package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Find expands a path into suite files. A file is returned as is; a
// directory is walked for .yaml, .yml and .cue files. When filter is not
// empty only files whose base name matches the glob are kept.
func Find(path, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("suite path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSuiteFile(p) {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, filepath.Base(p))
			if err != nil {
				return fmt.Errorf("bad filter %q: %w", filter, err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func isSuiteFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml", ".cue":
		return true
	}
	return false
}
