package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileFilter selects the files picked up when walking a directory.
type FileFilter struct {
	// Extensions such as ".c"; matched case-insensitively.
	Extensions []string
	// Exclude holds filepath.Match patterns tested against the base name
	// and against the slash-separated path relative to the walk root.
	Exclude []string
}

// Match reports whether path (relative to the walk root) is analyzed.
func (f FileFilter) Match(rel string) bool {
	if f.Excluded(rel) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(rel))
	for _, want := range f.Extensions {
		if strings.ToLower(want) == ext {
			return true
		}
	}
	return false
}

// Excluded reports whether rel matches one of the Exclude patterns.
func (f FileFilter) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	for _, pattern := range f.Exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// ListFiles returns the sorted files under dir accepted by filter.
// Hidden directories are skipped.
func ListFiles(dir string, filter FileFilter) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			if path != dir && (strings.HasPrefix(d.Name(), ".") || filter.Excluded(rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if filter.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", dir, err)
	}
	// Сортируем для детерминированного порядка
	slices.Sort(files)
	return files, nil
}

// ExpandInputs turns command line arguments into a file list: files are
// kept as given (whatever their extension), directories are walked.
// Duplicates are dropped, first occurrence wins. Missing paths are kept so
// that the analysis reports them as I/O failures.
func ExpandInputs(args []string, filter FileFilter) ([]string, error) {
	seen := make(map[string]struct{}, len(args))
	var out []string
	add := func(p string) {
		key := filepath.Clean(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				add(arg)
				continue
			}
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		files, err := ListFiles(arg, filter)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}
