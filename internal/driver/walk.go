package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListPyFiles возвращает отсортированный список всех *.py файлов под dir.
// Hidden entries are skipped the way the original tool skips them.
func ListPyFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if strings.HasSuffix(name, ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ExpandPaths resolves command-line arguments into the concrete file list:
// files pass through, directories expand to their *.py contents (the whole
// subtree when recursive), and excluded paths are dropped.
func ExpandPaths(paths []string, recursive bool, excluded func(string) bool) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})

	add := func(path string) {
		if excluded != nil && excluded(path) {
			return
		}
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", path, err)
		}
		if !info.IsDir() {
			add(path)
			continue
		}
		if recursive {
			files, err := ListPyFiles(path)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".py") {
				continue
			}
			add(filepath.Join(path, name))
		}
	}
	return out, nil
}
