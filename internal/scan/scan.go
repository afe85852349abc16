// Package scan selects candidate input files from a directory.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Eligible returns the names of regular files in dir that carry one of the
// extensions (case-insensitive) and do not already bear the output suffix,
// in lexicographic order.
func Eligible(dir string, extensions []string, outputSuffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if outputSuffix != "" && strings.Contains(name, outputSuffix) {
			continue
		}
		if !hasExtension(name, extensions) {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)
	return files, nil
}

// WriteList writes the absolute path of every file to path, one per line.
func WriteList(path, dir string, files []string) error {
	var b strings.Builder
	for _, file := range files {
		abs, err := filepath.Abs(filepath.Join(dir, file))
		if err != nil {
			return err
		}
		b.WriteString(abs)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func hasExtension(name string, extensions []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range extensions {
		if ext != "" && strings.HasSuffix(lower, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
