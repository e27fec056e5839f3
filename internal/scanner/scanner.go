// Package scanner discovers candidate log files in a directory.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	vetErrors "github.com/Aman-CERP/logvet/internal/errors"
)

// DefaultPatterns are used when no discovery patterns are configured.
var DefaultPatterns = []string{"*.log"}

// Discover lists the regular files directly inside dir whose base name
// matches any of patterns. Symlinks count when their target is a regular
// file; dangling links are skipped. Subdirectories are not descended into.
// Paths are joined with dir and sorted lexically.
func Discover(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	for _, p := range patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			return nil, vetErrors.New(vetErrors.ErrCodeInvalidInput,
				fmt.Sprintf("invalid discovery pattern %q", p), err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, vetErrors.IOError("log directory not found", err).
				WithDetail("path", dir).
				WithSuggestion("Check system.log_directory or pass an existing directory")
		}
		return nil, vetErrors.New(vetErrors.ErrCodeFilePermission, "cannot read log directory", err).
			WithDetail("path", dir)
	}

	var paths []string
	for _, entry := range entries {
		if !Match(entry.Name(), patterns) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if isRegularFile(entry, path) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return paths, nil
}

func isRegularFile(entry fs.DirEntry, path string) bool {
	if entry.Type()&fs.ModeSymlink == 0 {
		return entry.Type().IsRegular()
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Match reports whether the base name of path matches any pattern.
// Malformed patterns never match.
func Match(path string, patterns []string) bool {
	name := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
