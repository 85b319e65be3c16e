// Package discovery locates conversion sources under a root directory.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hevcify/hevcify/internal/errors"
	"github.com/hevcify/hevcify/internal/util"
)

// Logger is the subset of logging the discovery walk needs.
type Logger interface {
	Infof(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Result carries the discovered sources plus walk metadata.
type Result struct {
	Files        []string
	SkippedCount int
}

// FindSourceFiles walks root recursively and returns every regular file
// whose extension matches ext case-insensitively. Hidden files and hidden
// directories (name prefixed with a dot) are skipped. Files come back in
// walk order, which is lexical within each directory.
//
// An empty result is not an error; the caller decides what a batch with
// nothing to do means.
func FindSourceFiles(root, ext string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.NewIOError("directory does not exist: "+root, err)
	}
	if !info.IsDir() {
		return nil, errors.NewIOError(root+" is not a directory", nil)
	}

	result := &Result{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		hidden := strings.HasPrefix(name, ".") && path != root

		if d.IsDir() {
			if hidden {
				return fs.SkipDir
			}
			return nil
		}
		if hidden || !d.Type().IsRegular() {
			return nil
		}

		if util.HasExtension(path, ext) {
			result.Files = append(result.Files, path)
		} else {
			result.SkippedCount++
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewIOError("cannot read directory tree under "+root, err)
	}

	return result, nil
}

// FindSourceFilesWithLogging runs FindSourceFiles and logs what it found.
func FindSourceFilesWithLogging(root, ext string, logger Logger) (*Result, error) {
	result, err := FindSourceFiles(root, ext)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logDiscoveredFiles(result, logger)
	}
	return result, nil
}

// logDiscoveredFiles logs the first 5 discovered files plus a count.
func logDiscoveredFiles(result *Result, logger Logger) {
	if len(result.Files) == 0 {
		logger.Infof("No source files found")
		return
	}

	logger.Infof("Found %d source file(s)", len(result.Files))

	maxToLog := min(5, len(result.Files))
	for i := 0; i < maxToLog; i++ {
		logger.Debugf("  %s", filepath.Base(result.Files[i]))
	}
	if len(result.Files) > 5 {
		logger.Debugf("  ... and %d more", len(result.Files)-5)
	}
	if result.SkippedCount > 0 {
		logger.Debugf("Skipped %d non-source file(s)", result.SkippedCount)
	}
}
