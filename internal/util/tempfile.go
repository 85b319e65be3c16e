package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// PartialSuffix marks in-progress transcoder outputs. A partial never counts
// as a finished conversion; it is renamed onto the final path only after the
// transcoder exits successfully.
const PartialSuffix = ".partial"

// MinFreeSpaceBytes is the floor below which CheckDiskSpace warns.
const MinFreeSpaceBytes uint64 = 2 * GiB

// PartialPath returns the in-progress sibling for an output path.
func PartialPath(outputPath string) string {
	return outputPath + PartialSuffix
}

// IsPartialPath reports whether path names an in-progress output.
func IsPartialPath(path string) bool {
	return strings.HasSuffix(path, PartialSuffix)
}

// CommitPartial renames a finished partial onto its final path. The two live
// in the same directory, so the rename is atomic on POSIX filesystems.
func CommitPartial(partialPath, outputPath string) error {
	if err := os.Rename(partialPath, outputPath); err != nil {
		return fmt.Errorf("failed to commit partial output: %w", err)
	}
	return nil
}

// RemovePartial deletes a partial output. A missing file is not an error.
func RemovePartial(partialPath string) error {
	err := os.Remove(partialPath)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CleanupStalePartials walks root and removes partial outputs older than
// maxAge, returning the number removed. Younger partials are left alone in
// case another run still owns them.
func CleanupStalePartials(root string, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !IsPartialPath(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				removed++
			}
		}
		return nil
	})

	return removed, err
}

// GetAvailableSpace returns the bytes available to unprivileged writers on
// the filesystem containing path.
func GetAvailableSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// SpaceLogger receives disk space findings.
type SpaceLogger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// CheckDiskSpace reports the space available for writing into dir, warning
// when it is below MinFreeSpaceBytes. Transcodes proceed regardless; the
// transcoder fails on its own when the disk actually fills.
func CheckDiskSpace(dir string, log SpaceLogger) {
	avail, err := GetAvailableSpace(dir)
	if err != nil {
		log.Warnf("could not determine free space for %s: %v", dir, err)
		return
	}
	if avail < MinFreeSpaceBytes {
		log.Warnf("low disk space in %s: %s available", dir, FormatBytes(avail))
		return
	}
	log.Debugf("free space in %s: %s", dir, FormatBytes(avail))
}
