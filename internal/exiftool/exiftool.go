// Package exiftool provides the metadata tool adapter. Its single concern is
// carrying the source file's modification timestamp onto a converted output.
package exiftool

import (
	"context"
	"os"
	"os/exec"

	"github.com/hevcify/hevcify/internal/errors"
)

// copyModifyDateArgs builds the in-place timestamp copy: FileModifyDate is
// the tool's view of the filesystem mtime, so pulling it from srcPath stamps
// dstPath with the source's modification time. No sidecar backup is left.
func copyModifyDateArgs(srcPath, dstPath string) []string {
	return []string{
		"-TagsFromFile", srcPath,
		"-FileModifyDate",
		"-overwrite_original",
		dstPath,
	}
}

// CopyModifyDate stamps dstPath with srcPath's modification timestamp.
func CopyModifyDate(ctx context.Context, srcPath, dstPath string) error {
	cmd := exec.CommandContext(ctx, "exiftool", copyModifyDateArgs(srcPath, dstPath)...)
	cmd.Env = append(os.Environ(), "LC_ALL=C", "LC_NUMERIC=C")

	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return errors.NewCancelledError()
		}
		return errors.WrapExecError("exiftool", err, string(output))
	}

	return nil
}
