package ffmpeg

import (
	"context"
	"math"
	"os/exec"
	"path/filepath"
	"testing"
)

// generateSample writes a short synthetic clip with the real ffmpeg. The
// encoder is left to ffmpeg's default so the test does not depend on a
// particular build.
func generateSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.mp4")
	cmd := exec.Command("ffmpeg",
		"-f", "lavfi", "-i", "testsrc2=duration=1:size=128x72:rate=10",
		"-pix_fmt", "yuv420p",
		"-y", path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("generating sample clip failed: %v, %s", err, out)
	}
	return path
}

func TestRunCompareIdenticalStreams(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found")
	}

	sample := generateSample(t)

	stderr, err := RunCompare(context.Background(), CompareArgs(sample, sample))
	if err != nil {
		t.Fatalf("RunCompare() error = %v", err)
	}

	metrics, err := ParseComparisonMetrics(stderr)
	if err != nil {
		t.Fatalf("ParseComparisonMetrics() error = %v\nstderr:\n%s", err, stderr)
	}

	if metrics.SSIM < 0.999 {
		t.Errorf("SSIM = %v, want 1.0 for a clip compared against itself", metrics.SSIM)
	}
	if !math.IsInf(metrics.PSNR, 1) && metrics.PSNR < 50 {
		t.Errorf("PSNR = %v, want inf or very high for identical streams", metrics.PSNR)
	}
}
