package validation

import (
	"context"

	"github.com/hevcify/hevcify/internal/ffmpeg"
	"github.com/hevcify/hevcify/internal/ffprobe"
)

// DefaultAnalyzer implements Analyzer using the real ffprobe and ffmpeg
// executables.
type DefaultAnalyzer struct{}

// NewDefaultAnalyzer creates a new DefaultAnalyzer instance.
func NewDefaultAnalyzer() *DefaultAnalyzer {
	return &DefaultAnalyzer{}
}

// VideoCodecName returns the first video stream codec using ffprobe.
func (a *DefaultAnalyzer) VideoCodecName(ctx context.Context, path string) (string, error) {
	return ffprobe.VideoCodecName(ctx, path)
}

// DurationSeconds returns the container duration using ffprobe.
func (a *DefaultAnalyzer) DurationSeconds(ctx context.Context, path string) (float64, error) {
	return ffprobe.DurationSeconds(ctx, path)
}

// CompareQuality runs a single ffmpeg comparison pass over both files and
// parses the aggregate SSIM and PSNR scores from its output.
func (a *DefaultAnalyzer) CompareQuality(ctx context.Context, originalPath, convertedPath string) (QualityMetrics, error) {
	args := ffmpeg.CompareArgs(convertedPath, originalPath)
	stderr, err := ffmpeg.RunCompare(ctx, args)
	if err != nil {
		return QualityMetrics{}, err
	}

	metrics, err := ffmpeg.ParseComparisonMetrics(stderr)
	if err != nil {
		return QualityMetrics{}, err
	}
	return QualityMetrics{SSIM: metrics.SSIM, PSNR: metrics.PSNR}, nil
}
