// Package validation provides post-conversion validation checks.
package validation

import "context"

// MediaProber answers stream questions about a media file. The interface
// exists so validation logic can be tested without ffprobe installed.
type MediaProber interface {
	// VideoCodecName returns the codec of the first video stream.
	VideoCodecName(ctx context.Context, path string) (string, error)

	// DurationSeconds returns the container duration in seconds.
	DurationSeconds(ctx context.Context, path string) (float64, error)
}

// QualityComparator measures how close a converted file is to its original.
type QualityComparator interface {
	// CompareQuality runs a full comparison pass and returns the
	// aggregate metrics.
	CompareQuality(ctx context.Context, originalPath, convertedPath string) (QualityMetrics, error)
}

// Analyzer bundles the capabilities conversion validation needs.
type Analyzer interface {
	MediaProber
	QualityComparator
}

// QualityMetrics holds the aggregate scores from a comparison pass.
type QualityMetrics struct {
	SSIM float64
	PSNR float64
}
