package validation

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/hevcify/hevcify/internal/errors"
	"github.com/hevcify/hevcify/internal/util"
)

// Options contains the expectations a converted file is checked against.
type Options struct {
	// TargetCodec is the codec name the output must report, compared by
	// exact string equality.
	TargetCodec string

	// MinSSIM is the quality floor. The measured SSIM must be strictly
	// above it.
	MinSSIM float64
}

// RoundSeconds rounds a container duration to the nearest whole second,
// with halves rounding away from zero.
func RoundSeconds(secs float64) int64 {
	return int64(math.Round(secs))
}

// ValidateSourceCodec checks that a source file carries the expected codec
// before any conversion work is spent on it. The probed codec is returned
// for display.
func ValidateSourceCodec(ctx context.Context, prober MediaProber, path, expected string) (string, error) {
	codec, err := prober.VideoCodecName(ctx, path)
	if err != nil {
		return "", err
	}
	if codec != expected {
		return codec, errors.NewCodecMismatchError(path, expected, codec)
	}
	return codec, nil
}

// ValidateConversion runs the full check sequence for one converted file:
// output existence, video codec, container duration, then visual quality.
// Checks run in that order and stop at the first failure.
//
// A check that fails returns the Result gathered so far alongside a
// kind-tagged error describing the failure. An analyzer that cannot
// answer (probe or comparison breakage) returns a nil Result and the
// underlying error.
func ValidateConversion(ctx context.Context, analyzer Analyzer, originalPath, convertedPath string, opts Options) (*Result, error) {
	result := &Result{}

	if !util.FileExists(convertedPath) {
		result.addStep("Output file", false, "no matching file found: "+convertedPath)
		return result, errors.NewMissingOutputError(convertedPath)
	}
	result.addStep("Output file", true, filepath.Base(convertedPath))

	codecName, err := analyzer.VideoCodecName(ctx, convertedPath)
	if err != nil {
		return nil, err
	}
	result.CodecName = codecName
	passed, details := validateCodec(codecName, opts.TargetCodec)
	result.addStep("Video codec", passed, details)
	if !passed {
		return result, errors.NewCodecMismatchError(convertedPath, opts.TargetCodec, codecName)
	}

	sourceSecs, err := probeWholeSeconds(ctx, analyzer, originalPath)
	if err != nil {
		return nil, err
	}
	outputSecs, err := probeWholeSeconds(ctx, analyzer, convertedPath)
	if err != nil {
		return nil, err
	}
	result.SourceSecs = sourceSecs
	result.OutputSecs = outputSecs
	passed, details = validateDuration(sourceSecs, outputSecs)
	result.addStep("Video duration", passed, details)
	if !passed {
		return result, errors.NewDurationMismatchError(convertedPath, sourceSecs, outputSecs)
	}

	metrics, err := analyzer.CompareQuality(ctx, originalPath, convertedPath)
	if err != nil {
		return nil, err
	}
	result.Metrics = &metrics
	passed, details = validateQuality(metrics, opts.MinSSIM)
	result.addStep("Visual quality", passed, details)
	if !passed {
		return result, errors.NewQualityError(convertedPath, metrics.SSIM, opts.MinSSIM)
	}

	return result, nil
}

func probeWholeSeconds(ctx context.Context, prober MediaProber, path string) (int64, error) {
	secs, err := prober.DurationSeconds(ctx, path)
	if err != nil {
		return 0, err
	}
	return RoundSeconds(secs), nil
}

// validateCodec checks codec identity by exact string equality. Variant
// spellings of the same codec family do not pass.
func validateCodec(actual, expected string) (bool, string) {
	if actual == expected {
		return true, actual
	}
	return false, fmt.Sprintf("Expected %s, found %s", expected, actual)
}

// validateDuration checks that both containers round to the same whole
// second.
func validateDuration(sourceSecs, outputSecs int64) (bool, string) {
	if sourceSecs == outputSecs {
		return true, fmt.Sprintf("Duration matches source (%ds)", outputSecs)
	}
	return false, fmt.Sprintf("Source duration %ds, output duration %ds", sourceSecs, outputSecs)
}

// validateQuality gates on SSIM alone. PSNR rides along for reporting but
// carries no pass or fail weight.
func validateQuality(metrics QualityMetrics, minSSIM float64) (bool, string) {
	if metrics.SSIM > minSSIM {
		return true, fmt.Sprintf("SSIM %.6f, PSNR %.2f dB", metrics.SSIM, metrics.PSNR)
	}
	return false, fmt.Sprintf("SSIM %.6f is not above the required %.2f", metrics.SSIM, minSSIM)
}
