package ffmpeg

import (
	"strconv"
	"strings"

	"github.com/hevcify/hevcify/internal/errors"
)

// Metrics holds the quality scores of a comparison run.
type Metrics struct {
	// SSIM is the all-channel aggregate, in [0, 1].
	SSIM float64
	// PSNR is the mean value in dB. +Inf for identical streams.
	PSNR float64
}

// Labels anchoring metric extraction in the filter summary lines:
//
//	[Parsed_ssim_0 @ ...] SSIM Y:0.981 U:0.988 V:0.987 All:0.982976 (17.7)
//	[Parsed_psnr_1 @ ...] PSNR y:44.2 u:47.1 v:46.8 average:44.93 min:41.9 max:49.8
const (
	ssimLabel = "All:"
	psnrLabel = "average:"
)

// ParseComparisonMetrics extracts the SSIM aggregate and mean PSNR from a
// comparison run's stderr. Each value is the first whitespace-delimited token
// after its label. A missing or unparsable metric is an error; the quality
// gate must never pass on a silent default.
func ParseComparisonMetrics(stderr string) (Metrics, error) {
	var m Metrics
	var haveSSIM, havePSNR bool

	for _, line := range toolLines(stderr) {
		if !haveSSIM && strings.Contains(line, "SSIM") {
			if v, ok := valueAfterLabel(line, ssimLabel); ok {
				m.SSIM = v
				haveSSIM = true
				continue
			}
		}
		if !havePSNR && strings.Contains(line, "PSNR") {
			if v, ok := valueAfterLabel(line, psnrLabel); ok {
				m.PSNR = v
				havePSNR = true
			}
		}
	}

	if !haveSSIM {
		return Metrics{}, errors.NewParseError("SSIM aggregate not found in comparison output", nil)
	}
	if !havePSNR {
		return Metrics{}, errors.NewParseError("PSNR average not found in comparison output", nil)
	}

	return m, nil
}

// toolLines splits tool output on both newline styles the transcoder emits.
func toolLines(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
}

// valueAfterLabel parses the first whitespace-delimited token following label.
func valueAfterLabel(line, label string) (float64, bool) {
	idx := strings.Index(line, label)
	if idx < 0 {
		return 0, false
	}

	remaining := strings.TrimLeft(line[idx+len(label):], " \t")
	if end := strings.IndexAny(remaining, " \t"); end > 0 {
		remaining = remaining[:end]
	}

	v, err := strconv.ParseFloat(remaining, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
