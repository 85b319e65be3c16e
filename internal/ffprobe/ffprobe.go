// Package ffprobe provides the prober adapter for extracting media facts.
//
// Spawned probes run under a C numeric locale so that every float in the
// output uses a period decimal separator regardless of the host locale.
package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/hevcify/hevcify/internal/errors"
)

// probeOutput represents the JSON document ffprobe prints.
type probeOutput struct {
	Format  probeFormat   `json:"format"`
	Streams []probeStream `json:"streams"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
}

// runFFprobe executes ffprobe against inputPath and returns the raw JSON.
func runFFprobe(ctx context.Context, inputPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	)
	cmd.Env = append(os.Environ(), "LC_ALL=C", "LC_NUMERIC=C")

	output, err := cmd.Output()
	if err != nil {
		return nil, errors.NewProbeError(fmt.Sprintf("ffprobe failed for %s", inputPath), err)
	}

	return output, nil
}

// parseOutput decodes the ffprobe JSON document.
func parseOutput(data []byte) (*probeOutput, error) {
	var result probeOutput
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.NewParseError("failed to parse ffprobe output", err)
	}
	return &result, nil
}

// extractVideoCodec returns the codec name of the first video stream.
func extractVideoCodec(probe *probeOutput, inputPath string) (string, error) {
	for _, stream := range probe.Streams {
		if stream.CodecType == "video" {
			return stream.CodecName, nil
		}
	}
	return "", errors.NewProbeError(fmt.Sprintf("no video stream found in %s", inputPath), nil)
}

// extractDuration returns the container duration in seconds.
func extractDuration(probe *probeOutput, inputPath string) (float64, error) {
	if probe.Format.Duration == "" {
		return 0, errors.NewProbeError(fmt.Sprintf("no container duration reported for %s", inputPath), nil)
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, errors.NewParseError(fmt.Sprintf("unparsable duration %q for %s", probe.Format.Duration, inputPath), err)
	}
	return d, nil
}

// VideoCodecName returns the codec of the first video stream in the file.
func VideoCodecName(ctx context.Context, inputPath string) (string, error) {
	data, err := runFFprobe(ctx, inputPath)
	if err != nil {
		return "", err
	}
	probe, err := parseOutput(data)
	if err != nil {
		return "", err
	}
	return extractVideoCodec(probe, inputPath)
}

// DurationSeconds returns the container duration of the file in seconds.
func DurationSeconds(ctx context.Context, inputPath string) (float64, error) {
	data, err := runFFprobe(ctx, inputPath)
	if err != nil {
		return 0, err
	}
	probe, err := parseOutput(data)
	if err != nil {
		return 0, err
	}
	return extractDuration(probe, inputPath)
}
