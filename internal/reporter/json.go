package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hevcify/hevcify/internal/util"
)

// JSONReporter outputs NDJSON events, one object per line, suitable for
// piping into queue managers or log collectors.
type JSONReporter struct {
	writer             io.Writer
	mu                 sync.Mutex
	lastProgressBucket int
	lastProgressTime   time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{
		writer:             w,
		lastProgressBucket: -1,
	}
}

func (r *JSONReporter) timestamp() int64 {
	return time.Now().Unix()
}

func (r *JSONReporter) write(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) BatchStarted(info BatchStartInfo) {
	r.write(map[string]interface{}{
		"type":        "batch_started",
		"root_dir":    info.RootDir,
		"total_files": info.TotalFiles,
		"file_list":   info.FileList,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) FileStarted(file FileContext) {
	r.write(map[string]interface{}{
		"type":         "file_started",
		"current_file": file.Index,
		"total_files":  file.TotalFiles,
		"path":         file.Path,
		"timestamp":    r.timestamp(),
	})
}

func (r *JSONReporter) SourceInfo(summary SourceSummary) {
	r.write(map[string]interface{}{
		"type":        "source_info",
		"input_file":  summary.InputFile,
		"output_file": summary.OutputFile,
		"codec":       summary.Codec,
		"duration":    summary.Duration,
		"size":        summary.Size,
		"timestamp":   r.timestamp(),
	})
}

func (r *JSONReporter) ConversionStarted(totalSecs float64) {
	r.mu.Lock()
	r.lastProgressBucket = -1
	r.lastProgressTime = time.Time{}
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":          "conversion_started",
		"total_seconds": totalSecs,
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) ConversionProgress(progress ProgressSnapshot) {
	const progressBucketSize = 1
	const minInterval = 5 * time.Second

	bucket := int(progress.Percent) / progressBucketSize
	now := time.Now()

	r.mu.Lock()
	intervalElapsed := r.lastProgressTime.IsZero() || now.Sub(r.lastProgressTime) >= minInterval
	shouldEmit := bucket > r.lastProgressBucket || intervalElapsed || progress.Percent >= 99.0

	if !shouldEmit {
		r.mu.Unlock()
		return
	}

	if bucket > r.lastProgressBucket {
		r.lastProgressBucket = bucket
	}
	r.lastProgressTime = now
	r.mu.Unlock()

	r.write(map[string]interface{}{
		"type":          "conversion_progress",
		"current_frame": progress.CurrentFrame,
		"percent":       progress.Percent,
		"speed":         progress.Speed,
		"fps":           progress.FPS,
		"eta_seconds":   int64(progress.ETA.Seconds()),
		"bitrate":       progress.Bitrate,
		"timestamp":     r.timestamp(),
	})
}

func (r *JSONReporter) AlreadyConverted(path string) {
	r.write(map[string]interface{}{
		"type":      "already_converted",
		"path":      path,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) ValidationComplete(summary ValidationSummary) {
	steps := make([]map[string]interface{}, len(summary.Steps))
	for i, step := range summary.Steps {
		steps[i] = map[string]interface{}{
			"step":    step.Name,
			"passed":  step.Passed,
			"details": step.Details,
		}
	}

	r.write(map[string]interface{}{
		"type":              "validation_complete",
		"validation_passed": summary.Passed,
		"validation_steps":  steps,
		"timestamp":         r.timestamp(),
	})
}

func (r *JSONReporter) FileComplete(outcome FileOutcome) {
	reduction := util.CalculateSizeReduction(outcome.OriginalSize, outcome.ConvertedSize)

	r.write(map[string]interface{}{
		"type":                   "file_complete",
		"input_file":             outcome.InputFile,
		"output_file":            outcome.OutputFile,
		"output_path":            outcome.OutputPath,
		"original_size":          outcome.OriginalSize,
		"converted_size":         outcome.ConvertedSize,
		"size_reduction_percent": reduction,
		"duration_seconds":       int64(outcome.TotalTime.Seconds()),
		"average_speed":          outcome.AverageSpeed,
		"ssim":                   outcome.SSIM,
		"psnr":                   outcome.PSNR,
		"skipped":                outcome.Skipped,
		"timestamp":              r.timestamp(),
	})
}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":      "warning",
		"message":   message,
		"timestamp": r.timestamp(),
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
		"timestamp":  r.timestamp(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	reduction := util.CalculateSizeReduction(summary.TotalOriginalSize, summary.TotalConvertedSize)

	r.write(map[string]interface{}{
		"type":                         "batch_complete",
		"successful_count":             summary.SuccessfulCount,
		"skipped_count":                summary.SkippedCount,
		"total_files":                  summary.TotalFiles,
		"total_original_size":          summary.TotalOriginalSize,
		"total_converted_size":         summary.TotalConvertedSize,
		"total_size_reduction_percent": reduction,
		"total_duration_seconds":       int64(summary.TotalDuration.Seconds()),
		"timestamp":                    r.timestamp(),
	})
}
