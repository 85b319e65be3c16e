// Package reporter provides progress reporting interfaces and implementations.
package reporter

import "time"

// BatchStartInfo contains batch start metadata.
type BatchStartInfo struct {
	RootDir    string
	TotalFiles int
	FileList   []string
}

// FileContext identifies the current file within a batch.
type FileContext struct {
	Index      int
	TotalFiles int
	Path       string
}

// SourceSummary describes the current source before conversion.
type SourceSummary struct {
	InputFile  string
	OutputFile string
	Codec      string
	Duration   string
	Size       string
}

// ProgressSnapshot contains conversion progress information.
type ProgressSnapshot struct {
	CurrentFrame uint64
	Percent      float32
	Speed        float32
	FPS          float32
	ETA          time.Duration
	Bitrate      string
}

// ValidationSummary contains validation results for one file.
type ValidationSummary struct {
	Passed bool
	Steps  []ValidationStep
}

// ValidationStep represents a single validation check.
type ValidationStep struct {
	Name    string
	Passed  bool
	Details string
}

// FileOutcome contains final per-file results.
type FileOutcome struct {
	InputFile     string
	OutputFile    string
	OutputPath    string
	OriginalSize  uint64
	ConvertedSize uint64
	TotalTime     time.Duration
	AverageSpeed  float32
	SSIM          float64
	PSNR          float64

	// Skipped marks a file whose output already existed, so only
	// validation ran.
	Skipped bool
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// BatchSummary contains batch completion information.
type BatchSummary struct {
	SuccessfulCount    int
	SkippedCount       int
	TotalFiles         int
	TotalOriginalSize  uint64
	TotalConvertedSize uint64
	TotalDuration      time.Duration
	FileResults        []FileResult
}

// FileResult contains one file's contribution to the batch summary.
type FileResult struct {
	Filename  string
	Reduction float64
	Skipped   bool
}
