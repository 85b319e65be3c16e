// Package processing orchestrates the conversion batch.
package processing

import (
	"context"
	"path/filepath"
	"time"

	"github.com/hevcify/hevcify/internal/config"
	"github.com/hevcify/hevcify/internal/exiftool"
	"github.com/hevcify/hevcify/internal/ffmpeg"
	"github.com/hevcify/hevcify/internal/reporter"
	"github.com/hevcify/hevcify/internal/util"
	"github.com/hevcify/hevcify/internal/validation"
)

// Logger is the subset of logging the batch driver uses.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

// FileResult records what one file contributed to the batch.
type FileResult struct {
	InputPath     string
	OutputPath    string
	OriginalSize  uint64
	ConvertedSize uint64
	Elapsed       time.Duration
	Speed         float32
	SSIM          float64
	PSNR          float64

	// Skipped is set when the output already existed and only validation
	// ran.
	Skipped bool
}

// Processor runs the conversion pipeline. The tool seams are function
// fields so the pipeline can be exercised in tests without ffmpeg or
// exiftool installed.
type Processor struct {
	cfg      *config.Config
	log      Logger
	rep      reporter.Reporter
	analyzer validation.Analyzer

	runConvert    func(ctx context.Context, args []string, totalDuration float64, callback ffmpeg.ProgressCallback) ffmpeg.Result
	copyTimestamp func(ctx context.Context, src, dst string) error
}

// NewProcessor creates a Processor bound to the real tools.
func NewProcessor(cfg *config.Config, log Logger, rep reporter.Reporter) *Processor {
	if log == nil {
		log = nopLogger{}
	}
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Processor{
		cfg:           cfg,
		log:           log,
		rep:           rep,
		analyzer:      validation.NewDefaultAnalyzer(),
		runConvert:    ffmpeg.RunConvert,
		copyTimestamp: exiftool.CopyModifyDate,
	}
}

// processFile takes one source through codec pre-check, transcode (or skip
// when the output already exists), timestamp copy, and validation.
func (p *Processor) processFile(ctx context.Context, inputPath string) (*FileResult, error) {
	outputPath := util.OutputPath(inputPath, p.cfg.OutputExtension)

	codec, err := validation.ValidateSourceCodec(ctx, p.analyzer, inputPath, p.cfg.SourceCodec)
	if err != nil {
		return nil, err
	}

	durationSecs, err := p.analyzer.DurationSeconds(ctx, inputPath)
	if err != nil {
		return nil, err
	}

	inputSize, _ := util.GetFileSize(inputPath)
	p.rep.SourceInfo(reporter.SourceSummary{
		InputFile:  util.GetFilename(inputPath),
		OutputFile: util.GetFilename(outputPath),
		Codec:      codec,
		Duration:   util.FormatDuration(durationSecs),
		Size:       util.FormatBytes(inputSize),
	})

	result := &FileResult{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		OriginalSize: inputSize,
	}

	if util.FileExists(outputPath) {
		p.log.Warnf("Output already exists, skipping conversion: %s", outputPath)
		p.rep.AlreadyConverted(outputPath)
		result.Skipped = true
	} else {
		elapsed, err := p.transcode(ctx, inputPath, outputPath, durationSecs)
		if err != nil {
			return nil, err
		}
		result.Elapsed = elapsed
		if elapsed > 0 {
			result.Speed = float32(durationSecs / elapsed.Seconds())
		}
	}

	validationResult, err := p.validate(ctx, inputPath, outputPath)
	if err != nil {
		return nil, err
	}
	if validationResult.Metrics != nil {
		result.SSIM = validationResult.Metrics.SSIM
		result.PSNR = validationResult.Metrics.PSNR
	}

	result.ConvertedSize, _ = util.GetFileSize(outputPath)
	p.rep.FileComplete(reporter.FileOutcome{
		InputFile:     util.GetFilename(inputPath),
		OutputFile:    util.GetFilename(outputPath),
		OutputPath:    outputPath,
		OriginalSize:  result.OriginalSize,
		ConvertedSize: result.ConvertedSize,
		TotalTime:     result.Elapsed,
		AverageSpeed:  result.Speed,
		SSIM:          result.SSIM,
		PSNR:          result.PSNR,
		Skipped:       result.Skipped,
	})

	return result, nil
}

// transcode writes to a partial file and renames it into place only after
// the transcoder succeeds, so an interrupted run never leaves a
// final-named output behind. The source timestamp is then copied onto the
// committed output.
func (p *Processor) transcode(ctx context.Context, inputPath, outputPath string, durationSecs float64) (time.Duration, error) {
	util.CheckDiskSpace(filepath.Dir(outputPath), p.log)

	partialPath := util.PartialPath(outputPath)
	args := ffmpeg.ConvertArgs(inputPath, partialPath, ffmpeg.ConvertParams{
		Encoder: p.cfg.Encoder,
		Tag:     p.cfg.CodecTag,
	})
	p.log.Debugf("Running ffmpeg: %v", args)

	p.rep.ConversionStarted(durationSecs)
	start := time.Now()
	result := p.runConvert(ctx, args, durationSecs, func(progress ffmpeg.Progress) {
		p.rep.ConversionProgress(reporter.ProgressSnapshot{
			CurrentFrame: progress.CurrentFrame,
			Percent:      progress.Percent,
			Speed:        progress.Speed,
			FPS:          progress.FPS,
			ETA:          progress.ETA,
			Bitrate:      progress.Bitrate,
		})
	})
	if !result.Success {
		if removeErr := util.RemovePartial(partialPath); removeErr != nil {
			p.log.Warnf("Could not remove partial output %s: %v", partialPath, removeErr)
		}
		return 0, result.Error
	}
	elapsed := time.Since(start)

	if err := util.CommitPartial(partialPath, outputPath); err != nil {
		return 0, err
	}

	if err := p.copyTimestamp(ctx, inputPath, outputPath); err != nil {
		return 0, err
	}

	return elapsed, nil
}

// validate runs the post-conversion checks and reports the step list even
// when a check fails.
func (p *Processor) validate(ctx context.Context, inputPath, outputPath string) (*validation.Result, error) {
	validationResult, err := validation.ValidateConversion(ctx, p.analyzer, inputPath, outputPath, validation.Options{
		TargetCodec: p.cfg.TargetCodec,
		MinSSIM:     p.cfg.MinSSIM,
	})
	if validationResult != nil {
		steps := make([]reporter.ValidationStep, len(validationResult.Steps))
		for i, step := range validationResult.Steps {
			steps[i] = reporter.ValidationStep{
				Name:    step.Name,
				Passed:  step.Passed,
				Details: step.Details,
			}
		}
		p.rep.ValidationComplete(reporter.ValidationSummary{
			Passed: validationResult.IsValid(),
			Steps:  steps,
		})
	}
	if err != nil {
		return nil, err
	}
	return validationResult, nil
}
