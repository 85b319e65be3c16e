package processing

import (
	"context"
	"time"

	"github.com/hevcify/hevcify/internal/discovery"
	"github.com/hevcify/hevcify/internal/errors"
	"github.com/hevcify/hevcify/internal/reporter"
	"github.com/hevcify/hevcify/internal/util"
)

// Stats summarizes a completed batch.
type Stats struct {
	TotalFiles         int
	Succeeded          int
	Skipped            int
	TotalOriginalSize  uint64
	TotalConvertedSize uint64
	Elapsed            time.Duration
}

// Run processes every source under the configured root, strictly one file
// at a time in discovery order. The first failure stops the batch; it is
// reported and then returned. An empty batch is a successful no-op.
func (p *Processor) Run(ctx context.Context) (*Stats, error) {
	batchStart := time.Now()

	removed, err := util.CleanupStalePartials(p.cfg.RootDir, p.cfg.PartialMaxAge)
	if err != nil {
		p.log.Warnf("Stale partial sweep failed: %v", err)
	} else if removed > 0 {
		p.log.Infof("Removed %d stale partial file(s)", removed)
	}

	found, err := discovery.FindSourceFilesWithLogging(p.cfg.RootDir, p.cfg.SourceExtension, p.log)
	if err != nil {
		p.reportError(err)
		return nil, err
	}
	files := found.Files
	if len(files) == 0 {
		p.log.Infof("No %s files found under %s, nothing to do", p.cfg.SourceExtension, p.cfg.RootDir)
		return &Stats{Elapsed: time.Since(batchStart)}, nil
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = util.GetFilename(f)
	}
	p.rep.BatchStarted(reporter.BatchStartInfo{
		RootDir:    p.cfg.RootDir,
		TotalFiles: len(files),
		FileList:   names,
	})

	stats := &Stats{TotalFiles: len(files)}
	var fileResults []reporter.FileResult

	for i, inputPath := range files {
		if ctx.Err() != nil {
			p.rep.Warning("Conversion cancelled")
			return nil, errors.NewCancelledError()
		}

		p.rep.FileStarted(reporter.FileContext{
			Index:      i + 1,
			TotalFiles: len(files),
			Path:       inputPath,
		})

		result, err := p.processFile(ctx, inputPath)
		if err != nil {
			p.reportError(err)
			return nil, err
		}

		stats.Succeeded++
		if result.Skipped {
			stats.Skipped++
		}
		stats.TotalOriginalSize += result.OriginalSize
		stats.TotalConvertedSize += result.ConvertedSize
		fileResults = append(fileResults, reporter.FileResult{
			Filename:  util.GetFilename(inputPath),
			Reduction: util.CalculateSizeReduction(result.OriginalSize, result.ConvertedSize),
			Skipped:   result.Skipped,
		})
	}

	stats.Elapsed = time.Since(batchStart)
	p.rep.BatchComplete(reporter.BatchSummary{
		SuccessfulCount:    stats.Succeeded,
		SkippedCount:       stats.Skipped,
		TotalFiles:         stats.TotalFiles,
		TotalOriginalSize:  stats.TotalOriginalSize,
		TotalConvertedSize: stats.TotalConvertedSize,
		TotalDuration:      stats.Elapsed,
		FileResults:        fileResults,
	})

	return stats, nil
}

// reportError renders err through the reporter with a kind-appropriate
// title and suggestion.
func (p *Processor) reportError(err error) {
	report := reporter.ReporterError{Title: "Conversion Error", Message: err.Error()}
	switch {
	case errors.IsKind(err, errors.KindDependency):
		report.Title = "Missing Dependency"
		report.Suggestion = "Install the tool and make sure it is on PATH"
	case errors.IsKind(err, errors.KindCodecMismatch):
		report.Title = "Codec Mismatch"
		report.Suggestion = "Only sources carrying the expected codec are converted"
	case errors.IsKind(err, errors.KindDurationMismatch):
		report.Title = "Duration Mismatch"
		report.Suggestion = "The output does not run as long as its source. Delete it to convert again"
	case errors.IsKind(err, errors.KindQualityBelowThreshold):
		report.Title = "Quality Check Failed"
		report.Suggestion = "Inspect the output visually. A noisy source may need a lower quality floor"
	case errors.IsKind(err, errors.KindMissingOutput):
		report.Title = "Missing Output"
	case errors.IsKind(err, errors.KindCommand):
		report.Title = "Tool Failure"
		report.Suggestion = "Check the tool output for details"
	}
	p.log.Errorf("%v", err)
	p.rep.Error(report)
}
