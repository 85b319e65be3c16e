package processing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hevcify/hevcify/internal/config"
	"github.com/hevcify/hevcify/internal/errors"
	"github.com/hevcify/hevcify/internal/ffmpeg"
	"github.com/hevcify/hevcify/internal/reporter"
	"github.com/hevcify/hevcify/internal/util"
	"github.com/hevcify/hevcify/internal/validation"
)

type testLogger struct {
	lines []string
}

func (l *testLogger) Debugf(format string, args ...interface{}) { l.record("DEBUG", format, args) }
func (l *testLogger) Infof(format string, args ...interface{})  { l.record("INFO", format, args) }
func (l *testLogger) Warnf(format string, args ...interface{})  { l.record("WARN", format, args) }
func (l *testLogger) Errorf(format string, args ...interface{}) { l.record("ERROR", format, args) }

func (l *testLogger) record(level, format string, args []interface{}) {
	l.lines = append(l.lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *testLogger) contains(substr string) bool {
	for _, line := range l.lines {
		if len(line) >= len(substr) && containsString(line, substr) {
			return true
		}
	}
	return false
}

func containsString(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// recordingReporter captures every event for assertions.
type recordingReporter struct {
	batchStarts []reporter.BatchStartInfo
	fileStarts  []reporter.FileContext
	sources     []reporter.SourceSummary
	started     []float64
	progress    []reporter.ProgressSnapshot
	already     []string
	validations []reporter.ValidationSummary
	outcomes    []reporter.FileOutcome
	warnings    []string
	errs        []reporter.ReporterError
	batchDone   []reporter.BatchSummary
}

func (r *recordingReporter) BatchStarted(info reporter.BatchStartInfo) {
	r.batchStarts = append(r.batchStarts, info)
}
func (r *recordingReporter) FileStarted(file reporter.FileContext) {
	r.fileStarts = append(r.fileStarts, file)
}
func (r *recordingReporter) SourceInfo(summary reporter.SourceSummary) {
	r.sources = append(r.sources, summary)
}
func (r *recordingReporter) ConversionStarted(totalSecs float64) {
	r.started = append(r.started, totalSecs)
}
func (r *recordingReporter) ConversionProgress(progress reporter.ProgressSnapshot) {
	r.progress = append(r.progress, progress)
}
func (r *recordingReporter) AlreadyConverted(path string) {
	r.already = append(r.already, path)
}
func (r *recordingReporter) ValidationComplete(summary reporter.ValidationSummary) {
	r.validations = append(r.validations, summary)
}
func (r *recordingReporter) FileComplete(outcome reporter.FileOutcome) {
	r.outcomes = append(r.outcomes, outcome)
}
func (r *recordingReporter) Warning(message string) {
	r.warnings = append(r.warnings, message)
}
func (r *recordingReporter) Error(err reporter.ReporterError) {
	r.errs = append(r.errs, err)
}
func (r *recordingReporter) BatchComplete(summary reporter.BatchSummary) {
	r.batchDone = append(r.batchDone, summary)
}

// stubAnalyzer answers probes from maps keyed by path.
type stubAnalyzer struct {
	codecs    map[string]string
	durations map[string]float64
	metrics   validation.QualityMetrics
}

func (s *stubAnalyzer) VideoCodecName(ctx context.Context, path string) (string, error) {
	codec, ok := s.codecs[path]
	if !ok {
		return "", fmt.Errorf("no codec stubbed for %s", path)
	}
	return codec, nil
}

func (s *stubAnalyzer) DurationSeconds(ctx context.Context, path string) (float64, error) {
	duration, ok := s.durations[path]
	if !ok {
		return 0, fmt.Errorf("no duration stubbed for %s", path)
	}
	return duration, nil
}

func (s *stubAnalyzer) CompareQuality(ctx context.Context, originalPath, convertedPath string) (validation.QualityMetrics, error) {
	return s.metrics, nil
}

func writeSource(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("source data"), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// goodAnalyzer stubs a clean h264 source and hevc output for each input.
func goodAnalyzer(inputs ...string) *stubAnalyzer {
	s := &stubAnalyzer{
		codecs:    map[string]string{},
		durations: map[string]float64{},
		metrics:   validation.QualityMetrics{SSIM: 0.987, PSNR: 44.9},
	}
	for _, input := range inputs {
		output := util.OutputPath(input, ".mkv")
		s.codecs[input] = "h264"
		s.codecs[output] = "hevc"
		s.durations[input] = 120.3
		s.durations[output] = 120.2
	}
	return s
}

// newTestProcessor wires a Processor whose transcode writes the partial
// file instead of invoking ffmpeg.
func newTestProcessor(t *testing.T, root string, analyzer *stubAnalyzer) (*Processor, *recordingReporter, *testLogger, *int, *int) {
	t.Helper()

	cfg := config.NewConfig(root)
	log := &testLogger{}
	rec := &recordingReporter{}

	convertCalls := 0
	timestampCalls := 0

	p := NewProcessor(cfg, log, rec)
	p.analyzer = analyzer
	p.runConvert = func(ctx context.Context, args []string, totalDuration float64, callback ffmpeg.ProgressCallback) ffmpeg.Result {
		convertCalls++
		outPath := args[len(args)-1]
		if err := os.WriteFile(outPath, []byte("converted data"), 0o644); err != nil {
			t.Fatalf("writing fake output %s: %v", outPath, err)
		}
		if callback != nil {
			callback(ffmpeg.Progress{Percent: 50, Speed: 2.0})
		}
		return ffmpeg.Result{Success: true}
	}
	p.copyTimestamp = func(ctx context.Context, src, dst string) error {
		timestampCalls++
		return nil
	}

	return p, rec, log, &convertCalls, &timestampCalls
}

func TestRunConvertsBatch(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.mp4")
	second := filepath.Join(root, "season one", "e01.mp4")
	writeSource(t, first)
	writeSource(t, second)

	p, rec, _, convertCalls, timestampCalls := newTestProcessor(t, root, goodAnalyzer(first, second))

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if stats.TotalFiles != 2 || stats.Succeeded != 2 || stats.Skipped != 0 {
		t.Errorf("stats = %+v, want 2 of 2 converted", stats)
	}
	if *convertCalls != 2 || *timestampCalls != 2 {
		t.Errorf("convert/timestamp calls = %d/%d, want 2/2", *convertCalls, *timestampCalls)
	}

	for _, input := range []string{first, second} {
		output := util.OutputPath(input, ".mkv")
		if !util.FileExists(output) {
			t.Errorf("output %s missing after batch", output)
		}
		if util.FileExists(util.PartialPath(output)) {
			t.Errorf("partial file left behind for %s", output)
		}
	}

	if len(rec.batchStarts) != 1 || rec.batchStarts[0].TotalFiles != 2 {
		t.Errorf("batchStarts = %v, want one start with 2 files", rec.batchStarts)
	}
	if len(rec.fileStarts) != 2 || rec.fileStarts[1].Index != 2 {
		t.Errorf("fileStarts = %v, want two with 1-based indexes", rec.fileStarts)
	}
	if len(rec.validations) != 2 || !rec.validations[0].Passed || !rec.validations[1].Passed {
		t.Errorf("validations = %v, want two passes", rec.validations)
	}
	if len(rec.outcomes) != 2 || rec.outcomes[0].SSIM != 0.987 {
		t.Errorf("outcomes = %v, want two with metrics", rec.outcomes)
	}
	if len(rec.batchDone) != 1 || rec.batchDone[0].SuccessfulCount != 2 {
		t.Errorf("batchDone = %v, want one summary", rec.batchDone)
	}
}

func TestRunEmptyRootIsSuccess(t *testing.T) {
	root := t.TempDir()
	p, rec, log, convertCalls, _ := newTestProcessor(t, root, &stubAnalyzer{})

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stats.TotalFiles != 0 || *convertCalls != 0 {
		t.Errorf("stats = %+v with %d converts, want an empty no-op", stats, *convertCalls)
	}
	if len(rec.batchStarts) != 0 || len(rec.batchDone) != 0 {
		t.Error("batch events emitted for an empty root")
	}
	if !log.contains("nothing to do") {
		t.Errorf("log = %v, want a nothing-to-do note", log.lines)
	}
}

func TestRunSourceCodecMismatchStopsBatch(t *testing.T) {
	root := t.TempDir()
	first := filepath.Join(root, "a.mp4")
	second := filepath.Join(root, "b.mp4")
	writeSource(t, first)
	writeSource(t, second)

	analyzer := goodAnalyzer(first, second)
	analyzer.codecs[first] = "vp9"

	p, rec, _, convertCalls, _ := newTestProcessor(t, root, analyzer)

	_, err := p.Run(context.Background())
	if !errors.IsKind(err, errors.KindCodecMismatch) {
		t.Fatalf("Run() error = %v, want KindCodecMismatch", err)
	}

	if *convertCalls != 0 {
		t.Errorf("convert ran %d times for a rejected source", *convertCalls)
	}
	if len(rec.fileStarts) != 1 {
		t.Errorf("fileStarts = %v, want the batch stopped after the first file", rec.fileStarts)
	}
	if len(rec.errs) != 1 || rec.errs[0].Title != "Codec Mismatch" {
		t.Errorf("errs = %v, want one codec mismatch report", rec.errs)
	}
	if len(rec.batchDone) != 0 {
		t.Error("batch summary emitted after a failure")
	}
}

func TestRunExistingOutputSkipsTranscodeButValidates(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "movie.mp4")
	writeSource(t, input)
	output := util.OutputPath(input, ".mkv")
	writeSource(t, output)

	p, rec, log, convertCalls, timestampCalls := newTestProcessor(t, root, goodAnalyzer(input))

	stats, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if *convertCalls != 0 || *timestampCalls != 0 {
		t.Errorf("convert/timestamp calls = %d/%d, want 0/0 for an existing output", *convertCalls, *timestampCalls)
	}
	if stats.Succeeded != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 succeeded with 1 skipped", stats)
	}
	if len(rec.already) != 1 || rec.already[0] != output {
		t.Errorf("already = %v, want the existing output path", rec.already)
	}
	if len(rec.validations) != 1 || !rec.validations[0].Passed {
		t.Errorf("validations = %v, want the existing output validated", rec.validations)
	}
	if len(rec.outcomes) != 1 || !rec.outcomes[0].Skipped {
		t.Errorf("outcomes = %v, want a skipped outcome", rec.outcomes)
	}
	if !log.contains("already exists") {
		t.Errorf("log = %v, want a skip warning", log.lines)
	}
}

func TestRunExistingOutputStillFailsValidation(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "movie.mp4")
	writeSource(t, input)
	output := util.OutputPath(input, ".mkv")
	writeSource(t, output)

	// The pre-existing output carries the wrong codec.
	analyzer := goodAnalyzer(input)
	analyzer.codecs[output] = "h264"

	p, rec, _, _, _ := newTestProcessor(t, root, analyzer)

	_, err := p.Run(context.Background())
	if !errors.IsKind(err, errors.KindCodecMismatch) {
		t.Fatalf("Run() error = %v, want KindCodecMismatch", err)
	}
	if len(rec.validations) != 1 || rec.validations[0].Passed {
		t.Errorf("validations = %v, want a failed summary", rec.validations)
	}
	if len(rec.outcomes) != 0 {
		t.Errorf("outcomes = %v, want none after a failed validation", rec.outcomes)
	}
}

func TestRunTranscodeFailureRemovesPartial(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "movie.mp4")
	writeSource(t, input)
	output := util.OutputPath(input, ".mkv")

	p, rec, _, _, timestampCalls := newTestProcessor(t, root, goodAnalyzer(input))
	p.runConvert = func(ctx context.Context, args []string, totalDuration float64, callback ffmpeg.ProgressCallback) ffmpeg.Result {
		outPath := args[len(args)-1]
		if err := os.WriteFile(outPath, []byte("truncated"), 0o644); err != nil {
			t.Fatalf("writing fake partial %s: %v", outPath, err)
		}
		failure := errors.NewCommandFailedError("ffmpeg", 1, "Conversion failed!")
		return ffmpeg.Result{Success: false, Error: failure}
	}

	_, err := p.Run(context.Background())
	if !errors.IsKind(err, errors.KindCommand) {
		t.Fatalf("Run() error = %v, want KindCommand", err)
	}

	if util.FileExists(util.PartialPath(output)) {
		t.Error("partial output left behind after a failed transcode")
	}
	if util.FileExists(output) {
		t.Error("final output exists after a failed transcode")
	}
	if *timestampCalls != 0 {
		t.Error("timestamp copy ran after a failed transcode")
	}
	if len(rec.errs) != 1 || rec.errs[0].Title != "Tool Failure" {
		t.Errorf("errs = %v, want one tool failure report", rec.errs)
	}
}

func TestRunTimestampCopyFailureStopsBatch(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "movie.mp4")
	writeSource(t, input)
	output := util.OutputPath(input, ".mkv")

	p, _, _, _, _ := newTestProcessor(t, root, goodAnalyzer(input))
	p.copyTimestamp = func(ctx context.Context, src, dst string) error {
		return errors.NewCommandFailedError("exiftool", 1, "cannot open")
	}

	_, err := p.Run(context.Background())
	if !errors.IsKind(err, errors.KindCommand) {
		t.Fatalf("Run() error = %v, want KindCommand", err)
	}

	// The transcode itself succeeded, so the committed output stays for
	// the next run to verify.
	if !util.FileExists(output) {
		t.Error("committed output missing after a timestamp failure")
	}
}

func TestRunCancelledBeforeFirstFile(t *testing.T) {
	root := t.TempDir()
	writeSource(t, filepath.Join(root, "movie.mp4"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p, rec, _, convertCalls, _ := newTestProcessor(t, root, &stubAnalyzer{})

	_, err := p.Run(ctx)
	if !errors.IsCancelled(err) {
		t.Fatalf("Run() error = %v, want cancellation", err)
	}
	if *convertCalls != 0 {
		t.Error("convert ran after cancellation")
	}
	if len(rec.warnings) != 1 {
		t.Errorf("warnings = %v, want a single cancellation notice", rec.warnings)
	}
}

func TestRunSweepsStalePartials(t *testing.T) {
	root := t.TempDir()
	stale := filepath.Join(root, "movie.mkv.partial")
	writeSource(t, stale)
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("aging partial: %v", err)
	}

	p, _, log, _, _ := newTestProcessor(t, root, &stubAnalyzer{})

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if util.FileExists(stale) {
		t.Error("stale partial survived the sweep")
	}
	if !log.contains("stale partial") {
		t.Errorf("log = %v, want a sweep note", log.lines)
	}
}

func TestRunProgressForwarded(t *testing.T) {
	root := t.TempDir()
	input := filepath.Join(root, "movie.mp4")
	writeSource(t, input)

	p, rec, _, _, _ := newTestProcessor(t, root, goodAnalyzer(input))

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(rec.started) != 1 || rec.started[0] != 120.3 {
		t.Errorf("started = %v, want the probed source duration", rec.started)
	}
	if len(rec.progress) != 1 || rec.progress[0].Percent != 50 {
		t.Errorf("progress = %v, want the callback snapshot forwarded", rec.progress)
	}
}
