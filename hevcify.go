// Package hevcify provides a Go library for batch conversion of H.264
// video files to HEVC.
//
// Hevcify walks a directory tree for .mp4 sources, transcodes each one in
// place to a matching .mkv with libx265, and verifies every output by
// probing its codec, comparing whole-second durations, and measuring SSIM
// against the source. Outputs that already exist are never re-encoded,
// only re-verified.
//
// Basic usage:
//
//	conv, err := hevcify.New(
//	    hevcify.WithMinSSIM(0.97),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summary, err := conv.Run(ctx, "/media/movies", nil, hevcify.NewTerminalReporter())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Converted %d of %d file(s), %.1f%% smaller\n",
//	    summary.SuccessfulCount, summary.TotalFiles, summary.SizeReductionPercent)
package hevcify

import (
	"context"
	"time"

	"github.com/hevcify/hevcify/internal/check"
	"github.com/hevcify/hevcify/internal/config"
	"github.com/hevcify/hevcify/internal/discovery"
	"github.com/hevcify/hevcify/internal/logging"
	"github.com/hevcify/hevcify/internal/processing"
	"github.com/hevcify/hevcify/internal/reporter"
	"github.com/hevcify/hevcify/internal/util"
)

// Re-export the reporter surface so callers can implement their own.
type (
	Reporter          = reporter.Reporter
	BatchStartInfo    = reporter.BatchStartInfo
	FileContext       = reporter.FileContext
	SourceSummary     = reporter.SourceSummary
	ProgressSnapshot  = reporter.ProgressSnapshot
	ValidationSummary = reporter.ValidationSummary
	ValidationStep    = reporter.ValidationStep
	FileOutcome       = reporter.FileOutcome
	ReporterError     = reporter.ReporterError
	BatchSummary      = reporter.BatchSummary
)

// NewTerminalReporter returns a Reporter that renders progress on the
// terminal, including a live conversion bar.
func NewTerminalReporter() Reporter {
	return reporter.NewTerminalReporter()
}

// NewJSONReporter returns a Reporter that writes one JSON event per line
// to stdout.
func NewJSONReporter() Reporter {
	return reporter.NewJSONReporter()
}

// NewCompositeReporter fans every event out to all given reporters.
func NewCompositeReporter(reporters ...Reporter) Reporter {
	return reporter.NewCompositeReporter(reporters...)
}

// Logger receives the leveled diagnostics of a run. Loggers from NewLogger
// satisfy it, as does anything with the four printf methods.
type Logger = processing.Logger

// Re-export the logging configuration surface.
type (
	LogConfig = logging.Config
	LogLevel  = logging.Level
	ColorMode = logging.ColorMode
)

const (
	LogDebug = logging.LevelDebug
	LogInfo  = logging.LevelInfo
	LogWarn  = logging.LevelWarn
	LogError = logging.LevelError
)

// NewLogger constructs a leveled logger from cfg. Close it when done if
// cfg names a file sink.
func NewLogger(cfg LogConfig) (*logging.Logger, error) {
	return logging.New(cfg)
}

// checkDependencies is swapped in tests.
var checkDependencies = check.Run

// Converter is the main entry point for batch conversion.
type Converter struct {
	config *config.Config
}

// Summary describes a finished batch.
type Summary struct {
	TotalFiles           int
	SuccessfulCount      int
	SkippedCount         int
	TotalOriginalSize    uint64
	TotalConvertedSize   uint64
	SizeReductionPercent float64
	Duration             time.Duration
}

// Option configures the converter.
type Option func(*config.Config)

// New creates a new Converter with the given options.
func New(opts ...Option) (*Converter, error) {
	cfg := config.NewConfig(".")

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Converter{config: cfg}, nil
}

// WithSourceCodec sets the exact codec name a source must carry to be
// converted.
func WithSourceCodec(codec string) Option {
	return func(c *config.Config) {
		c.SourceCodec = codec
	}
}

// WithTargetCodec sets the exact codec name expected in converted outputs.
func WithTargetCodec(codec string) Option {
	return func(c *config.Config) {
		c.TargetCodec = codec
	}
}

// WithEncoder sets the video encoder handed to ffmpeg.
func WithEncoder(encoder string) Option {
	return func(c *config.Config) {
		c.Encoder = encoder
	}
}

// WithCodecTag sets the fourcc written into the output container.
func WithCodecTag(tag string) Option {
	return func(c *config.Config) {
		c.CodecTag = tag
	}
}

// WithMinSSIM sets the quality floor. A conversion passes only when its
// SSIM aggregate is strictly above the floor.
func WithMinSSIM(floor float64) Option {
	return func(c *config.Config) {
		c.MinSSIM = floor
	}
}

// WithSourceExtension sets the extension discovery looks for, dot included.
func WithSourceExtension(ext string) Option {
	return func(c *config.Config) {
		c.SourceExtension = ext
	}
}

// WithOutputExtension sets the extension of converted files, dot included.
func WithOutputExtension(ext string) Option {
	return func(c *config.Config) {
		c.OutputExtension = ext
	}
}

// WithPartialMaxAge sets how old an abandoned partial output must be
// before the pre-batch sweep removes it.
func WithPartialMaxAge(age time.Duration) Option {
	return func(c *config.Config) {
		c.PartialMaxAge = age
	}
}

// Run converts every eligible file under rootDir, stopping at the first
// failure. It verifies the external tools before touching any media. A nil
// log drops diagnostics and a nil rep drops progress events.
func (c *Converter) Run(ctx context.Context, rootDir string, log Logger, rep Reporter) (*Summary, error) {
	cfg := *c.config
	cfg.RootDir = rootDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if rep == nil {
		rep = reporter.NullReporter{}
	}

	if err := checkDependencies(log); err != nil {
		return nil, err
	}

	stats, err := processing.NewProcessor(&cfg, log, rep).Run(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		TotalFiles:           stats.TotalFiles,
		SuccessfulCount:      stats.Succeeded,
		SkippedCount:         stats.Skipped,
		TotalOriginalSize:    stats.TotalOriginalSize,
		TotalConvertedSize:   stats.TotalConvertedSize,
		SizeReductionPercent: util.CalculateSizeReduction(stats.TotalOriginalSize, stats.TotalConvertedSize),
		Duration:             stats.Elapsed,
	}, nil
}

// FindSources lists the conversion candidates under root, sorted by path.
func FindSources(root string) ([]string, error) {
	result, err := discovery.FindSourceFiles(root, config.DefaultSourceExtension)
	if err != nil {
		return nil, err
	}
	return result.Files, nil
}
