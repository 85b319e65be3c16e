// Package main provides the CLI entry point for hevcify.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hevcify/hevcify"
	"github.com/hevcify/hevcify/internal/config"
	"github.com/hevcify/hevcify/internal/logging"
	"github.com/hevcify/hevcify/internal/reporter"
)

const (
	appName    = "hevcify"
	appVersion = "0.2.0"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// convertArgs holds the parsed flags for a run.
type convertArgs struct {
	directory     string
	minSSIM       float64
	encoder       string
	codecTag      string
	sourceExt     string
	outputExt     string
	partialMaxAge time.Duration
	verbose       bool
	colorMode     string
	jsonOutput    bool
	eventsPath    string
	logFile       string
}

func newRootCommand() *cobra.Command {
	var ca convertArgs

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Convert H.264 video files to HEVC in place",
		Long: `Convert H.264 video files to HEVC in place.

Hevcify walks a directory tree for .mp4 sources, transcodes each one to a
matching .mkv next to it, and verifies every output by probing its codec,
comparing durations, and measuring SSIM against the source. Outputs that
already exist are verified but never re-encoded, so interrupted batches can
simply be run again.

The batch stops at the first file that fails conversion or verification.`,
		Version:       appVersion,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), ca)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&ca.directory, "directory", "C", ".", "directory walked for source files")
	flags.Float64Var(&ca.minSSIM, "min-ssim", config.DefaultMinSSIM, "quality floor, outputs must score strictly above it")
	flags.StringVar(&ca.encoder, "encoder", config.DefaultEncoder, "video encoder handed to ffmpeg")
	flags.StringVar(&ca.codecTag, "codec-tag", config.DefaultCodecTag, "fourcc written into the output container")
	flags.StringVar(&ca.sourceExt, "source-ext", config.DefaultSourceExtension, "extension of source files, dot included")
	flags.StringVar(&ca.outputExt, "output-ext", config.DefaultOutputExtension, "extension of converted files, dot included")
	flags.DurationVar(&ca.partialMaxAge, "partial-max-age", config.DefaultPartialMaxAge, "age after which abandoned partial outputs are swept")
	flags.BoolVarP(&ca.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&ca.colorMode, "color", "auto", "colorize output: auto, always, never")
	flags.BoolVar(&ca.jsonOutput, "json", false, "write JSON events to stdout instead of terminal output")
	flags.StringVar(&ca.eventsPath, "events", "", "also append JSON events to this file")
	flags.StringVar(&ca.logFile, "log-file", "", "mirror log lines into this file")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, appVersion)
		},
	})

	return cmd
}

func runConvert(ctx context.Context, ca convertArgs) error {
	colorMode, err := logging.ParseColorMode(ca.colorMode)
	if err != nil {
		return err
	}
	switch colorMode {
	case logging.ColorAlways:
		color.NoColor = false
	case logging.ColorNever:
		color.NoColor = true
	}

	level := hevcify.LogInfo
	if ca.verbose {
		level = hevcify.LogDebug
	}

	// The reporter owns stdout, so log lines go to stderr.
	logger, err := hevcify.NewLogger(hevcify.LogConfig{
		Level:    level,
		Color:    colorMode,
		Out:      os.Stderr,
		FilePath: ca.logFile,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Close() }()

	rootDir, err := filepath.Abs(ca.directory)
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}

	rep, cleanup, err := buildReporter(ca)
	if err != nil {
		return err
	}
	defer cleanup()

	conv, err := hevcify.New(
		hevcify.WithMinSSIM(ca.minSSIM),
		hevcify.WithEncoder(ca.encoder),
		hevcify.WithCodecTag(ca.codecTag),
		hevcify.WithSourceExtension(ca.sourceExt),
		hevcify.WithOutputExtension(ca.outputExt),
		hevcify.WithPartialMaxAge(ca.partialMaxAge),
	)
	if err != nil {
		return err
	}

	summary, err := conv.Run(ctx, rootDir, logger, rep)
	if err != nil {
		return err
	}

	logger.Infof("Batch finished: %d converted, %d verified only, %.1f%% size reduction",
		summary.SuccessfulCount-summary.SkippedCount, summary.SkippedCount, summary.SizeReductionPercent)
	return nil
}

// buildReporter assembles the event sinks selected by the flags. The
// returned cleanup closes any file sink and is always safe to call.
func buildReporter(ca convertArgs) (hevcify.Reporter, func(), error) {
	var rep hevcify.Reporter
	if ca.jsonOutput {
		rep = hevcify.NewJSONReporter()
	} else {
		rep = hevcify.NewTerminalReporter()
	}

	cleanup := func() {}
	if ca.eventsPath != "" {
		f, err := os.OpenFile(ca.eventsPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open events file: %w", err)
		}
		cleanup = func() { _ = f.Close() }
		rep = hevcify.NewCompositeReporter(rep, reporter.NewJSONReporterWithWriter(f))
	}

	return rep, cleanup, nil
}
