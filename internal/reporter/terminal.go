package reporter

import (
	"fmt"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/hevcify/hevcify/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu         sync.Mutex
	progress   *progressbar.ProgressBar
	maxPercent float32
	cyan       *color.Color
	green      *color.Color
	boldGreen  *color.Color
	yellow     *color.Color
	red        *color.Color
	bold       *color.Color
	faint      *color.Color
}

// NewTerminalReporter creates a new terminal reporter.
func NewTerminalReporter() *TerminalReporter {
	return &TerminalReporter{
		cyan:      color.New(color.FgCyan, color.Bold),
		green:     color.New(color.FgGreen),
		boldGreen: color.New(color.FgGreen, color.Bold),
		yellow:    color.New(color.FgYellow, color.Bold),
		red:       color.New(color.FgRed, color.Bold),
		bold:      color.New(color.Bold),
		faint:     color.New(color.Faint),
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	fmt.Printf("  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
	r.maxPercent = 0
}

func (r *TerminalReporter) BatchStarted(info BatchStartInfo) {
	fmt.Println()
	_, _ = r.cyan.Println("BATCH")
	fmt.Printf("  Converting %d file(s) under %s\n", info.TotalFiles, r.bold.Sprint(info.RootDir))
	for i, name := range info.FileList {
		fmt.Printf("  %d. %s\n", i+1, name)
	}
}

func (r *TerminalReporter) FileStarted(file FileContext) {
	fmt.Printf("\nFile %s of %d\n", r.bold.Sprint(file.Index), file.TotalFiles)
}

func (r *TerminalReporter) SourceInfo(summary SourceSummary) {
	fmt.Println()
	_, _ = r.cyan.Println("SOURCE")
	r.printLabel(10, "File:", summary.InputFile)
	r.printLabel(10, "Output:", summary.OutputFile)
	r.printLabel(10, "Codec:", summary.Codec)
	r.printLabel(10, "Duration:", summary.Duration)
	r.printLabel(10, "Size:", summary.Size)
}

func (r *TerminalReporter) ConversionStarted(totalSecs float64) {
	r.finishProgress()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		100,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Converting [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) ConversionProgress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}

	clamped := progress.Percent
	if clamped > 100 {
		clamped = 100
	}
	if clamped < 0 {
		clamped = 0
	}

	if clamped >= r.maxPercent {
		r.maxPercent = clamped
		_ = r.progress.Set64(int64(clamped))
	}

	desc := fmt.Sprintf("speed %.1fx, fps %.1f, eta %s",
		progress.Speed, progress.FPS, util.FormatDurationFromSecs(int64(progress.ETA.Seconds())))
	r.progress.Describe(desc)
}

func (r *TerminalReporter) AlreadyConverted(path string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: output already exists, conversion skipped: %s\n", path)
	fmt.Printf("  %s\n", r.faint.Sprint("validating the existing file instead"))
}

func (r *TerminalReporter) ValidationComplete(summary ValidationSummary) {
	r.finishProgress()

	fmt.Println()
	_, _ = r.cyan.Println("VALIDATION")

	if summary.Passed {
		fmt.Printf("  %s\n", r.boldGreen.Sprint("All checks passed"))
	} else {
		fmt.Printf("  %s\n", r.red.Sprint("Validation failed"))
	}

	// Find the longest step name for alignment
	maxLen := 0
	for _, step := range summary.Steps {
		if len(step.Name) > maxLen {
			maxLen = len(step.Name)
		}
	}

	for _, step := range summary.Steps {
		var status string
		if step.Passed {
			status = r.green.Sprint("✓")
		} else {
			status = r.red.Sprint("✗")
		}
		paddedName := fmt.Sprintf("%-*s", maxLen, step.Name)
		fmt.Printf("  - %s: %s (%s)\n", paddedName, status, step.Details)
	}
}

func (r *TerminalReporter) FileComplete(outcome FileOutcome) {
	reduction := util.CalculateSizeReduction(outcome.OriginalSize, outcome.ConvertedSize)

	fmt.Println()
	_, _ = r.cyan.Println("RESULTS")
	r.printLabel(10, "Output:", outcome.OutputFile)
	r.printLabel(10, "Size:", fmt.Sprintf("%s -> %s (%.1f%% reduction)",
		util.FormatBytes(outcome.OriginalSize),
		util.FormatBytes(outcome.ConvertedSize),
		reduction))
	r.printLabel(10, "Quality:", fmt.Sprintf("SSIM %.6f, PSNR %.2f dB", outcome.SSIM, outcome.PSNR))
	if outcome.Skipped {
		r.printLabel(10, "Time:", r.faint.Sprint("existing output verified, no conversion run"))
	} else {
		r.printLabel(10, "Time:", fmt.Sprintf("%s (avg speed %.1fx)",
			util.FormatDurationFromSecs(int64(outcome.TotalTime.Seconds())),
			outcome.AverageSpeed))
	}
	fmt.Printf("  %s %s\n", r.bold.Sprint("Saved to"), r.green.Sprint(outcome.OutputPath))
}

func (r *TerminalReporter) Warning(message string) {
	fmt.Println()
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	r.finishProgress()

	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	reduction := util.CalculateSizeReduction(summary.TotalOriginalSize, summary.TotalConvertedSize)

	fmt.Println()
	_, _ = r.cyan.Println("BATCH SUMMARY")
	fmt.Printf("  %s\n", r.bold.Sprintf("%d of %d succeeded", summary.SuccessfulCount, summary.TotalFiles))
	if summary.SkippedCount > 0 {
		fmt.Printf("  %s\n", r.faint.Sprintf("%d already converted, verified only", summary.SkippedCount))
	}
	fmt.Printf("  Size: %s -> %s (%.1f%% reduction)\n",
		util.FormatBytes(summary.TotalOriginalSize),
		util.FormatBytes(summary.TotalConvertedSize),
		reduction)
	fmt.Printf("  Time: %s\n", util.FormatDurationFromSecs(int64(summary.TotalDuration.Seconds())))

	for _, result := range summary.FileResults {
		if result.Skipped {
			fmt.Printf("  - %s %s\n", result.Filename, r.faint.Sprint("(verified)"))
			continue
		}
		fmt.Printf("  - %s (%.1f%% reduction)\n", result.Filename, result.Reduction)
	}
}
