package reporter

// Reporter defines the interface for progress reporting.
type Reporter interface {
	BatchStarted(info BatchStartInfo)
	FileStarted(file FileContext)
	SourceInfo(summary SourceSummary)
	ConversionStarted(totalSecs float64)
	ConversionProgress(progress ProgressSnapshot)
	AlreadyConverted(path string)
	ValidationComplete(summary ValidationSummary)
	FileComplete(outcome FileOutcome)
	Warning(message string)
	Error(err ReporterError)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) BatchStarted(BatchStartInfo)          {}
func (NullReporter) FileStarted(FileContext)              {}
func (NullReporter) SourceInfo(SourceSummary)             {}
func (NullReporter) ConversionStarted(float64)            {}
func (NullReporter) ConversionProgress(ProgressSnapshot)  {}
func (NullReporter) AlreadyConverted(string)              {}
func (NullReporter) ValidationComplete(ValidationSummary) {}
func (NullReporter) FileComplete(FileOutcome)             {}
func (NullReporter) Warning(string)                       {}
func (NullReporter) Error(ReporterError)                  {}
func (NullReporter) BatchComplete(BatchSummary)           {}
