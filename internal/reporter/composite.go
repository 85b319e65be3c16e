package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) BatchStarted(info BatchStartInfo) {
	for _, r := range c.reporters {
		r.BatchStarted(info)
	}
}

func (c *CompositeReporter) FileStarted(file FileContext) {
	for _, r := range c.reporters {
		r.FileStarted(file)
	}
}

func (c *CompositeReporter) SourceInfo(summary SourceSummary) {
	for _, r := range c.reporters {
		r.SourceInfo(summary)
	}
}

func (c *CompositeReporter) ConversionStarted(totalSecs float64) {
	for _, r := range c.reporters {
		r.ConversionStarted(totalSecs)
	}
}

func (c *CompositeReporter) ConversionProgress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.ConversionProgress(progress)
	}
}

func (c *CompositeReporter) AlreadyConverted(path string) {
	for _, r := range c.reporters {
		r.AlreadyConverted(path)
	}
}

func (c *CompositeReporter) ValidationComplete(summary ValidationSummary) {
	for _, r := range c.reporters {
		r.ValidationComplete(summary)
	}
}

func (c *CompositeReporter) FileComplete(outcome FileOutcome) {
	for _, r := range c.reporters {
		r.FileComplete(outcome)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
