package validation

// Step records a single validation check and its outcome.
type Step struct {
	Name    string
	Passed  bool
	Details string
}

// Result collects the checks that ran against one converted file. Checks
// run in a fixed order and stop at the first failure, so a failed Result
// ends with its failing step.
type Result struct {
	Steps []Step

	CodecName  string
	SourceSecs int64
	OutputSecs int64

	// Metrics is nil when the quality comparison never ran.
	Metrics *QualityMetrics
}

func (r *Result) addStep(name string, passed bool, details string) {
	r.Steps = append(r.Steps, Step{Name: name, Passed: passed, Details: details})
}

// IsValid reports whether every check ran and passed.
func (r *Result) IsValid() bool {
	if len(r.Steps) == 0 {
		return false
	}
	for _, step := range r.Steps {
		if !step.Passed {
			return false
		}
	}
	return true
}

// Failures returns descriptions of failed checks.
func (r *Result) Failures() []string {
	var failures []string
	for _, step := range r.Steps {
		if !step.Passed {
			failures = append(failures, step.Name+": "+step.Details)
		}
	}
	return failures
}
