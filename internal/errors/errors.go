// Package errors provides structured error types for hevcify operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindDependency represents a required external executable missing from PATH.
	KindDependency
	// KindCommand represents external command execution errors.
	KindCommand
	// KindProbe represents unreadable or unsupported media reported by the prober.
	KindProbe
	// KindParse represents tool output parsing errors.
	KindParse
	// KindConfig represents configuration validation errors.
	KindConfig
	// KindCodecMismatch represents a stream codec differing from the one required.
	KindCodecMismatch
	// KindDurationMismatch represents source and output durations disagreeing.
	KindDurationMismatch
	// KindQualityBelowThreshold represents an SSIM score at or below the minimum.
	KindQualityBelowThreshold
	// KindMissingOutput represents an expected output file that does not exist.
	KindMissingOutput
	// KindCancelled represents user-cancelled operations.
	KindCancelled
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindDependency:
		return "Missing dependency"
	case KindCommand:
		return "Command error"
	case KindProbe:
		return "Probe error"
	case KindParse:
		return "Parse error"
	case KindConfig:
		return "Configuration error"
	case KindCodecMismatch:
		return "Codec mismatch"
	case KindDurationMismatch:
		return "Duration mismatch"
	case KindQualityBelowThreshold:
		return "Quality below threshold"
	case KindMissingOutput:
		return "Missing output file"
	case KindCancelled:
		return "Operation cancelled"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandWait means waiting for the command failed.
	CommandWait
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandWait:
		return fmt.Sprintf("failed to wait for %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// CoreError is the main error type for hevcify operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewDependencyError creates an error naming a required executable missing from PATH.
func NewDependencyError(tool string) *CoreError {
	return &CoreError{Kind: KindDependency, Message: fmt.Sprintf("required executable not found on PATH: %s", tool)}
}

// NewCommandError creates a new command execution error.
func NewCommandError(cmd string, kind CommandErrorKind, underlying error) *CoreError {
	cmdErr := &CommandError{
		Command:    cmd,
		Kind:       kind,
		Underlying: underlying,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandStart, err)
}

// NewCommandWaitError creates an error for when waiting for a command fails.
func NewCommandWaitError(cmd string, err error) *CoreError {
	return NewCommandError(cmd, CommandWait, err)
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewProbeError creates an error for media the prober could not read or understand.
func NewProbeError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindProbe, Message: message, Underlying: underlying}
}

// NewParseError creates an error for tool output that could not be parsed.
func NewParseError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindParse, Message: message, Underlying: underlying}
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *CoreError {
	return &CoreError{Kind: KindConfig, Message: message}
}

// NewCodecMismatchError creates an error naming the file and the expected versus actual codec.
func NewCodecMismatchError(path, expected, actual string) *CoreError {
	return &CoreError{
		Kind:    KindCodecMismatch,
		Message: fmt.Sprintf("%s: expected codec %s, found %s", path, expected, actual),
	}
}

// NewDurationMismatchError creates an error naming the file and both rounded durations.
func NewDurationMismatchError(path string, sourceSecs, outputSecs int64) *CoreError {
	return &CoreError{
		Kind:    KindDurationMismatch,
		Message: fmt.Sprintf("%s: source duration %ds, output duration %ds", path, sourceSecs, outputSecs),
	}
}

// NewQualityError creates an error for an SSIM score at or below the required minimum.
func NewQualityError(path string, ssim, minimum float64) *CoreError {
	return &CoreError{
		Kind:    KindQualityBelowThreshold,
		Message: fmt.Sprintf("%s: SSIM %.6f is not above the required %.2f", path, ssim, minimum),
	}
}

// NewMissingOutputError creates an error for a conversion whose output file is absent.
func NewMissingOutputError(path string) *CoreError {
	return &CoreError{Kind: KindMissingOutput, Message: fmt.Sprintf("no matching file found: %s", path)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
