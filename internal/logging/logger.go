// Package logging provides the leveled logger shared by the CLI and the
// conversion pipeline. A Logger is constructed from an explicit Config and
// handed to collaborators; there is no package-level global.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level identifies the severity of a log line.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// levelNames is indexed by Level. The set is closed; there is no unknown entry.
var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the fixed name of the level.
func (l Level) String() string {
	return levelNames[l]
}

// ColorMode controls whether level tags are colorized.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode parses a string into a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, nil
	case "always":
		return ColorAlways, nil
	case "never":
		return ColorNever, nil
	default:
		return "", fmt.Errorf("invalid color mode '%s', valid options: auto, always, never", s)
	}
}

// Config describes a Logger before construction.
type Config struct {
	// Level is the minimum severity written.
	Level Level

	// Color selects colorized level tags on the terminal writers.
	Color ColorMode

	// Out receives debug, info and warn lines. Defaults to os.Stdout.
	Out io.Writer

	// ErrOut receives error lines. Defaults to os.Stderr.
	ErrOut io.Writer

	// FilePath optionally mirrors every line, uncolored, into a file.
	FilePath string
}

// Logger writes timestamped leveled lines. Error lines go to ErrOut, all
// other levels to Out. Methods are safe for concurrent use.
type Logger struct {
	mu       sync.Mutex
	level    Level
	out      io.Writer
	errOut   io.Writer
	file     *os.File
	filePath string
	tags     [len(levelNames)]string
}

// New constructs a Logger from cfg.
func New(cfg Config) (*Logger, error) {
	l := &Logger{
		level:  cfg.Level,
		out:    cfg.Out,
		errOut: cfg.ErrOut,
	}
	if l.out == nil {
		l.out = os.Stdout
	}
	if l.errOut == nil {
		l.errOut = os.Stderr
	}

	tagColors := [len(levelNames)]*color.Color{
		color.New(color.FgHiBlack),
		color.New(color.FgGreen),
		color.New(color.FgYellow),
		color.New(color.FgRed),
	}
	for i, c := range tagColors {
		switch cfg.Color {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
		l.tags[i] = c.Sprint(levelNames[i])
	}

	if cfg.FilePath != "" {
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.file = f
		l.filePath = cfg.FilePath
	}

	return l, nil
}

// FilePath returns the path of the file sink, or "" when none is configured.
func (l *Logger) FilePath() string {
	return l.filePath
}

// Close releases the file sink if one was configured.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.write(LevelDebug, format, args...)
}

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.write(LevelInfo, format, args...)
}

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.write(LevelWarn, format, args...)
}

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.write(LevelError, format, args...)
}

func (l *Logger) write(level Level, format string, args ...interface{}) {
	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, args...)
	now := time.Now().Format("15:04:05")

	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.out
	if level == LevelError {
		w = l.errOut
	}
	fmt.Fprintf(w, "%s %s %s\n", now, l.tags[level], msg)

	if l.file != nil {
		fmt.Fprintf(l.file, "%s %s %s\n", now, levelNames[level], msg)
	}
}
