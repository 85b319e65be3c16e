// Package config provides configuration types and defaults for hevcify.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Default constants
const (
	// DefaultSourceCodec is the exact codec name the prober must report for eligible inputs.
	DefaultSourceCodec string = "h264"

	// DefaultTargetCodec is the exact codec name expected in converted outputs.
	DefaultTargetCodec string = "hevc"

	// DefaultEncoder is the encoder handed to the transcoder for the video stream.
	DefaultEncoder string = "libx265"

	// DefaultCodecTag is the HEVC fourcc written into the output container for player compatibility.
	DefaultCodecTag string = "hvc1"

	// DefaultMinSSIM is the quality floor: the SSIM aggregate of a conversion
	// must be strictly above this value.
	DefaultMinSSIM float64 = 0.95

	// DefaultSourceExtension selects the files picked up by discovery.
	DefaultSourceExtension string = ".mp4"

	// DefaultOutputExtension is the container extension of converted files.
	DefaultOutputExtension string = ".mkv"

	// DefaultPartialMaxAge is how old an abandoned partial output must be
	// before the batch sweep removes it.
	DefaultPartialMaxAge time.Duration = 24 * time.Hour
)

// Config holds all configuration for a conversion run.
type Config struct {
	// RootDir is the directory walked for source files.
	RootDir string

	// Codec identities, compared verbatim against prober output.
	SourceCodec string
	TargetCodec string

	// Encoder selection for the transcoder.
	Encoder  string
	CodecTag string

	// Quality gate (SSIM must be strictly greater than this).
	MinSSIM float64

	// File extensions ('.' included).
	SourceExtension string
	OutputExtension string

	// Age after which orphaned partial outputs are swept.
	PartialMaxAge time.Duration
}

// NewConfig creates a new Config with default values rooted at rootDir.
func NewConfig(rootDir string) *Config {
	return &Config{
		RootDir:         rootDir,
		SourceCodec:     DefaultSourceCodec,
		TargetCodec:     DefaultTargetCodec,
		Encoder:         DefaultEncoder,
		CodecTag:        DefaultCodecTag,
		MinSSIM:         DefaultMinSSIM,
		SourceExtension: DefaultSourceExtension,
		OutputExtension: DefaultOutputExtension,
		PartialMaxAge:   DefaultPartialMaxAge,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("%w: root directory must be set", ErrInvalidRoot)
	}

	if c.MinSSIM <= 0 || c.MinSSIM > 1 {
		return fmt.Errorf("%w: min SSIM must be within (0, 1], got %g", ErrInvalidThreshold, c.MinSSIM)
	}

	if c.SourceCodec == "" || c.TargetCodec == "" {
		return fmt.Errorf("%w: source and target codecs must be set", ErrInvalidCodec)
	}

	if c.Encoder == "" {
		return fmt.Errorf("%w: encoder must be set", ErrInvalidEncoder)
	}

	for _, ext := range []string{c.SourceExtension, c.OutputExtension} {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("%w: '%s' must start with a dot", ErrInvalidExtension, ext)
		}
	}

	if strings.EqualFold(c.SourceExtension, c.OutputExtension) {
		return fmt.Errorf("%w: source and output extensions must differ", ErrInvalidExtension)
	}

	return nil
}
