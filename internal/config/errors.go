// Package config provides configuration types and defaults for hevcify.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidRoot indicates the root directory was not set.
	ErrInvalidRoot = errors.New("invalid root directory")

	// ErrInvalidThreshold indicates a quality threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("quality threshold out of range")

	// ErrInvalidCodec indicates an empty codec identity.
	ErrInvalidCodec = errors.New("codec configuration invalid")

	// ErrInvalidEncoder indicates an empty encoder selection.
	ErrInvalidEncoder = errors.New("encoder configuration invalid")

	// ErrInvalidExtension indicates a malformed or conflicting file extension.
	ErrInvalidExtension = errors.New("file extension invalid")
)
