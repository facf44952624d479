// Package lderr defines the error kinds raised by the linear document
// pipeline. Every error the pipeline produces is one of these kinds so
// that callers can classify failures without parsing message strings.
package lderr

import "fmt"

// MalformedInput is raised on a structural problem with the input HTML
// that the streaming parser cannot tolerate: mismatched open/close tags,
// an unexpected close while inside a reference/math sub-document, or an
// overlapping target range during translation projection.
type MalformedInput struct {
	Msg string
}

func (e *MalformedInput) Error() string { return e.Msg }

// NewMalformedInput builds a MalformedInput error with a formatted message.
func NewMalformedInput(format string, args ...any) error {
	return &MalformedInput{Msg: fmt.Sprintf(format, args...)}
}

// ConfigError is raised when the removable-sections configuration is
// malformed, e.g. a template regex fails to compile.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return e.Msg }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// SegmenterError is raised when an injected sentence splitter returns
// offsets that are non-monotonic or beyond the plaintext it was given.
type SegmenterError struct {
	Msg string
}

func (e *SegmenterError) Error() string { return e.Msg }

// NewSegmenterError builds a SegmenterError with a formatted message.
func NewSegmenterError(format string, args ...any) error {
	return &SegmenterError{Msg: fmt.Sprintf(format, args...)}
}

// Internal is raised when the pipeline detects a violation of its own
// invariants (e.g. an unknown item kind while walking a Doc).
type Internal struct {
	Msg string
}

func (e *Internal) Error() string { return e.Msg }

// NewInternal builds an Internal error with a formatted message.
func NewInternal(format string, args ...any) error {
	return &Internal{Msg: fmt.Sprintf(format, args...)}
}
