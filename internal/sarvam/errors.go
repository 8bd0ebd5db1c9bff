package sarvam

import (
	"errors"
	"fmt"
)

// Common Sarvam API errors
var (
	// ErrMissingAPIKey is returned when SARVAM_API_KEY is not configured.
	ErrMissingAPIKey = errors.New("missing Sarvam API key: set SARVAM_API_KEY environment variable")

	// ErrEmptyText is returned when a request is made with no text.
	ErrEmptyText = errors.New("no text provided")

	// ErrRequestFailed is returned when the Sarvam API rejects a request.
	ErrRequestFailed = errors.New("Sarvam API request failed")

	// ErrNoAudio is returned when a text-to-speech response carries no audio payload.
	ErrNoAudio = errors.New("no audio data in Sarvam response")
)

// SarvamError wraps errors with additional context about the API failure.
type SarvamError struct {
	// Op is the operation that failed (e.g., "Translate", "TextToSpeech").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *SarvamError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("sarvam: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("sarvam: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *SarvamError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *SarvamError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapSarvamError wraps an error as a SarvamError if it isn't already one.
func WrapSarvamError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var apiErr *SarvamError
	if errors.As(err, &apiErr) {
		return err // Already wrapped
	}

	return &SarvamError{Op: op, Err: err, Details: details}
}
