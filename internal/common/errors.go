package common

import (
	"errors"
	"fmt"
)

// Domain errors - use errors.Is() to check
var (
	ErrBadRequest = errors.New("bad request")

	// Upload validation errors
	ErrPayloadTooLarge     = errors.New("payload too large")
	ErrEmptyInput          = fmt.Errorf("empty input: %w", ErrBadRequest)
	ErrUnsupportedEncoding = fmt.Errorf("unsupported encoding: %w", ErrBadRequest)
	ErrMissingFile         = fmt.Errorf("missing file: %w", ErrBadRequest)
	ErrUnreadableUpload    = fmt.Errorf("unreadable upload: %w", ErrBadRequest)

	// Upstream errors
	ErrUpstream              = errors.New("upstream error")
	ErrUpstreamFailure       = fmt.Errorf("upstream call failed: %w", ErrUpstream)
	ErrEmptyUpstreamResponse = fmt.Errorf("empty upstream response: %w", ErrUpstream)
)

// LimitError reports an upload that exceeded the configured byte ceiling.
type LimitError struct {
	Limit int64
}

func (e LimitError) Error() string {
	return fmt.Sprintf("upload exceeds %d bytes", e.Limit)
}

// Is implements errors.Is for LimitError
func (e LimitError) Is(target error) bool {
	return target == ErrPayloadTooLarge
}

// WrapUpstream wraps a provider error as an upstream failure with context
func WrapUpstream(operation string, err error) error {
	return fmt.Errorf("%s: %w", operation, errors.Join(ErrUpstreamFailure, err))
}

// IsUpstream checks if error came from the LLM provider
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}
