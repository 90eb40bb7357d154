package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested id or stream candidate does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnreachable means the media origin could not be reached.
	ErrUpstreamUnreachable = errors.New("upstream unreachable")

	// ErrInvalidInput means the id or query was rejected before any lookup.
	ErrInvalidInput = errors.New("invalid input")
)

// ExtractionError reports that a required field could not be obtained from the source.
type ExtractionError struct {
	Op    string // query that failed, e.g. "search"
	Field string // accessor that failed, empty when the whole lookup failed
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: extraction failed on %s: %v", e.Op, e.Field, e.Err)
	}
	return fmt.Sprintf("%s: extraction failed: %v", e.Op, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a transport failure on one of the relay hops.
type UpstreamError struct {
	Hop int // 1 for the origin URL, 2 for the redirect target
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream hop %d: %v", e.Hop, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Is makes every UpstreamError match ErrUpstreamUnreachable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnreachable
}

// IsExtractionFailed reports whether err carries an ExtractionError.
func IsExtractionFailed(err error) bool {
	var ee *ExtractionError
	return errors.As(err, &ee)
}
