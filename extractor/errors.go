package extractor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the source reports that the requested id does not exist.
	ErrNotFound = errors.New("extractor: not found")

	// ErrUnsupported is returned by backends that cannot serve an operation.
	ErrUnsupported = errors.New("extractor: operation not supported by backend")

	// ErrUnavailable is returned by accessors whose value the source does not carry.
	ErrUnavailable = errors.New("extractor: value not available")

	// ErrInvalidID is returned before any request is made when an id or query is malformed.
	ErrInvalidID = errors.New("extractor: invalid identifier")
)

// ParsingError reports an accessor that could not read its field from the raw record.
type ParsingError struct {
	Field  string
	Reason string
}

func (e *ParsingError) Error() string {
	return fmt.Sprintf("could not parse %s: %s", e.Field, e.Reason)
}

// Missing builds the ParsingError for an absent field.
func Missing(field string) error {
	return &ParsingError{Field: field, Reason: "missing"}
}
