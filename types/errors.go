package types

import (
	"errors"
	"fmt"
)

// ErrNoSetup is returned by lookups when no transformation setup exists for a camera
var ErrNoSetup = errors.New("no transformation setup for camera")

// ErrNotFound is returned when a stored entity does not exist
var ErrNotFound = errors.New("not found")

// ExtractionError means the metadata of a file could not be read at all
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract metadata from %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParseError means a single raw value could not be converted; the field is dropped
type ParseError struct {
	Field string
	Value any
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %s value %q: %v", e.Field, FormatValue(e.Value), e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AccessError is returned when an upload key is missing or unknown
type AccessError struct {
	Reason string
}

func (e *AccessError) Error() string {
	return "access denied: " + e.Reason
}

// PersistenceError wraps a failure from the storage layer
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationError reports an invalid value on write
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
