package domain

import (
	"errors"
	"fmt"
)

// Loader errors - structurally invalid inventory input
var (
	// ErrMalformedRecord indicates a row is missing a required field
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidField indicates a field value failed to parse
	ErrInvalidField = errors.New("invalid field value")
)

// Provider errors - remote inventory traversal
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrSourceUnavailable indicates the source site could not be reached
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrQuotaExceeded indicates the remote API quota has been exhausted
	ErrQuotaExceeded = errors.New("quota exceeded")
)

// Pipeline errors
var (
	// ErrExport indicates the export destination could not be written
	ErrExport = errors.New("export failed")

	// ErrRunInProgress indicates another comparison run holds the lock
	ErrRunInProgress = errors.New("comparison run already in progress")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")

	// ErrEndpointNotFound indicates referenced endpoint doesn't exist
	ErrEndpointNotFound = errors.New("endpoint not found")
)

// MalformedRecordError reports a row with a missing required field.
// A single bad row invalidates the whole inventory; reconciliation
// needs a complete, trustworthy set.
type MalformedRecordError struct {
	Row   int
	Field string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Row, e.Field)
}

func (e *MalformedRecordError) Unwrap() error { return ErrMalformedRecord }

// InvalidFieldError reports a field value that failed to parse.
type InvalidFieldError struct {
	Row   int
	Field string
	Value string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("row %d: field %q has invalid value %q", e.Row, e.Field, e.Value)
}

func (e *InvalidFieldError) Unwrap() error { return ErrInvalidField }
