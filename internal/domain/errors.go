package domain

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

// ValidationError reports input that must be fixed before a capture or save is allowed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Reason
	}
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NewValidationError is a shorthand used by services.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistenceError wraps any failure of the backing store. Callers do not branch on the cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Persist wraps err into a PersistenceError, leaving nil untouched.
func Persist(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// FileFailure names one file that could not be uploaded.
type FileFailure struct {
	FileName string
	Err      error
}

// PartialUploadFailure is returned next to the successful results of a multi-file upload.
type PartialUploadFailure struct {
	Failed []FileFailure
}

func (e *PartialUploadFailure) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, f.FileName)
	}
	return fmt.Sprintf("%d file(s) failed to upload (%s): %v", len(e.Failed), strings.Join(names, ", "), e.Unwrap())
}

// Unwrap combines the per-file causes.
func (e *PartialUploadFailure) Unwrap() error {
	var err error
	for _, f := range e.Failed {
		err = multierr.Append(err, fmt.Errorf("%s: %w", f.FileName, f.Err))
	}
	return err
}
