// Package domain defines domain-specific errors.
// These errors represent business logic failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that services can return.
var (
	// ErrEmptySequence is returned when a source resolves to zero slides.
	ErrEmptySequence = errors.New("slide sequence is empty")

	// ErrSurfaceUnavailable is returned when the slide source or display surface cannot be reached at startup.
	ErrSurfaceUnavailable = errors.New("display surface unavailable")

	// ErrRotatorRunning is returned when Start is called on a running rotator.
	ErrRotatorRunning = errors.New("rotator already running")

	// ErrRotatorStopped is returned when Start is called on a stopped rotator.
	ErrRotatorStopped = errors.New("rotator stopped")

	// ErrSourceNotFound is returned when a source path does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrUnsupportedSource is returned when a path is neither a folder nor a deck manifest.
	ErrUnsupportedSource = errors.New("unsupported source")

	// ErrInvalidIndex is returned when a slide index is out of bounds.
	ErrInvalidIndex = errors.New("invalid slide index")

	// ErrNotMounted is returned when transitions are requested before slides are mounted.
	ErrNotMounted = errors.New("surface has no mounted slides")

	// ErrScanCancelled is returned when a folder scan is canceled.
	ErrScanCancelled = errors.New("scan cancelled")
)

// SourceError represents a failure while resolving slides from a source.
type SourceError struct {
	Op   string // Operation that failed (e.g., "scan", "read", "parse")
	Path string // Source path
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s failed for '%s': %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(op, path string, err error) *SourceError {
	return &SourceError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "history", "preferences")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "Rotator", "SlideshowService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s.%s failed: %s: %v", e.Service, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
