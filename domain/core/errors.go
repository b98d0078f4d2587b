package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
	ErrMetricNotFound = fmt.Errorf("%w: metric", ErrNotFound)

	// Analysis errors
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrUnknownGroup     = errors.New("unknown group label")
	ErrEmptyTable       = errors.New("table has no rows")

	// Rendering errors
	ErrReportTemplateMissing = errors.New("report template not found")
	ErrMarkerNotFound        = errors.New("insertion marker not found in report")
)

// Error constructors with context
func NewColumnNotFoundError(column string) error {
	return fmt.Errorf("%w %q", ErrColumnNotFound, column)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

func NewInsufficientDataError(metric string, nA, nB int) error {
	return fmt.Errorf("%w: metric %s (n_a=%d, n_b=%d)", ErrInsufficientData, metric, nA, nB)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsInsufficientDataError(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}
