// Package errors provides standardized error types for table operations.
// This package defines OpError for consistent error handling across all
// public APIs, with operation context, a closed error kind taxonomy, and
// error wrapping support.
package errors

import (
	"fmt"
)

// Kind classifies an operation failure. The set is closed: every error the
// engine returns carries exactly one of these kinds.
type Kind int

const (
	// KindValidation covers absent columns or labels, length mismatches
	// between data and index, and missing aggregation targets.
	KindValidation Kind = iota
	// KindUnsupported covers unknown export formats, unknown frequency
	// identifiers, and indexing forms the engine does not implement.
	KindUnsupported
	// KindTypeMismatch covers numeric operations invoked on non-numeric
	// columns and values of the wrong dtype.
	KindTypeMismatch
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnsupported:
		return "unsupported"
	case KindTypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// OpError represents a failure of a single table operation.
type OpError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "Sort", "Pivot", "Resample")
	Column  string // Column name if applicable
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s failed on column %q: %s", e.Kind, e.Op, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s failed: %s", e.Kind, e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support.
func (e *OpError) Unwrap() error {
	return e.Cause
}

// Is implements error equality checking for errors.Is().
func (e *OpError) Is(target error) bool {
	if oe, ok := target.(*OpError); ok {
		return e.Kind == oe.Kind && e.Op == oe.Op && e.Column == oe.Column && e.Message == oe.Message
	}
	return false
}

// Common error constructors for consistent error creation

// NewValidationError creates an error for input validation failures.
func NewValidationError(op, column, message string) *OpError {
	return &OpError{
		Kind:    KindValidation,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewColumnNotFoundError creates an error for operations on non-existent columns.
func NewColumnNotFoundError(op, column string) *OpError {
	return &OpError{
		Kind:    KindValidation,
		Op:      op,
		Column:  column,
		Message: "column does not exist",
	}
}

// NewLabelNotFoundError creates an error for lookups of labels absent from an index.
func NewLabelNotFoundError(op, label string) *OpError {
	return &OpError{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("label %q not found in index", label),
	}
}

// NewLengthMismatchError creates an error for data/index length disagreements.
func NewLengthMismatchError(op string, expected, actual int) *OpError {
	return &OpError{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("expected length %d, got %d", expected, actual),
	}
}

// NewUnsupportedError creates an error for unknown formats, frequencies, or
// unimplemented operation variants.
func NewUnsupportedError(op, message string) *OpError {
	return &OpError{
		Kind:    KindUnsupported,
		Op:      op,
		Message: message,
	}
}

// NewTypeMismatchError creates an error for operations applied to a column of
// the wrong dtype.
func NewTypeMismatchError(op, column, message string) *OpError {
	return &OpError{
		Kind:    KindTypeMismatch,
		Op:      op,
		Column:  column,
		Message: message,
	}
}

// NewOutOfBoundsError creates an error for positional access outside [0, n).
func NewOutOfBoundsError(op string, pos, length int) *OpError {
	return &OpError{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("position %d out of bounds for length %d", pos, length),
	}
}

// Kind predicates for callers that branch on the taxonomy.

// IsValidation reports whether err is an OpError of kind KindValidation.
func IsValidation(err error) bool { return hasKind(err, KindValidation) }

// IsUnsupported reports whether err is an OpError of kind KindUnsupported.
func IsUnsupported(err error) bool { return hasKind(err, KindUnsupported) }

// IsTypeMismatch reports whether err is an OpError of kind KindTypeMismatch.
func IsTypeMismatch(err error) bool { return hasKind(err, KindTypeMismatch) }

func hasKind(err error, k Kind) bool {
	for err != nil {
		if oe, ok := err.(*OpError); ok {
			return oe.Kind == k
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
