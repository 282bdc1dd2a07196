package docforge

import (
	"errors"
	"fmt"
	"strings"
)

// ShapeMismatchError reports a table whose declared dimensions disagree with its content
type ShapeMismatchError struct {
	// Row is the offending row index, or -1 for table-level problems
	Row int
	// Column is the offending column index, or -1 when the whole row is wrong
	Column  int
	Message string
}

func (e *ShapeMismatchError) Error() string {
	switch {
	case e.Row >= 0 && e.Column >= 0:
		return fmt.Sprintf("shape mismatch at row %d, column %d: %s", e.Row, e.Column, e.Message)
	case e.Row >= 0:
		return fmt.Sprintf("shape mismatch at row %d: %s", e.Row, e.Message)
	}
	return fmt.Sprintf("shape mismatch: %s", e.Message)
}

// NewShapeMismatchError creates a shape error for a row (and optionally a column)
func NewShapeMismatchError(row, column int, format string, args ...interface{}) error {
	return &ShapeMismatchError{
		Row:     row,
		Column:  column,
		Message: fmt.Sprintf(format, args...),
	}
}

// DanglingReferenceError reports a numbering reference with no declared definition
type DanglingReferenceError struct {
	ListID   string
	Location string
}

func (e *DanglingReferenceError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("dangling numbering reference %q at %s", e.ListID, e.Location)
	}
	return fmt.Sprintf("dangling numbering reference %q", e.ListID)
}

// NewDanglingReferenceError creates a dangling reference error
func NewDanglingReferenceError(listID, location string) error {
	return &DanglingReferenceError{ListID: listID, Location: location}
}

// EncodingError reports text that cannot be represented in the target markup
type EncodingError struct {
	Location string
	// Offset is the byte offset of the offending character in the run text
	Offset int
	Cause  error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failure at %s (byte %d): %v", e.Location, e.Offset, e.Cause)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// IOError reports a failure while writing the container to its destination
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("i/o failure during %s of '%s': %v", e.Op, e.Path, e.Cause)
	}
	return fmt.Sprintf("i/o failure during %s: %v", e.Op, e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new I/O error
func NewIOError(op, path string, cause error) error {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// DuplicateIDError reports a numbering id declared twice
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("numbering id %q is already declared", e.ID)
}

// InvalidValueError reports a node field that violates a local invariant
type InvalidValueError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

// NewInvalidValueError creates a new invalid value error
func NewInvalidValueError(field string, value interface{}, message string) error {
	return &InvalidValueError{Field: field, Value: value, Message: message}
}

// MultiError collects multiple errors
type MultiError struct {
	errors []error
}

// NewMultiError creates a new multi-error collector
func NewMultiError() *MultiError {
	return &MultiError{}
}

// Add adds an error to the collection (ignores nil errors)
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// Len returns the number of errors
func (m *MultiError) Len() int {
	return len(m.errors)
}

// Errors returns the collected errors in the order they were added
func (m *MultiError) Errors() []error {
	out := make([]error, len(m.errors))
	copy(out, m.errors)
	return out
}

// Err returns the multi-error or nil if empty
func (m *MultiError) Err() error {
	if len(m.errors) == 0 {
		return nil
	}
	if len(m.errors) == 1 {
		return m.errors[0]
	}
	return m
}

func (m *MultiError) Error() string {
	if len(m.errors) == 0 {
		return "no errors"
	}
	if len(m.errors) == 1 {
		return m.errors[0].Error()
	}

	parts := []string{fmt.Sprintf("%d errors occurred:", len(m.errors))}
	for i, err := range m.errors {
		parts = append(parts, fmt.Sprintf("  [%d] %v", i+1, err))
	}
	return strings.Join(parts, "\n")
}

// Unwrap exposes the collected errors to errors.Is and errors.As
func (m *MultiError) Unwrap() []error {
	return m.errors
}

// IsShapeMismatch checks if an error is (or wraps) a shape mismatch
func IsShapeMismatch(err error) bool {
	var target *ShapeMismatchError
	return errors.As(err, &target)
}

// IsDanglingReference checks if an error is (or wraps) a dangling numbering reference
func IsDanglingReference(err error) bool {
	var target *DanglingReferenceError
	return errors.As(err, &target)
}

// IsEncodingError checks if an error is (or wraps) an encoding failure
func IsEncodingError(err error) bool {
	var target *EncodingError
	return errors.As(err, &target)
}

// IsIOError checks if an error is (or wraps) an I/O failure
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
