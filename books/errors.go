package books

import (
	"errors"
	"fmt"
)

var (
	// ErrDatasetNotFound is returned when the dataset file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDatasetEncoding is returned when the dataset is not valid in the configured encoding.
	ErrDatasetEncoding = errors.New("dataset encoding error")
	// ErrDatasetParse is returned when the tabular structure is malformed.
	ErrDatasetParse = errors.New("dataset parse error")
	// ErrCoercion is returned when a pages or rating cell is not numeric.
	ErrCoercion = errors.New("numeric coercion failed")
)

// CoercionError describes the first cell that could not be converted.
type CoercionError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("row %d: column %s: cannot convert %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *CoercionError) Unwrap() []error { return []error{ErrCoercion, e.Err} }
