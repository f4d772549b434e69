package readings

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is reported when the source does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrParseFailure is reported when the source is not a valid readings table.
	ErrParseFailure = errors.New("parse failure")
	// ErrMissingColumn is reported when a filter needs a column the table lacks.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRange is reported when a date range starts after it ends.
	ErrInvalidRange = errors.New("invalid date range")
)

// LoadError describes a failed load. Kind is ErrSourceNotFound or
// ErrParseFailure; Line is the 1-based source line when known.
type LoadError struct {
	Source string
	Kind   error
	Line   int
	Err    error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s: %v", e.Source, e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" (line %d)", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *LoadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// MissingColumnError names the absent column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%v: %q", ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

func notFound(source string, err error) *LoadError {
	return &LoadError{Source: source, Kind: ErrSourceNotFound, Err: err}
}

func parseFailure(source string, line int, err error) *LoadError {
	return &LoadError{Source: source, Kind: ErrParseFailure, Line: line, Err: err}
}
