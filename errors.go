package digits

import (
	"fmt"
)

// Error is a wrapper for specific types of errors for which there is no additional information
// necessary. These errors are defined as global variables.
type Error struct{ string }

func (err Error) Error() string {
	return err.string
}

// These are the global errors that may be returned.
var (
	ErrEmptyDataset = Error{"Dataset has no samples"}
	ErrNilModel     = Error{"Model is nil"}
)

// SizeMismatchError documents a slice given to the Model whose length does not match the size the
// Model expects for it. Name is what the slice was supposed to be, e.g. "inputs".
type SizeMismatchError struct {
	Expected, Got int
	Name          string
}

func (err *SizeMismatchError) Error() string {
	return fmt.Sprintf("Size mismatch for %s: expected %d, got %d", err.Name, err.Expected, err.Got)
}

// DimensionError reports a parameter tensor whose shape disagrees with the architecture. Vectors
// have Cols == WantCols == 1.
type DimensionError struct {
	Name               string
	Rows, Cols         int
	WantRows, WantCols int
}

func (err *DimensionError) Error() string {
	return fmt.Sprintf("%s has shape %dx%d, architecture requires %dx%d",
		err.Name, err.Rows, err.Cols, err.WantRows, err.WantCols)
}

// FormatError is returned when a persisted model record is missing required fields or describes
// parameters of the wrong shape. Err holds the underlying cause, if there is one (often a
// *DimensionError).
type FormatError struct {
	Reason string
	Err    error
}

func (err *FormatError) Error() string {
	if err.Err == nil {
		return "Can't load model, bad format: " + err.Reason
	}
	return "Can't load model, bad format: " + err.Reason + ": " + err.Err.Error()
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

func formatErr(reason string, args ...interface{}) *FormatError {
	return &FormatError{Reason: fmt.Sprintf(reason, args...)}
}
