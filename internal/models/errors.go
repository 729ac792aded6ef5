package models

import "fmt"

// ValidationError is returned when a filter key is not one of FilterKeys.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("unrecognized filter key %q", e.Key)
}

// PreconditionError signals a user action that cannot run in the current
// state, such as exporting with nothing on screen. It is not a system failure.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return e.Reason
}

// ReasonNothingToExport is the reason used when no rows are visible.
const ReasonNothingToExport = "no data available to export"
