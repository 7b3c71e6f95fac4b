package payroll

import "errors"

// DefaultSaveErrorMessage is shown when a failed save carries no detail.
const DefaultSaveErrorMessage = "An error occurred while saving."

var (
	ErrSalaryNotFound = errors.New("salary record not found")
	ErrInvalidPeriod  = errors.New("invalid payroll period")
	ErrInvalidField   = errors.New("invalid salary field")
	ErrNotEditing     = errors.New("payroll is not being edited")
	ErrSaveInFlight   = errors.New("payroll save is already in progress")
)
