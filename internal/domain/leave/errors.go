package leave

import "errors"

// DefaultSubmitErrorMessage is shown when a failed submission carries no
// detail.
const DefaultSubmitErrorMessage = "An error occurred while submitting the request."

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyDraft         = errors.New("at least one date item is required")
	ErrSubmissionInFlight = errors.New("vacation request is already being submitted")
	ErrBalanceNotFound    = errors.New("leave balance not found")
)
