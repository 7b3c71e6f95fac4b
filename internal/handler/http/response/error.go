package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/backend"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

const defaultErrorMessage = "An unexpected error occurred"

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	HandleErrorWithDefault(w, err, defaultErrorMessage)
}

// HandleErrorWithDefault is HandleError with the message used when neither
// the domain nor the backend explains the failure.
func HandleErrorWithDefault(w http.ResponseWriter, err error, fallback string) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, user.ErrNotAuthenticated):
		Unauthorized(w, "Unauthorized")
	case errors.Is(err, user.ErrEmployeeIDRequired):
		Forbidden(w, "No employee record is linked to this account")

	// Vacation
	case errors.Is(err, leave.ErrSubmissionInFlight):
		Conflict(w, "Vacation request is already being submitted")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Payroll
	case errors.Is(err, payroll.ErrSaveInFlight):
		Conflict(w, "Salary is already being saved")
	case errors.Is(err, payroll.ErrNotEditing):
		Conflict(w, "Salary is not being edited")
	case errors.Is(err, payroll.ErrSalaryNotFound):
		NotFound(w, "Salary not found")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)
	case errors.Is(err, payroll.ErrInvalidField):
		BadRequest(w, "Unknown salary field", nil)

	default:
		var backendErr *backend.Error
		if errors.As(err, &backendErr) {
			message := backendErr.Detail
			if message == "" {
				message = fallback
			}
			BadGateway(w, message)
			return
		}
		InternalServerError(w, fallback)
	}
}
