package leave

import (
	"fmt"

	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

// Policy holds the request rules that are not fixed by the item shape.
type Policy struct {
	// AllowBackdate accepts dates before Today.
	AllowBackdate bool
	Today         Date
}

// DefaultPolicy accepts backdated requests.
func DefaultPolicy() Policy {
	return Policy{AllowBackdate: true}
}

// ValidateItems checks a draft before it is sent anywhere. It returns
// validator.ValidationErrors keyed by item position.
func ValidateItems(items []DateItem, policy Policy) error {
	var errs validator.ValidationErrors

	if len(items) == 0 {
		errs.Add("items", ErrEmptyDraft.Error())
		return errs.OrNil()
	}

	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)

		if !item.LeaveType().IsValid() {
			errs.Add(prefix+".leave_type", "leave_type must be 'Annual Leave' or 'Sick Leave'")
		}

		switch v := item.(type) {
		case FullDay:
			if !v.From.IsSet() {
				errs.Add(prefix+".from_date", "from_date is required")
			}
			if !v.To.IsSet() {
				errs.Add(prefix+".to_date", "to_date is required")
			}
			if v.From.IsSet() && v.To.IsSet() && v.To.Before(v.From) {
				errs.Add(prefix+".to_date", "to_date must not be before from_date")
			}
			if !policy.AllowBackdate && v.From.IsSet() && v.From.Before(policy.Today) {
				errs.Add(prefix+".from_date", "from_date must not be in the past")
			}
		case HalfDay:
			if !v.Date.IsSet() {
				errs.Add(prefix+".single_date", "single_date is required")
			}
			if !v.Period.IsValid() {
				errs.Add(prefix+".half_day_period", "half_day_period must be 'AM' or 'PM'")
			}
			if !policy.AllowBackdate && v.Date.IsSet() && v.Date.Before(policy.Today) {
				errs.Add(prefix+".single_date", "single_date must not be in the past")
			}
		}
	}

	return errs.OrNil()
}
