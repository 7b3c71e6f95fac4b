package leave

import (
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

// DateItemPayload is the wire shape of a DateItem, shared by the portal API
// and the backend. Only the fields of the item's own kind are present.
type DateItemPayload struct {
	Type          ItemKind       `json:"type"`
	FromDate      *string        `json:"from_date,omitempty"`
	ToDate        *string        `json:"to_date,omitempty"`
	SingleDate    *string        `json:"single_date,omitempty"`
	HalfDayPeriod *HalfDayPeriod `json:"half_day_period,omitempty"`
	LeaveType     LeaveType      `json:"leave_type"`
	Days          float64        `json:"days"`
}

func ToPayload(item DateItem) DateItemPayload {
	payload := DateItemPayload{
		Type:      item.Kind(),
		LeaveType: item.LeaveType(),
		Days:      item.Days(),
	}
	switch v := item.(type) {
	case FullDay:
		from, to := v.From.String(), v.To.String()
		payload.FromDate = &from
		payload.ToDate = &to
	case HalfDay:
		date, period := v.Date.String(), v.Period
		payload.SingleDate = &date
		payload.HalfDayPeriod = &period
	}
	return payload
}

func ToPayloads(items []DateItem) []DateItemPayload {
	payloads := make([]DateItemPayload, 0, len(items))
	for _, item := range items {
		payloads = append(payloads, ToPayload(item))
	}
	return payloads
}

// UpdateItemRequest is the body of PATCH /vacation/items/{index}.
type UpdateItemRequest struct {
	Type          *string `json:"type,omitempty"`
	FromDate      *string `json:"from_date,omitempty"`
	ToDate        *string `json:"to_date,omitempty"`
	SingleDate    *string `json:"single_date,omitempty"`
	HalfDayPeriod *string `json:"half_day_period,omitempty"`
	LeaveType     *string `json:"leave_type,omitempty"`
}

// ToPatch validates the request and converts it into an ItemPatch.
func (r *UpdateItemRequest) ToPatch() (ItemPatch, error) {
	var errs validator.ValidationErrors
	var patch ItemPatch

	if r.Type != nil {
		kind := ItemKind(*r.Type)
		if !kind.IsValid() {
			errs.Add("type", "type must be 'full' or 'half'")
		} else {
			patch.Kind = &kind
		}
	}

	if r.LeaveType != nil {
		leaveType := LeaveType(*r.LeaveType)
		if !leaveType.IsValid() {
			errs.Add("leave_type", "leave_type must be 'Annual Leave' or 'Sick Leave'")
		} else {
			patch.LeaveType = &leaveType
		}
	}

	if r.HalfDayPeriod != nil {
		period := HalfDayPeriod(*r.HalfDayPeriod)
		if !period.IsValid() {
			errs.Add("half_day_period", "half_day_period must be 'AM' or 'PM'")
		} else {
			patch.Period = &period
		}
	}

	dates := []struct {
		field string
		value *string
		dest  **Date
	}{
		{"from_date", r.FromDate, &patch.From},
		{"to_date", r.ToDate, &patch.To},
		{"single_date", r.SingleDate, &patch.Date},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		parsed, err := ParseDate(*d.value)
		if err != nil {
			errs.Add(d.field, d.field+" must be a valid date (YYYY-MM-DD)")
			continue
		}
		*d.dest = &parsed
	}

	if err := errs.OrNil(); err != nil {
		return ItemPatch{}, err
	}
	return patch, nil
}

type BalanceResponse struct {
	TotalAllowance float64 `json:"total_allowance"`
	AlreadyUsed    float64 `json:"already_used"`
}

// DraftResponse is the portal view of a vacation draft. Balance and
// RemainingDays are omitted until the balance has been loaded.
type DraftResponse struct {
	Items              []DateItemPayload `json:"items"`
	Status             SubmissionStatus  `json:"status"`
	Reason             string            `json:"reason,omitempty"`
	TotalRequestedDays float64           `json:"total_requested_days"`
	Balance            *BalanceResponse  `json:"balance,omitempty"`
	RemainingDays      *float64          `json:"remaining_days,omitempty"`
}

// SubmitVacationRequest is the body sent to the backend.
type SubmitVacationRequest struct {
	Items     []DateItemPayload `json:"items"`
	TotalDays float64           `json:"total_days"`
}
