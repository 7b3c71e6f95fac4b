package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
)

type profileResponse struct {
	EmployeeID      string  `json:"employee_id"`
	Role            string  `json:"role"`
	AnnualLeaveDays float64 `json:"annual_leave_days"`
	UsedLeaveDays   float64 `json:"used_leave_days"`
}

// LeaveRepository implements the leave repositories over the backend API.
type LeaveRepository struct {
	client *Client
}

func NewLeaveRepository(client *Client) *LeaveRepository {
	return &LeaveRepository{client: client}
}

// GetBalance reads the caller's own profile; employeeID only guards against
// a token that belongs to someone else.
func (r *LeaveRepository) GetBalance(ctx context.Context, employeeID string) (leave.Balance, error) {
	var profile profileResponse
	err := r.client.do(ctx, request{method: http.MethodGet, path: "/api/profile/me/"}, &profile)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.IsNotFound() {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, err
	}
	if profile.EmployeeID != "" && profile.EmployeeID != employeeID {
		return leave.Balance{}, fmt.Errorf("%w: profile belongs to %s", leave.ErrBalanceNotFound, profile.EmployeeID)
	}

	return leave.Balance{
		TotalAllowance: profile.AnnualLeaveDays,
		AlreadyUsed:    profile.UsedLeaveDays,
	}, nil
}

func (r *LeaveRepository) SubmitRequest(ctx context.Context, submission leave.Submission) error {
	return r.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/vacation-requests/",
		body: leave.SubmitVacationRequest{
			Items:     leave.ToPayloads(submission.Items),
			TotalDays: submission.TotalDays,
		},
		headers: map[string]string{"Idempotency-Key": submission.IdempotencyKey},
	}, nil)
}
