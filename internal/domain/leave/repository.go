package leave

import "context"

// BalanceRepository reads the leave allowance of an employee.
type BalanceRepository interface {
	GetBalance(ctx context.Context, employeeID string) (Balance, error)
}

// RequestRepository persists a submitted vacation request.
type RequestRepository interface {
	SubmitRequest(ctx context.Context, submission Submission) error
}
