package payroll

import "context"

// SalaryRepository reads and writes employee salary records.
type SalaryRepository interface {
	GetStatement(ctx context.Context, employeeID string, period Period) (Statement, error)
	UpdateSalary(ctx context.Context, update SalaryUpdate) error
}
