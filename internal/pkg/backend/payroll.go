package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
)

// SalaryRepository implements payroll.SalaryRepository over the backend API.
type SalaryRepository struct {
	client *Client
}

func NewSalaryRepository(client *Client) *SalaryRepository {
	return &SalaryRepository{client: client}
}

func (r *SalaryRepository) GetStatement(ctx context.Context, employeeID string, period payroll.Period) (payroll.Statement, error) {
	query := url.Values{}
	query.Set("year", strconv.Itoa(period.Year))
	query.Set("month", strconv.Itoa(period.Month))

	var resp payroll.SalaryStatementResponse
	err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/employee-salaries/" + employeeID + "/",
		query:  query,
	}, &resp)
	if err != nil {
		var be *Error
		if errors.As(err, &be) && be.IsNotFound() {
			return payroll.Statement{}, payroll.ErrSalaryNotFound
		}
		return payroll.Statement{}, err
	}

	st := resp.ToStatement(period)
	if st.EmployeeID == "" {
		st.EmployeeID = employeeID
	}
	return st, nil
}

// UpdateSalary patches the employee profile. The endpoint is not period
// aware; the backend applies the amounts to the current salary record.
func (r *SalaryRepository) UpdateSalary(ctx context.Context, update payroll.SalaryUpdate) error {
	return r.client.do(ctx, request{
		method: http.MethodPatch,
		path:   "/api/profile/" + update.EmployeeID + "/update/",
		body:   payroll.NewUpdateSalaryRequest(update),
	}, nil)
}
