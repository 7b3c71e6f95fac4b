package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/database"
)

type salaryRepository struct {
	db  database.Pool
	mpf payroll.MPFRule
}

// NewSalaryRepository derives gross, MPF and net with rule on every read.
func NewSalaryRepository(db database.Pool, rule payroll.MPFRule) payroll.SalaryRepository {
	return &salaryRepository{db: db, mpf: rule}
}

const selectSalary = `
	SELECT base_salary, bonus_payment, year_end_bonus, transportation_allowance,
		   commission, mpf_deduction
	FROM employee_salaries
	WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
`

func (r *salaryRepository) GetStatement(ctx context.Context, employeeID string, period payroll.Period) (payroll.Statement, error) {
	q := GetQuerier(ctx, r.db)

	c, err := scanComponents(q.QueryRow(ctx, selectSalary, employeeID, period.Year, period.Month))
	if err != nil {
		return payroll.Statement{}, err
	}

	return payroll.Statement{
		EmployeeID: employeeID,
		Period:     period,
		Components: c,
		Derived:    r.mpf.Derive(c),
	}, nil
}

// UpdateSalary applies the update to the stored row and recomputes the
// stored MPF deduction in the same transaction.
func (r *salaryRepository) UpdateSalary(ctx context.Context, update payroll.SalaryUpdate) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		current, err := scanComponents(tx.QueryRow(ctx, selectSalary+" FOR UPDATE",
			update.EmployeeID, update.Period.Year, update.Period.Month))
		if err != nil {
			return err
		}

		next := update.Apply(current)
		next.MpfDeduction = r.mpf.Contribution(payroll.GrossPayment(next))

		_, err = tx.Exec(ctx, `
			UPDATE employee_salaries SET
				base_salary = $4,
				bonus_payment = $5,
				year_end_bonus = $6,
				transportation_allowance = $7,
				commission = $8,
				mpf_deduction = $9,
				updated_at = NOW()
			WHERE employee_id = $1 AND period_year = $2 AND period_month = $3
		`, update.EmployeeID, update.Period.Year, update.Period.Month,
			next.BaseSalary, next.BonusPayment, next.YearEndBonus, next.TransportationAllowance,
			next.Commission, next.MpfDeduction)
		if err != nil {
			return fmt.Errorf("failed to update salary: %w", err)
		}
		return nil
	})
}

func scanComponents(row pgx.Row) (payroll.SalaryComponents, error) {
	var c payroll.SalaryComponents
	err := row.Scan(
		&c.BaseSalary, &c.BonusPayment, &c.YearEndBonus, &c.TransportationAllowance,
		&c.Commission, &c.MpfDeduction,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.SalaryComponents{}, payroll.ErrSalaryNotFound
		}
		return payroll.SalaryComponents{}, fmt.Errorf("failed to get salary: %w", err)
	}
	return c, nil
}
