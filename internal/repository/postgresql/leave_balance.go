package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/database"
)

type leaveBalanceRepository struct {
	db database.Pool
}

func NewLeaveBalanceRepository(db database.Pool) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

func (r *leaveBalanceRepository) GetBalance(ctx context.Context, employeeID string) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT total_allowance, already_used
		FROM leave_balances
		WHERE employee_id = $1
	`

	var b leave.Balance
	err := q.QueryRow(ctx, query, employeeID).Scan(&b.TotalAllowance, &b.AlreadyUsed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}
