package postgresql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/database"
)

type vacationRequestRepository struct {
	db database.Pool
}

func NewVacationRequestRepository(db database.Pool) leave.RequestRepository {
	return &vacationRequestRepository{db: db}
}

// SubmitRequest stores the request and its items in one transaction. A
// repeated idempotency key is accepted without storing anything twice.
func (r *vacationRequestRepository) SubmitRequest(ctx context.Context, submission leave.Submission) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var requestID string
		err := tx.QueryRow(ctx, `
			INSERT INTO vacation_requests (employee_id, idempotency_key, total_days)
			VALUES ($1, $2, $3)
			ON CONFLICT (idempotency_key) DO NOTHING
			RETURNING id
		`, submission.EmployeeID, submission.IdempotencyKey, submission.TotalDays).Scan(&requestID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				slog.Info("Duplicate vacation request ignored", "idempotency_key", submission.IdempotencyKey)
				return nil
			}
			return fmt.Errorf("failed to insert vacation request: %w", err)
		}

		for i, item := range submission.Items {
			row := newItemRow(item)
			_, err := tx.Exec(ctx, `
				INSERT INTO vacation_request_items (
					request_id, position, item_type, leave_type,
					from_date, to_date, single_date, half_day_period, days
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, requestID, i, string(item.Kind()), string(item.LeaveType()),
				row.fromDate, row.toDate, row.singleDate, row.period, item.Days())
			if err != nil {
				return fmt.Errorf("failed to insert vacation request item %d: %w", i, err)
			}
		}

		return nil
	})
}

// itemRow holds the nullable columns of one item; only those of the item's
// kind are set.
type itemRow struct {
	fromDate   *time.Time
	toDate     *time.Time
	singleDate *time.Time
	period     *string
}

func newItemRow(item leave.DateItem) itemRow {
	var row itemRow
	switch v := item.(type) {
	case leave.FullDay:
		row.fromDate = datePtr(v.From)
		row.toDate = datePtr(v.To)
	case leave.HalfDay:
		row.singleDate = datePtr(v.Date)
		period := string(v.Period)
		row.period = &period
	}
	return row
}

func datePtr(d leave.Date) *time.Time {
	if !d.IsSet() {
		return nil
	}
	t := d.Time()
	return &t
}
