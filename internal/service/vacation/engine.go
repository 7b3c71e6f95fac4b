package vacation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/backend"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

// Engine owns one employee's vacation draft. All methods are safe for
// concurrent use; at most one submission runs at a time and the draft is
// frozen while it does.
type Engine struct {
	mu         sync.Mutex
	employeeID string
	items      []leave.DateItem
	state      leave.SubmissionState
}

// NewEngine returns a draft seeded with one default item.
func NewEngine(employeeID string) *Engine {
	return &Engine{
		employeeID: employeeID,
		items:      []leave.DateItem{leave.DefaultItem()},
		state:      leave.SubmissionState{Status: leave.SubmissionIdle},
	}
}

// Snapshot is an immutable view of the draft.
type Snapshot struct {
	Items []leave.DateItem
	State leave.SubmissionState
}

func (s Snapshot) TotalRequestedDays() float64 {
	return leave.TotalRequestedDays(s.Items)
}

func (s Snapshot) RemainingBalance(b leave.Balance) float64 {
	return leave.RemainingBalance(b, s.Items)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	items := make([]leave.DateItem, len(e.items))
	copy(items, e.items)
	return Snapshot{Items: items, State: e.state}
}

// IsBusy reports whether a submission is in flight.
func (e *Engine) IsBusy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsPending()
}

func (e *Engine) AddItem() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPending() {
		return Snapshot{}, leave.ErrSubmissionInFlight
	}
	e.items = append(e.items, leave.DefaultItem())
	return e.snapshotLocked(), nil
}

// UpdateItem replaces the item at index. An index out of range is ignored.
func (e *Engine) UpdateItem(index int, patch leave.ItemPatch) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPending() {
		return Snapshot{}, leave.ErrSubmissionInFlight
	}
	if index >= 0 && index < len(e.items) {
		items := make([]leave.DateItem, len(e.items))
		copy(items, e.items)
		items[index] = patch.Apply(items[index])
		e.items = items
	}
	return e.snapshotLocked(), nil
}

// RemoveItem deletes the item at index. An index out of range is ignored.
func (e *Engine) RemoveItem(index int) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPending() {
		return Snapshot{}, leave.ErrSubmissionInFlight
	}
	if index >= 0 && index < len(e.items) {
		items := make([]leave.DateItem, 0, len(e.items)-1)
		items = append(items, e.items[:index]...)
		items = append(items, e.items[index+1:]...)
		e.items = items
	}
	return e.snapshotLocked(), nil
}

// Submit validates the draft and hands it to sink. On success the draft is
// emptied and the engine goes back to idle; the returned state is
// SubmissionSucceeded. On any failure the draft is kept as it was.
func (e *Engine) Submit(ctx context.Context, sink leave.RequestRepository, policy leave.Policy) (leave.SubmissionState, error) {
	e.mu.Lock()
	if e.state.IsPending() {
		e.mu.Unlock()
		return leave.SubmissionState{}, leave.ErrSubmissionInFlight
	}

	items := make([]leave.DateItem, len(e.items))
	copy(items, e.items)

	if err := leave.ValidateItems(items, policy); err != nil {
		e.state = leave.SubmissionState{Status: leave.SubmissionFailed, Reason: err.Error()}
		e.mu.Unlock()
		return e.state, err
	}

	key, err := uuid.NewV7()
	if err != nil {
		e.mu.Unlock()
		return leave.SubmissionState{}, fmt.Errorf("failed to generate idempotency key: %w", err)
	}
	e.state = leave.SubmissionState{Status: leave.SubmissionSubmitting}
	e.mu.Unlock()

	submission := leave.Submission{
		EmployeeID:     e.employeeID,
		IdempotencyKey: key.String(),
		Items:          items,
		TotalDays:      leave.TotalRequestedDays(items),
	}
	sinkErr := sink.SubmitRequest(ctx, submission)

	e.mu.Lock()
	defer e.mu.Unlock()

	if sinkErr != nil {
		e.state = leave.SubmissionState{Status: leave.SubmissionFailed, Reason: failureReason(sinkErr)}
		slog.Error("Vacation request submission failed", "employee_id", e.employeeID, "error", sinkErr)
		return e.state, fmt.Errorf("failed to submit vacation request: %w", sinkErr)
	}

	e.items = []leave.DateItem{}
	e.state = leave.SubmissionState{Status: leave.SubmissionIdle}
	slog.Info("Vacation request submitted", "employee_id", e.employeeID, "idempotency_key", submission.IdempotencyKey, "total_days", submission.TotalDays)
	return leave.SubmissionState{Status: leave.SubmissionSucceeded}, nil
}

// Reset drops the draft and starts over with one default item. It is
// refused while a submission is in flight.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.IsPending() {
		return leave.ErrSubmissionInFlight
	}
	e.items = []leave.DateItem{leave.DefaultItem()}
	e.state = leave.SubmissionState{Status: leave.SubmissionIdle}
	return nil
}

func failureReason(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	if detail := backend.DetailOf(err); detail != "" {
		return detail
	}
	return leave.DefaultSubmitErrorMessage
}
