package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/backend"
)

type salaryWriter interface {
	UpdateSalary(ctx context.Context, update payroll.SalaryUpdate) error
}

// Session is one employee's payroll page for one period. The baseline is
// the last server-confirmed statement and the draft is the local copy being
// edited. Only one save runs at a time.
//
// The session belongs to an employee, not to a login: the caller's role is
// passed to every method so that commission access follows the token of the
// current request.
type Session struct {
	mu         sync.Mutex
	employeeID string
	period     payroll.Period
	baseline payroll.Statement
	loaded   bool
	draft    payroll.SalaryComponents
	mode     payroll.Mode
	save     payroll.SaveState
}

func NewSession(employeeID string, period payroll.Period) *Session {
	return &Session{
		employeeID: employeeID,
		period:     period,
		mode:       payroll.ModeViewing,
		save:       payroll.SaveState{Status: payroll.SaveIdle},
	}
}

// View is an immutable snapshot of a Session.
type View struct {
	Period            payroll.Period
	Mode              payroll.Mode
	Baseline          payroll.Statement
	Draft             payroll.SalaryComponents
	Save              payroll.SaveState
	CommissionVisible bool
}

func (v View) ToResponse() payroll.SessionResponse {
	return payroll.SessionResponse{
		Year:              v.Period.Year,
		Month:             v.Period.Month,
		Mode:              v.Mode,
		Draft:             payroll.NewComponentsResponse(v.Draft, v.CommissionVisible),
		Baseline:          payroll.NewComponentsResponse(v.Baseline.Components, v.CommissionVisible),
		Derived:           payroll.DerivedResponse(v.Baseline.Derived),
		CommissionVisible: v.CommissionVisible,
		SaveStatus:        v.Save.Status,
		Error:             v.Save.Message,
	}
}

func (s *Session) View(role user.Role) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked(role)
}

func (s *Session) viewLocked(role user.Role) View {
	return View{
		Period:            s.period,
		Mode:              s.mode,
		Baseline:          s.baseline,
		Draft:             s.draft,
		Save:              s.save,
		CommissionVisible: role.IsSales(),
	}
}

// IsBusy reports whether a save is in flight.
func (s *Session) IsBusy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save.IsPending()
}

// SetBaseline replaces the server-confirmed statement. While viewing, the
// draft follows it; while editing, the user's draft is left alone.
func (s *Session) SetBaseline(st payroll.Statement) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.save.IsPending() {
		return
	}
	s.baseline = st
	s.loaded = true
	if s.mode == payroll.ModeViewing {
		s.draft = st.Components
	}
}

func (s *Session) BeginEdit(role user.Role) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.save.IsPending() {
		return View{}, payroll.ErrSaveInFlight
	}
	if !s.loaded {
		return View{}, payroll.ErrSalaryNotFound
	}
	s.mode = payroll.ModeEditing
	s.draft = s.baseline.Components
	s.save = payroll.SaveState{Status: payroll.SaveIdle}
	return s.viewLocked(role), nil
}

// SetField writes amount into the draft. Commission outside the sales role
// is dropped without error.
func (s *Session) SetField(role user.Role, field payroll.Field, amount decimal.Decimal) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.save.IsPending() {
		return View{}, payroll.ErrSaveInFlight
	}
	if s.mode != payroll.ModeEditing {
		return View{}, payroll.ErrNotEditing
	}
	if field == payroll.FieldCommission && !role.IsSales() {
		return s.viewLocked(role), nil
	}
	s.draft = s.draft.With(field, amount)
	return s.viewLocked(role), nil
}

// CancelEdit throws the draft away. Calling it while viewing is harmless.
func (s *Session) CancelEdit(role user.Role) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.save.IsPending() {
		return View{}, payroll.ErrSaveInFlight
	}
	s.mode = payroll.ModeViewing
	s.draft = s.baseline.Components
	s.save = payroll.SaveState{Status: payroll.SaveIdle}
	return s.viewLocked(role), nil
}

// Save writes the draft and then calls refresh for the new baseline before
// accepting further edits. On a write failure the session stays in editing
// mode with the draft intact.
func (s *Session) Save(ctx context.Context, role user.Role, writer salaryWriter, refresh func(ctx context.Context) (payroll.Statement, error)) (View, error) {
	s.mu.Lock()
	if s.save.IsPending() {
		s.mu.Unlock()
		return View{}, payroll.ErrSaveInFlight
	}
	if s.mode != payroll.ModeEditing {
		s.mu.Unlock()
		return View{}, payroll.ErrNotEditing
	}
	update := payroll.BuildUpdate(s.employeeID, s.period, s.draft, role.IsSales())
	s.save = payroll.SaveState{Status: payroll.SavePending}
	s.mu.Unlock()

	if err := writer.UpdateSalary(ctx, update); err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.save = payroll.SaveState{Status: payroll.SaveFailed, Message: saveFailureMessage(err)}
		slog.Error("Payroll save failed", "employee_id", update.EmployeeID, "period", s.period.String(), "error", err)
		return s.viewLocked(role), fmt.Errorf("failed to save salary: %w", err)
	}

	st, refreshErr := refresh(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = payroll.ModeViewing
	s.save = payroll.SaveState{Status: payroll.SaveSucceeded}
	if refreshErr != nil {
		slog.Warn("Payroll refetch after save failed", "employee_id", update.EmployeeID, "error", refreshErr)
		s.loaded = false
		s.draft = s.baseline.Components
		return s.viewLocked(role), nil
	}
	s.baseline = st
	s.loaded = true
	s.draft = st.Components
	return s.viewLocked(role), nil
}

func saveFailureMessage(err error) string {
	if detail := backend.DetailOf(err); detail != "" {
		return detail
	}
	return payroll.DefaultSaveErrorMessage
}
