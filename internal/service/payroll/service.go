package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/payroll"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/querycache"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/session"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/sse"
)

// Config holds payroll service configuration
type Config struct {
	WriteTimeout time.Duration // default: 30 seconds
}

type PayrollServiceImpl struct {
	salaries payroll.SalaryRepository
	cache    *querycache.Cache
	hub      *sse.Hub
	sessions *session.Registry[*Session]
	config   Config
}

var _ payroll.PayrollService = (*PayrollServiceImpl)(nil)

func NewPayrollService(
	salaries payroll.SalaryRepository,
	cache *querycache.Cache,
	hub *sse.Hub,
	cfg Config,
) *PayrollServiceImpl {
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	return &PayrollServiceImpl{
		salaries: salaries,
		cache:    cache,
		hub:      hub,
		sessions: session.NewRegistry[*Session](),
		config:   cfg,
	}
}

func (s *PayrollServiceImpl) GetSession(ctx context.Context, identity user.Identity, period payroll.Period) (payroll.SessionResponse, error) {
	sess, err := s.session(identity, period)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	if err := s.loadBaseline(ctx, sess, identity.EmployeeID, period); err != nil {
		return payroll.SessionResponse{}, err
	}
	return sess.View(identity.Role).ToResponse(), nil
}

// BeginEdit loads the current baseline first so editing always starts from
// the latest confirmed figures.
func (s *PayrollServiceImpl) BeginEdit(ctx context.Context, identity user.Identity, period payroll.Period) (payroll.SessionResponse, error) {
	sess, err := s.session(identity, period)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	if err := s.loadBaseline(ctx, sess, identity.EmployeeID, period); err != nil {
		return payroll.SessionResponse{}, err
	}
	view, err := sess.BeginEdit(identity.Role)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	return view.ToResponse(), nil
}

func (s *PayrollServiceImpl) SetField(ctx context.Context, identity user.Identity, period payroll.Period, req payroll.SetFieldRequest) (payroll.SessionResponse, error) {
	field, err := req.Validate()
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	sess, err := s.session(identity, period)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	view, err := sess.SetField(identity.Role, field, req.Amount())
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	return view.ToResponse(), nil
}

func (s *PayrollServiceImpl) CancelEdit(ctx context.Context, identity user.Identity, period payroll.Period) (payroll.SessionResponse, error) {
	sess, err := s.session(identity, period)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	view, err := sess.CancelEdit(identity.Role)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	return view.ToResponse(), nil
}

// Save writes the draft, invalidates every cached period of the employee and
// refetches this one. The caller's cancellation does not abort the write.
func (s *PayrollServiceImpl) Save(ctx context.Context, identity user.Identity, period payroll.Period) (payroll.SessionResponse, error) {
	sess, err := s.session(identity, period)
	if err != nil {
		return payroll.SessionResponse{}, err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.WriteTimeout)
	defer cancel()

	prefix := querycache.EmployeeSalariesPrefix(identity.EmployeeID)
	refresh := func(ctx context.Context) (payroll.Statement, error) {
		s.cache.Invalidate(prefix)
		s.hub.Publish(identity.UserID, sse.NewInvalidatedEvent(identity.UserID, prefix))
		return s.statement(ctx, identity.EmployeeID, period)
	}

	view, err := sess.Save(writeCtx, identity.Role, s.salaries, refresh)
	if err != nil {
		return payroll.SessionResponse{}, err
	}
	return view.ToResponse(), nil
}

// SweepIdle forgets payroll pages untouched for longer than idle.
func (s *PayrollServiceImpl) SweepIdle(ctx context.Context, idle time.Duration) error {
	if removed := s.sessions.Sweep(idle); removed > 0 {
		slog.Info("Idle payroll sessions removed", "count", removed)
	}
	return nil
}

func (s *PayrollServiceImpl) session(identity user.Identity, period payroll.Period) (*Session, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	if identity.EmployeeID == "" {
		return nil, user.ErrEmployeeIDRequired
	}
	key := identity.Key() + "/" + period.String()
	return s.sessions.Acquire(key, func() *Session {
		return NewSession(identity.EmployeeID, period)
	}), nil
}

func (s *PayrollServiceImpl) loadBaseline(ctx context.Context, sess *Session, employeeID string, period payroll.Period) error {
	st, err := s.statement(ctx, employeeID, period)
	if err != nil {
		return err
	}
	sess.SetBaseline(st)
	return nil
}

func (s *PayrollServiceImpl) statement(ctx context.Context, employeeID string, period payroll.Period) (payroll.Statement, error) {
	key := querycache.EmployeeSalariesKey(employeeID, period.Year, period.Month)
	return querycache.Fetch(ctx, s.cache, key, func(ctx context.Context) (payroll.Statement, error) {
		st, err := s.salaries.GetStatement(ctx, employeeID, period)
		if err != nil {
			return payroll.Statement{}, fmt.Errorf("failed to get salary statement: %w", err)
		}
		return st, nil
	})
}
