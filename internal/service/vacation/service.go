package vacation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/querycache"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/session"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/sse"
)

// Config holds vacation service configuration
type Config struct {
	AllowBackdate bool
	Location      *time.Location // default: UTC
	WriteTimeout  time.Duration  // default: 30 seconds
}

var _ leave.VacationService = (*Service)(nil)

// Service hosts one Engine per signed-in user.
type Service struct {
	balances leave.BalanceRepository
	requests leave.RequestRepository
	cache    *querycache.Cache
	hub      *sse.Hub
	engines  *session.Registry[*Engine]
	config   Config
	now      func() time.Time
}

func NewService(balances leave.BalanceRepository, requests leave.RequestRepository, cache *querycache.Cache, hub *sse.Hub, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 30 * time.Second
	}

	return &Service{
		balances: balances,
		requests: requests,
		cache:    cache,
		hub:      hub,
		engines:  session.NewRegistry[*Engine](),
		config:   cfg,
		now:      time.Now,
	}
}

func (s *Service) GetDraft(ctx context.Context, identity user.Identity) (leave.DraftResponse, error) {
	engine, err := s.engine(identity)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	return s.respond(ctx, identity, engine.Snapshot(), nil), nil
}

func (s *Service) AddItem(ctx context.Context, identity user.Identity) (leave.DraftResponse, error) {
	engine, err := s.engine(identity)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	snap, err := engine.AddItem()
	if err != nil {
		return leave.DraftResponse{}, err
	}
	return s.respond(ctx, identity, snap, nil), nil
}

func (s *Service) UpdateItem(ctx context.Context, identity user.Identity, index int, req leave.UpdateItemRequest) (leave.DraftResponse, error) {
	patch, err := req.ToPatch()
	if err != nil {
		return leave.DraftResponse{}, err
	}
	engine, err := s.engine(identity)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	snap, err := engine.UpdateItem(index, patch)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	return s.respond(ctx, identity, snap, nil), nil
}

func (s *Service) RemoveItem(ctx context.Context, identity user.Identity, index int) (leave.DraftResponse, error) {
	engine, err := s.engine(identity)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	snap, err := engine.RemoveItem(index)
	if err != nil {
		return leave.DraftResponse{}, err
	}
	return s.respond(ctx, identity, snap, nil), nil
}

// Submit sends the draft. The write is detached from the caller's
// cancellation and bounded by the configured timeout instead, so a client
// that disconnects cannot leave the engine in an unknown state.
func (s *Service) Submit(ctx context.Context, identity user.Identity) (leave.DraftResponse, error) {
	engine, err := s.engine(identity)
	if err != nil {
		return leave.DraftResponse{}, err
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.WriteTimeout)
	defer cancel()

	outcome, err := engine.Submit(writeCtx, s.requests, s.Policy())
	if err != nil {
		return leave.DraftResponse{}, err
	}

	key := querycache.LeaveBalanceKey(identity.EmployeeID)
	s.cache.Invalidate(key)
	s.hub.Publish(identity.UserID, sse.NewInvalidatedEvent(identity.UserID, key))

	return s.respond(ctx, identity, engine.Snapshot(), &outcome), nil
}

// Reset discards the draft, as when the user leaves the form.
func (s *Service) Reset(ctx context.Context, identity user.Identity) error {
	engine, err := s.engine(identity)
	if err != nil {
		return err
	}
	return engine.Reset()
}

// Policy returns the validation policy for today in the configured zone.
func (s *Service) Policy() leave.Policy {
	return leave.Policy{
		AllowBackdate: s.config.AllowBackdate,
		Today:         leave.DateOf(s.now().In(s.config.Location)),
	}
}

// SweepIdle forgets drafts untouched for longer than idle.
func (s *Service) SweepIdle(ctx context.Context, idle time.Duration) error {
	if removed := s.engines.Sweep(idle); removed > 0 {
		slog.Info("Idle vacation drafts removed", "count", removed)
	}
	return nil
}

func (s *Service) engine(identity user.Identity) (*Engine, error) {
	if identity.EmployeeID == "" {
		return nil, user.ErrEmployeeIDRequired
	}
	return s.engines.Acquire(identity.Key(), func() *Engine {
		return NewEngine(identity.EmployeeID)
	}), nil
}

func (s *Service) balance(ctx context.Context, employeeID string) (leave.Balance, error) {
	return querycache.Fetch(ctx, s.cache, querycache.LeaveBalanceKey(employeeID), func(ctx context.Context) (leave.Balance, error) {
		b, err := s.balances.GetBalance(ctx, employeeID)
		if err != nil {
			return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
		}
		return b, nil
	})
}

// respond builds the draft view. A balance that cannot be loaded is left
// out rather than failing the whole response.
func (s *Service) respond(ctx context.Context, identity user.Identity, snap Snapshot, outcome *leave.SubmissionState) leave.DraftResponse {
	state := snap.State
	if outcome != nil {
		state = *outcome
	}

	resp := leave.DraftResponse{
		Items:              leave.ToPayloads(snap.Items),
		Status:             state.Status,
		Reason:             state.Reason,
		TotalRequestedDays: snap.TotalRequestedDays(),
	}

	b, err := s.balance(ctx, identity.EmployeeID)
	if err != nil {
		slog.Warn("Leave balance unavailable", "employee_id", identity.EmployeeID, "error", err)
		return resp
	}
	remaining := snap.RemainingBalance(b)
	resp.Balance = &leave.BalanceResponse{
		TotalAllowance: b.TotalAllowance,
		AlreadyUsed:    b.AlreadyUsed,
	}
	resp.RemainingDays = &remaining
	return resp
}
