package vacation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/employee-portal-go/internal/domain/leave"
	"github.com/cmlabs-hris/employee-portal-go/internal/domain/user"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/querycache"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/sse"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

type fakeBalances struct {
	mu      sync.Mutex
	balance leave.Balance
	err     error
	calls   int
}

func (f *fakeBalances) GetBalance(ctx context.Context, employeeID string) (leave.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.balance, f.err
}

var clerk = user.Identity{UserID: "u1", EmployeeID: "E1", Role: user.RoleClerk}

func newTestService(balances *fakeBalances, sink *fakeSink) (*Service, *sse.Hub) {
	hub := sse.NewHub()
	svc := NewService(balances, sink, querycache.New(time.Minute), hub, Config{AllowBackdate: true})
	return svc, hub
}

func strPtr(s string) *string { return &s }

func TestService_GetDraft(t *testing.T) {
	balances := &fakeBalances{balance: leave.Balance{TotalAllowance: 10, AlreadyUsed: 8}}
	svc, _ := newTestService(balances, &fakeSink{})
	ctx := context.Background()

	resp, err := svc.GetDraft(ctx, clerk)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, leave.SubmissionIdle, resp.Status)
	require.NotNil(t, resp.RemainingDays)
	assert.Equal(t, float64(2), *resp.RemainingDays)

	resp, err = svc.UpdateItem(ctx, clerk, 0, leave.UpdateItemRequest{
		FromDate: strPtr("2024-03-01"),
		ToDate:   strPtr("2024-03-03"),
	})
	require.NoError(t, err)
	assert.Equal(t, float64(3), resp.TotalRequestedDays)
	assert.Equal(t, float64(-1), *resp.RemainingDays)

	assert.Equal(t, 1, balances.calls, "balance is served from cache")
}

func TestService_GetDraft_BalanceUnavailable(t *testing.T) {
	svc, _ := newTestService(&fakeBalances{err: errors.New("down")}, &fakeSink{})

	resp, err := svc.GetDraft(context.Background(), clerk)
	require.NoError(t, err)
	assert.Nil(t, resp.Balance)
	assert.Nil(t, resp.RemainingDays)
}

func TestService_RequiresEmployee(t *testing.T) {
	svc, _ := newTestService(&fakeBalances{}, &fakeSink{})

	_, err := svc.GetDraft(context.Background(), user.Identity{UserID: "u9"})
	assert.ErrorIs(t, err, user.ErrEmployeeIDRequired)
}

func TestService_UpdateItem_InvalidRequest(t *testing.T) {
	svc, _ := newTestService(&fakeBalances{}, &fakeSink{})

	_, err := svc.UpdateItem(context.Background(), clerk, 0, leave.UpdateItemRequest{Type: strPtr("weekly")})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestService_Submit_InvalidatesBalanceAndPublishes(t *testing.T) {
	balances := &fakeBalances{balance: leave.Balance{TotalAllowance: 5, AlreadyUsed: 1}}
	sink := &fakeSink{}
	svc, hub := newTestService(balances, sink)
	ctx := context.Background()

	events, cleanup := hub.Subscribe(clerk.UserID)
	defer cleanup()

	_, err := svc.UpdateItem(ctx, clerk, 0, leave.UpdateItemRequest{
		FromDate: strPtr("2024-06-10"),
		ToDate:   strPtr("2024-06-10"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, balances.calls)

	balances.balance.AlreadyUsed = 2
	resp, err := svc.Submit(ctx, clerk)
	require.NoError(t, err)

	assert.Equal(t, leave.SubmissionSucceeded, resp.Status)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 2, balances.calls, "balance refetched after submit")
	assert.Equal(t, float64(2), resp.Balance.AlreadyUsed)
	assert.Equal(t, 1, sink.calls())

	select {
	case ev := <-events:
		assert.Equal(t, sse.EventInvalidated, ev.Event)
		assert.Equal(t, sse.InvalidatedData{QueryKey: querycache.LeaveBalanceKey("E1")}, ev.Data)
	default:
		t.Fatal("expected invalidated event")
	}

	resp, err = svc.GetDraft(ctx, clerk)
	require.NoError(t, err)
	assert.Equal(t, leave.SubmissionIdle, resp.Status)
}

func TestService_Submit_DetachedFromCallerCancel(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newTestService(&fakeBalances{}, sink)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.UpdateItem(ctx, clerk, 0, leave.UpdateItemRequest{
		FromDate: strPtr("2024-06-10"),
		ToDate:   strPtr("2024-06-10"),
	})
	require.NoError(t, err)
	cancel()

	var seen error
	svc.requests = requestFunc(func(ctx context.Context, s leave.Submission) error {
		seen = ctx.Err()
		return nil
	})
	_, err = svc.Submit(ctx, clerk)
	require.NoError(t, err)
	assert.NoError(t, seen)
}

type requestFunc func(ctx context.Context, s leave.Submission) error

func (f requestFunc) SubmitRequest(ctx context.Context, s leave.Submission) error { return f(ctx, s) }

func TestService_Policy_UsesConfiguredZone(t *testing.T) {
	hk := time.FixedZone("HKT", 8*60*60)
	svc := NewService(&fakeBalances{}, &fakeSink{}, querycache.New(0), sse.NewHub(), Config{Location: hk})
	svc.now = func() time.Time { return time.Date(2024, 6, 10, 17, 0, 0, 0, time.UTC) }

	policy := svc.Policy()
	assert.False(t, policy.AllowBackdate)
	assert.Equal(t, leave.NewDate(2024, time.June, 11), policy.Today)
}

func TestService_ResetAndSweep(t *testing.T) {
	svc, _ := newTestService(&fakeBalances{}, &fakeSink{})
	ctx := context.Background()

	_, err := svc.AddItem(ctx, clerk)
	require.NoError(t, err)
	require.NoError(t, svc.Reset(ctx, clerk))

	resp, err := svc.GetDraft(ctx, clerk)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)

	require.NoError(t, svc.SweepIdle(ctx, 0))
	assert.Equal(t, 0, svc.engines.Len())
}

func TestService_EmployeeRelinkGetsOwnDraft(t *testing.T) {
	sink := &fakeSink{}
	svc, _ := newTestService(&fakeBalances{balance: leave.Balance{TotalAllowance: 10}}, sink)
	ctx := context.Background()
	relinked := user.Identity{UserID: clerk.UserID, EmployeeID: "E2", Role: clerk.Role}

	_, err := svc.UpdateItem(ctx, clerk, 0, leave.UpdateItemRequest{
		FromDate: strPtr("2024-06-10"),
		ToDate:   strPtr("2024-06-11"),
	})
	require.NoError(t, err)

	resp, err := svc.GetDraft(ctx, relinked)
	require.NoError(t, err)
	assert.Equal(t, float64(0), resp.TotalRequestedDays)
	assert.Equal(t, 2, svc.engines.Len())

	_, err = svc.Submit(ctx, clerk)
	require.NoError(t, err)
	require.Len(t, sink.submissions, 1)
	assert.Equal(t, "E1", sink.submissions[0].EmployeeID)
}
