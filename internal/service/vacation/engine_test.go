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
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/backend"
	"github.com/cmlabs-hris/employee-portal-go/internal/pkg/validator"
)

type fakeSink struct {
	mu          sync.Mutex
	submissions []leave.Submission
	err         error
	block       chan struct{}
	entered     chan struct{}
}

func (f *fakeSink) SubmitRequest(ctx context.Context, submission leave.Submission) error {
	if f.entered != nil {
		close(f.entered)
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, submission)
	return f.err
}

func (f *fakeSink) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submissions)
}

func date(m time.Month, d int) leave.Date {
	return leave.NewDate(2024, m, d)
}

func fillDraft(t *testing.T, e *Engine) {
	t.Helper()
	from, to := date(time.June, 10), date(time.June, 11)
	_, err := e.UpdateItem(0, leave.ItemPatch{From: &from, To: &to})
	require.NoError(t, err)

	_, err = e.AddItem()
	require.NoError(t, err)
	half := leave.ItemKindHalf
	day := date(time.June, 12)
	_, err = e.UpdateItem(1, leave.ItemPatch{Kind: &half, Date: &day})
	require.NoError(t, err)
}

func TestNewEngine_SeedsDefaultItem(t *testing.T) {
	snap := NewEngine("E1").Snapshot()

	require.Len(t, snap.Items, 1)
	assert.Equal(t, leave.DefaultItem(), snap.Items[0])
	assert.Equal(t, leave.SubmissionIdle, snap.State.Status)
	assert.Equal(t, float64(0), snap.TotalRequestedDays())
}

func TestEngine_DraftTotals(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)

	snap := e.Snapshot()
	assert.Equal(t, 2.5, snap.TotalRequestedDays())
	assert.Equal(t, 1.5, snap.RemainingBalance(leave.Balance{TotalAllowance: 5, AlreadyUsed: 1}))
}

func TestEngine_UpdateItem_SwitchKindResetsDates(t *testing.T) {
	e := NewEngine("E1")
	from, to := date(time.March, 1), date(time.March, 3)
	snap, err := e.UpdateItem(0, leave.ItemPatch{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, float64(3), snap.TotalRequestedDays())

	half := leave.ItemKindHalf
	snap, err = e.UpdateItem(0, leave.ItemPatch{Kind: &half})
	require.NoError(t, err)

	item, ok := snap.Items[0].(leave.HalfDay)
	require.True(t, ok)
	assert.Equal(t, leave.PeriodAM, item.Period)
	assert.False(t, item.Date.IsSet())
}

func TestEngine_OutOfRangeIsNoop(t *testing.T) {
	e := NewEngine("E1")
	before := e.Snapshot()

	from := date(time.June, 1)
	snap, err := e.UpdateItem(5, leave.ItemPatch{From: &from})
	require.NoError(t, err)
	assert.Equal(t, before.Items, snap.Items)

	snap, err = e.RemoveItem(-1)
	require.NoError(t, err)
	assert.Equal(t, before.Items, snap.Items)
}

func TestEngine_RemoveItemKeepsOrder(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)
	_, _ = e.AddItem()

	snap, err := e.RemoveItem(0)
	require.NoError(t, err)

	require.Len(t, snap.Items, 2)
	assert.Equal(t, leave.ItemKindHalf, snap.Items[0].Kind())
	assert.Equal(t, leave.ItemKindFull, snap.Items[1].Kind())
}

func TestEngine_SnapshotIsImmutable(t *testing.T) {
	e := NewEngine("E1")
	snap := e.Snapshot()

	from, to := date(time.June, 1), date(time.June, 2)
	_, _ = e.UpdateItem(0, leave.ItemPatch{From: &from, To: &to})

	assert.Equal(t, float64(0), snap.TotalRequestedDays())
	assert.Equal(t, float64(2), e.Snapshot().TotalRequestedDays())
}

func TestEngine_Submit_ValidationNeverCallsSink(t *testing.T) {
	e := NewEngine("E1")
	sink := &fakeSink{}
	before := e.Snapshot().Items

	state, err := e.Submit(context.Background(), sink, leave.DefaultPolicy())

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, leave.SubmissionFailed, state.Status)
	assert.Equal(t, 0, sink.calls())
	assert.Equal(t, before, e.Snapshot().Items)
}

func TestEngine_Submit_EmptyDraft(t *testing.T) {
	e := NewEngine("E1")
	_, _ = e.RemoveItem(0)

	_, err := e.Submit(context.Background(), &fakeSink{}, leave.DefaultPolicy())
	assert.Error(t, err)
}

func TestEngine_Submit_Success(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)
	sink := &fakeSink{}

	state, err := e.Submit(context.Background(), sink, leave.DefaultPolicy())
	require.NoError(t, err)
	assert.Equal(t, leave.SubmissionSucceeded, state.Status)

	require.Equal(t, 1, sink.calls())
	sub := sink.submissions[0]
	assert.Equal(t, "E1", sub.EmployeeID)
	assert.Equal(t, 2.5, sub.TotalDays)
	assert.Len(t, sub.Items, 2)
	assert.NotEmpty(t, sub.IdempotencyKey)

	snap := e.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, leave.SubmissionIdle, snap.State.Status)
}

func TestEngine_Submit_FailureKeepsDraft(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)
	before := e.Snapshot().Items

	sink := &fakeSink{err: &backend.Error{StatusCode: 400, Detail: "Insufficient balance."}}
	state, err := e.Submit(context.Background(), sink, leave.DefaultPolicy())

	require.Error(t, err)
	assert.Equal(t, leave.SubmissionFailed, state.Status)
	assert.Equal(t, "Insufficient balance.", state.Reason)
	assert.Equal(t, before, e.Snapshot().Items)

	sink.err = errors.New("connection refused")
	state, _ = e.Submit(context.Background(), sink, leave.DefaultPolicy())
	assert.Equal(t, leave.DefaultSubmitErrorMessage, state.Reason)
	assert.Equal(t, 2, sink.calls())
}

func TestEngine_Submit_RejectsWhilePending(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)
	sink := &fakeSink{block: make(chan struct{}), entered: make(chan struct{})}

	done := make(chan error, 1)
	go func() {
		_, err := e.Submit(context.Background(), sink, leave.DefaultPolicy())
		done <- err
	}()
	<-sink.entered

	assert.True(t, e.IsBusy())
	_, err := e.Submit(context.Background(), &fakeSink{}, leave.DefaultPolicy())
	assert.ErrorIs(t, err, leave.ErrSubmissionInFlight)
	_, err = e.AddItem()
	assert.ErrorIs(t, err, leave.ErrSubmissionInFlight)
	_, err = e.RemoveItem(0)
	assert.ErrorIs(t, err, leave.ErrSubmissionInFlight)
	assert.ErrorIs(t, e.Reset(), leave.ErrSubmissionInFlight)

	close(sink.block)
	require.NoError(t, <-done)
	assert.False(t, e.IsBusy())
}

func TestEngine_Submit_BackdatePolicy(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)
	policy := leave.Policy{AllowBackdate: false, Today: date(time.July, 1)}

	_, err := e.Submit(context.Background(), &fakeSink{}, policy)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "items[0].from_date")
}

func TestEngine_Reset(t *testing.T) {
	e := NewEngine("E1")
	fillDraft(t, e)

	require.NoError(t, e.Reset())

	snap := e.Snapshot()
	assert.Equal(t, []leave.DateItem{leave.DefaultItem()}, snap.Items)
}
