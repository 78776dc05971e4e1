package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/sessions"
)

type recordingNotifier struct {
	changes []*models.FocusSession
	err     error
}

func (n *recordingNotifier) FocusPhaseChanged(ctx context.Context, session *models.FocusSession) error {
	copy := *session
	n.changes = append(n.changes, &copy)
	return n.err
}

func newFocusFixture(t *testing.T, maxCycles int) (*FocusService, *sessions.InMemoryRepository, *recordingNotifier) {
	t.Helper()
	repo := sessions.NewInMemoryRepository()
	notifier := &recordingNotifier{}
	svc := NewFocusService(repo, notifier, logging.NewDefault(),
		25*time.Minute, 5*time.Minute, maxCycles)
	return svc, repo, notifier
}

var focusStart = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func TestFocus_StartBeginsWorkPhase(t *testing.T) {
	svc, _, _ := newFocusFixture(t, 0)

	session, err := svc.Start(context.Background(), 7, focusStart)
	require.NoError(t, err)

	assert.Equal(t, models.PhaseWork, session.Phase)
	assert.True(t, session.PhaseEnd.Equal(focusStart.Add(25*time.Minute)))
	assert.Zero(t, session.Cycles)
}

func TestFocus_WorkExpiryMovesToBreak(t *testing.T) {
	svc, _, notifier := newFocusFixture(t, 0)
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	// One second before expiry: nothing happens.
	svc.Tick(ctx, focusStart.Add(25*time.Minute-time.Second))
	assert.Empty(t, notifier.changes)

	workEnd := focusStart.Add(25 * time.Minute)
	svc.Tick(ctx, workEnd)

	require.Len(t, notifier.changes, 1)
	got := notifier.changes[0]
	assert.Equal(t, models.PhaseBreak, got.Phase)
	assert.Equal(t, 1, got.Cycles)
	assert.True(t, got.PhaseEnd.Equal(workEnd.Add(5*time.Minute)))
}

func TestFocus_BreakExpiryMovesBackToWork(t *testing.T) {
	svc, _, notifier := newFocusFixture(t, 0)
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	workEnd := focusStart.Add(25 * time.Minute)
	svc.Tick(ctx, workEnd)
	breakEnd := workEnd.Add(5 * time.Minute)
	svc.Tick(ctx, breakEnd)

	require.Len(t, notifier.changes, 2)
	got := notifier.changes[1]
	assert.Equal(t, models.PhaseWork, got.Phase)
	assert.Equal(t, 1, got.Cycles, "cycles count completed work phases only")
	assert.True(t, got.PhaseEnd.Equal(breakEnd.Add(25*time.Minute)))
}

func TestFocus_StopCancelsPendingExpiry(t *testing.T) {
	svc, _, notifier := newFocusFixture(t, 0)
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	stopped, err := svc.Stop(ctx, 7)
	require.NoError(t, err)
	assert.True(t, stopped)

	svc.Tick(ctx, focusStart.Add(time.Hour))
	assert.Empty(t, notifier.changes, "stopped session must not keep firing")

	_, err = svc.Current(ctx, 7)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

func TestFocus_StopWithoutSessionIsNoop(t *testing.T) {
	svc, _, _ := newFocusFixture(t, 0)

	stopped, err := svc.Stop(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, stopped)
}

func TestFocus_StartReplacesRunningSession(t *testing.T) {
	svc, _, notifier := newFocusFixture(t, 0)
	ctx := context.Background()

	first, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	restart := focusStart.Add(10 * time.Minute)
	second, err := svc.Start(ctx, 7, restart)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// The old session's expiry instant passes; only the new one counts.
	svc.Tick(ctx, focusStart.Add(25*time.Minute))
	assert.Empty(t, notifier.changes)

	svc.Tick(ctx, restart.Add(25*time.Minute))
	require.Len(t, notifier.changes, 1)
	assert.Equal(t, second.ID, notifier.changes[0].ID)
}

func TestFocus_CycleLimitStopsSession(t *testing.T) {
	svc, repo, notifier := newFocusFixture(t, 2)
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	now := focusStart.Add(25 * time.Minute)
	svc.Tick(ctx, now) // work 1 -> break
	now = now.Add(5 * time.Minute)
	svc.Tick(ctx, now) // break -> work 2
	now = now.Add(25 * time.Minute)
	svc.Tick(ctx, now) // work 2 done, limit reached

	require.Len(t, notifier.changes, 3)
	final := notifier.changes[2]
	assert.Equal(t, models.PhaseIdle, final.Phase)
	assert.Equal(t, 2, final.Cycles)

	_, err = repo.Get(ctx, 7)
	assert.True(t, errors.Is(err, common.ErrorNotFound))
}

type stallingNotifier struct {
	started chan struct{}
	release chan struct{}
}

func (n *stallingNotifier) FocusPhaseChanged(ctx context.Context, session *models.FocusSession) error {
	n.started <- struct{}{}
	<-n.release
	return nil
}

func TestFocus_StopNotBlockedByReminderDelivery(t *testing.T) {
	repo := sessions.NewInMemoryRepository()
	notifier := &stallingNotifier{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewFocusService(repo, notifier, logging.NewDefault(),
		25*time.Minute, 5*time.Minute, 0)
	ctx := context.Background()

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	tickDone := make(chan struct{})
	go func() {
		defer close(tickDone)
		svc.Tick(ctx, focusStart.Add(25*time.Minute))
	}()
	<-notifier.started

	// The break transition is committed and its reminder is in flight;
	// a stop must not wait for the delivery to finish.
	stopped := make(chan bool, 1)
	go func() {
		ok, err := svc.Stop(ctx, 7)
		assert.NoError(t, err)
		stopped <- ok
	}()

	select {
	case ok := <-stopped:
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("stop blocked behind an in-flight reminder delivery")
	}

	close(notifier.release)
	<-tickDone
}

func TestFocus_NotifierFailureDoesNotRollBackTransition(t *testing.T) {
	svc, repo, notifier := newFocusFixture(t, 0)
	ctx := context.Background()

	notifier.err = errors.New("send failed")

	_, err := svc.Start(ctx, 7, focusStart)
	require.NoError(t, err)

	svc.Tick(ctx, focusStart.Add(25*time.Minute))

	stored, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBreak, stored.Phase, "committed state survives a failed reminder")
}
