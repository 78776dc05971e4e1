package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/sessions"
)

// FocusNotifier receives phase-change reminders after the session state
// has been committed. Send failures are the notifier's problem; they never
// roll back the transition.
type FocusNotifier interface {
	FocusPhaseChanged(ctx context.Context, session *models.FocusSession) error
}

// FocusService is the Pomodoro state machine: IDLE → WORK → BREAK → WORK …
// until an explicit stop or the configured cycle limit. Phase transitions
// are driven by the shared scan loop via Tick, not by per-session timers,
// so cancellation and replacement are plain state overwrites.
type FocusService struct {
	sessions  sessions.Repository
	notifier  FocusNotifier
	log       logging.Logger
	locks     *userLocks
	work      time.Duration
	brk       time.Duration
	maxCycles int
}

func NewFocusService(sessions sessions.Repository, notifier FocusNotifier, log logging.Logger,
	work, brk time.Duration, maxCycles int) *FocusService {
	return &FocusService{
		sessions:  sessions,
		notifier:  notifier,
		log:       log,
		locks:     newUserLocks(),
		work:      work,
		brk:       brk,
		maxCycles: maxCycles,
	}
}

// Start begins a new session in the WORK phase. Any session already
// running for the user is replaced outright, never stacked.
func (s *FocusService) Start(ctx context.Context, userID int64, now time.Time) (*models.FocusSession, error) {
	unlock := s.locks.Acquire(userID)
	defer unlock()

	session := &models.FocusSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Phase:     models.PhaseWork,
		PhaseEnd:  now.Add(s.work),
		StartedAt: now,
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("starting focus session: %w", err)
	}
	return session, nil
}

// Stop ends the user's session and cancels its pending phase expiry.
// Stopping with no session running is a no-op, not an error; the returned
// bool tells the caller whether anything was actually stopped.
func (s *FocusService) Stop(ctx context.Context, userID int64) (bool, error) {
	unlock := s.locks.Acquire(userID)
	defer unlock()

	_, err := s.sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("loading focus session: %w", err)
	}
	if err := s.sessions.Delete(ctx, userID); err != nil {
		return false, fmt.Errorf("stopping focus session: %w", err)
	}
	return true, nil
}

// Current returns the user's live session, common.ErrorNotFound if idle.
func (s *FocusService) Current(ctx context.Context, userID int64) (*models.FocusSession, error) {
	return s.sessions.Get(ctx, userID)
}

// Tick advances every session whose phase expired at or before now.
// Each user is handled under their advisory lock and failures are
// isolated: one broken session never stalls the rest.
func (s *FocusService) Tick(ctx context.Context, now time.Time) {
	due, err := s.sessions.ListDue(ctx, now)
	if err != nil {
		s.log.Error(ctx, "listing due focus sessions failed", "error", err.Error())
		return
	}
	for _, session := range due {
		if err := s.advance(ctx, session, now); err != nil {
			s.log.Error(ctx, "advancing focus session failed",
				"user_id", session.UserID, "error", err.Error())
		}
	}
}

func (s *FocusService) advance(ctx context.Context, session *models.FocusSession, now time.Time) error {
	committed, err := s.transition(ctx, session, now)
	if err != nil || committed == nil {
		return err
	}

	// The lock is released before the reminder goes out: delivery may
	// block on the network and must never stall a concurrent /stop or
	// /focus. A failed send is the notifier's retry problem.
	if err := s.notifier.FocusPhaseChanged(ctx, committed); err != nil {
		s.log.Warn(ctx, "focus reminder delivery failed",
			"user_id", committed.UserID, "error", err.Error())
	}
	return nil
}

// transition applies the phase change under the user's lock and returns
// the committed session, or nil when nothing changed.
func (s *FocusService) transition(ctx context.Context, session *models.FocusSession, now time.Time) (*models.FocusSession, error) {
	unlock := s.locks.Acquire(session.UserID)
	defer unlock()

	// Reload under the lock; a concurrent stop or restart wins.
	current, err := s.sessions.Get(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if current.ID != session.ID || current.PhaseEnd.After(now) {
		return nil, nil
	}

	switch current.Phase {
	case models.PhaseWork:
		current.Cycles++
		if s.maxCycles > 0 && current.Cycles >= s.maxCycles {
			if err := s.sessions.Delete(ctx, current.UserID); err != nil {
				return nil, err
			}
			current.Phase = models.PhaseIdle
		} else {
			current.Phase = models.PhaseBreak
			current.PhaseEnd = now.Add(s.brk)
			if err := s.sessions.Upsert(ctx, current); err != nil {
				return nil, err
			}
		}
	case models.PhaseBreak:
		current.Phase = models.PhaseWork
		current.PhaseEnd = now.Add(s.work)
		if err := s.sessions.Upsert(ctx, current); err != nil {
			return nil, err
		}
	default:
		return nil, nil
	}
	return current, nil
}
