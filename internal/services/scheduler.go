package services

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/users"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

// TriggerHandler receives due trigger firings. Implementations must treat
// delivery problems as their own concern: a non-nil error means the firing
// did not take effect and should be retried on the next scan tick.
type TriggerHandler interface {
	HandleTrigger(ctx context.Context, user *models.User, kind models.TriggerKind, localNow time.Time) error
}

type entry struct {
	userID   int64
	kind     models.TriggerKind
	at       time.Time
	canceled bool
}

// entryHeap orders entries by next-fire instant.
type entryHeap []*entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return h[i].at.Before(h[j].at) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)        { *h = append(*h, x.(*entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// SchedulerService owns the per-user trigger entries: six per active user,
// one DIGEST and five planning prompts, each carrying its next-fire
// instant. The set is transient and fully reconstructible from User
// records, so nothing here is persisted.
type SchedulerService struct {
	users   users.Repository
	handler TriggerHandler
	log     logging.Logger
	locks   *userLocks

	mu   sync.Mutex
	heap entryHeap
	live map[int64]map[models.TriggerKind]*entry
}

func NewSchedulerService(users users.Repository, handler TriggerHandler, log logging.Logger) *SchedulerService {
	return &SchedulerService{
		users:   users,
		handler: handler,
		log:     log,
		locks:   newUserLocks(),
		live:    make(map[int64]map[models.TriggerKind]*entry),
	}
}

// Bootstrap schedules every active user. A user whose timezone fails to
// resolve is deactivated and skipped; one bad user never blocks the rest.
func (s *SchedulerService) Bootstrap(ctx context.Context, now time.Time) error {
	list, err := s.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("listing active users: %w", err)
	}
	for _, u := range list {
		if err := s.SyncUser(ctx, u, now); err != nil {
			s.log.Error(ctx, "scheduling user failed", "user_id", u.ID, "error", err.Error())
		}
	}
	return nil
}

// SyncUser recomputes all six entries for the user, discarding stale ones.
// Called on activation, first interaction, and timezone change. An invalid
// timezone is a CONFIG error: the user is marked inactive until corrected.
func (s *SchedulerService) SyncUser(ctx context.Context, user *models.User, now time.Time) error {
	if !user.Active {
		s.RemoveUser(user.ID)
		return nil
	}

	loc, err := tzx.Resolve(user.Timezone)
	if err != nil {
		s.RemoveUser(user.ID)
		if setErr := s.users.SetActive(ctx, user.ID, false); setErr != nil {
			s.log.Error(ctx, "deactivating user failed", "user_id", user.ID, "error", setErr.Error())
		}
		return fmt.Errorf("user %d: %w", user.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeEntriesLocked(user.ID)
	kinds := make(map[models.TriggerKind]*entry, len(models.DailyTriggers))
	for _, kind := range models.DailyTriggers {
		e := &entry{
			userID: user.ID,
			kind:   kind,
			at:     tzx.NextOccurrence(now, loc, tzx.ClockTime{Hour: kind.Hour()}),
		}
		heap.Push(&s.heap, e)
		kinds[kind] = e
	}
	s.live[user.ID] = kinds
	return nil
}

// RemoveUser drops every entry for the user without firing.
func (s *SchedulerService) RemoveUser(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeEntriesLocked(userID)
}

func (s *SchedulerService) removeEntriesLocked(userID int64) {
	for _, e := range s.live[userID] {
		e.canceled = true // removed lazily when popped
	}
	delete(s.live, userID)
}

// Tick fires every entry due at or before now and reschedules each for the
// same local time on the next calendar day. Errors are isolated per user:
// a failed firing stays due and is retried on the next tick.
func (s *SchedulerService) Tick(ctx context.Context, now time.Time) {
	for _, e := range s.popDue(now) {
		s.fire(ctx, e, now)
	}
}

func (s *SchedulerService) popDue(now time.Time) []*entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*entry
	for len(s.heap) > 0 && !s.heap[0].at.After(now) {
		e := heap.Pop(&s.heap).(*entry)
		if e.canceled || s.live[e.userID][e.kind] != e {
			continue
		}
		due = append(due, e)
	}
	return due
}

func (s *SchedulerService) fire(ctx context.Context, e *entry, now time.Time) {
	user, loc, ok := s.prepareFiring(ctx, e)
	if !ok {
		return
	}

	// The user lock is released before dispatch: the handler ends in a
	// gateway send and must never hold the lock across a network round
	// trip. Handler idempotence covers an overlap with a retried firing.
	localNow := now.In(loc)
	if err := s.handler.HandleTrigger(ctx, user, e.kind, localNow); err != nil {
		s.log.Error(ctx, "trigger firing failed, will retry",
			"user_id", user.ID, "kind", string(e.kind), "error", err.Error())
		s.requeue(e)
		return
	}

	s.log.Info(ctx, "trigger fired", "user_id", user.ID, "kind", string(e.kind))

	next := &entry{
		userID: e.userID,
		kind:   e.kind,
		at:     tzx.NextOccurrence(now, loc, tzx.ClockTime{Hour: e.kind.Hour()}),
	}
	s.replace(next)
}

// prepareFiring refetches the user under their lock and decides whether
// the entry should fire. Unknown and inactive users are unscheduled; an
// invalid timezone deactivates the user; a load error requeues the entry.
func (s *SchedulerService) prepareFiring(ctx context.Context, e *entry) (*models.User, *time.Location, bool) {
	unlock := s.locks.Acquire(e.userID)
	defer unlock()

	user, err := s.users.Get(ctx, e.userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.RemoveUser(e.userID)
			return nil, nil, false
		}
		s.log.Error(ctx, "loading user failed, will retry", "user_id", e.userID, "error", err.Error())
		s.requeue(e)
		return nil, nil, false
	}
	if !user.Active {
		s.RemoveUser(e.userID)
		return nil, nil, false
	}

	loc, err := tzx.Resolve(user.Timezone)
	if err != nil {
		s.log.Error(ctx, "invalid timezone, deactivating", "user_id", user.ID, "tz", user.Timezone)
		s.RemoveUser(user.ID)
		if setErr := s.users.SetActive(ctx, user.ID, false); setErr != nil {
			s.log.Error(ctx, "deactivating user failed", "user_id", user.ID, "error", setErr.Error())
		}
		return nil, nil, false
	}
	return user, loc, true
}

// requeue puts a popped entry back with its original fire instant so the
// next tick retries it.
func (s *SchedulerService) requeue(e *entry) {
	s.replace(e)
}

func (s *SchedulerService) replace(e *entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds, ok := s.live[e.userID]
	if !ok {
		// user was removed while firing
		return
	}
	if old := kinds[e.kind]; old != nil && old != e {
		old.canceled = true
	}
	e.canceled = false
	kinds[e.kind] = e
	heap.Push(&s.heap, e)
}

// Entries returns a snapshot of the live trigger entries, ordered by user
// then kind. Used by tests and diagnostics.
func (s *SchedulerService) Entries() []models.TriggerEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.TriggerEntry
	for userID, kinds := range s.live {
		for kind, e := range kinds {
			result = append(result, models.TriggerEntry{UserID: userID, Kind: kind, NextFire: e.at})
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UserID != result[j].UserID {
			return result[i].UserID < result[j].UserID
		}
		return result[i].Kind < result[j].Kind
	})
	return result
}
