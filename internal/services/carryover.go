// Package services contains the task-lifecycle and scheduling logic: the
// carry-over engine, the planning prompt engine, the per-user trigger
// scheduler, the Pomodoro state machine, and weekly stats.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

// Digest is the structured Today digest handed to the presentation layer.
type Digest struct {
	Day tzx.Day
	// Carried holds yesterday's unfinished tasks that were moved into
	// today by this run (or a previous run the same day).
	Carried []*models.Task
	// Groups lists today's tasks by priority descending.
	Groups []DigestGroup
}

type DigestGroup struct {
	Priority models.TaskPriority
	Tasks    []*models.Task
}

// Empty reports whether today's bucket has no tasks at all.
func (d *Digest) Empty() bool {
	return len(d.Groups) == 0
}

// CarryOverService moves unfinished tasks across the 08:00 local cutoff
// and assembles the Today digest.
type CarryOverService struct {
	tasks tasks.Repository
	log   logging.Logger
}

func NewCarryOverService(tasks tasks.Repository, log logging.Logger) *CarryOverService {
	return &CarryOverService{tasks: tasks, log: log}
}

// Run performs the carry-over for one user and returns the digest.
// Rerunning on the same calendar day is a no-op on bucket state:
// already-CARRIED tasks are not selected again, and a pending copy whose
// origin is already present in today's bucket is reused, not duplicated.
// The clone is created before the origin is marked CARRIED so that an
// abort between the two steps leaves a state the next run repairs.
func (s *CarryOverService) Run(ctx context.Context, user *models.User, localNow time.Time) (*Digest, error) {
	today := tzx.DayOf(localNow)
	yesterday := today.AddDays(-1)

	pending, err := s.tasks.ListByStatus(ctx, user.ID, yesterday.String(), models.TaskPending)
	if err != nil {
		return nil, fmt.Errorf("listing yesterday: %w", err)
	}

	existing, err := s.tasks.ListByBucket(ctx, user.ID, today.String())
	if err != nil {
		return nil, fmt.Errorf("listing today: %w", err)
	}
	roots := make(map[string]bool, len(existing))
	for _, t := range existing {
		roots[t.RootID()] = true
	}

	var carried []*models.Task
	for _, t := range pending {
		if !roots[t.RootID()] {
			clone := &models.Task{
				UserID:   t.UserID,
				Text:     t.Text,
				Priority: t.Priority,
				Tags:     t.Tags,
				DueTime:  t.DueTime,
				Status:   models.TaskPending,
				Bucket:   today.String(),
				OriginID: t.RootID(),
			}
			if _, err := s.tasks.Create(ctx, clone); err != nil {
				return nil, fmt.Errorf("cloning task %s: %w", t.ID, err)
			}
			roots[t.RootID()] = true
		}
		if err := s.tasks.SetStatus(ctx, t.ID, models.TaskCarried); err != nil {
			return nil, fmt.Errorf("marking task %s carried: %w", t.ID, err)
		}
		carried = append(carried, t)
	}

	if len(carried) > 0 {
		s.log.Info(ctx, "carry-over complete", "user_id", user.ID, "carried", len(carried))
	}

	digest, err := s.BuildDigest(ctx, user, today)
	if err != nil {
		return nil, err
	}
	digest.Carried = carried
	return digest, nil
}

// BuildDigest assembles today's tasks grouped by priority descending.
func (s *CarryOverService) BuildDigest(ctx context.Context, user *models.User, day tzx.Day) (*Digest, error) {
	list, err := s.tasks.ListByBucket(ctx, user.ID, day.String())
	if err != nil {
		return nil, fmt.Errorf("listing digest bucket: %w", err)
	}

	digest := &Digest{Day: day}
	for _, priority := range []models.TaskPriority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		var group []*models.Task
		for _, t := range list {
			if t.Priority == priority {
				group = append(group, t)
			}
		}
		if len(group) > 0 {
			digest.Groups = append(digest.Groups, DigestGroup{Priority: priority, Tasks: group})
		}
	}
	return digest, nil
}
