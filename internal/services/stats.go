package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

// StatsService computes the weekly snapshot on demand: a read-only
// aggregation over the trailing seven user-local days.
type StatsService struct {
	tasks tasks.Repository
}

func NewStatsService(tasks tasks.Repository) *StatsService {
	return &StatsService{tasks: tasks}
}

// Weekly aggregates the window ending at today. Carried copies link back
// to their origin, so each original task is counted exactly once no matter
// how many days it was pushed forward: a root is DONE if any copy in its
// chain is DONE, CANCELLED if any copy was cancelled and none finished,
// and open otherwise. A task completed after being carried counts toward
// the day-bucket it was completed in, which lies inside the window.
func (s *StatsService) Weekly(ctx context.Context, userID int64, today tzx.Day) (*models.WeeklyStats, error) {
	from := today.AddDays(-6)

	list, err := s.tasks.ListRange(ctx, userID, from.String(), today.String())
	if err != nil {
		return nil, fmt.Errorf("listing stats window: %w", err)
	}

	type rootState struct {
		done      bool
		cancelled bool
	}
	roots := make(map[string]*rootState)
	for _, t := range list {
		st, ok := roots[t.RootID()]
		if !ok {
			st = &rootState{}
			roots[t.RootID()] = st
		}
		switch t.Status {
		case models.TaskDone:
			st.done = true
		case models.TaskCancelled:
			st.cancelled = true
		}
	}

	stats := &models.WeeklyStats{Total: len(roots)}
	for _, st := range roots {
		switch {
		case st.done:
			stats.Done++
		case st.cancelled:
			stats.Cancelled++
		default:
			stats.Open++
		}
	}
	return stats, nil
}
