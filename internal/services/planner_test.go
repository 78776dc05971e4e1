package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

func TestPlanner_FullPromptWhenTomorrowEmpty(t *testing.T) {
	repo := tasks.NewInMemoryRepository()
	svc := NewPlannerService(repo, false)

	now := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	prompt, err := svc.PromptFor(context.Background(), testUser(), now)
	require.NoError(t, err)

	assert.Equal(t, PromptFull, prompt.Kind)
	assert.Equal(t, tzx.Day{Year: 2026, Month: time.January, Day: 11}, prompt.Tomorrow)
	assert.Zero(t, prompt.Planned)
}

func TestPlanner_NudgeWhenTomorrowPlanned(t *testing.T) {
	repo := tasks.NewInMemoryRepository()
	svc := NewPlannerService(repo, false)

	seedTask(t, repo, "already planned", models.PriorityMedium, models.TaskPending, "2026-01-11")

	now := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	prompt, err := svc.PromptFor(context.Background(), testUser(), now)
	require.NoError(t, err)

	assert.Equal(t, PromptNudge, prompt.Kind)
	assert.Equal(t, 1, prompt.Planned)
}

func TestPlanner_AlwaysPromptOverridesSuppression(t *testing.T) {
	repo := tasks.NewInMemoryRepository()
	svc := NewPlannerService(repo, true)

	seedTask(t, repo, "already planned", models.PriorityMedium, models.TaskPending, "2026-01-11")

	now := time.Date(2026, 1, 10, 19, 0, 0, 0, time.UTC)
	prompt, err := svc.PromptFor(context.Background(), testUser(), now)
	require.NoError(t, err)

	assert.Equal(t, PromptFull, prompt.Kind)
	assert.Equal(t, 1, prompt.Planned)
}

func TestPlanner_LateEveningRollsToNextDay(t *testing.T) {
	repo := tasks.NewInMemoryRepository()
	svc := NewPlannerService(repo, false)

	// 22:00 prompt: tomorrow is still the next calendar day, not +2.
	now := time.Date(2026, 1, 31, 22, 0, 0, 0, time.UTC)
	prompt, err := svc.PromptFor(context.Background(), testUser(), now)
	require.NoError(t, err)

	assert.Equal(t, "2026-02-01", prompt.Tomorrow.String())
}
