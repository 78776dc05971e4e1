package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

type PromptKind int

const (
	// PromptFull asks the user to plan tomorrow.
	PromptFull PromptKind = iota
	// PromptNudge is the reduced reminder sent when tomorrow already has
	// at least one task and AlwaysPrompt is off.
	PromptNudge
)

// PlanPrompt is the structured planning prompt handed to the presentation
// layer.
type PlanPrompt struct {
	Kind     PromptKind
	Tomorrow tzx.Day
	// Planned is the number of tasks already in tomorrow's bucket.
	Planned int
}

// PlannerService emits plan-tomorrow prompts. Prompts are best-effort,
// present-moment signals: a firing missed while the process was down is
// never replayed.
type PlannerService struct {
	tasks        tasks.Repository
	alwaysPrompt bool
}

func NewPlannerService(tasks tasks.Repository, alwaysPrompt bool) *PlannerService {
	return &PlannerService{tasks: tasks, alwaysPrompt: alwaysPrompt}
}

// PromptFor decides which prompt the user should receive right now.
func (s *PlannerService) PromptFor(ctx context.Context, user *models.User, localNow time.Time) (*PlanPrompt, error) {
	tomorrow := tzx.DayOf(localNow).AddDays(1)

	planned, err := s.tasks.ListByBucket(ctx, user.ID, tomorrow.String())
	if err != nil {
		return nil, fmt.Errorf("listing tomorrow: %w", err)
	}

	prompt := &PlanPrompt{Kind: PromptFull, Tomorrow: tomorrow, Planned: len(planned)}
	if len(planned) > 0 && !s.alwaysPrompt {
		prompt.Kind = PromptNudge
	}
	return prompt, nil
}
