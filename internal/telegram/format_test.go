package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/services"
	"github.com/dmitrijs2005/planbot/internal/tzx"
)

func TestFormatTask(t *testing.T) {
	task := &models.Task{
		ID: "a1b2c3d4-0000-0000-0000-000000000000", Text: "Finish module",
		Priority: models.PriorityHigh, Tags: []string{"#study"},
		DueTime: "18:00", Status: models.TaskPending,
	}
	assert.Equal(t, "⬜ ⬆️ Finish module @ 18:00 #study (#a1b2c3d4)", formatTask(task))
}

func TestFormatDigest_TwoSections(t *testing.T) {
	carried := &models.Task{ID: "11111111-x", Text: "gym", Priority: models.PriorityMedium, Status: models.TaskCarried}
	today := &models.Task{ID: "22222222-x", Text: "report", Priority: models.PriorityHigh, Status: models.TaskPending}

	d := &services.Digest{
		Day:     tzx.Day{Year: 2026, Month: 1, Day: 10},
		Carried: []*models.Task{carried},
		Groups: []services.DigestGroup{
			{Priority: models.PriorityHigh, Tasks: []*models.Task{today}},
		},
	}

	text := formatDigest(d)
	assert.Contains(t, text, "⏮️ Yesterday (still open — copied to today):")
	assert.Contains(t, text, "gym")
	assert.Contains(t, text, "☀️ Today:")
	assert.Contains(t, text, "report")
}

func TestFormatDigest_NothingCarriedMarker(t *testing.T) {
	d := &services.Digest{Day: tzx.Day{Year: 2026, Month: 1, Day: 10}}

	text := formatDigest(d)
	assert.Contains(t, text, "Nothing carried over")
	assert.Contains(t, text, "(no tasks)")
}

func TestFormatPrompt(t *testing.T) {
	full := &services.PlanPrompt{Kind: services.PromptFull}
	assert.Contains(t, formatPrompt(full), "tomorrow")

	nudge := &services.PlanPrompt{Kind: services.PromptNudge, Planned: 2}
	assert.Contains(t, formatPrompt(nudge), "2 task(s)")
}

func TestFormatWeekly(t *testing.T) {
	s := &models.WeeklyStats{Done: 3, Cancelled: 1, Open: 2, Total: 6}
	assert.Equal(t, "📊 Last 7 days: 3/6 done (50% completion). Keep going!", formatWeekly(s))
}

func TestFormatFocusChange(t *testing.T) {
	assert.Contains(t, formatFocusChange(&models.FocusSession{Phase: models.PhaseBreak}), "break")
	assert.Contains(t, formatFocusChange(&models.FocusSession{Phase: models.PhaseWork}), "Back to work")
	assert.Contains(t, formatFocusChange(&models.FocusSession{Phase: models.PhaseIdle}), "finished")
}

func TestRendererDigest_ButtonsForOpenTasksOnly(t *testing.T) {
	open := &models.Task{ID: "11111111-x", Text: "report", Priority: models.PriorityHigh, Status: models.TaskPending}
	done := &models.Task{ID: "22222222-x", Text: "gym", Priority: models.PriorityHigh, Status: models.TaskDone}

	d := &services.Digest{
		Day: tzx.Day{Year: 2026, Month: 1, Day: 10},
		Groups: []services.DigestGroup{
			{Priority: models.PriorityHigh, Tasks: []*models.Task{open, done}},
		},
	}

	text, buttons := NewRenderer().Digest(d)
	assert.Contains(t, text, "report")
	if assert.Len(t, buttons, 2) {
		assert.Equal(t, "done|"+open.ID, buttons[0].Callback)
		assert.Equal(t, "cancel|"+open.ID, buttons[1].Callback)
	}
}

func TestQuickAddButtons(t *testing.T) {
	buttons := quickAddButtons()
	assert.Len(t, buttons, 6)
	assert.Equal(t, "quickadd|Gym", buttons[0].Callback)
	assert.Equal(t, "newtask", buttons[5].Callback)
}
