package telegram

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/planbot/internal/gateway"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/services"
)

var quickAddLabels = []string{"Gym", "Study", "Groceries", "Deep Work", "Call Mom"}

func quickAddButtons() []gateway.Button {
	buttons := make([]gateway.Button, 0, len(quickAddLabels)+1)
	for _, label := range quickAddLabels {
		buttons = append(buttons, gateway.Button{Label: "➕ " + label, Callback: "quickadd|" + label})
	}
	buttons = append(buttons, gateway.Button{Label: "New task…", Callback: "newtask"})
	return buttons
}

func taskActionButtons(tasks []*models.Task) []gateway.Button {
	var buttons []gateway.Button
	for _, t := range tasks {
		id := shortID(t.ID)
		buttons = append(buttons,
			gateway.Button{Label: "✅ " + id, Callback: "done|" + t.ID},
			gateway.Button{Label: "✖️ " + id, Callback: "cancel|" + t.ID},
		)
	}
	return buttons
}

// shortID is the user-facing task handle: enough of the id to be unique
// within a day-bucket.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatTask(t *models.Task) string {
	var b strings.Builder

	switch t.Status {
	case models.TaskDone:
		b.WriteString("✅ ")
	case models.TaskCancelled:
		b.WriteString("🗑️ ")
	default:
		b.WriteString("⬜ ")
	}

	switch t.Priority {
	case models.PriorityHigh:
		b.WriteString("⬆️ ")
	case models.PriorityLow:
		b.WriteString("⬇️ ")
	default:
		b.WriteString("⚪ ")
	}

	b.WriteString(t.Text)
	if t.DueTime != "" {
		b.WriteString(" @ " + t.DueTime)
	}
	if len(t.Tags) > 0 {
		b.WriteString(" " + strings.Join(t.Tags, " "))
	}
	fmt.Fprintf(&b, " (#%s)", shortID(t.ID))
	return b.String()
}

func formatTaskList(tasks []*models.Task) string {
	lines := make([]string, 0, len(tasks))
	for _, t := range tasks {
		lines = append(lines, formatTask(t))
	}
	return strings.Join(lines, "\n")
}

// formatDigest renders the two-section morning digest: yesterday's
// carried-over items when there are any, then today's list.
func formatDigest(d *services.Digest) string {
	var sections []string

	if len(d.Carried) > 0 {
		sections = append(sections,
			"⏮️ Yesterday (still open — copied to today):\n"+formatTaskList(d.Carried))
	} else {
		sections = append(sections, "⏮️ Nothing carried over from yesterday.")
	}

	if d.Empty() {
		sections = append(sections, "☀️ Today:\n(no tasks) — Use /add or /tomorrow to plan.")
	} else {
		var lines []string
		for _, group := range d.Groups {
			for _, t := range group.Tasks {
				lines = append(lines, formatTask(t))
			}
		}
		sections = append(sections, "☀️ Today:\n"+strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

func formatPrompt(p *services.PlanPrompt) string {
	if p.Kind == services.PromptNudge {
		return fmt.Sprintf("👍 Tomorrow already has %d task(s). Anything to add? /tomorrow <task>", p.Planned)
	}
	return "📝 What would you like to add for tomorrow? Use /tomorrow <task>."
}

func formatWeekly(s *models.WeeklyStats) string {
	return fmt.Sprintf("📊 Last 7 days: %d/%d done (%d%% completion). Keep going!",
		s.Done, s.Total, s.CompletionRate())
}

func formatFocusChange(session *models.FocusSession) string {
	switch session.Phase {
	case models.PhaseBreak:
		return "☕ Time's up! Take a break."
	case models.PhaseWork:
		return "⏱️ Break's over. Back to work!"
	default:
		return "🏁 Focus session finished. Nice work!"
	}
}

func helpText() string {
	return strings.Join([]string{
		"/add <task> [#tag ...] [!low|!med|!high] [@HH:MM] — add for today",
		"/tomorrow <task> — add for tomorrow",
		"/list — show today's tasks",
		"/done <id> — mark task done",
		"/cancel <id> — cancel a task",
		"/tz <Area/City> — set your timezone (e.g., /tz America/Los_Angeles)",
		"/focus — start a Pomodoro",
		"/stop — stop the Pomodoro",
		"/week — show last-7-days stats",
	}, "\n")
}

func welcomeText(tz string) string {
	return strings.Join([]string{
		"👋 I'm your productive assistant!",
		"",
		"• I'll ping you at 10/13/16/19/22 to plan tomorrow.",
		"• At 08:00 I'll send your Today list and carry over unfinished items.",
		"• Use /add, /list, /done, /tomorrow, /tz, /focus, /week, /help.",
		"",
		fmt.Sprintf("Your timezone is %s (change via /tz <Area/City>).", tz),
	}, "\n")
}
