package telegram

import (
	"github.com/dmitrijs2005/planbot/internal/gateway"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/services"
)

// Renderer is the production message renderer.
type Renderer struct{}

func NewRenderer() *Renderer { return &Renderer{} }

// Digest renders the morning digest with Done/Cancel buttons for today's
// open tasks, the same keyboard /list attaches.
func (Renderer) Digest(d *services.Digest) (string, []gateway.Button) {
	var open []*models.Task
	for _, group := range d.Groups {
		for _, t := range group.Tasks {
			if t.Status == models.TaskPending {
				open = append(open, t)
			}
		}
	}
	return formatDigest(d), taskActionButtons(open)
}

func (Renderer) Prompt(p *services.PlanPrompt) string { return formatPrompt(p) }

func (Renderer) FocusChange(session *models.FocusSession) string {
	return formatFocusChange(session)
}
