package bot

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/gateway"
	"github.com/dmitrijs2005/planbot/internal/logging"
	"github.com/dmitrijs2005/planbot/internal/models"
	"github.com/dmitrijs2005/planbot/internal/services"
)

// Renderer turns service results into outbound message content. The
// telegram package provides the production implementation. Digest also
// returns the action buttons for today's open tasks.
type Renderer interface {
	Digest(d *services.Digest) (string, []gateway.Button)
	Prompt(p *services.PlanPrompt) string
	FocusChange(session *models.FocusSession) string
}

// TriggerRouter connects trigger firings to the services and pushes the
// results out through the gateway. State mutations commit inside the
// services before anything is sent: a delivery failure is reported as
// success to the scheduler so the trigger is not re-fired, with the
// parked-notice mechanism covering the gap.
type TriggerRouter struct {
	carryover *services.CarryOverService
	planner   *services.PlannerService
	sender    gateway.Sender
	render    Renderer
	log       logging.Logger
}

func NewTriggerRouter(carryover *services.CarryOverService, planner *services.PlannerService,
	sender gateway.Sender, render Renderer, log logging.Logger) *TriggerRouter {
	return &TriggerRouter{
		carryover: carryover,
		planner:   planner,
		sender:    sender,
		render:    render,
		log:       log,
	}
}

func (r *TriggerRouter) HandleTrigger(ctx context.Context, user *models.User, kind models.TriggerKind, localNow time.Time) error {
	msg := gateway.Message{UserID: user.ID}

	switch {
	case kind == models.TriggerDigest:
		digest, err := r.carryover.Run(ctx, user, localNow)
		if err != nil {
			return err
		}
		msg.Text, msg.Buttons = r.render.Digest(digest)
	case kind.IsPlan():
		prompt, err := r.planner.PromptFor(ctx, user, localNow)
		if err != nil {
			return err
		}
		msg.Text = r.render.Prompt(prompt)
	default:
		return nil
	}

	if err := r.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, common.ErrDeliveryFailed) {
			// Committed state stands; the user gets a parked notice
			// instead of a replayed trigger.
			return nil
		}
		return err
	}
	return nil
}

// FocusPhaseChanged delivers Pomodoro reminders. Best effort: the session
// transition is already committed.
func (r *TriggerRouter) FocusPhaseChanged(ctx context.Context, session *models.FocusSession) error {
	return r.sender.Send(ctx, gateway.Message{
		UserID: session.UserID,
		Text:   r.render.FocusChange(session),
	})
}
