package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/planbot/internal/models"
)

type Repository interface {
	// Get returns the user's live session, common.ErrorNotFound if none.
	Get(ctx context.Context, userID int64) (*models.FocusSession, error)
	// Upsert stores the session, replacing any previous one for the user.
	Upsert(ctx context.Context, session *models.FocusSession) error
	Delete(ctx context.Context, userID int64) error
	// ListDue returns non-IDLE sessions whose phase end is at or before now.
	ListDue(ctx context.Context, now time.Time) ([]*models.FocusSession, error)
}
