package users

import (
	"context"

	"github.com/dmitrijs2005/planbot/internal/models"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// SetTimezone updates the stored timezone and clears the default-tz
	// flag when isDefault is false.
	SetTimezone(ctx context.Context, id int64, tz string, isDefault bool) error
	SetActive(ctx context.Context, id int64, active bool) error
	ListActive(ctx context.Context) ([]*models.User, error)
}
