package tasks

import (
	"context"

	"github.com/dmitrijs2005/planbot/internal/models"
)

type Repository interface {
	// Create stores the task, assigning an id when the task has none.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// ListByBucket returns every task in the user's day-bucket ordered by
	// priority descending, then due-time, then creation time.
	ListByBucket(ctx context.Context, userID int64, bucket string) ([]*models.Task, error)
	// ListByStatus is ListByBucket narrowed to a single status.
	ListByStatus(ctx context.Context, userID int64, bucket string, status models.TaskStatus) ([]*models.Task, error)
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	MoveBucket(ctx context.Context, id string, bucket string) error
	// ListRange returns tasks of all statuses with from <= bucket <= to.
	ListRange(ctx context.Context, userID int64, from, to string) ([]*models.Task, error)
}
