package tasks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/models"
)

// InMemoryRepository keeps tasks in a map. Used for tests and for running
// without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	tasks map[string]*models.Task
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{tasks: make(map[string]*models.Task)}
}

func (r *InMemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	stored := *task
	r.tasks[task.ID] = &stored
	return task, nil
}

func (r *InMemoryRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copy := *t
	return &copy, nil
}

func (r *InMemoryRepository) ListByBucket(ctx context.Context, userID int64, bucket string) ([]*models.Task, error) {
	return r.list(func(t *models.Task) bool {
		return t.UserID == userID && t.Bucket == bucket
	})
}

func (r *InMemoryRepository) ListByStatus(ctx context.Context, userID int64, bucket string, status models.TaskStatus) ([]*models.Task, error) {
	return r.list(func(t *models.Task) bool {
		return t.UserID == userID && t.Bucket == bucket && t.Status == status
	})
}

func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.Status = status
	return nil
}

func (r *InMemoryRepository) MoveBucket(ctx context.Context, id string, bucket string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return common.ErrorNotFound
	}
	t.Bucket = bucket
	return nil
}

func (r *InMemoryRepository) ListRange(ctx context.Context, userID int64, from, to string) ([]*models.Task, error) {
	return r.list(func(t *models.Task) bool {
		return t.UserID == userID && t.Bucket >= from && t.Bucket <= to
	})
}

func (r *InMemoryRepository) list(match func(*models.Task) bool) ([]*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Task
	for _, t := range r.tasks {
		if match(t) {
			copy := *t
			result = append(result, &copy)
		}
	}
	sortTasks(result)
	return result, nil
}

// sortTasks mirrors the SQL ordering: priority descending, then due time
// with empty values last, then creation time.
func sortTasks(list []*models.Task) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Priority.Weight() != b.Priority.Weight() {
			return a.Priority.Weight() < b.Priority.Weight()
		}
		if a.DueTime != b.DueTime {
			return dueKey(a.DueTime) < dueKey(b.DueTime)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}

func dueKey(due string) string {
	if due == "" {
		return "99:99"
	}
	return due
}
