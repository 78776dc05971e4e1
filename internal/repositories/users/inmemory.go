package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/models"
)

// InMemoryRepository keeps users in a map. Used for tests and for running
// without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	users map[int64]*models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{users: make(map[int64]*models.User)}
}

func (r *InMemoryRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copy := *u
	return &copy, nil
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *InMemoryRepository) SetTimezone(ctx context.Context, id int64, tz string, isDefault bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Timezone = tz
	u.DefaultTZ = isDefault
	return nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id int64, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Active = active
	return nil
}

func (r *InMemoryRepository) ListActive(ctx context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.User
	for _, u := range r.users {
		if u.Active {
			copy := *u
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}
