package sessions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/models"
)

// InMemoryRepository keeps focus sessions in a map, one per user.
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[int64]*models.FocusSession
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{sessions: make(map[int64]*models.FocusSession)}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID int64) (*models.FocusSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	copy := *s
	return &copy, nil
}

func (r *InMemoryRepository) Upsert(ctx context.Context, session *models.FocusSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *session
	r.sessions[session.UserID] = &stored
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, userID)
	return nil
}

func (r *InMemoryRepository) ListDue(ctx context.Context, now time.Time) ([]*models.FocusSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.FocusSession
	for _, s := range r.sessions {
		if s.Phase != models.PhaseIdle && !s.PhaseEnd.After(now) {
			copy := *s
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].PhaseEnd.Before(result[j].PhaseEnd) })
	return result, nil
}
