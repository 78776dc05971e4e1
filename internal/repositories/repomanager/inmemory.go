package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/planbot/internal/repositories/sessions"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/repositories/users"
)

type InMemoryRepositoryManager struct {
	users    users.Repository
	tasks    tasks.Repository
	sessions sessions.Repository
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}

func (m *InMemoryRepositoryManager) Sessions() sessions.Repository {
	return m.sessions
}

func NewInMemoryRepositoryManager() RepositoryManager {
	return &InMemoryRepositoryManager{
		users:    users.NewInMemoryRepository(),
		tasks:    tasks.NewInMemoryRepository(),
		sessions: sessions.NewInMemoryRepository(),
	}
}
