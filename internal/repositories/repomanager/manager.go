// Package repomanager bundles the repositories behind a single constructor
// so the app can swap the Postgres store for the in-memory one.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/planbot/internal/repositories/sessions"
	"github.com/dmitrijs2005/planbot/internal/repositories/tasks"
	"github.com/dmitrijs2005/planbot/internal/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Tasks() tasks.Repository
	Sessions() sessions.Repository
}
