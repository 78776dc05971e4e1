package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/planbot/internal/common"
	"github.com/dmitrijs2005/planbot/internal/dbx"
	"github.com/dmitrijs2005/planbot/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.FocusSession, error) {
	query :=
		`SELECT user_id, id, phase, phase_end, cycles, started_at FROM focus_sessions
		 WHERE user_id = $1
		 `

	s := &models.FocusSession{}
	var phase string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&s.UserID, &s.ID, &phase, &s.PhaseEnd, &s.Cycles, &s.StartedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	s.Phase = models.FocusPhase(phase)
	return s, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, session *models.FocusSession) error {
	query :=
		`INSERT INTO focus_sessions (user_id, id, phase, phase_end, cycles, started_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		     id = EXCLUDED.id,
		     phase = EXCLUDED.phase,
		     phase_end = EXCLUDED.phase_end,
		     cycles = EXCLUDED.cycles,
		     started_at = EXCLUDED.started_at
		 `

	_, err := r.db.ExecContext(ctx, query,
		session.UserID, session.ID, string(session.Phase), session.PhaseEnd,
		session.Cycles, session.StartedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID int64) error {
	query := `DELETE FROM focus_sessions WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListDue(ctx context.Context, now time.Time) ([]*models.FocusSession, error) {
	query :=
		`SELECT user_id, id, phase, phase_end, cycles, started_at FROM focus_sessions
		 WHERE phase <> 'IDLE' AND phase_end <= $1
		 ORDER BY phase_end
		 `

	rows, err := r.db.QueryContext(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.FocusSession
	for rows.Next() {
		s := &models.FocusSession{}
		var phase string
		if err := rows.Scan(&s.UserID, &s.ID, &phase, &s.PhaseEnd, &s.Cycles, &s.StartedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		s.Phase = models.FocusPhase(phase)
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
