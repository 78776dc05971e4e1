package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

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

const taskColumns = `id, user_id, body, priority, tags, due_time, status, bucket, origin_id, created_at`

// Buckets sort lexicographically because they are ISO dates; due times
// sort the same way, with empty values pushed last.
const taskOrder = `
	 ORDER BY CASE priority WHEN 'HIGH' THEN 0 WHEN 'MEDIUM' THEN 1 ELSE 2 END,
	          COALESCE(NULLIF(due_time, ''), '99:99'),
	          created_at`

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO tasks (id, user_id, body, priority, tags, due_time, status, bucket, origin_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.ID, task.UserID, task.Text, string(task.Priority), joinTags(task.Tags),
		task.DueTime, string(task.Status), task.Bucket, task.OriginID).Scan(&task.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	task, err := scanTask(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByBucket(ctx context.Context, userID int64, bucket string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND bucket = $2` + taskOrder

	return r.queryTasks(ctx, query, userID, bucket)
}

func (r *PostgresRepository) ListByStatus(ctx context.Context, userID int64, bucket string, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND bucket = $2 AND status = $3` + taskOrder

	return r.queryTasks(ctx, query, userID, bucket, string(status))
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	query := `UPDATE tasks SET status = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(status))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) MoveBucket(ctx context.Context, id string, bucket string) error {
	query := `UPDATE tasks SET bucket = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, bucket)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) ListRange(ctx context.Context, userID int64, from, to string) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 AND bucket BETWEEN $2 AND $3` + taskOrder

	return r.queryTasks(ctx, query, userID, from, to)
}

func (r *PostgresRepository) queryTasks(ctx context.Context, query string, args ...any) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func scanTask(scan func(dest ...any) error) (*models.Task, error) {
	task := &models.Task{}
	var priority, status, tags string
	var origin sql.NullString

	err := scan(&task.ID, &task.UserID, &task.Text, &priority, &tags,
		&task.DueTime, &status, &task.Bucket, &origin, &task.CreatedAt)
	if err != nil {
		return nil, err
	}

	task.Priority = models.TaskPriority(priority)
	task.Status = models.TaskStatus(status)
	task.Tags = splitTags(tags)
	if origin.Valid {
		task.OriginID = origin.String
	}
	return task, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, " ")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Fields(s)
}
