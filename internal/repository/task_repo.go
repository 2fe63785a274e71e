package repository

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListActive returns tasks users can complete today
func (r *TaskRepository) ListActive(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, COALESCE(description, ''), active, created_at FROM tasks WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Active, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}

// GetByID retrieves a task, nil if absent
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, title, COALESCE(description, ''), active, created_at FROM tasks WHERE id = $1`, id)

	var t domain.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Active, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a task
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, active) VALUES ($1, $2, $3) RETURNING id, created_at`,
		t.Title, t.Description, t.Active).Scan(&t.ID, &t.CreatedAt)
}

// SetActive toggles a task
func (r *TaskRepository) SetActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.Exec(ctx, `UPDATE tasks SET active = $2 WHERE id = $1`, id, active)
	return err
}

// CountCompletedToday returns how many tasks a user finished since the
// start of day
func (r *TaskRepository) CountCompletedToday(ctx context.Context, userID int64, dayStart time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM task_completions WHERE user_id = $1 AND completed_at >= $2`,
		userID, dayStart).Scan(&n)
	return n, err
}

// CompletedToday reports whether a specific task was already done today
func (r *TaskRepository) CompletedToday(ctx context.Context, userID, taskID int64, dayStart time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_completions WHERE user_id = $1 AND task_id = $2 AND completed_at >= $3)`,
		userID, taskID, dayStart).Scan(&exists)
	return exists, err
}

// CreateCompletionWithTx records a completion inside an existing
// transaction, alongside the earnings credit
func (r *TaskRepository) CreateCompletionWithTx(ctx context.Context, tx pgx.Tx, tc *domain.TaskCompletion) error {
	return tx.QueryRow(ctx,
		`INSERT INTO task_completions (user_id, task_id, reward) VALUES ($1, $2, $3) RETURNING id, completed_at`,
		tc.UserID, tc.TaskID, tc.Reward).Scan(&tc.ID, &tc.CompletedAt)
}

// ListCompletions returns a user's completion history, newest first
func (r *TaskRepository) ListCompletions(ctx context.Context, userID int64, limit int) ([]*domain.TaskCompletion, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, task_id, reward, completed_at
		 FROM task_completions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.TaskCompletion
	for rows.Next() {
		var tc domain.TaskCompletion
		if err := rows.Scan(&tc.ID, &tc.UserID, &tc.TaskID, &tc.Reward, &tc.CompletedAt); err != nil {
			return nil, err
		}
		result = append(result, &tc)
	}
	return result, rows.Err()
}
