package domain

import "time"

// Task is a daily activity users complete for their package reward.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TaskCompletion records one completed task on one calendar day.
type TaskCompletion struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	TaskID      int64     `db:"task_id" json:"task_id"`
	Reward      float64   `db:"reward" json:"reward"`
	CompletedAt time.Time `db:"completed_at" json:"completed_at"`
}
