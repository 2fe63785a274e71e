package service

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrNoActivePackage   = errors.New("no active investment package")
	ErrDailyQuotaReached = errors.New("daily task quota reached")
	ErrTaskAlreadyDone   = errors.New("task already completed today")
)

// TaskService pays the active package's daily reward for completed
// tasks, capped at the package's tasks-per-day quota.
type TaskService struct {
	db       *pgxpool.Pool
	tasks    *repository.TaskRepository
	packages *repository.PackageRepository
	balances *BalanceService
	txRepo   *repository.TransactionRepository
}

func NewTaskService(db *pgxpool.Pool) *TaskService {
	return &TaskService{
		db:       db,
		tasks:    repository.NewTaskRepository(db),
		packages: repository.NewPackageRepository(db),
		balances: NewBalanceService(db),
		txRepo:   repository.NewTransactionRepository(db),
	}
}

// List returns active tasks
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListActive(ctx)
}

// History returns the user's completions
func (s *TaskService) History(ctx context.Context, userID int64) ([]*domain.TaskCompletion, error) {
	return s.tasks.ListCompletions(ctx, userID, 50)
}

// Quota describes today's progress against the package quota.
type Quota struct {
	TasksPerDay    int     `json:"tasks_per_day"`
	CompletedToday int     `json:"completed_today"`
	RewardPerTask  float64 `json:"reward_per_task"`
}

// TodayQuota returns the user's remaining task allowance
func (s *TaskService) TodayQuota(ctx context.Context, userID int64) (*Quota, error) {
	now := time.Now()
	inv, err := s.packages.GetActiveInvestment(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNoActivePackage
	}

	done, err := s.tasks.CountCompletedToday(ctx, userID, dayStart(now))
	if err != nil {
		return nil, err
	}

	return &Quota{
		TasksPerDay:    inv.Package.TasksPerDay,
		CompletedToday: done,
		RewardPerTask:  inv.Package.DailyReward,
	}, nil
}

// Complete marks a task done for today and credits the package reward
// to the earnings balance. The completion row and the credit commit
// together.
func (s *TaskService) Complete(ctx context.Context, userID, taskID int64) (*domain.TaskCompletion, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || !task.Active {
		return nil, ErrTaskNotFound
	}

	now := time.Now()
	inv, err := s.packages.GetActiveInvestment(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrNoActivePackage
	}

	start := dayStart(now)

	already, err := s.tasks.CompletedToday(ctx, userID, taskID, start)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrTaskAlreadyDone
	}

	done, err := s.tasks.CountCompletedToday(ctx, userID, start)
	if err != nil {
		return nil, err
	}
	if done >= inv.Package.TasksPerDay {
		return nil, ErrDailyQuotaReached
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tc := &domain.TaskCompletion{
		UserID: userID,
		TaskID: taskID,
		Reward: inv.Package.DailyReward,
	}
	if err := s.tasks.CreateCompletionWithTx(ctx, tx, tc); err != nil {
		return nil, err
	}

	if _, err := s.balances.CreditWithTx(ctx, tx, userID, FieldEarnings, tc.Reward); err != nil {
		return nil, err
	}

	record := &domain.Transaction{
		UserID: userID,
		Type:   "task_reward",
		Amount: tc.Reward,
		Meta:   map[string]interface{}{"task_id": taskID},
	}
	if err := s.txRepo.CreateWithTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return tc, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
