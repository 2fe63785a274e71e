package repository

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, provider, account_number, amount, status,
	       COALESCE(admin_note, ''), created_at, reviewed_at`

// GetByID retrieves a withdrawal, nil if absent
func (r *WithdrawalRepository) GetByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1`, id)
	return scanWithdrawal(row)
}

// GetByUserID retrieves a user's withdrawals, newest first
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// GetPending retrieves withdrawals awaiting admin review, oldest first
func (r *WithdrawalRepository) GetPending(ctx context.Context) ([]*domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+withdrawalColumns+` FROM withdrawals WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

// CreateWithTx inserts a pending withdrawal inside an existing
// transaction, alongside the balance debit
func (r *WithdrawalRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, provider, account_number, amount, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, created_at
	`, w.UserID, w.Provider, w.AccountNumber, w.Amount).Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return err
	}
	w.Status = domain.WithdrawalStatusPending
	return nil
}

// SetStatusWithTx flips a pending withdrawal to a final status inside
// an existing transaction. Returns false when it was not pending.
func (r *WithdrawalRepository) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.WithdrawalStatus, note string) (bool, error) {
	ct, err := tx.Exec(ctx, `
		UPDATE withdrawals
		SET status = $2, admin_note = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`, id, status, note, time.Now())
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// TotalPaid returns the sum a user has withdrawn
func (r *WithdrawalRepository) TotalPaid(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE user_id = $1 AND status = 'paid'
	`, userID).Scan(&total)
	return total, err
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	if err := row.Scan(
		&w.ID, &w.UserID, &w.Provider, &w.AccountNumber, &w.Amount, &w.Status,
		&w.AdminNote, &w.CreatedAt, &w.ReviewedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]*domain.Withdrawal, error) {
	var result []*domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(
			&w.ID, &w.UserID, &w.Provider, &w.AccountNumber, &w.Amount, &w.Status,
			&w.AdminNote, &w.CreatedAt, &w.ReviewedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &w)
	}
	return result, rows.Err()
}
