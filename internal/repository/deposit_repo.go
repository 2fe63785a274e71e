package repository

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrDuplicateTrxID = errors.New("transaction id already submitted")

type DepositRepository struct {
	db *pgxpool.Pool
}

func NewDepositRepository(db *pgxpool.Pool) *DepositRepository {
	return &DepositRepository{db: db}
}

const depositColumns = `id, user_id, provider, agent_number, sender_number, trx_id, amount,
	       status, COALESCE(admin_note, ''), created_at, reviewed_at`

// GetByID retrieves a deposit, nil if absent
func (r *DepositRepository) GetByID(ctx context.Context, id int64) (*domain.Deposit, error) {
	row := r.db.QueryRow(ctx, `SELECT `+depositColumns+` FROM deposits WHERE id = $1`, id)
	return scanDeposit(row)
}

// GetByUserID retrieves a user's deposits, newest first
func (r *DepositRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.Deposit, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// GetPending retrieves deposits awaiting admin review, oldest first
func (r *DepositRepository) GetPending(ctx context.Context) ([]*domain.Deposit, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE status = 'pending' ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeposits(rows)
}

// Create inserts a pending deposit
func (r *DepositRepository) Create(ctx context.Context, d *domain.Deposit) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO deposits (user_id, provider, agent_number, sender_number, trx_id, amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING id, created_at
	`, d.UserID, d.Provider, d.AgentNumber, d.SenderNumber, d.TrxID, d.Amount).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "deposits_trx_id_key") {
			return ErrDuplicateTrxID
		}
		return err
	}
	d.Status = domain.DepositStatusPending
	return nil
}

// SetStatusWithTx flips a pending deposit to a final status inside an
// existing transaction. Returns false when the deposit was not pending,
// which makes approval idempotent.
func (r *DepositRepository) SetStatusWithTx(ctx context.Context, tx pgx.Tx, id int64, status domain.DepositStatus, note string) (bool, error) {
	ct, err := tx.Exec(ctx, `
		UPDATE deposits
		SET status = $2, admin_note = $3, reviewed_at = $4
		WHERE id = $1 AND status = 'pending'
	`, id, status, note, time.Now())
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// TotalApproved returns the sum a user has deposited
func (r *DepositRepository) TotalApproved(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE user_id = $1 AND status = 'approved'
	`, userID).Scan(&total)
	return total, err
}

func scanDeposit(row pgx.Row) (*domain.Deposit, error) {
	var d domain.Deposit
	if err := row.Scan(
		&d.ID, &d.UserID, &d.Provider, &d.AgentNumber, &d.SenderNumber, &d.TrxID, &d.Amount,
		&d.Status, &d.AdminNote, &d.CreatedAt, &d.ReviewedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

func scanDeposits(rows pgx.Rows) ([]*domain.Deposit, error) {
	var result []*domain.Deposit
	for rows.Next() {
		var d domain.Deposit
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Provider, &d.AgentNumber, &d.SenderNumber, &d.TrxID, &d.Amount,
			&d.Status, &d.AdminNote, &d.CreatedAt, &d.ReviewedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &d)
	}
	return result, rows.Err()
}
