package repository

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/referral"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrBeneficiaryNotFound = errors.New("beneficiary not found")

type CommissionRepository struct {
	db *pgxpool.Pool
}

func NewCommissionRepository(db *pgxpool.Pool) *CommissionRepository {
	return &CommissionRepository{db: db}
}

// AddCommission credits the beneficiary's referral balance and inserts
// the commission record in one database transaction, so a crash can
// never leave a credited balance without its record or vice versa.
// The balance update is a relative increment, safe under concurrent
// walks crediting the same ancestor. Implements referral.Ledger.
func (r *CommissionRepository) AddCommission(ctx context.Context, beneficiaryID, sourceUserID int64, amount float64, kind referral.Kind) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ct, err := tx.Exec(ctx,
		`UPDATE users SET referral_balance = referral_balance + $1 WHERE id = $2`,
		amount, beneficiaryID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrBeneficiaryNotFound
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO commissions (beneficiary_id, source_user_id, amount, kind)
		 VALUES ($1, $2, $3, $4)`,
		beneficiaryID, sourceUserID, amount, string(kind))
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetByBeneficiary returns a user's commission history, newest first
func (r *CommissionRepository) GetByBeneficiary(ctx context.Context, userID int64, limit int) ([]*domain.Commission, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, beneficiary_id, source_user_id, amount, kind, created_at
		 FROM commissions
		 WHERE beneficiary_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Commission
	for rows.Next() {
		var c domain.Commission
		if err := rows.Scan(&c.ID, &c.BeneficiaryID, &c.SourceUserID, &c.Amount, &c.Kind, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

// TotalEarned returns the sum of all commissions credited to a user
func (r *CommissionRepository) TotalEarned(ctx context.Context, userID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM commissions WHERE beneficiary_id = $1`,
		userID).Scan(&total)
	return total, err
}

// TotalsByKind returns per-kind commission sums for a user
func (r *CommissionRepository) TotalsByKind(ctx context.Context, userID int64) (map[string]float64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind, COALESCE(SUM(amount), 0)
		 FROM commissions
		 WHERE beneficiary_id = $1
		 GROUP BY kind`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]float64)
	for rows.Next() {
		var kind string
		var sum float64
		if err := rows.Scan(&kind, &sum); err != nil {
			return nil, err
		}
		totals[kind] = sum
	}
	return totals, rows.Err()
}
