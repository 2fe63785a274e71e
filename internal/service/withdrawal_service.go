package service

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrWithdrawalNotFound = errors.New("withdrawal not found")
	ErrAmountOutOfRange   = errors.New("amount outside withdrawal limits")
)

// WithdrawalService handles payout requests. The amount leaves the
// main balance when the request is created; rejection puts it back.
type WithdrawalService struct {
	db          *pgxpool.Pool
	withdrawals *repository.WithdrawalRepository
	balances    *BalanceService
	txRepo      *repository.TransactionRepository
	audit       *AuditService

	minAmount float64
	maxAmount float64
}

func NewWithdrawalService(db *pgxpool.Pool, minAmount, maxAmount float64) *WithdrawalService {
	return &WithdrawalService{
		db:          db,
		withdrawals: repository.NewWithdrawalRepository(db),
		balances:    NewBalanceService(db),
		txRepo:      repository.NewTransactionRepository(db),
		audit:       NewAuditService(db),
		minAmount:   minAmount,
		maxAmount:   maxAmount,
	}
}

// Request creates a pending withdrawal and debits the main balance in
// the same transaction
func (s *WithdrawalService) Request(ctx context.Context, w *domain.Withdrawal) error {
	if !domain.ValidProvider(w.Provider) {
		return ErrInvalidProvider
	}
	if w.Amount < s.minAmount || w.Amount > s.maxAmount {
		return ErrAmountOutOfRange
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.balances.DebitWithTx(ctx, tx, w.UserID, FieldBalance, w.Amount); err != nil {
		return err
	}

	if err := s.withdrawals.CreateWithTx(ctx, tx, w); err != nil {
		return err
	}

	record := &domain.Transaction{
		UserID: w.UserID,
		Type:   "withdrawal_request",
		Amount: -w.Amount,
		Meta:   map[string]interface{}{"withdrawal_id": w.ID, "provider": string(w.Provider)},
	}
	if err := s.txRepo.CreateWithTx(ctx, tx, record); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// History returns a user's withdrawals
func (s *WithdrawalService) History(ctx context.Context, userID int64) ([]*domain.Withdrawal, error) {
	return s.withdrawals.GetByUserID(ctx, userID, 50)
}

// Pending returns withdrawals awaiting review
func (s *WithdrawalService) Pending(ctx context.Context) ([]*domain.Withdrawal, error) {
	return s.withdrawals.GetPending(ctx)
}

// MarkPaid records that the payout was sent. The money already left
// the balance at request time, so only the status flips.
func (s *WithdrawalService) MarkPaid(ctx context.Context, adminID, withdrawalID int64, note string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flipped, err := s.withdrawals.SetStatusWithTx(ctx, tx, withdrawalID, domain.WithdrawalStatusPaid, note)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrAlreadyReviewed
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "mark_paid", "withdrawal", withdrawalID, nil)
	return nil
}

// Reject declines the request and refunds the held amount atomically
func (s *WithdrawalService) Reject(ctx context.Context, adminID, withdrawalID int64, note string) error {
	w, err := s.withdrawals.GetByID(ctx, withdrawalID)
	if err != nil {
		return err
	}
	if w == nil {
		return ErrWithdrawalNotFound
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flipped, err := s.withdrawals.SetStatusWithTx(ctx, tx, withdrawalID, domain.WithdrawalStatusRejected, note)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrAlreadyReviewed
	}

	if _, err := s.balances.CreditWithTx(ctx, tx, w.UserID, FieldBalance, w.Amount); err != nil {
		return err
	}

	record := &domain.Transaction{
		UserID: w.UserID,
		Type:   "withdrawal_refund",
		Amount: w.Amount,
		Meta:   map[string]interface{}{"withdrawal_id": w.ID},
	}
	if err := s.txRepo.CreateWithTx(ctx, tx, record); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "reject", "withdrawal", withdrawalID, nil)
	return nil
}
