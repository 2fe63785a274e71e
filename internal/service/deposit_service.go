package service

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/logger"
	"earnclub/internal/referral"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrDepositNotFound = errors.New("deposit not found")
	ErrAlreadyReviewed = errors.New("already reviewed")
	ErrInvalidProvider = errors.New("unknown payment provider")
)

// DepositService handles user deposit claims and their admin review.
// Approval credits the main balance and triggers commission
// distribution on the deposited amount.
type DepositService struct {
	db       *pgxpool.Pool
	deposits *repository.DepositRepository
	balances *BalanceService
	settings *repository.SettingsRepository
	txRepo   *repository.TransactionRepository
	audit    *AuditService
	engine   *referral.Engine
}

func NewDepositService(db *pgxpool.Pool, engine *referral.Engine) *DepositService {
	return &DepositService{
		db:       db,
		deposits: repository.NewDepositRepository(db),
		balances: NewBalanceService(db),
		settings: repository.NewSettingsRepository(db),
		txRepo:   repository.NewTransactionRepository(db),
		audit:    NewAuditService(db),
		engine:   engine,
	}
}

// Submit records a pending deposit claim
func (s *DepositService) Submit(ctx context.Context, d *domain.Deposit) error {
	if !domain.ValidProvider(d.Provider) {
		return ErrInvalidProvider
	}
	if d.Amount <= 0 {
		return ErrInvalidAmount
	}
	return s.deposits.Create(ctx, d)
}

// History returns a user's deposits
func (s *DepositService) History(ctx context.Context, userID int64) ([]*domain.Deposit, error) {
	return s.deposits.GetByUserID(ctx, userID, 50)
}

// Pending returns deposits awaiting review
func (s *DepositService) Pending(ctx context.Context) ([]*domain.Deposit, error) {
	return s.deposits.GetPending(ctx)
}

// Approve confirms a deposit: the status flip, balance credit and
// transaction record commit atomically, then commissions are
// distributed best-effort. A second approval of the same deposit is
// rejected by the pending-status guard.
func (s *DepositService) Approve(ctx context.Context, adminID, depositID int64, note string) error {
	d, err := s.deposits.GetByID(ctx, depositID)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrDepositNotFound
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flipped, err := s.deposits.SetStatusWithTx(ctx, tx, depositID, domain.DepositStatusApproved, note)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrAlreadyReviewed
	}

	if _, err := s.balances.CreditWithTx(ctx, tx, d.UserID, FieldBalance, d.Amount); err != nil {
		return err
	}

	record := &domain.Transaction{
		UserID: d.UserID,
		Type:   "deposit",
		Amount: d.Amount,
		Meta:   map[string]interface{}{"deposit_id": d.ID, "provider": string(d.Provider), "trx_id": d.TrxID},
	}
	if err := s.txRepo.CreateWithTx(ctx, tx, record); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "approve", "deposit", depositID, map[string]interface{}{"amount": d.Amount})

	settings, err := s.settings.Get(ctx)
	if err != nil {
		logger.Error("load referral settings failed, skipping distribution",
			"deposit_id", depositID, "error", err)
		return nil
	}
	if err := s.engine.Distribute(ctx, d.UserID, d.Amount, settings); err != nil {
		logger.Error("commission distribution failed",
			"deposit_id", depositID, "source_user_id", d.UserID, "error", err)
	}
	return nil
}

// Reject declines a deposit claim without touching balances
func (s *DepositService) Reject(ctx context.Context, adminID, depositID int64, note string) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	flipped, err := s.deposits.SetStatusWithTx(ctx, tx, depositID, domain.DepositStatusRejected, note)
	if err != nil {
		return err
	}
	if !flipped {
		return ErrAlreadyReviewed
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "reject", "deposit", depositID, nil)
	return nil
}
