package service

import (
	"context"
	"errors"
	"fmt"

	"earnclub/internal/domain"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidAmount     = errors.New("invalid amount")
)

// BalanceField selects which of a user's balances an operation touches.
type BalanceField string

const (
	FieldBalance  BalanceField = "balance"
	FieldEarnings BalanceField = "earnings_balance"
	FieldReferral BalanceField = "referral_balance"
)

func (f BalanceField) column() (string, error) {
	switch f {
	case FieldBalance, FieldEarnings, FieldReferral:
		return string(f), nil
	}
	return "", fmt.Errorf("unknown balance field %q", string(f))
}

// Balances is a snapshot of all three balances.
type Balances struct {
	Balance  float64 `json:"balance"`
	Earnings float64 `json:"earnings_balance"`
	Referral float64 `json:"referral_balance"`
}

// BalanceService handles all money movement on user rows. Every
// mutation is a relative increment inside a database transaction with
// a transaction record, so concurrent operations never lose updates.
type BalanceService struct {
	db              *pgxpool.Pool
	transactionRepo *repository.TransactionRepository
}

func NewBalanceService(db *pgxpool.Pool) *BalanceService {
	return &BalanceService{
		db:              db,
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// Get returns a snapshot of the user's balances
func (s *BalanceService) Get(ctx context.Context, userID int64) (*Balances, error) {
	var b Balances
	err := s.db.QueryRow(ctx,
		`SELECT balance, earnings_balance, referral_balance FROM users WHERE id = $1`,
		userID).Scan(&b.Balance, &b.Earnings, &b.Referral)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Credit adds amount to one of the user's balances
func (s *BalanceService) Credit(ctx context.Context, userID int64, field BalanceField, amount float64, txType string, meta map[string]interface{}) (newBalance float64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := field.column()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`UPDATE users SET `+col+` = `+col+` + $1 WHERE id = $2 RETURNING `+col,
		amount, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	transaction := &domain.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: amount,
		Meta:   meta,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, transaction); err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// Debit deducts amount from one of the user's balances after a locked
// funds check
func (s *BalanceService) Debit(ctx context.Context, userID int64, field BalanceField, amount float64, txType string, meta map[string]interface{}) (newBalance float64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := field.column()
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	newBalance, err = s.debitLocked(ctx, tx, userID, col, amount)
	if err != nil {
		return 0, err
	}

	transaction := &domain.Transaction{
		UserID: userID,
		Type:   txType,
		Amount: -amount,
		Meta:   meta,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, transaction); err != nil {
		return 0, err
	}

	return newBalance, tx.Commit(ctx)
}

// DebitWithTx deducts inside an existing transaction; the caller is
// responsible for the transaction record
func (s *BalanceService) DebitWithTx(ctx context.Context, tx pgx.Tx, userID int64, field BalanceField, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := field.column()
	if err != nil {
		return 0, err
	}
	return s.debitLocked(ctx, tx, userID, col, amount)
}

// CreditWithTx adds inside an existing transaction
func (s *BalanceService) CreditWithTx(ctx context.Context, tx pgx.Tx, userID int64, field BalanceField, amount float64) (newBalance float64, err error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	col, err := field.column()
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET `+col+` = `+col+` + $1 WHERE id = $2 RETURNING `+col,
		amount, userID).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return newBalance, nil
}

func (s *BalanceService) debitLocked(ctx context.Context, tx pgx.Tx, userID int64, col string, amount float64) (newBalance float64, err error) {
	var balance float64
	err = tx.QueryRow(ctx,
		`SELECT `+col+` FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}

	if balance < amount {
		return 0, ErrInsufficientFunds
	}

	err = tx.QueryRow(ctx,
		`UPDATE users SET `+col+` = `+col+` - $1 WHERE id = $2 RETURNING `+col,
		amount, userID).Scan(&newBalance)
	return newBalance, err
}

// Collect moves the full earnings or referral balance into the main
// balance so it can be spent on packages or withdrawn
func (s *BalanceService) Collect(ctx context.Context, userID int64, field BalanceField) (moved float64, err error) {
	if field != FieldEarnings && field != FieldReferral {
		return 0, fmt.Errorf("cannot collect from %q", string(field))
	}
	col := string(field)

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`SELECT `+col+` FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&moved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	if moved <= 0 {
		return 0, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET `+col+` = 0, balance = balance + $1 WHERE id = $2`,
		moved, userID)
	if err != nil {
		return 0, err
	}

	transaction := &domain.Transaction{
		UserID: userID,
		Type:   "collect_" + col,
		Amount: moved,
	}
	if err = s.transactionRepo.CreateWithTx(ctx, tx, transaction); err != nil {
		return 0, err
	}

	return moved, tx.Commit(ctx)
}

// GetTransactionHistory returns user's transaction history
func (s *BalanceService) GetTransactionHistory(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	return s.transactionRepo.GetByUserID(ctx, userID, limit)
}
