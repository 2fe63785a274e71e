package service

import (
	"context"
	"errors"
	"time"

	"earnclub/internal/domain"
	"earnclub/internal/logger"
	"earnclub/internal/referral"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPackageNotFound  = errors.New("package not found")
	ErrPackageInactive  = errors.New("package not available")
	ErrAlreadyInvested  = errors.New("an investment is already active")
)

// PackageService handles package purchases. A purchase debits the main
// balance, opens the investment window and then distributes referral
// commissions on the package price as a best-effort side effect.
type PackageService struct {
	db       *pgxpool.Pool
	packages *repository.PackageRepository
	balances *BalanceService
	settings *repository.SettingsRepository
	txRepo   *repository.TransactionRepository
	engine   *referral.Engine
}

func NewPackageService(db *pgxpool.Pool, engine *referral.Engine) *PackageService {
	return &PackageService{
		db:       db,
		packages: repository.NewPackageRepository(db),
		balances: NewBalanceService(db),
		settings: repository.NewSettingsRepository(db),
		txRepo:   repository.NewTransactionRepository(db),
		engine:   engine,
	}
}

// List returns purchasable packages
func (s *PackageService) List(ctx context.Context) ([]*domain.Package, error) {
	return s.packages.ListActive(ctx)
}

// ActiveInvestment returns the user's current investment, nil if none
func (s *PackageService) ActiveInvestment(ctx context.Context, userID int64) (*domain.Investment, error) {
	return s.packages.GetActiveInvestment(ctx, userID, time.Now())
}

// History returns the user's purchases
func (s *PackageService) History(ctx context.Context, userID int64) ([]*domain.Investment, error) {
	return s.packages.ListInvestments(ctx, userID, 50)
}

// Purchase buys a package for the user. The debit, the investment row
// and the transaction record commit atomically; commission
// distribution runs afterwards and its failure never unwinds the
// purchase.
func (s *PackageService) Purchase(ctx context.Context, userID, packageID int64) (*domain.Investment, error) {
	pkg, err := s.packages.GetByID(ctx, packageID)
	if err != nil {
		return nil, err
	}
	if pkg == nil {
		return nil, ErrPackageNotFound
	}
	if !pkg.Active {
		return nil, ErrPackageInactive
	}

	if active, err := s.packages.GetActiveInvestment(ctx, userID, time.Now()); err != nil {
		return nil, err
	} else if active != nil {
		return nil, ErrAlreadyInvested
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := s.balances.DebitWithTx(ctx, tx, userID, FieldBalance, pkg.Price); err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &domain.Investment{
		UserID:    userID,
		PackageID: pkg.ID,
		Price:     pkg.Price,
		StartsAt:  now,
		ExpiresAt: now.AddDate(0, 0, pkg.DurationDays),
	}
	if err := s.packages.CreateInvestmentWithTx(ctx, tx, inv); err != nil {
		return nil, err
	}

	record := &domain.Transaction{
		UserID: userID,
		Type:   "package_purchase",
		Amount: -pkg.Price,
		Meta:   map[string]interface{}{"package_id": pkg.ID, "package_name": pkg.Name},
	}
	if err := s.txRepo.CreateWithTx(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	inv.Package = pkg

	s.distribute(ctx, userID, pkg.Price)

	return inv, nil
}

// distribute pays referral commissions on amount. Errors are logged
// only: the purchase or deposit that triggered this has already
// committed and must not be affected.
func (s *PackageService) distribute(ctx context.Context, sourceUserID int64, amount float64) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		logger.Error("load referral settings failed, skipping distribution",
			"source_user_id", sourceUserID, "error", err)
		return
	}
	if err := s.engine.Distribute(ctx, sourceUserID, amount, settings); err != nil {
		logger.Error("commission distribution failed",
			"source_user_id", sourceUserID, "amount", amount, "error", err)
	}
}
