package service

import (
	"context"
	"errors"

	"earnclub/internal/domain"
	"earnclub/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidRole = errors.New("unknown role")

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers         int64   `json:"total_users"`
	PendingDeposits    int64   `json:"pending_deposits"`
	PendingWithdrawals int64   `json:"pending_withdrawals"`
	TotalDeposited     float64 `json:"total_deposited"`
	TotalWithdrawn     float64 `json:"total_withdrawn"`
	TotalCommissions   float64 `json:"total_commissions"`
}

// AdminService backs the admin panel: stats, user roles and referral
// settings.
type AdminService struct {
	db       *pgxpool.Pool
	users    *repository.UserRepository
	settings *repository.SettingsRepository
	audit    *AuditService
}

func NewAdminService(db *pgxpool.Pool) *AdminService {
	return &AdminService{
		db:       db,
		users:    repository.NewUserRepository(db),
		settings: repository.NewSettingsRepository(db),
		audit:    NewAuditService(db),
	}
}

// Stats aggregates the dashboard numbers
func (s *AdminService) Stats(ctx context.Context) (*PlatformStats, error) {
	var st PlatformStats
	err := s.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM deposits WHERE status = 'pending'),
			(SELECT COUNT(*) FROM withdrawals WHERE status = 'pending'),
			(SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE status = 'approved'),
			(SELECT COALESCE(SUM(amount), 0) FROM withdrawals WHERE status = 'paid'),
			(SELECT COALESCE(SUM(amount), 0) FROM commissions)
	`).Scan(
		&st.TotalUsers, &st.PendingDeposits, &st.PendingWithdrawals,
		&st.TotalDeposited, &st.TotalWithdrawn, &st.TotalCommissions,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListUsers returns users for the admin panel
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

// SetUserRole promotes or demotes a user
func (s *AdminService) SetUserRole(ctx context.Context, adminID, userID int64, role domain.Role) error {
	switch role {
	case domain.RoleUser, domain.RoleAreaManager, domain.RoleRegionalManager, domain.RoleAdmin:
	default:
		return ErrInvalidRole
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	if err := s.users.SetRole(ctx, userID, role); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "set_role", "user", userID, map[string]interface{}{
		"from": string(u.Role), "to": string(role),
	})
	return nil
}

// GetSettings returns the referral percentages
func (s *AdminService) GetSettings(ctx context.Context) (domain.ReferralSettings, error) {
	return s.settings.Get(ctx)
}

// UpdateSettings replaces the referral percentages. Percentages are not
// validated against any aggregate cap; keeping the configured totals
// sane is the operator's responsibility.
func (s *AdminService) UpdateSettings(ctx context.Context, adminID int64, settings domain.ReferralSettings) error {
	if settings.Level1Percent < 0 || settings.Level2Percent < 0 || settings.Level3Percent < 0 ||
		settings.Level4Percent < 0 || settings.Level5Percent < 0 ||
		settings.AreaManagerPercent < 0 || settings.RegionalManagerPercent < 0 {
		return ErrInvalidAmount
	}

	if err := s.settings.Update(ctx, settings); err != nil {
		return err
	}

	s.audit.Record(ctx, adminID, "update", "referral_settings", 1, nil)
	return nil
}

// AuditLog returns recent admin actions
func (s *AdminService) AuditLog(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	return s.audit.List(ctx, limit)
}
