package handlers

import (
	"earnclub/internal/config"
	"earnclub/internal/referral"
	"earnclub/internal/repository"
	"earnclub/internal/service"
	"earnclub/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB                *pgxpool.Pool
	Hub               *ws.Hub
	UserRepo          *repository.UserRepository
	CommissionRepo    *repository.CommissionRepository
	AgentRepo         *repository.AgentRepository
	AuthService       *service.AuthService
	BalanceService    *service.BalanceService
	PackageService    *service.PackageService
	DepositService    *service.DepositService
	WithdrawalService *service.WithdrawalService
	TaskService       *service.TaskService
	AdminService      *service.AdminService
	AuditService      *service.AuditService
}

func NewHandler(db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config) *Handler {
	userRepo := repository.NewUserRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	engine := referral.NewEngine(userRepo, commissionRepo)

	return &Handler{
		DB:                db,
		Hub:               hub,
		UserRepo:          userRepo,
		CommissionRepo:    commissionRepo,
		AgentRepo:         repository.NewAgentRepository(db),
		AuthService:       service.NewAuthService(db),
		BalanceService:    service.NewBalanceService(db),
		PackageService:    service.NewPackageService(db, engine),
		DepositService:    service.NewDepositService(db, engine),
		WithdrawalService: service.NewWithdrawalService(db, cfg.MinWithdrawal, cfg.MaxWithdrawal),
		TaskService:       service.NewTaskService(db),
		AdminService:      service.NewAdminService(db),
		AuditService:      service.NewAuditService(db),
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
