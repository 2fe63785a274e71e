package http

import (
	"context"

	"earnclub/internal/config"
	"earnclub/internal/http/handlers"
	"earnclub/internal/http/middleware"
	"earnclub/internal/logger"
	"earnclub/internal/repository"
	"earnclub/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	// Round-robin agent feed: seed from the database, push over ws.
	rotation := ws.NewRotation()
	hub := ws.NewHub(rotation)

	agentRepo := repository.NewAgentRepository(db)
	if agents, err := agentRepo.ListActive(context.Background()); err != nil {
		logger.Error("load agents for rotation", "error", err)
	} else {
		rotation.Reload(agents)
	}

	h := handlers.NewHandler(db, hub, cfg)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api/v1")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth
	api.POST("/auth/register", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Register)
	api.POST("/auth/login", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Login)

	// Profile and wallet
	api.GET("/me", middleware.JWT(), h.Me)
	api.GET("/me/balances", middleware.JWT(), h.MyBalances)
	api.POST("/me/collect", middleware.JWT(), h.Collect)
	api.GET("/me/transactions", middleware.JWT(), h.MyTransactions)

	// Referral
	api.GET("/referral/code", middleware.JWT(), h.MyReferralCode)
	api.GET("/referral/stats", middleware.JWT(), h.MyReferralStats)
	api.GET("/referral/team", middleware.JWT(), h.MyTeam)
	api.GET("/referral/commissions", middleware.JWT(), h.MyCommissions)

	// Packages
	api.GET("/packages", h.ListPackages)
	api.POST("/packages/purchase", middleware.JWT(), h.PurchasePackage)
	api.GET("/investment", middleware.JWT(), h.MyInvestment)
	api.GET("/investment/history", middleware.JWT(), h.MyInvestmentHistory)

	// Deposits
	api.GET("/deposits/info", middleware.JWT(), h.DepositInfo)
	api.POST("/deposits", middleware.JWT(), h.SubmitDeposit)
	api.GET("/deposits", middleware.JWT(), h.MyDeposits)

	// Withdrawals
	api.POST("/withdrawals", middleware.JWT(), h.RequestWithdrawal)
	api.GET("/withdrawals", middleware.JWT(), h.MyWithdrawals)

	// Tasks (per-user submit limiter on top of the IP limiter)
	api.GET("/tasks", middleware.JWT(), h.ListTasks)
	api.GET("/tasks/quota", middleware.JWT(), h.MyTaskQuota)
	api.POST("/tasks/complete", middleware.JWT(), middleware.TaskRateLimit(cfg.TaskRateLimit, cfg.TaskRateWindow), h.CompleteTask)
	api.GET("/tasks/history", middleware.JWT(), h.MyTaskHistory)

	// Admin
	admin := api.Group("/admin")
	admin.Use(middleware.JWT(), middleware.AdminOnly())
	admin.GET("/stats", h.AdminStats)
	admin.GET("/users", h.AdminListUsers)
	admin.POST("/users/:id/role", h.AdminSetUserRole)
	admin.GET("/settings", h.AdminGetSettings)
	admin.PUT("/settings", h.AdminUpdateSettings)
	admin.GET("/deposits/pending", h.AdminPendingDeposits)
	admin.POST("/deposits/:id/approve", h.AdminApproveDeposit)
	admin.POST("/deposits/:id/reject", h.AdminRejectDeposit)
	admin.GET("/withdrawals/pending", h.AdminPendingWithdrawals)
	admin.POST("/withdrawals/:id/paid", h.AdminMarkWithdrawalPaid)
	admin.POST("/withdrawals/:id/reject", h.AdminRejectWithdrawal)
	admin.GET("/agents", h.AdminListAgents)
	admin.POST("/agents", h.AdminCreateAgent)
	admin.POST("/agents/:id/active", h.AdminSetAgentActive)
	admin.POST("/agents/rotate/:provider", h.AdminRotateAgent)
	admin.GET("/audit", h.AdminAuditLog)

	// Live agent number feed
	r.GET("/ws/agents", ws.Serve(hub))
}
