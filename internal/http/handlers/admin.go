package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"earnclub/internal/domain"
	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.AdminService.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	limit := intQuery(c, "limit", 50, 500)
	offset := intQuery(c, "offset", 0, 1<<30)

	users, err := h.AdminService.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

func (h *Handler) AdminSetUserRole(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}

	err = h.AdminService.SetUserRole(c.Request.Context(), adminID, userID, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "role update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role updated"})
}

func (h *Handler) AdminGetSettings(c *gin.Context) {
	settings, err := h.AdminService.GetSettings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) AdminUpdateSettings(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var settings domain.ReferralSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	if err := h.AdminService.UpdateSettings(c.Request.Context(), adminID, settings); err != nil {
		if errors.Is(err, service.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "percentages must not be negative"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings update failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "settings updated"})
}

func (h *Handler) AdminPendingDeposits(c *gin.Context) {
	deposits, err := h.DepositService.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deposits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}

type reviewRequest struct {
	Note string `json:"note"`
}

// AdminApproveDeposit credits the user's balance, records the deposit
// and kicks off commission distribution up the referral chain.
func (h *Handler) AdminApproveDeposit(c *gin.Context) {
	h.reviewDeposit(c, true)
}

func (h *Handler) AdminRejectDeposit(c *gin.Context) {
	h.reviewDeposit(c, false)
}

func (h *Handler) reviewDeposit(c *gin.Context, approve bool) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	depositID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deposit id"})
		return
	}

	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	if approve {
		err = h.DepositService.Approve(c.Request.Context(), adminID, depositID, req.Note)
	} else {
		err = h.DepositService.Reject(c.Request.Context(), adminID, depositID, req.Note)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDepositNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "deposit not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "already reviewed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "deposit reviewed"})
}

func (h *Handler) AdminPendingWithdrawals(c *gin.Context) {
	withdrawals, err := h.WithdrawalService.Pending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}

func (h *Handler) AdminMarkWithdrawalPaid(c *gin.Context) {
	h.reviewWithdrawal(c, true)
}

func (h *Handler) AdminRejectWithdrawal(c *gin.Context) {
	h.reviewWithdrawal(c, false)
}

func (h *Handler) reviewWithdrawal(c *gin.Context, paid bool) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawalID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid withdrawal id"})
		return
	}

	var req reviewRequest
	_ = c.ShouldBindJSON(&req)

	if paid {
		err = h.WithdrawalService.MarkPaid(c.Request.Context(), adminID, withdrawalID, req.Note)
	} else {
		err = h.WithdrawalService.Reject(c.Request.Context(), adminID, withdrawalID, req.Note)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
		case errors.Is(err, service.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": "already reviewed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "review failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "withdrawal reviewed"})
}

func (h *Handler) AdminListAgents(c *gin.Context) {
	agents, err := h.AgentRepo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load agents"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

type createAgentRequest struct {
	Provider string `json:"provider" binding:"required"`
	Number   string `json:"number" binding:"required"`
}

func (h *Handler) AdminCreateAgent(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and number are required"})
		return
	}
	if !domain.ValidProvider(domain.Provider(req.Provider)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment provider"})
		return
	}

	agent := &domain.Agent{
		Provider: domain.Provider(req.Provider),
		Number:   req.Number,
		Active:   true,
	}
	if err := h.AgentRepo.Create(c.Request.Context(), agent); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agent creation failed"})
		return
	}

	h.AuditService.Record(c.Request.Context(), adminID, "create", "agent", agent.ID, map[string]interface{}{
		"provider": req.Provider, "number": req.Number,
	})
	h.reloadAgents(c)

	c.JSON(http.StatusCreated, gin.H{"agent": agent})
}

func (h *Handler) AdminSetAgentActive(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	agentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agent id"})
		return
	}

	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "active is required"})
		return
	}

	if err := h.AgentRepo.SetActive(c.Request.Context(), agentID, *req.Active); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "agent update failed"})
		return
	}

	h.AuditService.Record(c.Request.Context(), adminID, "set_active", "agent", agentID, map[string]interface{}{
		"active": *req.Active,
	})
	h.reloadAgents(c)

	c.JSON(http.StatusOK, gin.H{"message": "agent updated"})
}

// AdminRotateAgent advances the round-robin pointer for one provider
// and pushes the new number to connected clients.
func (h *Handler) AdminRotateAgent(c *gin.Context) {
	provider := domain.Provider(c.Param("provider"))
	if !domain.ValidProvider(provider) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment provider"})
		return
	}

	agent, ok := h.Hub.Advance(provider)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active agents for provider"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"agent": agent})
}

func (h *Handler) AdminAuditLog(c *gin.Context) {
	limit := intQuery(c, "limit", 100, 500)
	entries, err := h.AdminService.AuditLog(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load audit log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (h *Handler) reloadAgents(c *gin.Context) {
	agents, err := h.AgentRepo.ListActive(c.Request.Context())
	if err != nil {
		return
	}
	h.Hub.Reload(agents)
}

func intQuery(c *gin.Context, name string, def, max int) int {
	v := c.Query(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 || n > max {
		return def
	}
	return n
}
