package handlers

import (
	"errors"
	"net/http"

	"earnclub/internal/domain"
	"earnclub/internal/repository"
	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

// DepositInfo returns the agent number currently assigned for each
// payment provider so the client knows where to send money.
func (h *Handler) DepositInfo(c *gin.Context) {
	current := h.Hub.Rotation().Current()

	agents := make(map[string]string, len(current))
	for provider, agent := range current {
		agents[string(provider)] = agent.Number
	}

	c.JSON(http.StatusOK, gin.H{"agents": agents})
}

type submitDepositRequest struct {
	Provider     string  `json:"provider" binding:"required"`
	AgentNumber  string  `json:"agent_number" binding:"required"`
	SenderNumber string  `json:"sender_number" binding:"required"`
	TrxID        string  `json:"trx_id" binding:"required"`
	Amount       float64 `json:"amount" binding:"required"`
}

// SubmitDeposit records a pending deposit claim for admin review.
func (h *Handler) SubmitDeposit(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider, agent_number, sender_number, trx_id and amount are required"})
		return
	}

	d := &domain.Deposit{
		UserID:       userID,
		Provider:     domain.Provider(req.Provider),
		AgentNumber:  req.AgentNumber,
		SenderNumber: req.SenderNumber,
		TrxID:        req.TrxID,
		Amount:       req.Amount,
	}

	if err := h.DepositService.Submit(c.Request.Context(), d); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment provider"})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		case errors.Is(err, repository.ErrDuplicateTrxID):
			c.JSON(http.StatusConflict, gin.H{"error": "transaction id already submitted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "deposit submission failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"deposit": d})
}

func (h *Handler) MyDeposits(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deposits, err := h.DepositService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load deposits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"deposits": deposits})
}
