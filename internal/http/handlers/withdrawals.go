package handlers

import (
	"errors"
	"net/http"

	"earnclub/internal/domain"
	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

type withdrawalRequest struct {
	Provider      string  `json:"provider" binding:"required"`
	AccountNumber string  `json:"account_number" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
}

// RequestWithdrawal debits the main balance and queues a payout for
// admin review.
func (h *Handler) RequestWithdrawal(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req withdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider, account_number and amount are required"})
		return
	}

	w := &domain.Withdrawal{
		UserID:        userID,
		Provider:      domain.Provider(req.Provider),
		AccountNumber: req.AccountNumber,
		Amount:        req.Amount,
	}

	if err := h.WithdrawalService.Request(c.Request.Context(), w); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown payment provider"})
		case errors.Is(err, service.ErrAmountOutOfRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount outside withdrawal limits"})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "withdrawal request failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

func (h *Handler) MyWithdrawals(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	withdrawals, err := h.WithdrawalService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load withdrawals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"withdrawals": withdrawals})
}
