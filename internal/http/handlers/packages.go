package handlers

import (
	"errors"
	"net/http"

	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListPackages(c *gin.Context) {
	packages, err := h.PackageService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load packages"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": packages})
}

type purchaseRequest struct {
	PackageID int64 `json:"package_id" binding:"required"`
}

// PurchasePackage debits the main balance, opens the investment and
// fans commission out to the upline.
func (h *Handler) PurchasePackage(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
		return
	}

	inv, err := h.PackageService.Purchase(c.Request.Context(), userID, req.PackageID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		case errors.Is(err, service.ErrPackageInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "package not available"})
		case errors.Is(err, service.ErrAlreadyInvested):
			c.JSON(http.StatusConflict, gin.H{"error": "an investment is already active"})
		case errors.Is(err, service.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "insufficient balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "purchase failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"investment": inv})
}

func (h *Handler) MyInvestment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	inv, err := h.PackageService.ActiveInvestment(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load investment"})
		return
	}
	if inv == nil {
		c.JSON(http.StatusOK, gin.H{"investment": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investment": inv})
}

func (h *Handler) MyInvestmentHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	invs, err := h.PackageService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"investments": invs})
}
