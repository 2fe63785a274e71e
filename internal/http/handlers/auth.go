package handlers

import (
	"errors"
	"net/http"

	"earnclub/internal/referral"
	"earnclub/internal/repository"
	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Phone        string `json:"phone" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	ReferralCode string `json:"referral_code"`
}

// Register creates an account, assigns a referral code and links the
// new user under the referrer if a code was supplied.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone, name and password (min 6 chars) are required"})
		return
	}

	user, err := h.AuthService.Register(c.Request.Context(), req.Phone, req.Name, req.Password, req.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrPhoneTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "phone already registered"})
		case errors.Is(err, service.ErrInvalidReferrer):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referral code"})
		case errors.Is(err, referral.ErrCodeExhausted):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not assign referral code, try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	token, err := service.GenerateJWT(user.ID, string(user.Role))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  user,
	})
}

type loginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone and password are required"})
		return
	}

	user, token, err := h.AuthService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid phone or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}
