package handlers

import (
	"errors"
	"net/http"

	"earnclub/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTasks(c *gin.Context) {
	tasks, err := h.TaskService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *Handler) MyTaskQuota(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	quota, err := h.TaskService.TodayQuota(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrNoActivePackage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active investment package"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load quota"})
		return
	}

	c.JSON(http.StatusOK, quota)
}

type completeTaskRequest struct {
	TaskID int64 `json:"task_id" binding:"required"`
}

// CompleteTask records a task completion and credits the daily reward
// share to the earnings balance.
func (h *Handler) CompleteTask(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "task_id is required"})
		return
	}

	completion, err := h.TaskService.Complete(c.Request.Context(), userID, req.TaskID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		case errors.Is(err, service.ErrNoActivePackage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no active investment package"})
		case errors.Is(err, service.ErrTaskAlreadyDone):
			c.JSON(http.StatusConflict, gin.H{"error": "task already completed today"})
		case errors.Is(err, service.ErrDailyQuotaReached):
			c.JSON(http.StatusConflict, gin.H{"error": "daily task quota reached"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "task completion failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"completion": completion})
}

func (h *Handler) MyTaskHistory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	completions, err := h.TaskService.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load task history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions})
}
