package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
	"schoolapp/internal/notifications"
)

func (h *handlers) addNotification(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
		UserID  *int   `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.d.Notifications.Add(c.Request.Context(), notifications.Notification{
		Title: req.Title, Message: req.Message, UserID: req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *handlers) notificationsForUser(c *gin.Context) {
	userID, err := intParam(c, "user_id")
	if err != nil {
		respondError(c, err)
		return
	}
	caller, _ := auth.FromContext(c)
	if caller.Role != auth.RoleAdmin && caller.ID != userID {
		respondError(c, apperr.ErrForbidden)
		return
	}

	list, err := h.d.Notifications.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
