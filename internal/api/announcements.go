package api

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/announcements"
	"schoolapp/internal/queue"
)

func (h *handlers) addAnnouncement(c *gin.Context) {
	var req struct {
		Title   string `json:"title" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.d.Announcements.Add(c.Request.Context(), announcements.Announcement{
		Title: req.Title, Message: req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// Fan-out to per-user notifications happens in the worker; a failed
	// publish loses the fan-out but not the announcement itself.
	if err := h.d.Queue.Publish(c.Request.Context(), queue.Message{
		Type: queue.TypeAnnouncement,
		Body: []byte(strconv.Itoa(a.ID)),
	}); err != nil {
		log.Printf("queue publish failed for announcement %d: %v", a.ID, err)
	}

	c.JSON(http.StatusCreated, a)
}

func (h *handlers) listAnnouncements(c *gin.Context) {
	list, err := h.d.Announcements.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
