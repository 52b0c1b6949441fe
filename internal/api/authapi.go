package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/auth"
)

func (h *handlers) register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.d.Users.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *handlers) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	u, err := h.d.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	tokens, err := auth.Issue(u.ID, u.Role, h.d.Cfg.JWTIssuer, h.d.Cfg.JWTSecret, h.d.Cfg.AccessTTL, h.d.Cfg.RefreshTTL)
	if err != nil {
		respondError(c, err)
		return
	}
	_ = h.d.UserRepo.SaveRefreshToken(c.Request.Context(), tokens.RefreshID, u.ID, tokens.RefreshToken, tokens.RefreshExp)

	c.JSON(http.StatusOK, gin.H{
		"token":         tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"user":          u,
	})
}

func (h *handlers) listUsers(c *gin.Context) {
	list, err := h.d.Users.List(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) deleteTeacher(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.d.Users.DeleteTeacher(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "teacher deleted"})
}
